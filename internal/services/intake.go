// Package services – intake
//
// The intake state machine walks a session through the fixed question list.
// A session is in Intake(i) while its cursor i is below len(domain.Questions)
// and in Open once every question is answered. Answers are stored verbatim
// and never trigger a completion call.
package services

import (
	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// Canned intake replies.
const (
	IntakeAckPrefix    = "Got it.\n\n**Next:** "
	IntakeCompleteText = "Thanks. I understand your product.\n\nAsk anything now."
)

// NextQuestion returns the prompt of the next unanswered question, or "" once
// intake is complete.
func NextQuestion(s *domain.Session) string {
	if s.IntakeComplete() || s.IntakeStep < 0 {
		return ""
	}
	return domain.Questions[s.IntakeStep].Prompt
}

// ensureOpening appends the first question as an assistant message when the
// session has not started yet, so the history shows what is being answered.
func ensureOpening(s *domain.Session) {
	if s.IntakeStep == 0 && len(s.Messages) == 1 {
		s.Append(domain.RoleAssistant, domain.Questions[0].Prompt)
	}
}

// answerIntake stores text under the current question's key, advances the
// cursor and returns the canned reply. It must only be called while intake
// is incomplete.
func answerIntake(s *domain.Session, text string) string {
	if s.ProductContext == nil {
		s.ProductContext = map[string]string{}
	}
	q := domain.Questions[s.IntakeStep]
	s.ProductContext[q.Key] = text
	s.IntakeStep++

	if s.IntakeComplete() {
		return IntakeCompleteText
	}
	return IntakeAckPrefix + domain.Questions[s.IntakeStep].Prompt
}
