// Package services – SessionService
//
// SessionService owns the per-session turn loop. Each submitted message is
// processed under the session's lock as one load-mutate-save cycle:
//
//  1. the opening question is appended if the session has not started;
//  2. the usage counter grows only once intake is complete;
//  3. one analytics row is written for every message regardless of phase;
//  4. the message counter grows and the user message is appended;
//  5. intake answers get a canned reply, later messages go to the Advisor;
//  6. the assistant reply is appended and the session saved.
//
// Reset, mode selection and reads go through the same lock.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/utils"
)

// AnalyticsAppender records usage events.
type AnalyticsAppender interface {
	Append(rec domain.AnalyticsRecord) error
}

// SessionService coordinates session state, the intake state machine and
// advice turns.
type SessionService struct {
	DB        *gorm.DB
	Advisor   *Advisor
	Analytics AnalyticsAppender
	Locks     *SessionLocks

	// FeedbackAfter is the number of post-intake messages after which
	// feedback is requested. Values <= 0 mean 3.
	FeedbackAfter int
	// MaxMessageRunes caps a single message; 0 disables the check.
	MaxMessageRunes int

	// Now is the clock used for analytics rows; time.Now when nil.
	Now func() time.Time
}

// Turn is the outcome of one submitted message.
type Turn struct {
	Reply       string          `json:"reply"`
	Phase       string          `json:"phase"`
	Failed      bool            `json:"failed"`
	FeedbackDue bool            `json:"feedback_due"`
	Session     *domain.Session `json:"-"`
}

// Create starts a new guest session.
func (s *SessionService) Create(ctx context.Context) (*domain.Session, error) {
	return repo.CreateSession(ctx, s.DB)
}

// Get returns the session or ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()
	return s.load(ctx, id)
}

// Submit processes one user message. mode names the expert mode for this
// call; when blank the session's stored selection is used, otherwise the
// selection is updated for subsequent turns.
func (s *SessionService) Submit(ctx context.Context, id, text, mode string) (*Turn, error) {
	tr := otel.Tracer("services/SessionService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(text) > s.MaxMessageRunes {
		return nil, ErrTooLong
	}

	var expert domain.ExpertMode
	if mode != "" {
		m, ok := domain.LookupExpertMode(mode)
		if !ok {
			return nil, ErrUnknownMode
		}
		expert = m
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if expert.Name != "" {
		sess.ExpertMode = expert.Name
	} else if m, ok := domain.LookupExpertMode(sess.ExpertMode); ok {
		expert = m
	} else {
		expert, _ = domain.LookupExpertMode(domain.DefaultExpertMode)
		sess.ExpertMode = expert.Name
	}

	ensureOpening(sess)

	if sess.IntakeComplete() {
		sess.UsageCount++
	}
	s.recordMessage(ctx, id)
	sess.MessageCount++
	sess.Append(domain.RoleUser, text)

	turn := &Turn{Session: sess}
	if !sess.IntakeComplete() {
		turn.Phase = PhaseIntake
		turn.Reply = answerIntake(sess, text)
	} else {
		turn.Phase = PhaseAdvice
		adv := s.Advisor
		if adv == nil {
			adv = &Advisor{}
		}
		reply, ok := adv.Reply(ctx, expert, sess)
		turn.Reply, turn.Failed = reply, !ok
	}
	sess.Append(domain.RoleAssistant, turn.Reply)
	turnsTotal.WithLabelValues(turn.Phase).Inc()
	span.SetAttributes(
		attribute.String("turn.phase", turn.Phase),
		attribute.Int("intake.step", sess.IntakeStep),
	)

	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return nil, mapNotFound(err)
	}
	turn.FeedbackDue = s.FeedbackDue(sess)
	return turn, nil
}

// Reset clears the conversation back to the first intake question.
func (s *SessionService) Reset(ctx context.Context, id string) (*domain.Session, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return nil, mapNotFound(err)
	}
	loggerFrom(ctx).Info().Str("session_id", id).Msg("session reset")
	return sess, nil
}

// SelectMode stores the expert mode used by subsequent advice turns.
func (s *SessionService) SelectMode(ctx context.Context, id, mode string) (*domain.Session, error) {
	m, ok := domain.LookupExpertMode(mode)
	if !ok {
		return nil, ErrUnknownMode
	}

	unlock := s.Locks.Lock(id)
	defer unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.ExpertMode = m.Name
	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return nil, mapNotFound(err)
	}
	return sess, nil
}

// ListMessages returns a page of the visible history (persona excluded) and
// its total length.
func (s *SessionService) ListMessages(ctx context.Context, id string, page, pageSize int) ([]domain.Message, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	visible := sess.Messages
	if len(visible) > 0 {
		visible = visible[1:]
	}
	total := int64(len(visible))

	start, end := utils.PageBounds(len(visible), page, pageSize)
	out := make([]domain.Message, end-start)
	copy(out, visible[start:end])
	return out, total, nil
}

// FeedbackDue reports whether the session should be asked for feedback:
// intake is complete, enough post-intake messages were sent and no feedback
// was given since the last reset.
func (s *SessionService) FeedbackDue(sess *domain.Session) bool {
	return feedbackDue(sess, s.FeedbackAfter)
}

func feedbackDue(sess *domain.Session, after int) bool {
	if after <= 0 {
		after = 3
	}
	return sess.IntakeComplete() && sess.UsageCount >= after && !sess.FeedbackSubmitted
}

// recordMessage appends the analytics row for one submitted message. A
// failed append is logged and does not fail the turn.
func (s *SessionService) recordMessage(ctx context.Context, id string) {
	if s.Analytics == nil {
		return
	}
	rec := domain.AnalyticsRecord{Time: s.now(), Event: domain.EventUserMessage}
	if err := s.Analytics.Append(rec); err != nil {
		loggerFrom(ctx).Warn().Err(err).Str("session_id", id).Msg("analytics append failed")
	}
}

func (s *SessionService) load(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := repo.GetSession(ctx, s.DB, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return sess, nil
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// mapNotFound converts repository not-found errors to ErrSessionNotFound.
func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSessionNotFound
	}
	return err
}
