// Package services – FeedbackService
//
// This file implements the FeedbackService, which records the one-off
// helpful/not-helpful verdict a session may leave once feedback is due. It
// enforces the business rules (intake complete, enough post-intake usage,
// at most once per reset cycle) and appends the verdict to the feedback log.
// Service-level errors (ErrSessionNotFound, ErrFeedbackNotDue,
// ErrDuplicateFeedback) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/repo"
)

// NoCommentPlaceholder replaces a blank comment on negative feedback.
const NoCommentPlaceholder = "No comment provided"

// FeedbackAppender records feedback rows.
type FeedbackAppender interface {
	Append(rec domain.FeedbackRecord) error
}

// FeedbackService implements the feedback use-case.
type FeedbackService struct {
	DB    *gorm.DB
	Log   FeedbackAppender
	Locks *SessionLocks

	// FeedbackAfter mirrors SessionService.FeedbackAfter.
	FeedbackAfter int

	Now func() time.Time
}

// Submit records feedback for sessionID.
//
// Semantics and validation:
//   - The session must exist; otherwise ErrSessionNotFound.
//   - Feedback already given since the last reset yields ErrDuplicateFeedback.
//   - Intake must be complete and the usage threshold reached; otherwise
//     ErrFeedbackNotDue.
//   - On the negative path a blank comment is stored as "No comment
//     provided". The positive path stores the comment as given.
//   - The row carries the session's current expert mode.
//
// The log row is written before the flag is saved. If saving the flag fails
// the row stays and the error is returned.
func (s *FeedbackService) Submit(ctx context.Context, sessionID string, helpful bool, comment string) error {
	unlock := s.Locks.Lock(sessionID)
	defer unlock()

	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		return mapNotFound(err)
	}
	if sess.FeedbackSubmitted {
		return ErrDuplicateFeedback
	}
	if !feedbackDue(sess, s.FeedbackAfter) {
		return ErrFeedbackNotDue
	}

	comment = strings.TrimSpace(comment)
	if !helpful && comment == "" {
		comment = NoCommentPlaceholder
	}

	rec := domain.FeedbackRecord{
		Time:       s.now(),
		Helpful:    helpful,
		Comment:    comment,
		ExpertMode: sess.ExpertMode,
	}
	if s.Log != nil {
		if err := s.Log.Append(rec); err != nil {
			return err
		}
	}

	sess.FeedbackSubmitted = true
	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return mapNotFound(err)
	}

	verdict := "not_helpful"
	if helpful {
		verdict = "helpful"
	}
	feedbackTotal.WithLabelValues(verdict).Inc()
	loggerFrom(ctx).Info().Str("session_id", sessionID).Str("verdict", verdict).Msg("feedback recorded")
	return nil
}

func (s *FeedbackService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
