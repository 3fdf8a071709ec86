// Package handlers provides HTTP handler implementations for the public API.
//
// This file declares the service contracts consumed by the handlers, the
// Handlers wiring type and the shared DTOs (session view, pagination).
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/services"
	"github.com/tbourn/go-startup-advisor/internal/utils"
)

//
// Service contracts (context-aware)
//

// SessionService defines session lifecycle and turn operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SessionService interface {
	// Create starts a new guest session.
	Create(ctx context.Context) (*domain.Session, error)
	// Get returns the current state of a session.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Submit processes one user message under the given expert mode.
	Submit(ctx context.Context, id, text, mode string) (*services.Turn, error)
	// Reset clears the conversation back to the first intake question.
	Reset(ctx context.Context, id string) (*domain.Session, error)
	// SelectMode stores the expert mode for later advice turns.
	SelectMode(ctx context.Context, id, mode string) (*domain.Session, error)
	// ListMessages returns a page of the visible history and its length.
	ListMessages(ctx context.Context, id string, page, pageSize int) ([]domain.Message, int64, error)
	// FeedbackDue reports whether feedback should be requested.
	FeedbackDue(sess *domain.Session) bool
}

// FeedbackService records session feedback.
type FeedbackService interface {
	Submit(ctx context.Context, sessionID string, helpful bool, comment string) error
}

// AccountService handles sign-up and session login state.
type AccountService interface {
	SignUp(ctx context.Context, identifier, secret string) error
	Login(ctx context.Context, sessionID, identifier, secret string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) (*domain.Session, error)
}

// StatsService reports log counters.
type StatsService interface {
	Get(ctx context.Context) (*services.Stats, error)
}

//
// Handler wiring
//

// Deps carries everything New needs. DB is optional and only enables the
// idempotency replay store and ETag pre-checks.
type Deps struct {
	Sessions SessionService
	Feedback FeedbackService
	Accounts AccountService
	Stats    StatsService

	DB              *gorm.DB
	IdempotencyTTL  time.Duration
	MaxMessageRunes int
}

// Handlers groups HTTP endpoints for sessions, messages, feedback, accounts
// and stats.
type Handlers struct {
	sessSvc  SessionService
	fbSvc    FeedbackService
	acctSvc  AccountService
	statsSvc StatsService

	db       *gorm.DB
	idemTTL  time.Duration
	maxRunes int
}

// New constructs a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	h := &Handlers{
		sessSvc:  d.Sessions,
		fbSvc:    d.Feedback,
		acctSvc:  d.Accounts,
		statsSvc: d.Stats,
		db:       d.DB,
		idemTTL:  d.IdempotencyTTL,
		maxRunes: d.MaxMessageRunes,
	}
	if h.idemTTL <= 0 {
		h.idemTTL = 24 * time.Hour
	}
	if h.maxRunes <= 0 {
		h.maxRunes = 4000
	}
	return h
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ContextEntry is one answered intake question, labelled for display.
type ContextEntry struct {
	Key   string `json:"key"   example:"target_user"`
	Label string `json:"label" example:"Target User"`
	Value string `json:"value" example:"Busy parents"`
}

// SessionView is the public representation of a session.
type SessionView struct {
	ID                string         `json:"id"                  example:"0b9a4c1e-6f0e-4a53-9d55-0c3f1d8b2f7a"`
	ProductContext    []ContextEntry `json:"product_context"`
	IntakeStep        int            `json:"intake_step"         example:"3"`
	IntakeComplete    bool           `json:"intake_complete"`
	NextQuestion      string         `json:"next_question,omitempty" example:"What painful problem does this product solve?"`
	UsageCount        int            `json:"usage_count"`
	MessageCount      int            `json:"message_count"`
	FeedbackSubmitted bool           `json:"feedback_submitted"`
	FeedbackDue       bool           `json:"feedback_due"`
	ExpertMode        string         `json:"expert_mode"         example:"Idea Validator"`
	LoggedIn          bool           `json:"logged_in"`
	UserEmail         string         `json:"user_email"          example:"guest"`
	UserType          string         `json:"user_type"           example:"guest"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// newSessionView renders s in question order.
func (h *Handlers) newSessionView(s *domain.Session) SessionView {
	entries := make([]ContextEntry, 0, len(s.ProductContext))
	for _, q := range domain.Questions {
		v, ok := s.ProductContext[q.Key]
		if !ok {
			continue
		}
		entries = append(entries, ContextEntry{Key: q.Key, Label: services.HumanizeKey(q.Key), Value: v})
	}
	return SessionView{
		ID:                s.ID,
		ProductContext:    entries,
		IntakeStep:        s.IntakeStep,
		IntakeComplete:    s.IntakeComplete(),
		NextQuestion:      services.NextQuestion(s),
		UsageCount:        s.UsageCount,
		MessageCount:      s.MessageCount,
		FeedbackSubmitted: s.FeedbackSubmitted,
		FeedbackDue:       h.sessSvc.FeedbackDue(s),
		ExpertMode:        s.ExpertMode,
		LoggedIn:          s.LoggedIn,
		UserEmail:         s.UserEmail,
		UserType:          s.UserType,
		UpdatedAt:         s.UpdatedAt,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	return utils.ClampPage(c.Query("page"), c.Query("page_size"), defaultPageSize, maxPageSize)
}

// sessionID returns the trimmed ":id" route parameter.
func sessionID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
