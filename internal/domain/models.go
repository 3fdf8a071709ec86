// Package domain defines the persistence models and fixed reference data of
// the advisor: sessions with their conversation history and product context,
// intake questions, expert modes, and the flat-file record shapes for users,
// feedback and analytics.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User types shown for the account area.
const (
	UserTypeGuest = "guest"
	UserTypeUser  = "user"
)

// Persona is the fixed system instruction stored at index 0 of every
// session history.
const Persona = "You are a brutally honest senior startup advisor. You ONLY help product-based startups. No services, freelancing, or agencies. Be practical, structured, and direct."

// Message is a single role/content pair in a session history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-session mutable state carried across turns. It is
// keyed by an opaque identifier handed out when the session is created.
//
// Fields:
//   - Messages: full history; index 0 is always the persona message.
//   - ProductContext: intake answers keyed by question key.
//   - IntakeStep: cursor into Questions; len(Questions) means intake is done.
//   - UsageCount: messages submitted after intake completed.
//   - MessageCount: all submitted messages.
//   - FeedbackSubmitted: set once feedback has been recorded.
//   - LoggedIn / UserEmail / UserType: optional account state.
//   - ExpertMode: the currently selected expert mode.
type Session struct {
	ID                string            `json:"id"                 gorm:"type:char(36);primaryKey"`
	Messages          []Message         `json:"-"                  gorm:"type:text;not null;serializer:json"`
	ProductContext    map[string]string `json:"product_context"    gorm:"type:text;not null;serializer:json"`
	IntakeStep        int               `json:"intake_step"        gorm:"not null;default:0"`
	UsageCount        int               `json:"usage_count"        gorm:"not null;default:0"`
	MessageCount      int               `json:"message_count"      gorm:"not null;default:0"`
	FeedbackSubmitted bool              `json:"feedback_submitted" gorm:"not null;default:false"`
	LoggedIn          bool              `json:"logged_in"          gorm:"not null;default:false"`
	UserEmail         string            `json:"user_email"         gorm:"type:varchar(255);not null;default:'guest'"`
	UserType          string            `json:"user_type"          gorm:"type:varchar(16);not null;default:'guest'"`
	ExpertMode        string            `json:"expert_mode"        gorm:"type:varchar(64);not null"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `json:"-"                  gorm:"index"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// NewSession returns a fresh guest session holding only the persona message.
func NewSession(id string) *Session {
	return &Session{
		ID:             id,
		Messages:       []Message{{Role: RoleSystem, Content: Persona}},
		ProductContext: map[string]string{},
		UserEmail:      UserTypeGuest,
		UserType:       UserTypeGuest,
		ExpertMode:     DefaultExpertMode,
	}
}

// IntakeComplete reports whether every intake question has been answered.
func (s *Session) IntakeComplete() bool { return s.IntakeStep >= len(Questions) }

// Reset clears the conversation back to the first intake question. The
// persona message and the account state survive.
func (s *Session) Reset() {
	if len(s.Messages) > 0 {
		s.Messages = s.Messages[:1]
	} else {
		s.Messages = []Message{{Role: RoleSystem, Content: Persona}}
	}
	s.ProductContext = map[string]string{}
	s.IntakeStep = 0
	s.MessageCount = 0
	s.UsageCount = 0
	s.FeedbackSubmitted = false
}

// Append adds a message to the end of the history.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// FeedbackRecord is one row of the feedback log.
type FeedbackRecord struct {
	Time       time.Time
	Helpful    bool
	Comment    string
	ExpertMode string
}

// AnalyticsRecord is one row of the analytics log.
type AnalyticsRecord struct {
	Time  time.Time
	Event string
}

// EventUserMessage is the analytics label written for every submitted message.
const EventUserMessage = "user_message"

// User is one row of the credential store.
type User struct {
	Identifier   string
	SecretDigest string
	CreatedAt    time.Time
}
