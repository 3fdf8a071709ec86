package domain

import "time"

// TurnReplay is the recorded response to one message submission, keyed by
// (session, Idempotency-Key). A retried submission carrying the same key is
// answered from Body instead of running the turn again.
type TurnReplay struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	SessionID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_replay_session_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_replay_session_key,priority:2"`
	Phase     string    `gorm:"type:TEXT NOT NULL;default:''"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	Body      []byte    `gorm:"type:BLOB NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (TurnReplay) TableName() string { return "turn_replays" }

// NewTurnReplay records body as the answer for (sessionID, key) until
// now+ttl.
func NewTurnReplay(id, sessionID, key, phase string, status int, body []byte, now time.Time, ttl time.Duration) *TurnReplay {
	now = now.UTC()
	return &TurnReplay{
		ID:        id,
		SessionID: sessionID,
		Key:       key,
		Phase:     phase,
		Status:    status,
		Body:      body,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the record may no longer be replayed at now.
func (r *TurnReplay) Expired(now time.Time) bool { return !now.Before(r.ExpiresAt) }
