// Package repo implements the data persistence layer for domain entities.
// This file stores the turn replays behind Idempotency-Key retries.
//
// Error semantics:
//   - FindReplay returns ErrNotFound for blank arguments, missing rows and
//     rows that expired at or before now.
//   - SaveReplay returns ErrDuplicate when (session, key) is already taken,
//     so concurrent retries keep the first recorded answer.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// ErrDuplicate indicates that a replay already exists for (session, key).
var ErrDuplicate = errors.New("duplicate")

// FindReplay returns the live replay for (sessionID, key).
func FindReplay(ctx context.Context, db *gorm.DB, sessionID, key string, now time.Time) (*domain.TurnReplay, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.TurnReplay
	err := db.WithContext(ctx).
		Where("session_id = ? AND key = ? AND expires_at > ?", sessionID, key, now.UTC()).
		Take(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveReplay inserts rec.
func SaveReplay(ctx context.Context, db *gorm.DB, rec *domain.TurnReplay) error {
	err := db.WithContext(ctx).Create(rec).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// PurgeReplays deletes replays that expired at or before now and returns
// how many were removed.
func PurgeReplays(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.TurnReplay{})
	return res.RowsAffected, res.Error
}

// isUniqueViolation recognizes UNIQUE failures; the pure-Go SQLite driver
// reports them as plain text rather than gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "constraint failed: unique")
}
