// Package repo implements the data persistence layer for domain entities.
// This file provides repository functions for the Session model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only
// persistence.
//
// Error semantics:
//   - When a session is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors, the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSession inserts a fresh guest session with a random UUID and only
// the persona message in its history.
func CreateSession(ctx context.Context, db *gorm.DB) (*domain.Session, error) {
	s := domain.NewSession(uuid.NewString())
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by ID, or ErrNotFound if missing.
func GetSession(ctx context.Context, db *gorm.DB, id string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	if s.ProductContext == nil {
		s.ProductContext = map[string]string{}
	}
	return &s, nil
}

// SaveSession writes every column of s back to its row. It returns
// ErrNotFound when the session no longer exists.
func SaveSession(ctx context.Context, db *gorm.DB, s *domain.Session) error {
	s.UpdatedAt = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", s.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
