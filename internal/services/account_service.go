// Package services – AccountService
//
// The account area is optional: every session starts as a guest and works
// fully without logging in. Sign-up writes a credential row; login checks
// one and marks the session as belonging to that identifier; logout returns
// the session to guest. Conversation state is untouched by all three.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/repo"
)

// UserDirectory is the credential store contract.
type UserDirectory interface {
	Create(identifier, secret string) error
	Verify(identifier, secret string) (bool, error)
}

// AccountService implements sign-up, login and logout.
type AccountService struct {
	DB    *gorm.DB
	Users UserDirectory
	Locks *SessionLocks
}

// SignUp creates a credential. It does not log any session in. Identifiers
// are stored and matched exactly as given; only a blank one is rejected.
func (s *AccountService) SignUp(ctx context.Context, identifier, secret string) error {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return ErrEmptyIdentifier
	}
	if err := s.Users.Create(identifier, secret); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return ErrUserExists
		}
		return err
	}
	loggerFrom(ctx).Info().Str("identifier", identifier).Msg("account created")
	return nil
}

// Login verifies the credential and marks the session as logged in. Any
// mismatch yields ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, sessionID, identifier, secret string) (*domain.Session, error) {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return nil, ErrEmptyIdentifier
	}

	unlock := s.Locks.Lock(sessionID)
	defer unlock()

	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	ok, err := s.Users.Verify(identifier, secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	sess.LoggedIn = true
	sess.UserEmail = identifier
	sess.UserType = domain.UserTypeUser
	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return nil, mapNotFound(err)
	}
	return sess, nil
}

// Logout returns the session to the guest identity.
func (s *AccountService) Logout(ctx context.Context, sessionID string) (*domain.Session, error) {
	unlock := s.Locks.Lock(sessionID)
	defer unlock()

	sess, err := repo.GetSession(ctx, s.DB, sessionID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	sess.LoggedIn = false
	sess.UserEmail = domain.UserTypeGuest
	sess.UserType = domain.UserTypeGuest
	if err := repo.SaveSession(ctx, s.DB, sess); err != nil {
		return nil, mapNotFound(err)
	}
	return sess, nil
}
