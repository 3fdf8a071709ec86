// Package repo implements the data persistence layer for domain entities.
// This file provides UserStore, the flat-file credential store.
//
// Layout: identifier,secret_digest,created_at
//
// Error semantics:
//   - A store whose file does not exist yet behaves as empty: Exists and
//     Verify report false without an error.
//   - Create is an atomic insert-if-absent within the process and returns
//     ErrUserExists instead of appending a second row for the identifier.
//   - Rows with the wrong field count are skipped with a warning.
package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// ErrUserExists is returned by Create when the identifier is already stored.
var ErrUserExists = errors.New("user already exists")

// UserHeader is the header row of the credential store.
var UserHeader = []string{"identifier", "secret_digest", "created_at"}

// UserStore keeps (identifier, digest, created_at) rows in a CSV file.
type UserStore struct {
	log *CSVLog
	now func() time.Time
}

// NewUserStore returns a credential store backed by the CSV file at path.
func NewUserStore(path string) *UserStore {
	return &UserStore{
		log: NewCSVLog(path, UserHeader...),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// HashSecret returns the hex-encoded SHA-256 digest of secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Exists reports whether any row carries exactly identifier.
func (s *UserStore) Exists(identifier string) (bool, error) {
	found := false
	_, err := s.log.Scan(func(rec []string) bool {
		if rec[0] == identifier {
			found = true
			return false
		}
		return true
	})
	return found, err
}

// Create appends a row for identifier unless one already exists.
func (s *UserStore) Create(identifier, secret string) error {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()

	found := false
	if _, err := s.log.scanLocked(func(rec []string) bool {
		if rec[0] == identifier {
			found = true
			return false
		}
		return true
	}); err != nil {
		return err
	}
	if found {
		return ErrUserExists
	}
	return s.log.appendLocked([]string{identifier, HashSecret(secret), s.now().Format(time.RFC3339)})
}

// Verify reports whether a row matches both identifier and the digest of
// secret.
func (s *UserStore) Verify(identifier, secret string) (bool, error) {
	digest := HashSecret(secret)
	ok := false
	_, err := s.log.Scan(func(rec []string) bool {
		if rec[0] == identifier && rec[1] == digest {
			ok = true
			return false
		}
		return true
	})
	return ok, err
}

// List returns every well-formed user row in file order.
func (s *UserStore) List() ([]domain.User, error) {
	var out []domain.User
	_, err := s.log.Scan(func(rec []string) bool {
		u := domain.User{Identifier: rec[0], SecretDigest: rec[1]}
		if ts, perr := time.Parse(time.RFC3339, rec[2]); perr == nil {
			u.CreatedAt = ts
		}
		out = append(out, u)
		return true
	})
	return out, err
}
