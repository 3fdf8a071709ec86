// Package repo implements the data persistence layer for domain entities,
// backed by GORM for sessions and turn replays, and by append-only CSV
// files for users, feedback and analytics. This file opens the SQLite
// database (pure Go driver) and migrates its schema.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// slowQuery is the threshold above which GORM reports a query.
const slowQuery = 200 * time.Millisecond

// OpenSQLite opens (or creates) the database at path. The parent directory
// of a plain file path is created on demand; ":memory:" and "file:" URIs
// are handed to the driver untouched.
func OpenSQLite(path string) (*gorm.DB, error) {
	memory := isMemoryDSN(path)
	if !memory && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, err
	}

	pragmas := []string{"synchronous=NORMAL", "foreign_keys=ON", "busy_timeout=5000"}
	if !memory {
		pragmas = append([]string{"journal_mode=WAL"}, pragmas...)
	}
	for _, p := range pragmas {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate creates or updates the session and turn replay tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Session{}, &domain.TurnReplay{})
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// newGormLogger routes GORM warnings and slow queries into zerolog. Missing
// rows are expected (unknown session IDs) and are not reported.
func newGormLogger() logger.Interface {
	return logger.New(zerologWriter{}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...any) {
	log.Warn().Str("component", "gorm").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
