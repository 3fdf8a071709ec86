// Package app assembles the advisor's services from configuration: the
// session database, the CSV stores, the completion client and the shared
// per-session lock table. Both the HTTP server and the terminal commands
// build their services through New so they behave identically.
package app

import (
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/config"
	"github.com/tbourn/go-startup-advisor/internal/llm"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/services"
)

// App holds the wired services and the stores behind them.
type App struct {
	DB        *gorm.DB
	Users     *repo.UserStore
	Feedback  *repo.FeedbackLog
	Analytics *repo.AnalyticsLog
	Locks     *services.SessionLocks

	Sessions *services.SessionService
	Reviews  *services.FeedbackService
	Accounts *services.AccountService
	Stats    *services.StatsService
}

// New wires the services over db. client may be nil, in which case every
// advice turn answers with the error placeholder.
func New(cfg config.Config, db *gorm.DB, client llm.Client) *App {
	a := &App{
		DB:        db,
		Users:     repo.NewUserStore(cfg.UsersFile),
		Feedback:  repo.NewFeedbackLog(cfg.FeedbackFile),
		Analytics: repo.NewAnalyticsLog(cfg.AnalyticsFile),
		Locks:     services.NewSessionLocks(),
	}

	a.Sessions = &services.SessionService{
		DB: db,
		Advisor: &services.Advisor{
			Client:      client,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			Locale:      language.English,
		},
		Analytics:       a.Analytics,
		Locks:           a.Locks,
		FeedbackAfter:   cfg.FeedbackAfter,
		MaxMessageRunes: cfg.MaxMessageRunes,
	}
	a.Reviews = &services.FeedbackService{
		DB:            db,
		Log:           a.Feedback,
		Locks:         a.Locks,
		FeedbackAfter: cfg.FeedbackAfter,
	}
	a.Accounts = &services.AccountService{DB: db, Users: a.Users, Locks: a.Locks}
	a.Stats = &services.StatsService{DB: db, Feedback: a.Feedback, Analytics: a.Analytics}
	return a
}

// NewClient returns the OpenAI-compatible client for cfg, or nil when no
// API key is configured.
func NewClient(cfg config.OpenAIConfig) llm.Client {
	if cfg.APIKey == "" {
		return nil
	}
	return llm.NewOpenAI(cfg.APIKey, cfg.BaseURL, nil)
}
