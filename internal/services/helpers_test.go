package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/llm"
)

// ---------- test helpers ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Session{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// memAnalytics collects analytics rows in memory.
type memAnalytics struct {
	mu   sync.Mutex
	rows []domain.AnalyticsRecord
	err  error
}

func (m *memAnalytics) Append(rec domain.AnalyticsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, rec)
	return nil
}

func (m *memAnalytics) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memFeedback collects feedback rows in memory.
type memFeedback struct {
	rows []domain.FeedbackRecord
	err  error
}

func (m *memFeedback) Append(rec domain.FeedbackRecord) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, rec)
	return nil
}

// recordingClient returns reply and remembers the last request.
type recordingClient struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  llm.Request
}

func (c *recordingClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = req
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func newSessionService(t *testing.T, client llm.Client) (*SessionService, *memAnalytics) {
	t.Helper()
	an := &memAnalytics{}
	return &SessionService{
		DB:            newTestDB(t),
		Advisor:       &Advisor{Client: client, Model: "gpt-4.1-mini", Temperature: 0.4},
		Analytics:     an,
		Locks:         NewSessionLocks(),
		FeedbackAfter: 3,
	}, an
}

var acmeAnswers = []string{"Acme", "SaaS", "Freelancers", "Time tracking is manual", "MVP", "Find first 10 customers", "USA"}

// completeIntake walks a fresh session through all questions.
func completeIntake(t *testing.T, svc *SessionService, id string) {
	t.Helper()
	for i, a := range acmeAnswers {
		if _, err := svc.Submit(context.Background(), id, a, ""); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
}

var errBoom = errors.New("boom")
