package domain

import (
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	if (Session{}).TableName() != "sessions" {
		t.Fatalf("Session.TableName() = %q; want %q", (Session{}).TableName(), "sessions")
	}
	if (TurnReplay{}).TableName() != "turn_replays" {
		t.Fatalf("TurnReplay.TableName() = %q; want %q", (TurnReplay{}).TableName(), "turn_replays")
	}
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession("s1")
	if len(s.Messages) != 1 || s.Messages[0].Role != RoleSystem || s.Messages[0].Content != Persona {
		t.Fatalf("expected persona-only history, got %+v", s.Messages)
	}
	if s.IntakeStep != 0 || s.IntakeComplete() {
		t.Fatalf("new session must start at intake step 0")
	}
	if s.UserType != UserTypeGuest || s.UserEmail != UserTypeGuest || s.LoggedIn {
		t.Fatalf("new session must be a guest: %+v", s)
	}
	if s.ExpertMode != DefaultExpertMode {
		t.Fatalf("ExpertMode=%q; want %q", s.ExpertMode, DefaultExpertMode)
	}
	if s.ProductContext == nil {
		t.Fatalf("ProductContext must be non-nil")
	}
}

func TestSession_Reset_ClearsEverythingButPersonaAndAccount(t *testing.T) {
	s := NewSession("s1")
	s.Append(RoleAssistant, "q")
	s.Append(RoleUser, "a")
	s.ProductContext["product_name"] = "Acme"
	s.IntakeStep = len(Questions)
	s.UsageCount = 4
	s.MessageCount = 11
	s.FeedbackSubmitted = true
	s.LoggedIn = true
	s.UserEmail = "a@b.c"
	s.UserType = UserTypeUser

	s.Reset()

	if len(s.Messages) != 1 || s.Messages[0].Content != Persona {
		t.Fatalf("history after reset = %+v", s.Messages)
	}
	if len(s.ProductContext) != 0 {
		t.Fatalf("product context not cleared: %v", s.ProductContext)
	}
	if s.IntakeStep != 0 || s.UsageCount != 0 || s.MessageCount != 0 || s.FeedbackSubmitted {
		t.Fatalf("counters/flags not reset: %+v", s)
	}
	if !s.LoggedIn || s.UserEmail != "a@b.c" {
		t.Fatalf("account state must survive reset")
	}
}

func TestSession_Reset_EmptyHistoryRestoresPersona(t *testing.T) {
	s := &Session{}
	s.Reset()
	if len(s.Messages) != 1 || s.Messages[0].Role != RoleSystem {
		t.Fatalf("expected persona restored, got %+v", s.Messages)
	}
}

func TestSession_JSONColumnsRoundTrip(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	s := NewSession("11111111-1111-1111-1111-111111111111")
	s.Append(RoleUser, "hello, world")
	s.ProductContext["stage"] = "MVP"
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var got Session
	if err := db.First(&got, "id = ?", s.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hello, world" {
		t.Fatalf("messages not persisted: %+v", got.Messages)
	}
	if got.ProductContext["stage"] != "MVP" {
		t.Fatalf("product context not persisted: %v", got.ProductContext)
	}
}

func TestQuestions_FixedOrder(t *testing.T) {
	want := []string{"product_name", "product_type", "target_user", "problem", "stage", "goal", "place"}
	if len(Questions) != len(want) {
		t.Fatalf("len(Questions)=%d; want %d", len(Questions), len(want))
	}
	for i, k := range want {
		if Questions[i].Key != k {
			t.Fatalf("Questions[%d].Key=%q; want %q", i, Questions[i].Key, k)
		}
		if Questions[i].Prompt == "" {
			t.Fatalf("Questions[%d] has empty prompt", i)
		}
	}
}

func TestLookupExpertMode(t *testing.T) {
	for _, m := range ExpertModes {
		got, ok := LookupExpertMode(m.Name)
		if !ok || got.Behavior != m.Behavior {
			t.Fatalf("LookupExpertMode(%q) = %+v, %v", m.Name, got, ok)
		}
	}
	if _, ok := LookupExpertMode("idea validator"); ok {
		t.Fatalf("lookup must be case-sensitive")
	}
	if _, ok := LookupExpertMode(DefaultExpertMode); !ok {
		t.Fatalf("default mode must be registered")
	}
}
