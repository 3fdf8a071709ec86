package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tbourn/go-startup-advisor/internal/app"
	"github.com/tbourn/go-startup-advisor/internal/config"
	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/llm"
	"github.com/tbourn/go-startup-advisor/internal/repo"
)

// setEnv points every storage path at a temp dir and returns it.
func setEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "advisor.db"))
	t.Setenv("USERS_FILE", filepath.Join(dir, "users.csv"))
	t.Setenv("FEEDBACK_FILE", filepath.Join(dir, "feedback.csv"))
	t.Setenv("ANALYTICS_FILE", filepath.Join(dir, "analytics.csv"))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(in))
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return out.String(), err
}

func newTestApp(t *testing.T, calls *atomic.Int32) *app.App {
	t.Helper()
	dir := setEnv(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	db, err := openMigrated(filepath.Join(dir, "advisor.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (string, error) {
		calls.Add(1)
		return "ship it", nil
	})
	return app.New(cfg, db, client)
}

func intakeLines() []string {
	return []string{"Acme", "SaaS", "dentists", "no-shows", "MVP", "pricing", "Germany"}
}

func TestRoot_VersionAndHelp(t *testing.T) {
	setEnv(t)

	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("empty version output")
	}

	out, err = execute(t, "", "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"serve", "chat", "stats", "users"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q:\n%s", want, out)
		}
	}
}

func TestRoot_BadConfigFails(t *testing.T) {
	setEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := execute(t, "", "stats"); err == nil {
		t.Fatalf("expected config error")
	}
}

func TestStats_EmptyThenCounted(t *testing.T) {
	dir := setEnv(t)

	out, err := execute(t, "", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Feedback entries:") || !strings.Contains(out, "no data") {
		t.Fatalf("unexpected empty stats output:\n%s", out)
	}

	fb := repo.NewFeedbackLog(filepath.Join(dir, "feedback.csv"))
	if err := fb.Append(domain.FeedbackRecord{Helpful: true, ExpertMode: domain.DefaultExpertMode}); err != nil {
		t.Fatal(err)
	}
	an := repo.NewAnalyticsLog(filepath.Join(dir, "analytics.csv"))
	for i := 0; i < 4; i++ {
		if err := an.Append(domain.AnalyticsRecord{Event: domain.EventUserMessage}); err != nil {
			t.Fatal(err)
		}
	}

	out, err = execute(t, "", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Feedback entries: 1") || !strings.Contains(out, "Messages sent: 4") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}
}

func TestUsers_ListsIdentifiersWithoutDigests(t *testing.T) {
	dir := setEnv(t)

	out, err := execute(t, "", "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if !strings.Contains(out, "no accounts yet") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	store := repo.NewUserStore(filepath.Join(dir, "users.csv"))
	if err := store.Create("founder@example.com", "hunter2"); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, "", "users")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if !strings.Contains(out, "founder@example.com") || !strings.Contains(out, "1 account(s)") {
		t.Fatalf("identifier missing:\n%s", out)
	}
	if strings.Contains(out, repo.HashSecret("hunter2")) {
		t.Fatalf("digest leaked:\n%s", out)
	}
}

func TestRunChat_IntakeAdviceAndFeedback(t *testing.T) {
	var calls atomic.Int32
	a := newTestApp(t, &calls)

	lines := append(intakeLines(),
		"",
		"/mode",
		"/mode Pricing Strategist",
		"/good",
		"how much should I charge?",
		"and for clinics?",
		"what about annual plans?",
		"/bad too vague",
		"/bad again",
		"/nope",
		"/quit",
		"never read",
	)
	var out bytes.Buffer
	if err := runChat(context.Background(), a, "", strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("runChat: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, domain.Questions[0].Prompt) {
		t.Fatalf("opening question not printed:\n%s", got)
	}
	if !strings.Contains(got, "mode: Pricing Strategist") {
		t.Fatalf("mode switch not confirmed:\n%s", got)
	}
	if !strings.Contains(got, "feedback opens after") {
		t.Fatalf("early feedback should be refused:\n%s", got)
	}
	if !strings.Contains(got, "ship it") || calls.Load() != 3 {
		t.Fatalf("advice turns = %d:\n%s", calls.Load(), got)
	}
	if !strings.Contains(got, "Was this helpful?") || !strings.Contains(got, "thanks for the feedback") {
		t.Fatalf("feedback flow missing:\n%s", got)
	}
	if !strings.Contains(got, "feedback already submitted") {
		t.Fatalf("duplicate feedback not reported:\n%s", got)
	}
	if !strings.Contains(got, "unknown command /nope") {
		t.Fatalf("unknown command not reported:\n%s", got)
	}

	st, err := a.Stats.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.FeedbackEntries != 1 || st.MessagesSent != len(intakeLines())+3 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestRunChat_ResumeAndReset(t *testing.T) {
	var calls atomic.Int32
	a := newTestApp(t, &calls)
	ctx := context.Background()

	sess, err := a.Sessions.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Sessions.Submit(ctx, sess.ID, "Acme", ""); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	in := strings.NewReader("/mode Nope\n/reset\n")
	if err := runChat(ctx, a, sess.ID, in, &out); err != nil {
		t.Fatalf("runChat: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, domain.Questions[1].Prompt) {
		t.Fatalf("resumed session should ask the second question:\n%s", got)
	}
	if !strings.Contains(got, "unknown mode") || !strings.Contains(got, "chat cleared") {
		t.Fatalf("unexpected output:\n%s", got)
	}

	after, err := a.Sessions.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.IntakeStep != 0 || len(after.ProductContext) != 0 {
		t.Fatalf("reset not applied: %+v", after)
	}

	if err := runChat(ctx, a, "missing", strings.NewReader(""), &out); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}

func TestDescribe_TooLong(t *testing.T) {
	var calls atomic.Int32
	a := newTestApp(t, &calls)
	a.Sessions.MaxMessageRunes = 5

	var out bytes.Buffer
	if err := runChat(context.Background(), a, "", strings.NewReader("far too long\n"), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "message too long: max 5 characters") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestPurgeReplays_SweepsUntilCanceled(t *testing.T) {
	var calls atomic.Int32
	a := newTestApp(t, &calls)
	now := time.Now()
	seed := []*domain.TurnReplay{
		domain.NewTurnReplay("old", "s1", "k1", "intake", 200, []byte(`{}`), now.Add(-2*time.Hour), time.Hour),
		domain.NewTurnReplay("live", "s1", "k2", "intake", 200, []byte(`{}`), now, time.Hour),
	}
	for _, r := range seed {
		if err := repo.SaveReplay(context.Background(), a.DB, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		purgeReplays(ctx, a.DB, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		var n int64
		a.DB.Model(&domain.TurnReplay{}).Count(&n)
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expired replay not purged, %d rows left", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purge loop did not stop after cancel")
	}
}
