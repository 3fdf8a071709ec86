package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/http/middleware"
	"github.com/tbourn/go-startup-advisor/internal/llm"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/services"
)

// ---------- test plumbing ----------

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Session{}, &domain.TurnReplay{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type harness struct {
	r        *gin.Engine
	db       *gorm.DB
	dir      string
	calls    *int64
	failNext *atomic.Bool
}

// newHarness wires real services over sqlite and temp CSV files behind a
// bare gin engine. The completion client answers "advice #n".
func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	dir := t.TempDir()
	var calls int64
	var failNext atomic.Bool
	client := llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		n := atomic.AddInt64(&calls, 1)
		if failNext.Swap(false) {
			return "", fmt.Errorf("upstream unavailable")
		}
		return fmt.Sprintf("advice #%d", n), nil
	})

	locks := services.NewSessionLocks()
	fbLog := repo.NewFeedbackLog(filepath.Join(dir, "feedback.csv"))
	anLog := repo.NewAnalyticsLog(filepath.Join(dir, "analytics.csv"))
	users := repo.NewUserStore(filepath.Join(dir, "users.csv"))

	h := New(Deps{
		Sessions: &services.SessionService{
			DB:            db,
			Advisor:       &services.Advisor{Client: client, Model: "gpt-4.1-mini", Temperature: 0.4},
			Analytics:     anLog,
			Locks:         locks,
			FeedbackAfter: 3,
		},
		Feedback:        &services.FeedbackService{DB: db, Log: fbLog, Locks: locks, FeedbackAfter: 3},
		Accounts:        &services.AccountService{DB: db, Users: users, Locks: locks},
		Stats:           &services.StatsService{DB: db, Feedback: fbLog, Analytics: anLog},
		DB:              db,
		MaxMessageRunes: 50,
	})

	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/sessions", h.CreateSession)
	r.GET("/sessions/:id", h.GetSession)
	r.DELETE("/sessions/:id/chat", h.ResetChat)
	r.PUT("/sessions/:id/mode", h.SelectMode)
	r.GET("/sessions/:id/messages", h.ListMessages)
	r.POST("/sessions/:id/messages", h.PostMessage)
	r.POST("/sessions/:id/feedback", h.SubmitFeedback)
	r.POST("/sessions/:id/login", h.Login)
	r.POST("/sessions/:id/logout", h.Logout)
	r.POST("/accounts", h.SignUp)
	r.GET("/modes", h.ListModes)
	r.GET("/stats", h.GetStats)

	return &harness{r: r, db: db, dir: dir, calls: &calls, failNext: &failNext}
}

func (hs *harness) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	hs.r.ServeHTTP(w, req)
	return w
}

func (hs *harness) createSession(t *testing.T) SessionView {
	t.Helper()
	w := hs.do(t, http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session = %d %s", w.Code, w.Body.String())
	}
	var v SessionView
	decode(t, w, &v)
	return v
}

func (hs *harness) post(t *testing.T, id, content string) PostMessageResponse {
	t.Helper()
	w := hs.do(t, http.MethodPost, "/sessions/"+id+"/messages", PostMessageRequest{Content: content})
	if w.Code != http.StatusOK {
		t.Fatalf("post %q = %d %s", content, w.Code, w.Body.String())
	}
	var resp PostMessageResponse
	decode(t, w, &resp)
	return resp
}

var acme = []string{"Acme", "SaaS", "Freelancers", "Manual time tracking", "MVP", "First customers", "USA"}

func (hs *harness) completeIntake(t *testing.T, id string) {
	t.Helper()
	for _, a := range acme {
		hs.post(t, id, a)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e ErrorResponse
	decode(t, w, &e)
	return e.Code
}

// ---------- helpers-only unit tests ----------

func Test_sanitizeContent_and_clamp(t *testing.T) {
	raw := "  line1\r\n\r\n\r\n\r\nline2\rline3  "
	if got, want := sanitizeContent(raw), "line1\n\nline2\nline3"; got != want {
		t.Fatalf("sanitizeContent: got %q want %q", got, want)
	}
	if sanitizeContent(" \r\n\t ") != "" {
		t.Fatalf("sanitizeContent should trim to empty")
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-3&page_size=9999", nil)
	if p, ps := clampPagination(c); p != 1 || ps != 100 {
		t.Fatalf("clamp: got page=%d size=%d; want 1,100", p, ps)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=&page_size=0", nil)
	if p, ps := clampPagination(c); p != 1 || ps != 1 {
		t.Fatalf("clamp defaults: got %d,%d", p, ps)
	}
}

// ---------- sessions ----------

func TestCreateSession_StartsAtFirstQuestion(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)

	if _, err := uuid.Parse(v.ID); err != nil {
		t.Fatalf("id not a uuid: %q", v.ID)
	}
	if v.IntakeStep != 0 || v.IntakeComplete {
		t.Fatalf("fresh session must be at step 0: %+v", v)
	}
	if v.NextQuestion != domain.Questions[0].Prompt {
		t.Fatalf("next question = %q", v.NextQuestion)
	}
	if v.UserType != domain.UserTypeGuest || v.LoggedIn {
		t.Fatalf("fresh session must be a guest: %+v", v)
	}
	if v.ExpertMode != domain.DefaultExpertMode {
		t.Fatalf("mode = %q", v.ExpertMode)
	}
}

func TestGetSession_NotFound_And_ETag(t *testing.T) {
	hs := newHarness(t)

	w := hs.do(t, http.MethodGet, "/sessions/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound || errCode(t, w) != ErrCodeNotFound {
		t.Fatalf("missing session = %d %s", w.Code, w.Body.String())
	}

	v := hs.createSession(t)
	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"session:`+v.ID+":") {
		t.Fatalf("etag = %q", etag)
	}

	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID, nil, "If-None-Match", etag)
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional get = %d; want 304", w.Code)
	}

	hs.post(t, v.ID, "Acme")
	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID, nil, "If-None-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("stale etag must yield 200, got %d", w.Code)
	}
}

func TestSession_ProductContextInQuestionOrderWithLabels(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.post(t, v.ID, "Acme")
	hs.post(t, v.ID, "SaaS")
	hs.post(t, v.ID, "Busy parents")

	w := hs.do(t, http.MethodGet, "/sessions/"+v.ID, nil)
	var got SessionView
	decode(t, w, &got)

	want := []ContextEntry{
		{Key: "product_name", Label: "Product Name", Value: "Acme"},
		{Key: "product_type", Label: "Product Type", Value: "SaaS"},
		{Key: "target_user", Label: "Target User", Value: "Busy parents"},
	}
	if len(got.ProductContext) != len(want) {
		t.Fatalf("context = %+v", got.ProductContext)
	}
	for i := range want {
		if got.ProductContext[i] != want[i] {
			t.Fatalf("entry %d = %+v; want %+v", i, got.ProductContext[i], want[i])
		}
	}
	if got.NextQuestion != domain.Questions[3].Prompt {
		t.Fatalf("next question = %q", got.NextQuestion)
	}
}

func TestResetChat_ReturnsToFirstQuestion(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.completeIntake(t, v.ID)

	w := hs.do(t, http.MethodDelete, "/sessions/"+v.ID+"/chat", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("reset = %d %s", w.Code, w.Body.String())
	}
	var got SessionView
	decode(t, w, &got)
	if got.IntakeStep != 0 || len(got.ProductContext) != 0 || got.MessageCount != 0 || got.UsageCount != 0 {
		t.Fatalf("reset left state behind: %+v", got)
	}

	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID+"/messages", nil)
	var page ListMessagesResponse
	decode(t, w, &page)
	if page.Pagination.Total != 0 {
		t.Fatalf("history after reset = %+v", page.Messages)
	}
}

func TestSelectMode_And_ListModes(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)

	w := hs.do(t, http.MethodPut, "/sessions/"+v.ID+"/mode", SelectModeRequest{Mode: "Pricing Strategist"})
	if w.Code != http.StatusOK {
		t.Fatalf("select = %d %s", w.Code, w.Body.String())
	}
	var got SessionView
	decode(t, w, &got)
	if got.ExpertMode != "Pricing Strategist" {
		t.Fatalf("mode = %q", got.ExpertMode)
	}

	w = hs.do(t, http.MethodPut, "/sessions/"+v.ID+"/mode", SelectModeRequest{Mode: "Astrologer"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeUnknownMode {
		t.Fatalf("unknown mode = %d %s", w.Code, w.Body.String())
	}

	w = hs.do(t, http.MethodPut, "/sessions/"+v.ID+"/mode", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing mode = %d", w.Code)
	}

	w = hs.do(t, http.MethodGet, "/modes", nil)
	var modes ListModesResponse
	decode(t, w, &modes)
	if len(modes.Modes) != len(domain.ExpertModes) || modes.Default != domain.DefaultExpertMode {
		t.Fatalf("modes = %+v", modes)
	}
}

// ---------- messages ----------

func TestPostMessage_IntakeThenAdvice(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)

	first := hs.post(t, v.ID, "Acme")
	if first.Phase != services.PhaseIntake {
		t.Fatalf("phase = %q", first.Phase)
	}
	if want := services.IntakeAckPrefix + domain.Questions[1].Prompt; first.Reply != want {
		t.Fatalf("reply = %q; want %q", first.Reply, want)
	}

	var last PostMessageResponse
	for _, a := range acme[1:] {
		last = hs.post(t, v.ID, a)
	}
	if last.Reply != services.IntakeCompleteText || !last.Session.IntakeComplete {
		t.Fatalf("seventh answer = %+v", last)
	}
	if atomic.LoadInt64(hs.calls) != 0 {
		t.Fatalf("intake must not call the completion service")
	}

	adv := hs.post(t, v.ID, "How should I price it?")
	if adv.Phase != services.PhaseAdvice || adv.Reply != "advice #1" || adv.Failed {
		t.Fatalf("advice turn = %+v", adv)
	}
	if adv.Session.UsageCount != 1 || adv.Session.MessageCount != 8 {
		t.Fatalf("counters = %+v", adv.Session)
	}
}

func TestPostMessage_CompletionFailureIsInBand(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.completeIntake(t, v.ID)

	hs.failNext.Store(true)
	resp := hs.post(t, v.ID, "Is this viable?")
	if !resp.Failed || !strings.HasPrefix(resp.Reply, services.ErrorReplyPrefix) {
		t.Fatalf("expected placeholder reply, got %+v", resp)
	}

	w := hs.do(t, http.MethodGet, "/sessions/"+v.ID+"/messages?page_size=100", nil)
	var page ListMessagesResponse
	decode(t, w, &page)
	msgs := page.Messages
	if got := msgs[len(msgs)-1]; got.Role != domain.RoleAssistant || got.Content != resp.Reply {
		t.Fatalf("last history entry = %+v", got)
	}
	if got := msgs[len(msgs)-2]; got.Role != domain.RoleUser {
		t.Fatalf("expected exactly one assistant entry after the user message, got %+v", msgs[len(msgs)-2:])
	}
}

func TestPostMessage_Validation(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)

	cases := []struct {
		name string
		body any
		code string
	}{
		{"missing content", map[string]string{}, ErrCodeBadRequest},
		{"whitespace only", PostMessageRequest{Content: " \r\n "}, ErrCodeBadRequest},
		{"too long", PostMessageRequest{Content: strings.Repeat("é", 51)}, ErrCodeTooLong},
		{"unknown mode", PostMessageRequest{Content: "hi", Mode: "Astrologer"}, ErrCodeUnknownMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/messages", tc.body)
			if w.Code != http.StatusBadRequest || errCode(t, w) != tc.code {
				t.Fatalf("got %d %s", w.Code, w.Body.String())
			}
		})
	}

	w := hs.do(t, http.MethodPost, "/sessions/"+uuid.NewString()+"/messages", PostMessageRequest{Content: "hi"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session = %d", w.Code)
	}
}

func TestPostMessage_IdempotentReplay(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.completeIntake(t, v.ID)

	key := "key-" + uuid.NewString()
	body := PostMessageRequest{Content: "What should I charge?"}

	w1 := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/messages", body, middleware.HeaderIdempotencyKey, key)
	if w1.Code != http.StatusOK || w1.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("first = %d replayed=%q", w1.Code, w1.Header().Get("Idempotency-Replayed"))
	}
	w2 := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/messages", body, middleware.HeaderIdempotencyKey, key)
	if w2.Code != http.StatusOK || w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("second = %d replayed=%q", w2.Code, w2.Header().Get("Idempotency-Replayed"))
	}

	var r1, r2 PostMessageResponse
	decode(t, w1, &r1)
	decode(t, w2, &r2)
	if r1.Reply != r2.Reply || r1.Session.MessageCount != r2.Session.MessageCount {
		t.Fatalf("replay differs: %+v vs %+v", r1, r2)
	}
	if atomic.LoadInt64(hs.calls) != 1 {
		t.Fatalf("completion calls = %d; want 1", atomic.LoadInt64(hs.calls))
	}
}

func TestPostMessage_FailedTurnIsNotRecordedForReplay(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.completeIntake(t, v.ID)

	key := "retry-1"
	body := PostMessageRequest{Content: "Pricing?"}
	hs.failNext.Store(true)
	w := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/messages", body, middleware.HeaderIdempotencyKey, key)
	var r PostMessageResponse
	decode(t, w, &r)
	if !r.Failed {
		t.Fatalf("expected failed turn")
	}

	w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/messages", body, middleware.HeaderIdempotencyKey, key)
	decode(t, w, &r)
	if w.Header().Get("Idempotency-Replayed") != "" || r.Failed {
		t.Fatalf("retry after failure must run again: %+v", r)
	}
}

func TestListMessages_PaginationExcludesPersona(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.post(t, v.ID, "Acme")
	hs.post(t, v.ID, "SaaS")

	// opening question + 2 × (user, assistant)
	w := hs.do(t, http.MethodGet, "/sessions/"+v.ID+"/messages?page=1&page_size=2", nil)
	var page ListMessagesResponse
	decode(t, w, &page)
	if page.Pagination.Total != 5 || page.Pagination.TotalPages != 3 || !page.Pagination.HasNext {
		t.Fatalf("pagination = %+v", page.Pagination)
	}
	if page.Messages[0].Role != domain.RoleAssistant || page.Messages[0].Content != domain.Questions[0].Prompt {
		t.Fatalf("first visible message = %+v", page.Messages[0])
	}
	for _, m := range page.Messages {
		if m.Role == domain.RoleSystem {
			t.Fatalf("persona leaked: %+v", m)
		}
	}

	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID+"/messages?page=9", nil)
	decode(t, w, &page)
	if len(page.Messages) != 0 || page.Pagination.HasNext {
		t.Fatalf("past-the-end page = %+v", page)
	}
}

// ---------- feedback ----------

func TestSubmitFeedback_Lifecycle(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	hs.completeIntake(t, v.ID)

	helpful := false
	req := SubmitFeedbackRequest{Helpful: &helpful}

	w := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/feedback", req)
	if w.Code != http.StatusConflict || errCode(t, w) != ErrCodeFeedbackNotDue {
		t.Fatalf("before due = %d %s", w.Code, w.Body.String())
	}

	for i := 0; i < 3; i++ {
		hs.post(t, v.ID, fmt.Sprintf("question %d", i))
	}
	w = hs.do(t, http.MethodGet, "/sessions/"+v.ID, nil)
	var sv SessionView
	decode(t, w, &sv)
	if !sv.FeedbackDue {
		t.Fatalf("feedback should be due: %+v", sv)
	}

	w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/feedback", req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/feedback", req)
	if w.Code != http.StatusConflict || errCode(t, w) != ErrCodeConflict {
		t.Fatalf("duplicate = %d %s", w.Code, w.Body.String())
	}

	w = hs.do(t, http.MethodGet, "/stats", nil)
	var st services.Stats
	decode(t, w, &st)
	if st.FeedbackEntries != 1 || !st.HasFeedback {
		t.Fatalf("stats = %+v", st)
	}
	if st.MessagesSent != len(acme)+3 {
		t.Fatalf("messages sent = %d; want %d", st.MessagesSent, len(acme)+3)
	}
}

func TestSubmitFeedback_RequiresHelpful(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	w := hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/feedback", map[string]string{"comment": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing helpful = %d", w.Code)
	}
}

// ---------- accounts ----------

func TestAccounts_SignUpLoginLogout(t *testing.T) {
	hs := newHarness(t)
	v := hs.createSession(t)
	creds := CredentialsRequest{Identifier: "founder@acme.io", Secret: "s3cret"}

	w := hs.do(t, http.MethodPost, "/accounts", creds)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup = %d %s", w.Code, w.Body.String())
	}
	w = hs.do(t, http.MethodPost, "/accounts", creds)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", w.Code)
	}
	w = hs.do(t, http.MethodPost, "/accounts", CredentialsRequest{Identifier: " "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank signup = %d", w.Code)
	}

	for _, bad := range []CredentialsRequest{
		{Identifier: "founder@acme.io", Secret: "wrong"},
		{Identifier: "nobody@acme.io", Secret: "s3cret"},
		{Identifier: " founder@acme.io ", Secret: "s3cret"},
	} {
		w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/login", bad)
		var e ErrorResponse
		decode(t, w, &e)
		if w.Code != http.StatusUnauthorized || e.Message != "invalid credentials" {
			t.Fatalf("bad login %+v = %d %+v", bad, w.Code, e)
		}
	}

	w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/login", creds)
	var sv SessionView
	decode(t, w, &sv)
	if w.Code != http.StatusOK || !sv.LoggedIn || sv.UserEmail != "founder@acme.io" || sv.UserType != domain.UserTypeUser {
		t.Fatalf("login = %d %+v", w.Code, sv)
	}

	w = hs.do(t, http.MethodPost, "/sessions/"+v.ID+"/logout", nil)
	decode(t, w, &sv)
	if sv.LoggedIn || sv.UserType != domain.UserTypeGuest {
		t.Fatalf("logout = %+v", sv)
	}
}

// ---------- error mapping ----------

func Test_failService_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrSessionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrEmptyMessage, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrTooLong, http.StatusBadRequest, ErrCodeTooLong},
		{services.ErrUnknownMode, http.StatusBadRequest, ErrCodeUnknownMode},
		{services.ErrEmptyIdentifier, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{services.ErrUserExists, http.StatusConflict, ErrCodeConflict},
		{services.ErrDuplicateFeedback, http.StatusConflict, ErrCodeConflict},
		{services.ErrFeedbackNotDue, http.StatusConflict, ErrCodeFeedbackNotDue},
		{fmt.Errorf("wrapped: %w", services.ErrSessionNotFound), http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("disk full"), http.StatusInternalServerError, ErrCodeTurnFailed},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		failService(c, tc.err, ErrCodeTurnFailed, 10)
		if w.Code != tc.status || errCode(t, w) != tc.code {
			t.Fatalf("%v: got %d %s", tc.err, w.Code, w.Body.String())
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	h := New(Deps{})
	if h.idemTTL != 24*time.Hour || h.maxRunes != 4000 {
		t.Fatalf("defaults: ttl=%v maxRunes=%d", h.idemTTL, h.maxRunes)
	}
}
