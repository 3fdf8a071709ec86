// Message HTTP handlers.
//
// This file exposes REST endpoints for session messages:
//   - POST /sessions/{id}/messages   (submit one user message, get the reply)
//   - GET  /sessions/{id}/messages   (list paginated history, persona excluded)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to the SessionService turn loop
//   - implement idempotency semantics
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// turn exists for (session, key), the handler returns the recorded response
// body and sets `Idempotency-Replayed: true`. Turns whose completion failed
// are not recorded, so a retry runs again.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-startup-advisor/internal/domain"
	"github.com/tbourn/go-startup-advisor/internal/http/middleware"
	"github.com/tbourn/go-startup-advisor/internal/repo"
	"github.com/tbourn/go-startup-advisor/internal/services"
	"github.com/tbourn/go-startup-advisor/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user message.
//
// Content is normalized by the handler (line endings and excessive blank lines)
// before being passed to the service layer.
type PostMessageRequest struct {
	// Content is the user message. It must be non-empty.
	Content string `json:"content" binding:"required,min=1" example:"Acme"`
	// Mode optionally switches the expert mode for this and later turns.
	Mode string `json:"mode,omitempty" example:"Idea Validator"`
}

// PostMessageResponse is the JSON envelope for one processed turn.
type PostMessageResponse struct {
	Reply       string      `json:"reply"        example:"Got it.\n\n**Next:** What type of product is this? (SaaS, App, Tool, Platform)"`
	Phase       string      `json:"phase"        example:"intake"`
	Failed      bool        `json:"failed"`
	FeedbackDue bool        `json:"feedback_due"`
	Session     SessionView `json:"session"`
}

// ListMessagesResponse contains a page of history and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// replay answers the request from the recorded turn for (session, key)
// when one is still live. It reports whether the request was answered.
func (h *Handlers) replay(c *gin.Context, id, key string) bool {
	if h.db == nil || key == "" {
		return false
	}
	rec, err := repo.FindReplay(c.Request.Context(), h.db, id, key, time.Now())
	if err != nil {
		return false
	}
	var prev PostMessageResponse
	if err := json.Unmarshal(rec.Body, &prev); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("unreadable turn replay")
		return false
	}
	middleware.LoggerFrom(c).Debug().Str("idempotency_key", key).Str("phase", rec.Phase).Msg("turn replayed")
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, rec.Status, prev)
	return true
}

// remember records resp for (session, key). Failures are logged only.
func (h *Handlers) remember(c *gin.Context, id, key string, resp PostMessageResponse) {
	if h.db == nil || key == "" {
		return
	}
	body, err := json.Marshal(resp)
	if err == nil {
		rec := domain.NewTurnReplay(uuid.NewString(), id, key, resp.Phase, http.StatusOK, body, time.Now(), h.idemTTL)
		err = repo.SaveReplay(c.Request.Context(), h.db, rec)
	}
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("turn replay not stored")
	}
}

//
// Handlers
//

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message and get the advisor reply
// @Description While intake is running the message answers the current question and the reply
// @Description is the next question. Afterwards the advisor answers using the product context.
// @Description A failed completion is reported in-band with failed=true and an error placeholder reply.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       id               path    string  true  "Session ID (UUID)"  format(uuid)
// @Param       body             body    handlers.PostMessageRequest  true  "User message payload"
//
// @Success     200  {object}  handlers.PostMessageResponse  "Turn result"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse        "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /sessions/{id}/messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	id := sessionID(c)

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	if content == "" {
		failService(c, services.ErrEmptyMessage, ErrCodeTurnFailed, h.maxRunes)
		return
	}
	if utf8.RuneCountInString(content) > h.maxRunes {
		failService(c, services.ErrTooLong, ErrCodeTurnFailed, h.maxRunes)
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	if h.replay(c, id, idemKey) {
		return
	}

	turn, err := h.sessSvc.Submit(c.Request.Context(), id, content, strings.TrimSpace(req.Mode))
	if err != nil {
		failService(c, err, ErrCodeTurnFailed, h.maxRunes)
		return
	}

	resp := PostMessageResponse{
		Reply:       turn.Reply,
		Phase:       turn.Phase,
		Failed:      turn.Failed,
		FeedbackDue: turn.FeedbackDue,
	}
	if turn.Session != nil {
		resp.Session = h.newSessionView(turn.Session)
	}
	if !turn.Failed {
		h.remember(c, id, idemKey, resp)
	}
	ok(c, http.StatusOK, resp)
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a session
// @Description Returns a paginated slice of the conversation; the persona message is never included.
// @Tags        Messages
// @Produce     json
//
// @Param       id         path   string  true  "Session ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /sessions/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.sessSvc.ListMessages(c.Request.Context(), sessionID(c), page, pageSize)
	if err != nil {
		failService(c, err, ErrCodeListFailed, h.maxRunes)
		return
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
