// Session HTTP handlers.
//
// This file exposes REST endpoints for session resources:
//   - POST   /sessions              (create)
//   - GET    /sessions/{id}         (view, weak ETag support)
//   - DELETE /sessions/{id}/chat    (clear chat)
//   - PUT    /sessions/{id}/mode    (select expert mode)
//   - GET    /modes                 (list expert modes)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// SelectModeRequest is the JSON payload for choosing an expert mode.
type SelectModeRequest struct {
	Mode string `json:"mode" binding:"required" example:"Pricing Strategist"`
}

// ListModesResponse lists the selectable expert modes.
type ListModesResponse struct {
	Modes   []domain.ExpertMode `json:"modes"`
	Default string              `json:"default" example:"Idea Validator"`
}

// sessionETag derives a weak validator from the session's counters and last
// write time.
func sessionETag(s *domain.Session) string {
	return fmt.Sprintf(`W/"session:%s:%d:%d"`, s.ID, s.MessageCount, s.UpdatedAt.UnixNano())
}

// CreateSession godoc
// @ID          createSession
// @Summary     Start a session
// @Description Creates a guest session whose history holds only the advisor persona.
// @Tags        Sessions
// @Produce     json
// @Success     201  {object}  handlers.SessionView
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions [post]
func (h *Handlers) CreateSession(c *gin.Context) {
	s, err := h.sessSvc.Create(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, h.newSessionView(s))
}

// GetSession godoc
// @ID          getSession
// @Summary     Get session state
// @Description Returns product context, intake cursor, counters, flags and the next question.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Sessions
// @Produce     json
//
// @Param       id             path    string  true   "Session ID (UUID)"  format(uuid)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {object}  handlers.SessionView
// @Header      200  {string}  ETag  "Weak ETag for current state"
// @Success     304  {string}  string "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions/{id} [get]
func (h *Handlers) GetSession(c *gin.Context) {
	s, err := h.sessSvc.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}

	if notModified(c, sessionETag(s)) {
		return
	}
	ok(c, http.StatusOK, h.newSessionView(s))
}

// ResetChat godoc
// @ID          resetChat
// @Summary     Clear the conversation
// @Description Drops history, product context and counters; intake restarts at the first question.
// @Description Login state and the selected expert mode are kept.
// @Tags        Sessions
// @Produce     json
// @Param       id   path  string  true  "Session ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.SessionView
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sessions/{id}/chat [delete]
func (h *Handlers) ResetChat(c *gin.Context) {
	s, err := h.sessSvc.Reset(c.Request.Context(), sessionID(c))
	if err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}
	ok(c, http.StatusOK, h.newSessionView(s))
}

// SelectMode godoc
// @ID          selectMode
// @Summary     Select the expert mode
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       id    path  string                      true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.SelectModeRequest  true  "Mode name"
// @Success     200  {object}  handlers.SessionView
// @Failure     400  {object}  handlers.ErrorResponse  "Unknown mode"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Router      /sessions/{id}/mode [put]
func (h *Handlers) SelectMode(c *gin.Context) {
	var req SelectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Mode) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "mode required")
		return
	}
	s, err := h.sessSvc.SelectMode(c.Request.Context(), sessionID(c), strings.TrimSpace(req.Mode))
	if err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}
	ok(c, http.StatusOK, h.newSessionView(s))
}

// ListModes godoc
// @ID          listModes
// @Summary     List expert modes
// @Tags        Sessions
// @Produce     json
// @Success     200  {object}  handlers.ListModesResponse
// @Router      /modes [get]
func (h *Handlers) ListModes(c *gin.Context) {
	ok(c, http.StatusOK, ListModesResponse{Modes: domain.ExpertModes, Default: domain.DefaultExpertMode})
}
