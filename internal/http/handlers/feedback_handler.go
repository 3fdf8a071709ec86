// Feedback HTTP handlers.
//
// This file exposes the REST endpoint for submitting session feedback:
//   - POST /sessions/{id}/feedback
//
// Feedback is accepted once per session (until the chat is cleared) and only
// after the advisor has been used enough times; see SessionView.FeedbackDue.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubmitFeedbackRequest is the JSON payload for session feedback.
type SubmitFeedbackRequest struct {
	// Helpful is the verdict. It is required so that false is explicit.
	Helpful *bool `json:"helpful" binding:"required" example:"false"`
	// Comment is optional; a negative verdict without one is stored with a placeholder.
	Comment string `json:"comment,omitempty" example:"Too generic"`
}

// SubmitFeedback godoc
// @ID          submitFeedback
// @Summary     Submit feedback
// @Description Records whether the advice was helpful, with an optional comment.
// @Tags        Feedback
// @Accept      json
// @Produce     json
//
// @Param       id    path  string                          true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.SubmitFeedbackRequest  true  "Feedback payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Session not found"
// @Failure     409  {object} handlers.ErrorResponse "Feedback already submitted or not due"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /sessions/{id}/feedback [post]
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Helpful == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "helpful must be true or false")
		return
	}

	if err := h.fbSvc.Submit(c.Request.Context(), sessionID(c), *req.Helpful, req.Comment); err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}
	noContent(c)
}
