// Account HTTP handlers.
//
// This file exposes the optional account endpoints:
//   - POST /accounts                 (sign up)
//   - POST /sessions/{id}/login      (log the session in)
//   - POST /sessions/{id}/logout     (back to guest)
//
// A mismatched identifier or secret always yields the same 401 so the
// response does not reveal which part was wrong.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest carries an identifier (an email address in practice)
// and a secret.
type CredentialsRequest struct {
	Identifier string `json:"identifier" example:"founder@acme.io"`
	Secret     string `json:"secret"     example:"correct horse battery staple"`
}

// SignUpResponse acknowledges a new account.
type SignUpResponse struct {
	Identifier string `json:"identifier" example:"founder@acme.io"`
}

// SignUp godoc
// @ID          signUp
// @Summary     Create an account
// @Description Stores the identifier with a SHA-256 digest of the secret. Signing up does not log in.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
// @Success     201  {object}  handlers.SignUpResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing identifier or secret"
// @Failure     409  {object}  handlers.ErrorResponse  "User already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /accounts [post]
func (h *Handlers) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.acctSvc.SignUp(c.Request.Context(), req.Identifier, req.Secret); err != nil {
		failService(c, err, ErrCodeCreateFailed, h.maxRunes)
		return
	}
	ok(c, http.StatusCreated, SignUpResponse{Identifier: req.Identifier})
}

// Login godoc
// @ID          login
// @Summary     Log a session in
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       id    path  string                       true  "Session ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
// @Success     200  {object}  handlers.SessionView
// @Failure     400  {object}  handlers.ErrorResponse  "Missing identifier or secret"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Router      /sessions/{id}/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	s, err := h.acctSvc.Login(c.Request.Context(), sessionID(c), req.Identifier, req.Secret)
	if err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}
	ok(c, http.StatusOK, h.newSessionView(s))
}

// Logout godoc
// @ID          logout
// @Summary     Log a session out
// @Tags        Accounts
// @Produce     json
// @Param       id  path  string  true  "Session ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.SessionView
// @Failure     404  {object}  handlers.ErrorResponse  "Session not found"
// @Router      /sessions/{id}/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	s, err := h.acctSvc.Logout(c.Request.Context(), sessionID(c))
	if err != nil {
		failService(c, err, ErrCodeInternal, h.maxRunes)
		return
	}
	ok(c, http.StatusOK, h.newSessionView(s))
}
