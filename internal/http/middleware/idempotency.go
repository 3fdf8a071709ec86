// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the Idempotency-Key header on unsafe requests. A
// client that retries POST /sessions/:id/messages with the same key must not
// advance the intake twice or pay for a second completion, so the validator
// asks a lookup whether the (session, key) pair already has a stored reply
// and marks the request as a replay. Handlers then serve the stored reply
// and the rate limiter lets replays through without spending a token.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed marks a response served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemMaxLen = 200
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored reply for this request.
func IsReplay(c *gin.Context) bool {
	return c.GetBool(ctxKeyIdemReplay)
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length; values <= 0 mean 200.
	MaxLen int
	// Pattern restricts allowed characters; nil means [A-Za-z0-9._~:-]+.
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether a still-valid reply exists for
// (sessionID, key) at now. Expiry is the lookup's concern.
type IdempotencyLookup func(ctx context.Context, sessionID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator checks the Idempotency-Key header on POST, PUT,
// PATCH and DELETE requests:
//
//   - absent header or safe method: no-op;
//   - malformed key: 400 with the standard error envelope;
//   - valid key: stashed for GetIdempotencyKey, and on session routes the
//     lookup runs. A hit marks the request as a replay and exempts it from
//     rate limiting. A lookup error is logged and treated as a miss.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemMaxLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}
	invalid := "invalid Idempotency-Key: up to " + strconv.Itoa(maxLen) + " characters matching " + pat.String()

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !unsafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    invalid,
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		sessionID := c.Param("id")
		if lookup != nil && sessionID != "" {
			exists, err := lookup(c.Request.Context(), sessionID, key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

func unsafeMethod(m string) bool {
	switch m {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
