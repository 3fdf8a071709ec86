// Package httpapi mounts the advisor's REST API on a Gin engine: the
// session turn loop, feedback, accounts and stats endpoints, plus health,
// metrics and the optional Swagger UI. Every request passes the same
// middleware chain; its order is documented on RegisterRoutes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/docs"
	"github.com/tbourn/go-startup-advisor/internal/app"
	"github.com/tbourn/go-startup-advisor/internal/config"
	"github.com/tbourn/go-startup-advisor/internal/http/handlers"
	"github.com/tbourn/go-startup-advisor/internal/http/middleware"
	"github.com/tbourn/go-startup-advisor/internal/repo"
)

const (
	// maxBodyBytes caps every request body.
	maxBodyBytes = 1 << 20
	// maxIdempotencyKey bounds the Idempotency-Key header.
	maxIdempotencyKey = 200
	swaggerPrefix     = "/swagger/"
)

// RegisterRoutes installs the middleware chain and every endpoint on r.
//
// Order:
//  1. otelgin span per request
//  2. RequestID
//  3. RedactingLogger (scoped logger with request and session IDs)
//  4. Recovery, which logs through the scoped logger
//  5. body size cap
//  6. Prometheus metrics
//  7. Idempotency-Key validation and replay lookup
//  8. per-session rate limiting, skipped for replays
//  9. gzip
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, a *app.App, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.RedactingLogger(middleware.RedactOptions{MaskHeaders: []string{"X-API-Key"}}),
		middleware.Recovery(),
		limitBody(maxBodyBytes),
		middleware.Metrics(),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: maxIdempotencyKey}, replayLookup(a.DB)),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyBySessionOrIP()).Handler(),
		gzip.Gzip(gzip.DefaultCompression),
		corsPolicy(cfg.CORS.AllowedOrigins),
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS:      cfg.Security.EnableHSTS,
			HSTSMaxAge:      cfg.Security.HSTSMaxAge,
			NoStorePrefixes: []string{strings.TrimRight(cfg.APIBasePath, "/") + "/sessions"},
			DocsPrefix:      swaggerPrefix,
			Expose:          []string{"ETag", middleware.HeaderIdempotencyReplayed},
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET(swaggerPrefix+"*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Deps{
		Sessions:        a.Sessions,
		Feedback:        a.Reviews,
		Accounts:        a.Accounts,
		Stats:           a.Stats,
		DB:              a.DB,
		IdempotencyTTL:  cfg.IdempotencyTTL,
		MaxMessageRunes: cfg.MaxMessageRunes,
	})

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.GET("/modes", h.ListModes)
	api.GET("/stats", h.GetStats)
	api.POST("/accounts", h.SignUp)

	sess := api.Group("/sessions")
	sess.POST("", h.CreateSession)
	sess.GET("/:id", h.GetSession)
	sess.DELETE("/:id/chat", h.ResetChat)
	sess.PUT("/:id/mode", h.SelectMode)
	sess.GET("/:id/messages", h.ListMessages)
	sess.POST("/:id/messages", h.PostMessage)
	sess.POST("/:id/feedback", h.SubmitFeedback)
	sess.POST("/:id/login", h.Login)
	sess.POST("/:id/logout", h.Logout)
}

// replayLookup reports whether a live turn replay exists. Missing rows are
// a miss, not an error.
func replayLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, sessionID, key string, now time.Time) (bool, error) {
		_, err := repo.FindReplay(ctx, db, sessionID, key, now)
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}
}

// corsPolicy allows every origin when origins is empty and otherwise only
// the listed ones. Credentials are never allowed.
func corsPolicy(origins []string) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotencyReplayed},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cors.New(cc)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
