// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Labels are
// bounded: the route label is the registered Gin pattern (e.g.
// /api/v1/sessions/:id/messages), or "unmatched" when no route matched, so
// probing random URLs cannot grow the series count.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// httpLat omits status to keep the histogram small. Completion calls
	// dominate advice turns, hence the long tail buckets.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		},
	)

	// httpReplays counts responses served from a stored idempotency record.
	httpReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_idempotent_replays_total",
			Help: "Responses replayed for a repeated Idempotency-Key.",
		},
		[]string{"route"},
	)

	// httpRateLimited counts 429s by bucket namespace (session or ip).
	httpRateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		},
		[]string{"scope"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpReplays, httpRateLimited)
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
// Usage:
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if c.Writer.Header().Get(HeaderIdempotencyReplayed) == "true" {
			httpReplays.WithLabelValues(route).Inc()
		}
	}
}
