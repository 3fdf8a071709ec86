// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders. Session responses carry a founder's
// product description and chat history, so they are marked no-store; the
// Swagger UI is the only HTML the server renders and gets the only
// script-permitting Content-Security-Policy.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Content-Security-Policy values.
const (
	apiCSP  = "default-src 'none'; frame-ancestors 'none'"
	docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; frame-ancestors 'none'"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests only.
	EnableHSTS bool
	// HSTSMaxAge defaults to 180 days.
	HSTSMaxAge time.Duration
	// NoStorePrefixes lists path prefixes whose responses must not be cached.
	NoStorePrefixes []string
	// DocsPrefix is the path prefix of the Swagger UI, if mounted.
	DocsPrefix string
	// Expose lists response headers browser clients may read.
	Expose []string
}

// SecurityHeaders returns a middleware that sets the hardening headers on
// every response:
//
//   - X-Content-Type-Options, X-Frame-Options, Referrer-Policy and
//     Permissions-Policy always;
//   - Content-Security-Policy, relaxed under DocsPrefix;
//   - Cache-Control: no-store (plus Pragma) under NoStorePrefixes;
//   - Strict-Transport-Security when enabled and the request is HTTPS.
//
// Expose, and X-Request-ID when already set, are appended to
// Access-Control-Expose-Headers.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int64(opt.HSTSMaxAge / time.Second)
	if maxAge <= 0 {
		maxAge = int64((180 * 24 * time.Hour) / time.Second)
	}
	hsts := "max-age=" + strconv.FormatInt(maxAge, 10) + "; includeSubDomains"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		path := c.Request.URL.Path

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		if opt.DocsPrefix != "" && strings.HasPrefix(path, opt.DocsPrefix) {
			h.Set("Content-Security-Policy", docsCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
		}

		for _, p := range opt.NoStorePrefixes {
			if p != "" && strings.HasPrefix(path, p) {
				h.Set("Cache-Control", "no-store")
				h.Set("Pragma", "no-cache")
				break
			}
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		expose(h, opt.Expose)
		c.Next()
	}
}

// expose appends names to Access-Control-Expose-Headers without
// duplicates.
func expose(h http.Header, names []string) {
	const hdr = "Access-Control-Expose-Headers"
	if h.Get("X-Request-ID") != "" {
		names = append([]string{"X-Request-ID"}, names...)
	}
	cur := h.Get(hdr)
	for _, name := range names {
		if containsToken(cur, name) {
			continue
		}
		if cur == "" {
			cur = name
		} else {
			cur += ", " + name
		}
	}
	if cur != "" {
		h.Set(hdr, cur)
	}
}

func containsToken(list, token string) bool {
	for _, part := range strings.Split(list, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the request used TLS directly or through a proxy
// that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
