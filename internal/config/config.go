// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, storage paths, the completion service, rate limiting, and
// observability.
//
// A malformed value (e.g. RATE_BURST=ten) is an error rather than a silent
// fallback to the default, and Load reports every problem at once.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OpenAIConfig defines the completion service settings.
type OpenAIConfig struct {
	APIKey      string  // OPENAI_API_KEY; empty disables advice turns
	BaseURL     string  // OPENAI_BASE_URL (optional, e.g. an OpenRouter endpoint)
	Model       string  // OPENAI_MODEL
	Temperature float64 // OPENAI_TEMPERATURE in [0..2]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration // covers the completion call on advice turns
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// Storage. Relative paths resolve against DataDir.
	DataDir       string
	DBPath        string // sessions and turn replays
	UsersFile     string // credential store
	FeedbackFile  string // feedback log
	AnalyticsFile string // analytics log

	// Advisor
	OpenAI          OpenAIConfig
	FeedbackAfter   int // post-intake messages before feedback is requested
	MaxMessageRunes int // per-message cap at the edge

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration

	// Observability
	OTEL OTELConfig
}

// Load reads the environment, applies defaults, normalizes and validates.
// The returned error joins every parse and validation failure.
func Load() (Config, error) {
	e := &env{}
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		ReadTimeout:       e.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.dur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       e.dur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    e.int("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(e.str("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(e.str("LOG_LEVEL", "info")),
		LogPretty:      e.bool("LOG_PRETTY", false),
		SwaggerEnabled: e.bool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		DataDir:       e.str("ADVISOR_DATA_DIR", "."),
		DBPath:        e.str("DB_PATH", "advisor.db"),
		UsersFile:     e.str("USERS_FILE", "users.csv"),
		FeedbackFile:  e.str("FEEDBACK_FILE", "feedback.csv"),
		AnalyticsFile: e.str("ANALYTICS_FILE", "analytics.csv"),

		OpenAI: OpenAIConfig{
			APIKey:      e.str("OPENAI_API_KEY", ""),
			BaseURL:     e.str("OPENAI_BASE_URL", ""),
			Model:       e.str("OPENAI_MODEL", "gpt-4.1-mini"),
			Temperature: e.float("OPENAI_TEMPERATURE", 0.4),
		},
		FeedbackAfter:   e.int("FEEDBACK_AFTER", 3),
		MaxMessageRunes: e.int("MAX_MESSAGE_RUNES", 4000),

		RateRPS:   e.float("RATE_RPS", 1.0),
		RateBurst: e.int("RATE_BURST", 5),

		CORS: CORSConfig{AllowedOrigins: splitCSV(e.str("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: e.bool("ENABLE_HSTS", false),
			HSTSMaxAge: e.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: e.dur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     e.bool("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "startup-advisor"),
			SampleRatio: e.float("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	cfg.normalize()
	return cfg, errors.Join(append(e.errs, cfg.validate()...)...)
}

func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		c.GinMode = "release"
	}
	for _, p := range []*string{&c.DBPath, &c.UsersFile, &c.FeedbackFile, &c.AnalyticsFile} {
		*p = resolve(c.DataDir, *p)
	}
}

func (c *Config) validate() []error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(strings.TrimSpace(c.Port) != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")
	check(strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty")
	check(strings.TrimSpace(c.UsersFile) != "" && strings.TrimSpace(c.FeedbackFile) != "" && strings.TrimSpace(c.AnalyticsFile) != "",
		"USERS_FILE, FEEDBACK_FILE and ANALYTICS_FILE must not be empty")
	check(strings.TrimSpace(c.OpenAI.Model) != "", "OPENAI_MODEL must not be empty")
	check(c.OpenAI.Temperature >= 0 && c.OpenAI.Temperature <= 2, "OPENAI_TEMPERATURE must be between 0 and 2")
	check(c.FeedbackAfter >= 0, "FEEDBACK_AFTER must be >= 0")
	check(c.MaxMessageRunes >= 1, "MAX_MESSAGE_RUNES must be >= 1")
	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	return errs
}

// env reads typed variables and collects parse errors. Unset or empty
// variables yield the default.
type env struct{ errs []error }

func (e *env) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) fail(k, v, kind string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q is not a valid %s", k, v, kind))
}

func (e *env) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *env) int(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.fail(k, v, "integer")
		return def
	}
	return i
}

func (e *env) float(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(k, v, "number")
		return def
	}
	return f
}

func (e *env) bool(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.fail(k, v, "boolean")
	return def
}

func (e *env) dur(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(k, v, "duration")
		return def
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolve joins a relative p onto dir. Absolute paths, empty values and
// SQLite URIs ("file:...") are returned unchanged.
func resolve(dir, p string) string {
	if p == "" || dir == "" || dir == "." || filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

// normalizeBasePath ensures a leading '/' and strips trailing ones (except
// root).
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
