// Package repo implements the data persistence layer for domain entities.
// This file provides the append-only feedback and analytics logs.
//
// Layouts:
//
//	feedback.csv:  time,helpful,comment,expert_mode
//	analytics.csv: time,event
//
// Both logs are write-only from the application's point of view; reads exist
// only to count rows for display.
//
// Usage:
//
//	fb := repo.NewFeedbackLog("feedback.csv")
//	err := fb.Append(domain.FeedbackRecord{Time: now, Helpful: false, Comment: "No comment provided", ExpertMode: "Idea Validator"})
package repo

import (
	"strconv"
	"time"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// Headers of the event logs.
var (
	FeedbackHeader  = []string{"time", "helpful", "comment", "expert_mode"}
	AnalyticsHeader = []string{"time", "event"}
)

// FeedbackLog appends feedback records.
type FeedbackLog struct{ log *CSVLog }

// NewFeedbackLog returns a feedback log backed by the CSV file at path.
func NewFeedbackLog(path string) *FeedbackLog {
	return &FeedbackLog{log: NewCSVLog(path, FeedbackHeader...)}
}

// Append writes one feedback row. helpful is stored as "true"/"false".
func (l *FeedbackLog) Append(rec domain.FeedbackRecord) error {
	return l.log.Append([]string{
		formatTime(rec.Time),
		strconv.FormatBool(rec.Helpful),
		rec.Comment,
		rec.ExpertMode,
	})
}

// Count returns the number of feedback entries and whether the log exists.
func (l *FeedbackLog) Count() (int, bool, error) { return l.log.Count() }

// AnalyticsLog appends usage events.
type AnalyticsLog struct{ log *CSVLog }

// NewAnalyticsLog returns an analytics log backed by the CSV file at path.
func NewAnalyticsLog(path string) *AnalyticsLog {
	return &AnalyticsLog{log: NewCSVLog(path, AnalyticsHeader...)}
}

// Append writes one event row.
func (l *AnalyticsLog) Append(rec domain.AnalyticsRecord) error {
	return l.log.Append([]string{formatTime(rec.Time), rec.Event})
}

// Count returns the number of events and whether the log exists.
func (l *AnalyticsLog) Count() (int, bool, error) { return l.log.Count() }

// formatTime renders t as an RFC 3339 UTC timestamp.
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
