// Package repo implements the data persistence layer for domain entities.
// This file provides small aggregate queries used by the stats endpoint and
// the CLI: session totals from the database and row counts of the event
// logs.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/domain"
)

// SessionsStats returns the number of live sessions and the greatest
// UpdatedAt among them. When there are none, count is 0 and maxUpdatedAt is
// nil.
func SessionsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Session{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// Counter is implemented by the event logs.
type Counter interface {
	Count() (int, bool, error)
}

// LogStats summarizes the event logs. A log that has never been written
// reports Has*=false and a zero count.
type LogStats struct {
	FeedbackEntries int  `json:"feedback_entries"`
	HasFeedback     bool `json:"has_feedback"`
	MessagesSent    int  `json:"messages_sent"`
	HasAnalytics    bool `json:"has_analytics"`
}

// CollectLogStats counts the rows of the feedback and analytics logs.
func CollectLogStats(feedback, analytics Counter) (LogStats, error) {
	var st LogStats
	var err error
	if st.FeedbackEntries, st.HasFeedback, err = feedback.Count(); err != nil {
		return LogStats{}, err
	}
	if st.MessagesSent, st.HasAnalytics, err = analytics.Count(); err != nil {
		return LogStats{}, err
	}
	return st, nil
}
