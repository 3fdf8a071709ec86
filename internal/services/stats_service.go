package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-startup-advisor/internal/repo"
)

// Stats is the internal usage summary.
type Stats struct {
	repo.LogStats
	Sessions int64 `json:"sessions"`
}

// StatsService reads usage counts from the event logs and the session
// table.
type StatsService struct {
	DB        *gorm.DB
	Feedback  repo.Counter
	Analytics repo.Counter
}

// Get collects the current counts.
func (s *StatsService) Get(ctx context.Context) (*Stats, error) {
	ls, err := repo.CollectLogStats(s.Feedback, s.Analytics)
	if err != nil {
		return nil, err
	}
	out := &Stats{LogStats: ls}
	if s.DB != nil {
		n, _, err := repo.SessionsStats(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out.Sessions = n
	}
	return out, nil
}
