package services

import (
	"context"
	"time"

	"github.com/gramseva/apiserver/types"
)

// resolvedWindow is the trailing interval counted as "this week".
const resolvedWindow = 7 * 24 * time.Hour

// StatsRepository defines the aggregate count queries.
type StatsRepository interface {
	CountOpenComplaints(ctx context.Context) (int, error)
	CountPendingDocuments(ctx context.Context) (int, error)
	CountResolvedSince(ctx context.Context, cutoff time.Time) (int, error)
	CountProfiles(ctx context.Context) (int, error)
}

// StatsService computes the dashboard aggregates. Counts are recomputed
// per call; consumers re-request on every change event.
type StatsService struct {
	repo StatsRepository
	now  func() time.Time
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{repo: repo, now: time.Now}
}

func (s *StatsService) Dashboard(ctx context.Context) (types.DashboardStats, error) {
	var stats types.DashboardStats
	var err error

	if stats.OpenComplaints, err = s.repo.CountOpenComplaints(ctx); err != nil {
		return types.DashboardStats{}, err
	}
	if stats.PendingDocuments, err = s.repo.CountPendingDocuments(ctx); err != nil {
		return types.DashboardStats{}, err
	}
	cutoff := s.now().Add(-resolvedWindow)
	if stats.ResolvedThisWeek, err = s.repo.CountResolvedSince(ctx, cutoff); err != nil {
		return types.DashboardStats{}, err
	}
	if stats.RegisteredCitizens, err = s.repo.CountProfiles(ctx); err != nil {
		return types.DashboardStats{}, err
	}
	return stats, nil
}
