package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	open       int
	pending    int
	resolvedAt []time.Time
	profiles   int
	err        error
}

func (f *fakeStatsRepo) CountOpenComplaints(ctx context.Context) (int, error) {
	return f.open, f.err
}

func (f *fakeStatsRepo) CountPendingDocuments(ctx context.Context) (int, error) {
	return f.pending, f.err
}

func (f *fakeStatsRepo) CountResolvedSince(ctx context.Context, cutoff time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, at := range f.resolvedAt {
		if at.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStatsRepo) CountProfiles(ctx context.Context) (int, error) {
	return f.profiles, f.err
}

func TestDashboard(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeStatsRepo{
		open:     4,
		pending:  7,
		profiles: 120,
		resolvedAt: []time.Time{
			now.Add(-time.Hour),
			now.Add(-6 * 24 * time.Hour),
			now.Add(-8 * 24 * time.Hour), // outside the trailing week
		},
	}

	svc := NewStatsService(repo)
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.DashboardStats{
		OpenComplaints:     4,
		PendingDocuments:   7,
		ResolvedThisWeek:   2,
		RegisteredCitizens: 120,
	}, stats)
}

func TestDashboardPropagatesErrors(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewStatsService(&fakeStatsRepo{err: repoErr})

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, repoErr)
}
