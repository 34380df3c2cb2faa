package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/gramseva/apiserver/types"
)

// StatsRepository computes the dashboard aggregates with COUNT queries,
// never loading the underlying collections.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountOpenComplaints(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM complaints WHERE status <> $1`
	var total int
	err := r.db.QueryRowContext(ctx, query, types.ComplaintResolved).Scan(&total)
	return total, err
}

func (r *StatsRepository) CountPendingDocuments(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM document_requests WHERE status = $1`
	var total int
	err := r.db.QueryRowContext(ctx, query, types.DocumentPending).Scan(&total)
	return total, err
}

// CountResolvedSince counts complaints resolved at or after cutoff.
func (r *StatsRepository) CountResolvedSince(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `SELECT COUNT(1) FROM complaints WHERE status = $1 AND updated_at >= $2`
	var total int
	err := r.db.QueryRowContext(ctx, query, types.ComplaintResolved, cutoff).Scan(&total)
	return total, err
}

func (r *StatsRepository) CountProfiles(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM profiles`
	var total int
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}
