package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gramseva/apiserver/types"
)

// ComplaintRepository handles persistence for complaints.
type ComplaintRepository struct {
	db *sql.DB
}

func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `id, user_id, title, description, category, location, status, assigned_to, version, created_at, updated_at`

func scanComplaintRow(scan func(dest ...any) error) (types.Complaint, error) {
	var complaint types.Complaint
	var assignedTo sql.NullString
	err := scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Location,
		&complaint.Status,
		&assignedTo,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
	if err != nil {
		return types.Complaint{}, err
	}
	complaint.AssignedTo = assignedTo.String
	return complaint, nil
}

// List returns a page of complaints, newest first. An empty userID
// returns all complaints; otherwise only the user's own rows.
func (r *ComplaintRepository) List(ctx context.Context, userID string, offset, limit int) ([]types.Complaint, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `
		SELECT COUNT(1)
		FROM complaints
		WHERE $1 = '' OR user_id::text = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE $1 = '' OR user_id::text = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	complaints := make([]types.Complaint, 0, limit)
	for rows.Next() {
		complaint, err := scanComplaintRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		complaints = append(complaints, complaint)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

func (r *ComplaintRepository) Get(ctx context.Context, id string) (types.Complaint, error) {
	const query = `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE id = $1`
	complaint, err := scanComplaintRow(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Complaint{}, ErrNotFound
		}
		return types.Complaint{}, err
	}
	return complaint, nil
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint types.Complaint) (types.Complaint, error) {
	now := time.Now()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	complaint.Version = 1
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO complaints (id, user_id, title, description, category, location, status, assigned_to, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		complaint.ID,
		complaint.UserID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Location,
		complaint.Status,
		nullableID(complaint.AssignedTo),
		complaint.Version,
		complaint.CreatedAt,
		complaint.UpdatedAt,
	); err != nil {
		return types.Complaint{}, err
	}
	return complaint, nil
}

// UpdateStatus persists a transition outcome. The update is conditional
// on the version the caller read; a concurrent transition in between
// fails with ErrVersionConflict.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, complaint types.Complaint) (types.Complaint, error) {
	complaint.UpdatedAt = time.Now()

	const query = `
		UPDATE complaints
		SET status = $1,
			assigned_to = $2,
			updated_at = $3,
			version = version + 1
		WHERE id = $4 AND version = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		complaint.Status,
		nullableID(complaint.AssignedTo),
		complaint.UpdatedAt,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return types.Complaint{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Complaint{}, err
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, complaint.ID); errors.Is(getErr, ErrNotFound) {
			return types.Complaint{}, ErrNotFound
		}
		return types.Complaint{}, ErrVersionConflict
	}

	complaint.Version++
	return complaint, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
