package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gramseva/apiserver/types"
)

// DocumentRepository handles persistence for document requests.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, user_id, document_type, purpose, additional_notes, details, attachments,
		       status, verified_by, approved_by, rejection_reason, version, created_at, updated_at`

func scanDocumentRow(scan func(dest ...any) error) (types.DocumentRequest, error) {
	var request types.DocumentRequest
	var detailsJSON, attachmentsJSON []byte
	var verifiedBy, approvedBy sql.NullString
	err := scan(
		&request.ID,
		&request.UserID,
		&request.DocumentType,
		&request.Purpose,
		&request.AdditionalNotes,
		&detailsJSON,
		&attachmentsJSON,
		&request.Status,
		&verifiedBy,
		&approvedBy,
		&request.RejectionReason,
		&request.Version,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return types.DocumentRequest{}, err
	}

	_ = json.Unmarshal(detailsJSON, &request.Details)
	_ = json.Unmarshal(attachmentsJSON, &request.Attachments)
	request.VerifiedBy = verifiedBy.String
	request.ApprovedBy = approvedBy.String
	return request, nil
}

// List returns a page of document requests, newest first. An empty
// userID returns all requests; otherwise only the user's own rows.
func (r *DocumentRepository) List(ctx context.Context, userID string, offset, limit int) ([]types.DocumentRequest, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `
		SELECT COUNT(1)
		FROM document_requests
		WHERE $1 = '' OR user_id::text = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT ` + documentColumns + `
		FROM document_requests
		WHERE $1 = '' OR user_id::text = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]types.DocumentRequest, 0, limit)
	for rows.Next() {
		request, err := scanDocumentRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (types.DocumentRequest, error) {
	const query = `
		SELECT ` + documentColumns + `
		FROM document_requests
		WHERE id = $1`
	request, err := scanDocumentRow(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DocumentRequest{}, ErrNotFound
		}
		return types.DocumentRequest{}, err
	}
	return request, nil
}

func (r *DocumentRepository) Create(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error) {
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	request.Version = 1
	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	detailsJSON, err := json.Marshal(request.Details)
	if err != nil {
		return types.DocumentRequest{}, err
	}
	attachmentsJSON, err := json.Marshal(request.Attachments)
	if err != nil {
		return types.DocumentRequest{}, err
	}

	const query = `
		INSERT INTO document_requests (
			id, user_id, document_type, purpose, additional_notes, details, attachments,
			status, verified_by, approved_by, rejection_reason, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		request.ID,
		request.UserID,
		request.DocumentType,
		request.Purpose,
		request.AdditionalNotes,
		detailsJSON,
		attachmentsJSON,
		request.Status,
		nullableID(request.VerifiedBy),
		nullableID(request.ApprovedBy),
		request.RejectionReason,
		request.Version,
		request.CreatedAt,
		request.UpdatedAt,
	); err != nil {
		return types.DocumentRequest{}, err
	}
	return request, nil
}

// UpdateStatus persists a transition outcome, conditional on the
// version the caller read.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error) {
	request.UpdatedAt = time.Now()

	const query = `
		UPDATE document_requests
		SET status = $1,
			verified_by = $2,
			approved_by = $3,
			rejection_reason = $4,
			updated_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		request.Status,
		nullableID(request.VerifiedBy),
		nullableID(request.ApprovedBy),
		request.RejectionReason,
		request.UpdatedAt,
		request.ID,
		request.Version,
	)
	if err != nil {
		return types.DocumentRequest{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.DocumentRequest{}, err
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, request.ID); errors.Is(getErr, ErrNotFound) {
			return types.DocumentRequest{}, ErrNotFound
		}
		return types.DocumentRequest{}, ErrVersionConflict
	}

	request.Version++
	return request, nil
}
