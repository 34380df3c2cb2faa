package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gramseva/apiserver/types"
)

// AnnouncementRepository handles persistence for announcements.
type AnnouncementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementColumns = `id, title, content, category, important, created_by, created_at, updated_at`

func (r *AnnouncementRepository) List(ctx context.Context, offset, limit int) ([]types.Announcement, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM announcements`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT ` + announcementColumns + `
		FROM announcements
		ORDER BY important DESC, created_at DESC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	announcements := make([]types.Announcement, 0, limit)
	for rows.Next() {
		var a types.Announcement
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Content,
			&a.Category,
			&a.Important,
			&a.CreatedBy,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

func (r *AnnouncementRepository) Get(ctx context.Context, id string) (types.Announcement, error) {
	const query = `
		SELECT ` + announcementColumns + `
		FROM announcements
		WHERE id = $1`
	var a types.Announcement
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&a.Category,
		&a.Important,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Announcement{}, ErrNotFound
		}
		return types.Announcement{}, err
	}
	return a, nil
}

func (r *AnnouncementRepository) Create(ctx context.Context, a types.Announcement) (types.Announcement, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO announcements (id, title, content, category, important, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		a.ID,
		a.Title,
		a.Content,
		a.Category,
		a.Important,
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	); err != nil {
		return types.Announcement{}, err
	}
	return a, nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, a types.Announcement) (types.Announcement, error) {
	a.UpdatedAt = time.Now()

	const query = `
		UPDATE announcements
		SET title = $1,
			content = $2,
			category = $3,
			important = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		a.Title,
		a.Content,
		a.Category,
		a.Important,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return types.Announcement{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Announcement{}, err
	}
	if affected == 0 {
		return types.Announcement{}, ErrNotFound
	}
	return r.Get(ctx, a.ID)
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM announcements WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
