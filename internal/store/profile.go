package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gramseva/apiserver/types"
	"github.com/lib/pq"
)

// ProfileRepository handles persistence for profiles.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, email, role, phone, address, password_hash, created_at, updated_at`

func scanProfile(row *sql.Row) (types.Profile, error) {
	var profile types.Profile
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Role,
		&profile.Phone,
		&profile.Address,
		&profile.PasswordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE email = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, email))
}

func (r *ProfileRepository) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO profiles (id, name, email, role, phone, address, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Role,
		profile.Phone,
		profile.Address,
		profile.PasswordHash,
		profile.CreatedAt,
		profile.UpdatedAt,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return types.Profile{}, ErrDuplicateEmail
		}
		return types.Profile{}, err
	}
	return profile, nil
}

// CreateIfAbsent inserts the profile unless a row with the same id
// already exists, and returns the stored row either way. Concurrent
// calls for the same id converge on a single row.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, profile types.Profile) (types.Profile, error) {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	const query = `
		INSERT INTO profiles (id, name, email, role, phone, address, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Role,
		profile.Phone,
		profile.Address,
		profile.PasswordHash,
		profile.CreatedAt,
		profile.UpdatedAt,
	); err != nil {
		return types.Profile{}, err
	}
	return r.GetByID(ctx, profile.ID)
}

// Update persists the profile's mutable contact fields. Role changes go
// through UpdateRole.
func (r *ProfileRepository) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.UpdatedAt = time.Now()

	const query = `
		UPDATE profiles
		SET name = $1,
			phone = $2,
			address = $3,
			updated_at = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		profile.Name,
		profile.Phone,
		profile.Address,
		profile.UpdatedAt,
		profile.ID,
	)
	if err != nil {
		return types.Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Profile{}, err
	}
	if affected == 0 {
		return types.Profile{}, ErrNotFound
	}
	return r.GetByID(ctx, profile.ID)
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role types.Role) (types.Profile, error) {
	const query = `
		UPDATE profiles
		SET role = $1,
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, role, time.Now(), id)
	if err != nil {
		return types.Profile{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Profile{}, err
	}
	if affected == 0 {
		return types.Profile{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProfileRepository) ListByRole(ctx context.Context, role types.Role) ([]types.Profile, error) {
	const query = `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = $1
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []types.Profile
	for rows.Next() {
		var profile types.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.Name,
			&profile.Email,
			&profile.Role,
			&profile.Phone,
			&profile.Address,
			&profile.PasswordHash,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
