package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gramseva/apiserver/types"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (types.Profile, error)
	GetByEmail(ctx context.Context, email string) (types.Profile, error)
	Create(ctx context.Context, profile types.Profile) (types.Profile, error)
	CreateIfAbsent(ctx context.Context, profile types.Profile) (types.Profile, error)
	Update(ctx context.Context, profile types.Profile) (types.Profile, error)
	UpdateRole(ctx context.Context, id string, role types.Role) (types.Profile, error)
	ListByRole(ctx context.Context, role types.Role) ([]types.Profile, error)
}

// ProfileService resolves authenticated principals to profiles and
// carries the admin staff-management operations.
type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) GetByID(ctx context.Context, id string) (types.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProfileService) GetByEmail(ctx context.Context, email string) (types.Profile, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Create registers a new profile. Role defaults to citizen unless the
// signup metadata carries a valid role.
func (s *ProfileService) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if !profile.Role.Valid() {
		profile.Role = types.RoleCitizen
	}
	return s.repo.Create(ctx, profile)
}

// Ensure resolves an authenticated subject to a profile, synthesizing a
// default citizen profile when none exists. Two sessions ensuring the
// same subject concurrently converge on one row.
func (s *ProfileService) Ensure(ctx context.Context, id, name, email string) (types.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	return s.repo.CreateIfAbsent(ctx, types.Profile{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  types.RoleCitizen,
	})
}

// UpdateContact lets a profile owner change name, phone, and address.
func (s *ProfileService) UpdateContact(ctx context.Context, actor types.Profile, name, phone, address string) (types.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Profile{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	actor.Name = name
	actor.Phone = strings.TrimSpace(phone)
	actor.Address = strings.TrimSpace(address)
	return s.repo.Update(ctx, actor)
}

// ListStaff returns all staff profiles. Admin only.
func (s *ProfileService) ListStaff(ctx context.Context, actor types.Profile) ([]types.Profile, error) {
	if actor.Role != types.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByRole(ctx, types.RoleStaff)
}

// PromoteStaff raises the profile registered under email to staff.
// Admin only; admins cannot be demoted this way.
func (s *ProfileService) PromoteStaff(ctx context.Context, actor types.Profile, email string) (types.Profile, error) {
	if actor.Role != types.RoleAdmin {
		return types.Profile{}, ErrUnauthorized
	}

	profile, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return types.Profile{}, err
	}
	if profile.Role == types.RoleAdmin {
		return types.Profile{}, fmt.Errorf("%w: cannot change an admin role", ErrValidation)
	}
	if profile.Role == types.RoleStaff {
		return profile, nil
	}
	return s.repo.UpdateRole(ctx, profile.ID, types.RoleStaff)
}

// DemoteStaff returns a staff profile to citizen. The profile row is
// never deleted.
func (s *ProfileService) DemoteStaff(ctx context.Context, actor types.Profile, id string) (types.Profile, error) {
	if actor.Role != types.RoleAdmin {
		return types.Profile{}, ErrUnauthorized
	}

	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	if profile.Role != types.RoleStaff {
		return types.Profile{}, fmt.Errorf("%w: profile is not staff", ErrValidation)
	}
	return s.repo.UpdateRole(ctx, profile.ID, types.RoleCitizen)
}
