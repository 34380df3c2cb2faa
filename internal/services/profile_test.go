package services

import (
	"context"
	"testing"

	"github.com/gramseva/apiserver/internal/store"
	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	profiles map[string]types.Profile
}

func newFakeProfileRepo(seed ...types.Profile) *fakeProfileRepo {
	f := &fakeProfileRepo{profiles: make(map[string]types.Profile)}
	for _, p := range seed {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (types.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (types.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return types.Profile{}, store.ErrNotFound
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile types.Profile) (types.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == profile.Email {
			return types.Profile{}, store.ErrDuplicateEmail
		}
	}
	if profile.ID == "" {
		profile.ID = "p-" + profile.Email
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) CreateIfAbsent(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if existing, ok := f.profiles[profile.ID]; ok {
		return existing, nil
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile types.Profile) (types.Profile, error) {
	if _, ok := f.profiles[profile.ID]; !ok {
		return types.Profile{}, store.ErrNotFound
	}
	f.profiles[profile.ID] = profile
	return profile, nil
}

func (f *fakeProfileRepo) UpdateRole(ctx context.Context, id string, role types.Role) (types.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return types.Profile{}, store.ErrNotFound
	}
	p.Role = role
	f.profiles[id] = p
	return p, nil
}

func (f *fakeProfileRepo) ListByRole(ctx context.Context, role types.Role) ([]types.Profile, error) {
	var out []types.Profile
	for _, p := range f.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestProfileCreateDefaultsRole(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo())

	created, err := svc.Create(context.Background(), types.Profile{
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  types.Role("mayor"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleCitizen, created.Role)

	staffUp, err := svc.Create(context.Background(), types.Profile{
		Name:  "Ravi",
		Email: "ravi@example.com",
		Role:  types.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, staffUp.Role)
}

func TestProfileEnsure(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	// first call synthesizes a citizen profile
	created, err := svc.Ensure(ctx, "sub-1", "Asha", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleCitizen, created.Role)

	// a later role change survives repeated ensures
	_, err = repo.UpdateRole(ctx, "sub-1", types.RoleStaff)
	require.NoError(t, err)

	again, err := svc.Ensure(ctx, "sub-1", "Asha", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, again.Role)
}

func TestPromoteStaff(t *testing.T) {
	target := types.Profile{ID: "p-1", Email: "ravi@example.com", Role: types.RoleCitizen}
	otherAdmin := types.Profile{ID: "p-2", Email: "root@example.com", Role: types.RoleAdmin}
	repo := newFakeProfileRepo(target, otherAdmin)
	svc := NewProfileService(repo)
	ctx := context.Background()

	_, err := svc.PromoteStaff(ctx, staff, target.Email)
	assert.ErrorIs(t, err, ErrUnauthorized)

	promoted, err := svc.PromoteStaff(ctx, admin, target.Email)
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, promoted.Role)

	// promoting again is a no-op
	again, err := svc.PromoteStaff(ctx, admin, target.Email)
	require.NoError(t, err)
	assert.Equal(t, types.RoleStaff, again.Role)

	_, err = svc.PromoteStaff(ctx, admin, otherAdmin.Email)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PromoteStaff(ctx, admin, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDemoteStaff(t *testing.T) {
	member := types.Profile{ID: "p-1", Email: "ravi@example.com", Role: types.RoleStaff}
	resident := types.Profile{ID: "p-2", Email: "asha@example.com", Role: types.RoleCitizen}
	repo := newFakeProfileRepo(member, resident)
	svc := NewProfileService(repo)
	ctx := context.Background()

	_, err := svc.DemoteStaff(ctx, staff, member.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	demoted, err := svc.DemoteStaff(ctx, admin, member.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RoleCitizen, demoted.Role)

	_, err = svc.DemoteStaff(ctx, admin, resident.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateContact(t *testing.T) {
	owner := types.Profile{ID: "p-1", Name: "Asha", Email: "asha@example.com", Role: types.RoleCitizen}
	repo := newFakeProfileRepo(owner)
	svc := NewProfileService(repo)

	updated, err := svc.UpdateContact(context.Background(), owner, " Asha K ", " 9876543210 ", "12 Main Road")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)
	assert.Equal(t, "9876543210", updated.Phone)
	assert.Equal(t, "12 Main Road", updated.Address)

	_, err = svc.UpdateContact(context.Background(), owner, "  ", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}
