package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/gramseva/apiserver/internal/store"
	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotifier records published change events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []types.ChangeEvent
}

func (f *fakeNotifier) Publish(ctx context.Context, event types.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeComplaintRepo struct {
	complaints map[string]types.Complaint
	nextID     int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]types.Complaint)}
}

func (f *fakeComplaintRepo) List(ctx context.Context, userID string, offset, limit int) ([]types.Complaint, int, error) {
	var items []types.Complaint
	for _, c := range f.complaints {
		if userID == "" || c.UserID == userID {
			items = append(items, c)
		}
	}
	return items, len(items), nil
}

func (f *fakeComplaintRepo) Get(ctx context.Context, id string) (types.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return types.Complaint{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeComplaintRepo) Create(ctx context.Context, complaint types.Complaint) (types.Complaint, error) {
	f.nextID++
	complaint.ID = fmt.Sprintf("c-%d", f.nextID)
	complaint.Version = 1
	f.complaints[complaint.ID] = complaint
	return complaint, nil
}

func (f *fakeComplaintRepo) UpdateStatus(ctx context.Context, complaint types.Complaint) (types.Complaint, error) {
	current, ok := f.complaints[complaint.ID]
	if !ok {
		return types.Complaint{}, store.ErrNotFound
	}
	if current.Version != complaint.Version {
		return types.Complaint{}, store.ErrVersionConflict
	}
	complaint.Version++
	f.complaints[complaint.ID] = complaint
	return complaint, nil
}

var (
	citizen = types.Profile{ID: "citizen-1", Role: types.RoleCitizen}
	staff   = types.Profile{ID: "staff-1", Role: types.RoleStaff}
	admin   = types.Profile{ID: "admin-1", Role: types.RoleAdmin}
)

func TestComplaintCreate(t *testing.T) {
	repo := newFakeComplaintRepo()
	notifier := &fakeNotifier{}
	svc := NewComplaintService(repo, notifier)

	created, err := svc.Create(context.Background(), citizen, "Broken streetlight", "The light at the corner is out.", "Electricity", "Ward 4")
	require.NoError(t, err)
	assert.Equal(t, types.ComplaintPending, created.Status)
	assert.Equal(t, citizen.ID, created.UserID)
	assert.Empty(t, created.AssignedTo)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, types.TableComplaints, notifier.events[0].Table)
	assert.Equal(t, types.ChangeCreated, notifier.events[0].Action)
}

func TestComplaintCreateValidation(t *testing.T) {
	svc := NewComplaintService(newFakeComplaintRepo(), &fakeNotifier{})

	_, err := svc.Create(context.Background(), citizen, "  ", "desc", "Electricity", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), citizen, "title", "desc", "Potholes", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestComplaintTransitionRequiresModerator(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, &fakeNotifier{})

	created, err := svc.Create(context.Background(), citizen, "title", "desc", "Other", "")
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), citizen, created.ID, types.ComplaintMarkInProgress)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestComplaintTransitionAssignsStaff(t *testing.T) {
	repo := newFakeComplaintRepo()
	notifier := &fakeNotifier{}
	svc := NewComplaintService(repo, notifier)

	created, err := svc.Create(context.Background(), citizen, "title", "desc", "Sanitation", "")
	require.NoError(t, err)

	updated, err := svc.Transition(context.Background(), staff, created.ID, types.ComplaintMarkInProgress)
	require.NoError(t, err)
	assert.Equal(t, types.ComplaintInProgress, updated.Status)
	assert.Equal(t, staff.ID, updated.AssignedTo)
	assert.Equal(t, 2, updated.Version)

	resolved, err := svc.Transition(context.Background(), admin, created.ID, types.ComplaintMarkResolved)
	require.NoError(t, err)
	assert.Equal(t, types.ComplaintResolved, resolved.Status)
	// assignee is set once, on the move into in-progress
	assert.Equal(t, staff.ID, resolved.AssignedTo)
}

func TestComplaintTransitionIllegal(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, &fakeNotifier{})

	created, err := svc.Create(context.Background(), citizen, "title", "desc", "Other", "")
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), staff, created.ID, types.ComplaintMarkResolved)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(context.Background(), staff, created.ID, types.ComplaintMarkRejected)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), staff, created.ID, types.ComplaintMarkInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplaintGetVisibility(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, &fakeNotifier{})

	created, err := svc.Create(context.Background(), citizen, "title", "desc", "Other", "")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), citizen, created.ID)
	assert.NoError(t, err)

	other := types.Profile{ID: "citizen-2", Role: types.RoleCitizen}
	_, err = svc.Get(context.Background(), other, created.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Get(context.Background(), staff, created.ID)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), staff, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComplaintListScopedByRole(t *testing.T) {
	repo := newFakeComplaintRepo()
	svc := NewComplaintService(repo, &fakeNotifier{})

	other := types.Profile{ID: "citizen-2", Role: types.RoleCitizen}
	_, err := svc.Create(context.Background(), citizen, "one", "desc", "Other", "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), other, "two", "desc", "Other", "")
	require.NoError(t, err)

	mine, total, err := svc.List(context.Background(), citizen, 0, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, 1, total)

	all, total, err := svc.List(context.Background(), staff, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)
}
