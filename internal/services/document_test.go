package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/gramseva/apiserver/internal/store"
	"github.com/gramseva/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocumentRepo struct {
	requests map[string]types.DocumentRequest
	nextID   int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{requests: make(map[string]types.DocumentRequest)}
}

func (f *fakeDocumentRepo) List(ctx context.Context, userID string, offset, limit int) ([]types.DocumentRequest, int, error) {
	var items []types.DocumentRequest
	for _, r := range f.requests {
		if userID == "" || r.UserID == userID {
			items = append(items, r)
		}
	}
	return items, len(items), nil
}

func (f *fakeDocumentRepo) Get(ctx context.Context, id string) (types.DocumentRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return types.DocumentRequest{}, store.ErrNotFound
	}
	return r, nil
}

func (f *fakeDocumentRepo) Create(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error) {
	f.nextID++
	request.ID = fmt.Sprintf("d-%d", f.nextID)
	request.Version = 1
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeDocumentRepo) UpdateStatus(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error) {
	current, ok := f.requests[request.ID]
	if !ok {
		return types.DocumentRequest{}, store.ErrNotFound
	}
	if current.Version != request.Version {
		return types.DocumentRequest{}, store.ErrVersionConflict
	}
	request.Version++
	f.requests[request.ID] = request
	return request, nil
}

func validIncomeInput() CreateDocumentInput {
	return CreateDocumentInput{
		DocumentType: types.DocumentIncome,
		Purpose:      "scholarship application",
		Attachments:  []string{"att-1.pdf"},
	}
}

func TestDocumentCreate(t *testing.T) {
	repo := newFakeDocumentRepo()
	notifier := &fakeNotifier{}
	svc := NewDocumentService(repo, notifier)

	created, err := svc.Create(context.Background(), citizen, validIncomeInput())
	require.NoError(t, err)
	assert.Equal(t, types.DocumentPending, created.Status)
	assert.Equal(t, citizen.ID, created.UserID)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, types.TableDocumentRequests, notifier.events[0].Table)
}

func TestDocumentCreateValidation(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentRepo(), &fakeNotifier{})
	ctx := context.Background()

	input := validIncomeInput()
	input.DocumentType = "passport"
	_, err := svc.Create(ctx, citizen, input)
	assert.ErrorIs(t, err, ErrValidation)

	input = validIncomeInput()
	input.Purpose = "  "
	_, err = svc.Create(ctx, citizen, input)
	assert.ErrorIs(t, err, ErrValidation)

	input = validIncomeInput()
	input.Attachments = nil
	_, err = svc.Create(ctx, citizen, input)
	assert.ErrorIs(t, err, ErrValidation)

	// birth certificates require the per-type detail fields
	input = validIncomeInput()
	input.DocumentType = types.DocumentBirth
	input.Details = map[string]string{"child_name": "Asha"}
	_, err = svc.Create(ctx, citizen, input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentTransitionAttribution(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, citizen, validIncomeInput())
	require.NoError(t, err)

	verified, err := svc.Transition(ctx, staff, created.ID, types.DocumentVerify, "")
	require.NoError(t, err)
	assert.Equal(t, types.DocumentVerified, verified.Status)
	assert.Equal(t, staff.ID, verified.VerifiedBy)
	assert.Empty(t, verified.ApprovedBy)

	approved, err := svc.Transition(ctx, admin, created.ID, types.DocumentApprove, "")
	require.NoError(t, err)
	assert.Equal(t, types.DocumentApproved, approved.Status)
	assert.Equal(t, admin.ID, approved.ApprovedBy)
	assert.Equal(t, staff.ID, approved.VerifiedBy)
}

func TestDocumentApproveSkipsVerification(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, citizen, validIncomeInput())
	require.NoError(t, err)

	approved, err := svc.Transition(ctx, staff, created.ID, types.DocumentApprove, "")
	require.NoError(t, err)
	assert.Equal(t, types.DocumentApproved, approved.Status)
	assert.Empty(t, approved.VerifiedBy)
}

func TestDocumentRejectRequiresReason(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, citizen, validIncomeInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, staff, created.ID, types.DocumentReject, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	rejected, err := svc.Transition(ctx, staff, created.ID, types.DocumentReject, "attachment unreadable")
	require.NoError(t, err)
	assert.Equal(t, types.DocumentRejected, rejected.Status)
	assert.Equal(t, "attachment unreadable", rejected.RejectionReason)

	_, err = svc.Transition(ctx, staff, created.ID, types.DocumentApprove, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDocumentTransitionRequiresModerator(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, &fakeNotifier{})
	ctx := context.Background()

	created, err := svc.Create(ctx, citizen, validIncomeInput())
	require.NoError(t, err)

	_, err = svc.Transition(ctx, citizen, created.ID, types.DocumentApprove, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
