package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gramseva/apiserver/types"
)

// DocumentRepository defines persistence operations for document requests.
type DocumentRepository interface {
	List(ctx context.Context, userID string, offset, limit int) ([]types.DocumentRequest, int, error)
	Get(ctx context.Context, id string) (types.DocumentRequest, error)
	Create(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error)
	UpdateStatus(ctx context.Context, request types.DocumentRequest) (types.DocumentRequest, error)
}

// CreateDocumentInput carries the citizen-supplied fields of a new
// document request.
type CreateDocumentInput struct {
	DocumentType    types.DocumentType
	Purpose         string
	AdditionalNotes string
	Details         map[string]string
	Attachments     []string
}

// DocumentService is the document request lifecycle engine.
type DocumentService struct {
	repo     DocumentRepository
	notifier ChangeNotifier
}

func NewDocumentService(repo DocumentRepository, notifier ChangeNotifier) *DocumentService {
	return &DocumentService{repo: repo, notifier: notifier}
}

// Create submits a new document request. At least one attachment
// reference and the document type's required detail fields must be
// present.
func (s *DocumentService) Create(ctx context.Context, actor types.Profile, input CreateDocumentInput) (types.DocumentRequest, error) {
	if !input.DocumentType.Valid() {
		return types.DocumentRequest{}, fmt.Errorf("%w: unknown document type %q", ErrValidation, input.DocumentType)
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return types.DocumentRequest{}, fmt.Errorf("%w: purpose is required", ErrValidation)
	}
	if len(input.Attachments) == 0 {
		return types.DocumentRequest{}, fmt.Errorf("%w: at least one attachment is required", ErrValidation)
	}
	if missing := types.MissingDetailFields(input.DocumentType, input.Details); len(missing) > 0 {
		return types.DocumentRequest{}, fmt.Errorf("%w: missing fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	request := types.DocumentRequest{
		UserID:          actor.ID,
		DocumentType:    input.DocumentType,
		Purpose:         strings.TrimSpace(input.Purpose),
		AdditionalNotes: strings.TrimSpace(input.AdditionalNotes),
		Details:         input.Details,
		Attachments:     input.Attachments,
		Status:          types.DocumentPending,
	}
	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return types.DocumentRequest{}, err
	}

	notifyChange(ctx, s.notifier, types.TableDocumentRequests, types.ChangeCreated, created.ID, string(created.Status))
	return created, nil
}

// List returns document requests visible to actor.
func (s *DocumentService) List(ctx context.Context, actor types.Profile, offset, limit int) ([]types.DocumentRequest, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	userID := actor.ID
	if actor.Role.CanModerate() {
		userID = ""
	}
	return s.repo.List(ctx, userID, offset, limit)
}

// Get returns a single request if actor owns it or may moderate.
func (s *DocumentService) Get(ctx context.Context, actor types.Profile, id string) (types.DocumentRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.DocumentRequest{}, err
	}
	if request.UserID != actor.ID && !actor.Role.CanModerate() {
		return types.DocumentRequest{}, ErrUnauthorized
	}
	return request, nil
}

// Track returns a request by id without an authenticated session.
func (s *DocumentService) Track(ctx context.Context, id string) (types.DocumentRequest, error) {
	return s.repo.Get(ctx, id)
}

// Transition moves a document request along the lifecycle graph.
// verify and approve attribute the acting staff member; reject requires
// a rejection reason, which is the only feedback the citizen receives.
func (s *DocumentService) Transition(ctx context.Context, actor types.Profile, id string, action types.DocumentAction, rejectionReason string) (types.DocumentRequest, error) {
	if !actor.Role.CanModerate() {
		return types.DocumentRequest{}, ErrUnauthorized
	}

	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.DocumentRequest{}, err
	}

	next, ok := request.Status.Apply(action)
	if !ok {
		return types.DocumentRequest{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, request.Status)
	}

	switch action {
	case types.DocumentVerify:
		request.VerifiedBy = actor.ID
	case types.DocumentApprove:
		request.ApprovedBy = actor.ID
	case types.DocumentReject:
		rejectionReason = strings.TrimSpace(rejectionReason)
		if rejectionReason == "" {
			return types.DocumentRequest{}, fmt.Errorf("%w: rejection reason is required", ErrValidation)
		}
		request.RejectionReason = rejectionReason
	}
	request.Status = next

	updated, err := s.repo.UpdateStatus(ctx, request)
	if err != nil {
		return types.DocumentRequest{}, err
	}

	notifyChange(ctx, s.notifier, types.TableDocumentRequests, types.ChangeUpdated, updated.ID, string(updated.Status))
	return updated, nil
}
