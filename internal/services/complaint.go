package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gramseva/apiserver/types"
)

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	List(ctx context.Context, userID string, offset, limit int) ([]types.Complaint, int, error)
	Get(ctx context.Context, id string) (types.Complaint, error)
	Create(ctx context.Context, complaint types.Complaint) (types.Complaint, error)
	UpdateStatus(ctx context.Context, complaint types.Complaint) (types.Complaint, error)
}

// ComplaintService is the complaint lifecycle engine. Every transition
// is guarded twice: by the acting role and by the transition table on
// the current status. The UI may hide buttons, but this is the contract
// that actually holds.
type ComplaintService struct {
	repo     ComplaintRepository
	notifier ChangeNotifier
}

func NewComplaintService(repo ComplaintRepository, notifier ChangeNotifier) *ComplaintService {
	return &ComplaintService{repo: repo, notifier: notifier}
}

// Create submits a new complaint on behalf of actor. Any authenticated
// user may create; the complaint starts pending and unassigned.
func (s *ComplaintService) Create(ctx context.Context, actor types.Profile, title, description, category, location string) (types.Complaint, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return types.Complaint{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if description == "" {
		return types.Complaint{}, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !types.ValidComplaintCategory(category) {
		return types.Complaint{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	complaint := types.Complaint{
		UserID:      actor.ID,
		Title:       title,
		Description: description,
		Category:    category,
		Location:    strings.TrimSpace(location),
		Status:      types.ComplaintPending,
	}
	created, err := s.repo.Create(ctx, complaint)
	if err != nil {
		return types.Complaint{}, err
	}

	notifyChange(ctx, s.notifier, types.TableComplaints, types.ChangeCreated, created.ID, string(created.Status))
	return created, nil
}

// List returns complaints visible to actor: staff and admins see all,
// citizens see only their own.
func (s *ComplaintService) List(ctx context.Context, actor types.Profile, offset, limit int) ([]types.Complaint, int, error) {
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

// Get returns a single complaint if actor owns it or may moderate.
func (s *ComplaintService) Get(ctx context.Context, actor types.Profile, id string) (types.Complaint, error) {
	complaint, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Complaint{}, err
	}
	if complaint.UserID != actor.ID && !actor.Role.CanModerate() {
		return types.Complaint{}, ErrUnauthorized
	}
	return complaint, nil
}

// Track returns a complaint by id without an authenticated session.
// Callers expose only the redacted fields.
func (s *ComplaintService) Track(ctx context.Context, id string) (types.Complaint, error) {
	return s.repo.Get(ctx, id)
}

// Transition moves a complaint along the lifecycle graph. Only staff
// and admins may transition; markInProgress records the acting staff
// member as assignee.
func (s *ComplaintService) Transition(ctx context.Context, actor types.Profile, id string, action types.ComplaintAction) (types.Complaint, error) {
	if !actor.Role.CanModerate() {
		return types.Complaint{}, ErrUnauthorized
	}

	complaint, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Complaint{}, err
	}

	next, ok := complaint.Status.Apply(action)
	if !ok {
		return types.Complaint{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, complaint.Status)
	}

	complaint.Status = next
	if action == types.ComplaintMarkInProgress {
		complaint.AssignedTo = actor.ID
	}

	updated, err := s.repo.UpdateStatus(ctx, complaint)
	if err != nil {
		return types.Complaint{}, err
	}

	notifyChange(ctx, s.notifier, types.TableComplaints, types.ChangeUpdated, updated.ID, string(updated.Status))
	return updated, nil
}
