package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gramseva/apiserver/types"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.Announcement, int, error)
	Get(ctx context.Context, id string) (types.Announcement, error)
	Create(ctx context.Context, a types.Announcement) (types.Announcement, error)
	Update(ctx context.Context, a types.Announcement) (types.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles public notices: staff/admin write,
// everyone reads.
type AnnouncementService struct {
	repo     AnnouncementRepository
	notifier ChangeNotifier
}

func NewAnnouncementService(repo AnnouncementRepository, notifier ChangeNotifier) *AnnouncementService {
	return &AnnouncementService{repo: repo, notifier: notifier}
}

func (s *AnnouncementService) List(ctx context.Context, offset, limit int) ([]types.Announcement, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *AnnouncementService) Create(ctx context.Context, actor types.Profile, title, content, category string, important bool) (types.Announcement, error) {
	if !actor.Role.CanModerate() {
		return types.Announcement{}, ErrUnauthorized
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return types.Announcement{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}
	if category = strings.TrimSpace(category); category == "" {
		category = "general"
	}

	created, err := s.repo.Create(ctx, types.Announcement{
		Title:     title,
		Content:   content,
		Category:  category,
		Important: important,
		CreatedBy: actor.ID,
	})
	if err != nil {
		return types.Announcement{}, err
	}

	notifyChange(ctx, s.notifier, types.TableAnnouncements, types.ChangeCreated, created.ID, "")
	return created, nil
}

func (s *AnnouncementService) Update(ctx context.Context, actor types.Profile, a types.Announcement) (types.Announcement, error) {
	if !actor.Role.CanModerate() {
		return types.Announcement{}, ErrUnauthorized
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return types.Announcement{}, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return types.Announcement{}, err
	}

	notifyChange(ctx, s.notifier, types.TableAnnouncements, types.ChangeUpdated, updated.ID, "")
	return updated, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, actor types.Profile, id string) error {
	if !actor.Role.CanModerate() {
		return ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	notifyChange(ctx, s.notifier, types.TableAnnouncements, types.ChangeDeleted, id, "")
	return nil
}
