package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gramseva/apiserver/internal/storage"
	"github.com/gramseva/apiserver/types"
)

// AttachmentService stores document-request attachments in object
// storage. Keys are opaque references recorded on the request row.
type AttachmentService struct {
	storage *storage.Storage
}

func NewAttachmentService(st *storage.Storage) *AttachmentService {
	return &AttachmentService{storage: st}
}

// Upload stores the file under a generated key and returns the key.
func (s *AttachmentService) Upload(ctx context.Context, actor types.Profile, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("%w: empty attachment", ErrValidation)
	}

	ext := strings.ToLower(path.Ext(filename))
	key := uuid.NewString() + ext
	if err := s.storage.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open streams a stored attachment back. Staff and admin only; citizens
// hold the key but review happens on the staff side.
func (s *AttachmentService) Open(ctx context.Context, actor types.Profile, key string) (io.ReadCloser, error) {
	if !actor.Role.CanModerate() {
		return nil, ErrUnauthorized
	}
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%w: invalid attachment key", ErrValidation)
	}
	return s.storage.Get(ctx, key)
}
