package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/types"
)

const (
	maxMultipartMemory = 8 << 20  // 8 MiB buffered in memory
	maxAttachmentBytes = 10 << 20 // 10 MiB per upload
)

// AttachmentHandler provides upload and download of request attachments.
type AttachmentHandler struct {
	attachmentService *services.AttachmentService
	profileService    *services.ProfileService
}

func NewAttachmentHandler(attachmentService *services.AttachmentService, profileService *services.ProfileService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		profileService:    profileService,
	}
}

// AttachmentRouter registers attachment routes. Uploads come from
// applicants; downloads are restricted to reviewing staff.
func AttachmentRouter(
	r chi.Router,
	attachmentService *services.AttachmentService,
	profileService *services.ProfileService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAttachmentHandler(attachmentService, profileService)

	r.Use(authMiddleware)
	r.Post("/", handler.UploadAttachment)
	r.Get("/{attachmentKey}", handler.DownloadAttachment)
}

func (h *AttachmentHandler) actor(r *http.Request) (types.Profile, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.Profile{}, err
	}
	return h.profileService.GetByID(r.Context(), subject.ID)
}

// UploadAttachment stores a multipart file and returns the opaque key
// the client references from a document request.
func (h *AttachmentHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.attachmentService.Upload(r.Context(), actor, header.Filename, file, header.Size, contentType)
	if err != nil {
		writeServiceError(w, err, "failed to store attachment")
		return
	}

	writeJSON(w, http.StatusCreated, AttachmentResponse{Key: key})
}

// DownloadAttachment streams a stored attachment back to reviewing staff.
func (h *AttachmentHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key, err := parseEntityID(r, "attachmentKey")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.attachmentService.Open(r.Context(), actor, key)
	if err != nil {
		writeServiceError(w, err, "failed to open attachment")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

type AttachmentResponse struct {
	Key string `json:"key"`
}
