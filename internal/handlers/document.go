package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/types"
)

// DocumentHandler provides HTTP handlers for the document request workflow.
type DocumentHandler struct {
	documentService *services.DocumentService
	profileService  *services.ProfileService
}

func NewDocumentHandler(documentService *services.DocumentService, profileService *services.ProfileService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		profileService:  profileService,
	}
}

// DocumentRouter registers document request routes on the given router.
func DocumentRouter(
	r chi.Router,
	documentService *services.DocumentService,
	profileService *services.ProfileService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewDocumentHandler(documentService, profileService)

	r.Use(authMiddleware)
	r.Post("/", handler.CreateDocument)
	r.Get("/", handler.ListDocuments)
	r.Route("/{documentID}", func(r chi.Router) {
		r.Get("/", handler.GetDocument)
		r.Post("/transition", handler.TransitionDocument)
	})
}

func (h *DocumentHandler) actor(r *http.Request) (types.Profile, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.Profile{}, err
	}
	return h.profileService.GetByID(r.Context(), subject.ID)
}

func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.documentService.Create(r.Context(), actor, services.CreateDocumentInput{
		DocumentType:    types.DocumentType(req.DocumentType),
		Purpose:         req.Purpose,
		AdditionalNotes: req.AdditionalNotes,
		Details:         req.Details,
		Attachments:     req.Attachments,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create document request")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.documentService.List(r.Context(), actor, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list document requests")
		return
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "documentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.documentService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch document request")
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Request: request,
		Actions: types.DocumentActions(request.Status),
	})
}

func (h *DocumentHandler) TransitionDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "documentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TransitionDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.documentService.Transition(r.Context(), actor, id, types.DocumentAction(req.Action), req.RejectionReason)
	if err != nil {
		writeServiceError(w, err, "failed to transition document request")
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		Request: updated,
		Actions: types.DocumentActions(updated.Status),
	})
}

type CreateDocumentRequest struct {
	DocumentType    string            `json:"document_type"`
	Purpose         string            `json:"purpose"`
	AdditionalNotes string            `json:"additional_notes"`
	Details         map[string]string `json:"details"`
	Attachments     []string          `json:"attachments"`
}

type TransitionDocumentRequest struct {
	Action          string `json:"action"`
	RejectionReason string `json:"rejection_reason"`
}

// DocumentResponse pairs a request with the actions legal from its
// current status.
type DocumentResponse struct {
	Request types.DocumentRequest  `json:"request"`
	Actions []types.DocumentAction `json:"actions"`
}

// DocumentListResponse is the paginated list response payload.
type DocumentListResponse struct {
	Items []types.DocumentRequest `json:"items"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int                     `json:"total"`
}
