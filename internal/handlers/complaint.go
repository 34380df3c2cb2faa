package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/types"
)

// ComplaintHandler provides HTTP handlers for the complaint workflow.
type ComplaintHandler struct {
	complaintService *services.ComplaintService
	profileService   *services.ProfileService
}

func NewComplaintHandler(complaintService *services.ComplaintService, profileService *services.ProfileService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		profileService:   profileService,
	}
}

// ComplaintRouter registers complaint routes on the given router.
// All routes require authentication; the role checks live in the
// lifecycle engine.
func ComplaintRouter(
	r chi.Router,
	complaintService *services.ComplaintService,
	profileService *services.ProfileService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewComplaintHandler(complaintService, profileService)

	r.Use(authMiddleware)
	r.Post("/", handler.CreateComplaint)
	r.Get("/", handler.ListComplaints)
	r.Route("/{complaintID}", func(r chi.Router) {
		r.Get("/", handler.GetComplaint)
		r.Post("/transition", handler.TransitionComplaint)
	})
}

// actor resolves the authenticated subject to its profile.
func (h *ComplaintHandler) actor(r *http.Request) (types.Profile, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.Profile{}, err
	}
	return h.profileService.GetByID(r.Context(), subject.ID)
}

func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.complaintService.Create(r.Context(), actor, req.Title, req.Description, req.Category, req.Location)
	if err != nil {
		writeServiceError(w, err, "failed to create complaint")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ComplaintHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.complaintService.List(r.Context(), actor, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list complaints")
		return
	}

	writeJSON(w, http.StatusOK, ComplaintListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *ComplaintHandler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "complaintID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	complaint, err := h.complaintService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch complaint")
		return
	}

	writeJSON(w, http.StatusOK, ComplaintResponse{
		Complaint: complaint,
		Actions:   types.ComplaintActions(complaint.Status),
	})
}

func (h *ComplaintHandler) TransitionComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "complaintID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TransitionComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.complaintService.Transition(r.Context(), actor, id, types.ComplaintAction(req.Action))
	if err != nil {
		writeServiceError(w, err, "failed to transition complaint")
		return
	}

	writeJSON(w, http.StatusOK, ComplaintResponse{
		Complaint: updated,
		Actions:   types.ComplaintActions(updated.Status),
	})
}

type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
}

type TransitionComplaintRequest struct {
	Action string `json:"action"`
}

// ComplaintResponse pairs a complaint with the actions legal from its
// current status, so the UI renders exactly the legal buttons.
type ComplaintResponse struct {
	Complaint types.Complaint         `json:"complaint"`
	Actions   []types.ComplaintAction `json:"actions"`
}

// ComplaintListResponse is the paginated list response payload.
type ComplaintListResponse struct {
	Items []types.Complaint `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
}

func parseEntityID(r *http.Request, param string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		return "", errors.New("invalid id")
	}
	return id, nil
}
