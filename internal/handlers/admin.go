package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/types"
)

// AdminHandler provides the staff-management endpoints.
type AdminHandler struct {
	profileService *services.ProfileService
}

func NewAdminHandler(profileService *services.ProfileService) *AdminHandler {
	return &AdminHandler{profileService: profileService}
}

// AdminRouter registers staff-management routes. The admin check lives
// in the service, keyed on the acting profile's role.
func AdminRouter(
	r chi.Router,
	profileService *services.ProfileService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAdminHandler(profileService)

	r.Use(authMiddleware)
	r.Get("/staff", handler.ListStaff)
	r.Post("/staff", handler.PromoteStaff)
	r.Delete("/staff/{profileID}", handler.DemoteStaff)
}

func (h *AdminHandler) actor(r *http.Request) (types.Profile, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.Profile{}, err
	}
	return h.profileService.GetByID(r.Context(), subject.ID)
}

func (h *AdminHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	staff, err := h.profileService.ListStaff(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err, "failed to list staff")
		return
	}

	writeJSON(w, http.StatusOK, StaffListResponse{Items: staff})
}

// PromoteStaff raises the profile registered under the given email to
// the staff role.
func (h *AdminHandler) PromoteStaff(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PromoteStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	promoted, err := h.profileService.PromoteStaff(r.Context(), actor, req.Email)
	if err != nil {
		writeServiceError(w, err, "failed to promote staff")
		return
	}

	writeJSON(w, http.StatusOK, promoted)
}

// DemoteStaff returns a staff member to citizen. The profile remains.
func (h *AdminHandler) DemoteStaff(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "profileID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	demoted, err := h.profileService.DemoteStaff(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, "failed to demote staff")
		return
	}

	writeJSON(w, http.StatusOK, demoted)
}

type PromoteStaffRequest struct {
	Email string `json:"email"`
}

type StaffListResponse struct {
	Items []types.Profile `json:"items"`
}
