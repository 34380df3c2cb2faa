package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
	"github.com/gramseva/apiserver/types"
)

// AnnouncementHandler provides HTTP handlers for public notices.
type AnnouncementHandler struct {
	announcementService *services.AnnouncementService
	profileService      *services.ProfileService
}

func NewAnnouncementHandler(announcementService *services.AnnouncementService, profileService *services.ProfileService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		profileService:      profileService,
	}
}

// AnnouncementRouter registers announcement routes. Reads are public;
// writes require authentication and a moderating role.
func AnnouncementRouter(
	r chi.Router,
	announcementService *services.AnnouncementService,
	profileService *services.ProfileService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAnnouncementHandler(announcementService, profileService)

	r.Get("/", handler.ListAnnouncements)
	r.With(authMiddleware).Post("/", handler.CreateAnnouncement)
	r.Route("/{announcementID}", func(r chi.Router) {
		r.With(authMiddleware).Put("/", handler.UpdateAnnouncement)
		r.With(authMiddleware).Delete("/", handler.DeleteAnnouncement)
	})
}

func (h *AnnouncementHandler) actor(r *http.Request) (types.Profile, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.Profile{}, err
	}
	return h.profileService.GetByID(r.Context(), subject.ID)
}

func (h *AnnouncementHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.announcementService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}

	writeJSON(w, http.StatusOK, AnnouncementListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.announcementService.Create(r.Context(), actor, req.Title, req.Content, req.Category, req.Important)
	if err != nil {
		writeServiceError(w, err, "failed to create announcement")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AnnouncementHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "announcementID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.announcementService.Update(r.Context(), actor, types.Announcement{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Important: req.Important,
	})
	if err != nil {
		writeServiceError(w, err, "failed to update announcement")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AnnouncementHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseEntityID(r, "announcementID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.announcementService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err, "failed to delete announcement")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type AnnouncementRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Important bool   `json:"important"`
}

// AnnouncementListResponse is the paginated list response payload.
type AnnouncementListResponse struct {
	Items []types.Announcement `json:"items"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int                  `json:"total"`
}
