package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gramseva/apiserver/internal/services"
)

// PublicHandler serves the unauthenticated endpoints: the dashboard
// counters and the reference-number tracker.
type PublicHandler struct {
	statsService     *services.StatsService
	complaintService *services.ComplaintService
	documentService  *services.DocumentService
}

func NewPublicHandler(statsService *services.StatsService, complaintService *services.ComplaintService, documentService *services.DocumentService) *PublicHandler {
	return &PublicHandler{
		statsService:     statsService,
		complaintService: complaintService,
		documentService:  documentService,
	}
}

// PublicRouter registers the public routes. No auth middleware here.
func PublicRouter(
	r chi.Router,
	statsService *services.StatsService,
	complaintService *services.ComplaintService,
	documentService *services.DocumentService,
) {
	handler := NewPublicHandler(statsService, complaintService, documentService)

	r.Get("/stats", handler.DashboardStats)
	r.Get("/track/{kind}/{entityID}", handler.Track)
}

func (h *PublicHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Track looks up a complaint or document request by id and returns a
// redacted view: progress only, no applicant identity or details.
func (h *PublicHandler) Track(w http.ResponseWriter, r *http.Request) {
	id, err := parseEntityID(r, "entityID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch chi.URLParam(r, "kind") {
	case "complaint":
		complaint, err := h.complaintService.Track(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "failed to track complaint")
			return
		}
		writeJSON(w, http.StatusOK, TrackResponse{
			Kind:      "complaint",
			ID:        complaint.ID,
			Status:    string(complaint.Status),
			Category:  complaint.Category,
			CreatedAt: complaint.CreatedAt,
			UpdatedAt: complaint.UpdatedAt,
		})
	case "document":
		request, err := h.documentService.Track(r.Context(), id)
		if err != nil {
			writeServiceError(w, err, "failed to track document request")
			return
		}
		writeJSON(w, http.StatusOK, TrackResponse{
			Kind:      "document",
			ID:        request.ID,
			Status:    string(request.Status),
			Category:  string(request.DocumentType),
			CreatedAt: request.CreatedAt,
			UpdatedAt: request.UpdatedAt,
		})
	default:
		writeError(w, http.StatusBadRequest, "unknown kind")
	}
}

// TrackResponse is what an anonymous caller learns about a submission.
type TrackResponse struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
