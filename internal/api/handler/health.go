package handler

import (
	"log/slog"
	"net/http"

	"github.com/NiklavsD/Tikodea/internal/service"
)

// HealthHandler serves liveness and pipeline stats endpoints.
type HealthHandler struct {
	videoSvc *service.VideoService
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(videoSvc *service.VideoService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		videoSvc: videoSvc,
		logger:   logger,
	}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// StatsResponse summarizes videos by processing status.
type StatsResponse struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "tikodea-api",
	})
}

// Stats handles GET /api/stats
func (h *HealthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.videoSvc.StatusCounts(r.Context())
	if err != nil {
		h.logger.Error("stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		Pending:    counts.Pending,
		Processing: counts.Processing,
		Completed:  counts.Completed,
		Failed:     counts.Failed,
		Total:      counts.Pending + counts.Processing + counts.Completed + counts.Failed,
	})
}
