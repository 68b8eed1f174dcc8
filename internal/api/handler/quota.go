package handler

import (
	"log/slog"
	"net/http"

	"github.com/NiklavsD/Tikodea/internal/service"
)

// QuotaHandler exposes the metered scraping quota.
type QuotaHandler struct {
	videoSvc *service.VideoService
	logger   *slog.Logger
}

// NewQuotaHandler creates a new quota handler.
func NewQuotaHandler(videoSvc *service.VideoService, logger *slog.Logger) *QuotaHandler {
	return &QuotaHandler{
		videoSvc: videoSvc,
		logger:   logger,
	}
}

// Status handles GET /api/quota
func (h *QuotaHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.videoSvc.QuotaStatus()
	if err != nil {
		h.logger.Error("quota status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load quota status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
