package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

func parseVideoID(w http.ResponseWriter, r *http.Request) (domain.VideoID, bool) {
	raw := chi.URLParam(r, "videoID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid video ID")
		return 0, false
	}
	return domain.VideoID(id), true
}

func notFoundOrError(w http.ResponseWriter, logger *slog.Logger, err error, message string) {
	if errors.Is(err, domain.ErrVideoNotFound) {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	logger.Error(message, "error", err)
	writeError(w, http.StatusInternalServerError, message)
}
