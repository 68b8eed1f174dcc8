package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NiklavsD/Tikodea/internal/domain"
	"github.com/NiklavsD/Tikodea/internal/repository"
	"github.com/NiklavsD/Tikodea/internal/service"
)

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	videoSvc *service.VideoService
	logger   *slog.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videoSvc *service.VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{
		videoSvc: videoSvc,
		logger:   logger,
	}
}

// SubmitRequest is the JSON request body for video submission. The
// origin fields are set by the bot front ends so replies can find
// their way back to the source conversation.
type SubmitRequest struct {
	URL     string `json:"url"`
	Context string `json:"context,omitempty"`

	TelegramChatID    string `json:"telegram_chat_id,omitempty"`
	TelegramMessageID *int64 `json:"telegram_message_id,omitempty"`
	DiscordChannelID  string `json:"discord_channel_id,omitempty"`
	DiscordMessageID  string `json:"discord_message_id,omitempty"`
}

// SubmitResponse is the JSON response after submission.
type SubmitResponse struct {
	VideoID int64  `json:"video_id"`
	TaskID  string `json:"task_id,omitempty"`
	Status  string `json:"status"`
}

// VideoResponse represents a video in list/get responses.
type VideoResponse struct {
	ID           int64      `json:"id"`
	TikTokURL    string     `json:"tiktok_url"`
	Context      string     `json:"context,omitempty"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Creator      string     `json:"creator,omitempty"`
	Hashtags     []string   `json:"hashtags"`
	ViewCount    *int64     `json:"view_count"`
	LikeCount    *int64     `json:"like_count"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`

	InvestmentAnalysis json.RawMessage `json:"investment_analysis"`
	ProductAnalysis    json.RawMessage `json:"product_analysis"`
	ContentAnalysis    json.RawMessage `json:"content_analysis"`
	KnowledgeAnalysis  json.RawMessage `json:"knowledge_analysis"`

	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	IsFavorite   bool       `json:"is_favorite"`
	ManualTags   []string   `json:"manual_tags"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ProcessedAt  *time.Time `json:"processed_at"`
}

// ListResponse contains a paginated video list.
type ListResponse struct {
	Videos []VideoResponse `json:"videos"`
	Total  int             `json:"total"`
	Skip   int             `json:"skip"`
	Limit  int             `json:"limit"`
}

func toVideoResponse(v *domain.Video) VideoResponse {
	hashtags := v.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	manualTags := v.ManualTags
	if manualTags == nil {
		manualTags = []string{}
	}

	return VideoResponse{
		ID:                 int64(v.ID),
		TikTokURL:          v.TikTokURL,
		Context:            v.Context,
		Title:              v.Title,
		Description:        v.Description,
		Creator:            v.Creator,
		Hashtags:           hashtags,
		ViewCount:          v.ViewCount,
		LikeCount:          v.LikeCount,
		ThumbnailURL:       v.ThumbnailURL,
		Transcript:         v.Transcript,
		InvestmentAnalysis: v.InvestmentAnalysis,
		ProductAnalysis:    v.ProductAnalysis,
		ContentAnalysis:    v.ContentAnalysis,
		KnowledgeAnalysis:  v.KnowledgeAnalysis,
		Status:             string(v.Status),
		ErrorMessage:       v.ErrorMessage,
		IsFavorite:         v.IsFavorite,
		ManualTags:         manualTags,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		ProcessedAt:        v.ProcessedAt,
	}
}

// Submit handles POST /api/videos
func (h *VideoHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.videoSvc.Submit(r.Context(), service.SubmitRequest{
		URL:               req.URL,
		Context:           req.Context,
		TelegramChatID:    req.TelegramChatID,
		TelegramMessageID: req.TelegramMessageID,
		DiscordChannelID:  req.DiscordChannelID,
		DiscordMessageID:  req.DiscordMessageID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			writeError(w, http.StatusBadRequest, "invalid TikTok URL")
			return
		}
		h.logger.Error("submit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit video")
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		VideoID: int64(result.VideoID),
		TaskID:  result.TaskID,
		Status:  string(result.Status),
	})
}

// List handles GET /api/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, _ := strconv.Atoi(q.Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := repository.ListFilter{
		FavoritesOnly: q.Get("favorites_only") == "true",
		Search:        q.Get("search"),
		Tag:           q.Get("tag"),
		Limit:         limit,
		Offset:        skip,
	}

	videos, total, err := h.videoSvc.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	resp := ListResponse{
		Videos: make([]VideoResponse, 0, len(videos)),
		Total:  total,
		Skip:   skip,
		Limit:  limit,
	}
	for _, v := range videos {
		resp.Videos = append(resp.Videos, toVideoResponse(v))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/videos/{videoID}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	video, err := h.videoSvc.Get(r.Context(), id)
	if err != nil {
		notFoundOrError(w, h.logger, err, "failed to get video")
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(video))
}

// FavoriteRequest is the JSON request body for the favorite toggle.
type FavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// Favorite handles PATCH /api/videos/{videoID}/favorite
func (h *VideoHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	video, err := h.videoSvc.SetFavorite(r.Context(), id, req.IsFavorite)
	if err != nil {
		notFoundOrError(w, h.logger, err, "failed to update favorite")
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(video))
}

// TagsRequest is the JSON request body for manual tag updates.
type TagsRequest struct {
	Tags []string `json:"tags"`
}

// Tags handles PATCH /api/videos/{videoID}/tags
func (h *VideoHandler) Tags(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	var req TagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	video, err := h.videoSvc.SetTags(r.Context(), id, req.Tags)
	if err != nil {
		notFoundOrError(w, h.logger, err, "failed to update tags")
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(video))
}

