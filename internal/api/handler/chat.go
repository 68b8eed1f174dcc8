package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/NiklavsD/Tikodea/internal/domain"
	"github.com/NiklavsD/Tikodea/internal/service"
)

// ChatHandler handles per-video chat requests.
type ChatHandler struct {
	videoSvc *service.VideoService
	logger   *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(videoSvc *service.VideoService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		videoSvc: videoSvc,
		logger:   logger,
	}
}

// ChatMessageResponse represents a single chat turn.
type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse contains the ordered chat history for a video.
type HistoryResponse struct {
	Messages []ChatMessageResponse `json:"messages"`
}

// ChatRequest is the JSON request body for asking a question.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toChatMessageResponse(m *domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		VideoID:   int64(m.VideoID),
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// History handles GET /api/videos/{videoID}/chat
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	messages, err := h.videoSvc.ChatHistory(r.Context(), id)
	if err != nil {
		notFoundOrError(w, h.logger, err, "failed to load chat history")
		return
	}

	resp := HistoryResponse{Messages: make([]ChatMessageResponse, 0, len(messages))}
	for i := range messages {
		resp.Messages = append(resp.Messages, toChatMessageResponse(&messages[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Ask handles POST /api/videos/{videoID}/chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.videoSvc.Chat(r.Context(), id, req.Message)
	if err != nil {
		notFoundOrError(w, h.logger, err, "failed to process chat message")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Role:    string(reply.Role),
		Content: reply.Content,
	})
}
