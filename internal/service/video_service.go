package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NiklavsD/Tikodea/internal/analysis"
	"github.com/NiklavsD/Tikodea/internal/domain"
	"github.com/NiklavsD/Tikodea/internal/quota"
	"github.com/NiklavsD/Tikodea/internal/queue"
	"github.com/NiklavsD/Tikodea/internal/repository"
	"github.com/NiklavsD/Tikodea/internal/scrape"
)

// MetadataResolver assembles a metadata record for a validated URL.
// Implemented by scrape.Resolver; it never fails.
type MetadataResolver interface {
	Resolve(ctx context.Context, url string) *domain.Metadata
}

// VideoService orchestrates the ingestion-and-analysis pipeline.
type VideoService struct {
	videos        repository.VideoRepository
	chats         repository.ChatRepository
	resolver      MetadataResolver
	analyzer      analysis.Analyzer
	queue         queue.Queue // nil when running without Redis
	tracker       *quota.Tracker
	scraptikLimit int
	logger        *slog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(
	videos repository.VideoRepository,
	chats repository.ChatRepository,
	resolver MetadataResolver,
	analyzer analysis.Analyzer,
	q queue.Queue,
	tracker *quota.Tracker,
	scraptikLimit int,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		videos:        videos,
		chats:         chats,
		resolver:      resolver,
		analyzer:      analyzer,
		queue:         q,
		tracker:       tracker,
		scraptikLimit: scraptikLimit,
		logger:        logger,
	}
}

// SubmitRequest represents a video submission.
type SubmitRequest struct {
	URL     string
	Context string

	// Opaque origin references from the bot front ends.
	TelegramChatID    string
	TelegramMessageID *int64
	DiscordChannelID  string
	DiscordMessageID  string
}

// SubmitResponse is returned after submission.
type SubmitResponse struct {
	VideoID domain.VideoID
	TaskID  string
	Status  domain.VideoStatus
}

// Submit validates the URL, persists a pending record and queues it for
// processing. The caller gets the video id back immediately; pipeline
// outcome is only visible through later status queries. When the queue is
// unreachable the video is processed synchronously in the background instead.
func (s *VideoService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if !scrape.ValidateURL(req.URL) {
		return nil, domain.ErrInvalidURL
	}

	video := domain.NewVideo(req.URL, req.Context)
	video.TelegramChatID = req.TelegramChatID
	video.TelegramMessageID = req.TelegramMessageID
	video.DiscordChannelID = req.DiscordChannelID
	video.DiscordMessageID = req.DiscordMessageID

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	taskID := ""
	if s.queue != nil {
		id, err := s.queue.Enqueue(ctx, video.ID)
		if err == nil {
			taskID = id
		} else {
			s.logger.Warn("queue unavailable, processing synchronously",
				"video_id", video.ID,
				"error", err,
			)
			s.processInBackground(video.ID)
		}
	} else {
		s.processInBackground(video.ID)
	}

	s.logger.Info("video submitted",
		"video_id", video.ID,
		"task_id", taskID,
		"url", req.URL,
	)

	return &SubmitResponse{
		VideoID: video.ID,
		TaskID:  taskID,
		Status:  domain.StatusPending,
	}, nil
}

func (s *VideoService) processInBackground(id domain.VideoID) {
	go func() {
		if err := s.Process(context.Background(), id); err != nil {
			s.logger.Error("synchronous processing failed", "video_id", id, "error", err)
		}
	}()
}

// Process drives one video through the pipeline state machine:
// pending -> processing -> completed | failed. Each transition is committed
// before the next stage runs, so a crash leaves the record in the last
// committed state. Fields written before a failure stay written; there is no
// rollback.
func (s *VideoService) Process(ctx context.Context, id domain.VideoID) error {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get video: %w", err)
	}

	// Redelivered tasks for an already-terminal video are dropped.
	if video.IsTerminal() {
		s.logger.Info("skipping video in terminal state",
			"video_id", id,
			"status", video.Status,
		)
		return nil
	}

	logger := s.logger.With("video_id", id)

	video.MarkProcessing()
	if err := s.videos.Update(ctx, video); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	if err := s.runPipeline(ctx, logger, video); err != nil {
		video.MarkFailed(err.Error())
		if uerr := s.videos.Update(ctx, video); uerr != nil {
			logger.Error("failed to persist failure state", "error", uerr)
		}
		logger.Error("video processing failed", "error", err)
		return err
	}

	logger.Info("video processed", "title", video.Title)
	return nil
}

func (s *VideoService) runPipeline(ctx context.Context, logger *slog.Logger, video *domain.Video) error {
	// Stage 1: scrape. Resolution never fails; sparse fields are fine.
	logger.Info("resolving metadata")
	meta := s.resolver.Resolve(ctx, video.TikTokURL)
	video.ApplyMetadata(meta)
	if err := s.videos.Update(ctx, video); err != nil {
		return domain.NewPipelineError(video.ID, "persist metadata", err)
	}

	// Stage 2: analyze. The engine folds its own failures into per-lens
	// placeholders, so a structurally valid result always comes back.
	logger.Info("running analysis")
	result := s.analyzer.Analyze(ctx, analysis.Input{
		Transcript:  video.Transcript,
		Title:       video.Title,
		Description: video.Description,
		Hashtags:    video.Hashtags,
		Context:     video.Context,
	})
	video.InvestmentAnalysis = result.Investment
	video.ProductAnalysis = result.Product
	video.ContentAnalysis = result.Content
	video.KnowledgeAnalysis = result.Knowledge

	// Stage 3: terminal commit.
	video.MarkCompleted()
	if err := s.videos.Update(ctx, video); err != nil {
		return domain.NewPipelineError(video.ID, "persist analysis", err)
	}

	return nil
}

// Get retrieves a video by ID.
func (s *VideoService) Get(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	return s.videos.Get(ctx, id)
}

// List returns videos matching the filter plus the total match count.
func (s *VideoService) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Video, int, error) {
	return s.videos.List(ctx, filter)
}

// SetFavorite updates a video's favorite flag.
func (s *VideoService) SetFavorite(ctx context.Context, id domain.VideoID, favorite bool) (*domain.Video, error) {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	video.IsFavorite = favorite
	video.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}

	return video, nil
}

// SetTags replaces a video's manual tags.
func (s *VideoService) SetTags(ctx context.Context, id domain.VideoID, tags []string) (*domain.Video, error) {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}
	video.ManualTags = tags
	video.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}

	return video, nil
}

// ChatHistory returns the chat messages for a video, oldest first.
func (s *VideoService) ChatHistory(ctx context.Context, id domain.VideoID) ([]domain.ChatMessage, error) {
	if _, err := s.videos.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.chats.ListByVideo(ctx, id)
}

// Chat appends the user's message, asks the analyzer and appends its answer.
func (s *VideoService) Chat(ctx context.Context, id domain.VideoID, message string) (*domain.ChatMessage, error) {
	video, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.ChatMessage{
		VideoID:   id,
		Role:      domain.ChatRoleUser,
		Content:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.Append(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	answer, err := s.analyzer.Answer(ctx, video, message)
	if err != nil {
		// Stored as the assistant turn so the history reflects the failure.
		answer = "Error generating response: " + err.Error()
	}

	assistantMsg := &domain.ChatMessage{
		VideoID:   id,
		Role:      domain.ChatRoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.Append(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}

	return assistantMsg, nil
}

// StatusCounts returns the number of videos in each lifecycle status.
func (s *VideoService) StatusCounts(ctx context.Context) (repository.StatusCounts, error) {
	return s.videos.StatusCounts(ctx)
}

// QuotaStatus returns the metered scraping API's monthly quota snapshot.
func (s *VideoService) QuotaStatus() (quota.Status, error) {
	return s.tracker.Status(scrape.MeteredService, s.scraptikLimit)
}
