package repository

import (
	"context"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// ListFilter narrows video listings.
type ListFilter struct {
	FavoritesOnly bool
	Search        string // matches title, description or transcript
	Tag           string // matches hashtags or manual tags
	Limit         int
	Offset        int
}

// StatusCounts is the number of videos per lifecycle status.
type StatusCounts struct {
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// VideoRepository handles video persistence.
type VideoRepository interface {
	// Create inserts a new video record and assigns its ID.
	Create(ctx context.Context, video *domain.Video) error

	// Get retrieves a video by ID.
	Get(ctx context.Context, id domain.VideoID) (*domain.Video, error)

	// Update commits the full video record.
	Update(ctx context.Context, video *domain.Video) error

	// List returns videos matching the filter, newest first, plus the
	// total match count.
	List(ctx context.Context, filter ListFilter) ([]*domain.Video, int, error)

	// StatusCounts returns the number of videos in each status.
	StatusCounts(ctx context.Context) (StatusCounts, error)
}

// ChatRepository handles per-video chat history. Messages are append-only.
type ChatRepository interface {
	// Append stores a message and assigns its ID.
	Append(ctx context.Context, msg *domain.ChatMessage) error

	// ListByVideo returns all messages for a video, oldest first.
	ListByVideo(ctx context.Context, videoID domain.VideoID) ([]domain.ChatMessage, error)
}
