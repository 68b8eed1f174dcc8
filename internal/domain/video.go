package domain

import (
	"encoding/json"
	"time"
)

// VideoID is the database identity of a submitted video.
type VideoID int64

// VideoStatus represents the lifecycle state of a submitted video.
// Transitions only move forward: pending -> processing -> completed | failed.
type VideoStatus string

const (
	StatusPending    VideoStatus = "pending"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// Video is the persisted record of one submitted TikTok URL: the source URL,
// the metadata assembled by the fallback resolver, the four analysis results,
// and the job lifecycle state.
type Video struct {
	ID        VideoID
	TikTokURL string
	Context   string // optional user-provided context for the analysis

	// Metadata assembled by the resolver.
	Title        string
	Description  string
	Creator      string
	Hashtags     []string
	ViewCount    *int64
	LikeCount    *int64
	ThumbnailURL string
	Transcript   string

	// Four-lens analysis results, stored as raw JSON.
	InvestmentAnalysis json.RawMessage
	ProductAnalysis    json.RawMessage
	ContentAnalysis    json.RawMessage
	KnowledgeAnalysis  json.RawMessage

	Status       VideoStatus
	ErrorMessage string

	// User interaction.
	IsFavorite bool
	ManualTags []string

	// Opaque origin references, owned by the bot front ends.
	TelegramChatID    string
	TelegramMessageID *int64
	DiscordChannelID  string
	DiscordMessageID  string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time
}

// NewVideo creates a pending video record for a submitted URL.
func NewVideo(url, context string) *Video {
	now := time.Now().UTC()
	return &Video{
		TikTokURL: url,
		Context:   context,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsTerminal reports whether the video has reached a terminal status.
func (v *Video) IsTerminal() bool {
	return v.Status == StatusCompleted || v.Status == StatusFailed
}

// MarkProcessing transitions the video to processing.
func (v *Video) MarkProcessing() {
	v.Status = StatusProcessing
	v.UpdatedAt = time.Now().UTC()
}

// MarkCompleted transitions the video to completed and stamps ProcessedAt.
// ProcessedAt is set if and only if the video completed.
func (v *Video) MarkCompleted() {
	now := time.Now().UTC()
	v.Status = StatusCompleted
	v.ProcessedAt = &now
	v.UpdatedAt = now
}

// MarkFailed transitions the video to failed with the captured error.
// ErrorMessage is set if and only if the video failed; ProcessedAt is
// cleared so it only ever accompanies a completed status.
func (v *Video) MarkFailed(errMsg string) {
	v.Status = StatusFailed
	v.ErrorMessage = errMsg
	v.ProcessedAt = nil
	v.UpdatedAt = time.Now().UTC()
}

// ApplyMetadata copies resolved metadata onto the record.
func (v *Video) ApplyMetadata(m *Metadata) {
	v.Title = m.Title
	v.Description = m.Description
	v.Creator = m.Creator
	v.Hashtags = m.Hashtags
	v.ViewCount = m.ViewCount
	v.LikeCount = m.LikeCount
	v.ThumbnailURL = m.ThumbnailURL
	v.Transcript = m.Transcript
	v.UpdatedAt = time.Now().UTC()
}
