package scrape

import (
	"context"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// URLFallback derives minimal metadata by pattern-matching the URL itself.
// It cannot fail, so a resolution always ends with at least a creator handle
// or a placeholder title.
type URLFallback struct{}

// NewURLFallback creates the URL-pattern fallback adapter.
func NewURLFallback() *URLFallback { return &URLFallback{} }

// Name identifies the adapter in logs.
func (f *URLFallback) Name() string { return "url-fallback" }

// Fetch extracts the creator handle from a canonical video URL.
func (f *URLFallback) Fetch(ctx context.Context, videoURL string) (*domain.Metadata, error) {
	handle, _ := ParseVideoRef(videoURL)

	title := "TikTok video"
	if handle != "" {
		title = "TikTok by @" + handle
	}

	return &domain.Metadata{
		Title:   title,
		Creator: handle,
	}, nil
}
