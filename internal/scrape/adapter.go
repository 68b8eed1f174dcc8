// Package scrape acquires TikTok video metadata and transcripts through a
// prioritized chain of unreliable external sources.
package scrape

import (
	"context"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// Adapter is a single external data source. Fetch returns whatever partial
// metadata the source could produce for the URL. An error means the source
// contributed nothing this time; the resolver absorbs it and moves on, so an
// adapter failure can never abort a resolution.
type Adapter interface {
	// Name identifies the adapter in logs.
	Name() string

	// Fetch attempts to retrieve metadata for a video URL.
	Fetch(ctx context.Context, url string) (*domain.Metadata, error)
}
