package scrape

import (
	"context"
	"log/slog"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// MeteredService is the quota tracker key for the metered metadata source.
const MeteredService = "scraptik"

// QuotaGate gates calls to the metered adapter. Implemented by quota.Tracker.
type QuotaGate interface {
	HasQuota(service string, limit int) (bool, error)
	RecordUse(service string, limit int) (used, lim int, err error)
}

// Resolver orchestrates the source adapters in fixed priority order and
// merges their partial results into one metadata record. Adapter failures
// degrade that adapter's contribution to empty; Resolve itself never fails.
type Resolver struct {
	transcript Adapter // unmetered transcript source, always tried
	metered    Adapter // quota-gated structured metadata source
	extractor  Adapter // general-purpose extraction, tried when no title yet
	embed      Adapter // lightweight embed API, second-chance metadata
	fallback   Adapter // URL pattern derivation, cannot fail

	gate         QuotaGate
	meteredLimit int
	logger       *slog.Logger
}

// NewResolver creates a resolver over the standard adapter chain.
func NewResolver(
	transcript Adapter,
	metered Adapter,
	extractor Adapter,
	embed Adapter,
	fallback Adapter,
	gate QuotaGate,
	meteredLimit int,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		transcript:   transcript,
		metered:      metered,
		extractor:    extractor,
		embed:        embed,
		fallback:     fallback,
		gate:         gate,
		meteredLimit: meteredLimit,
		logger:       logger,
	}
}

// Resolve assembles a metadata record for a validated video URL. Sources are
// tried once each, in priority order, and merged per field: a lower-priority
// source only fills slots every higher-priority source left empty.
func (r *Resolver) Resolve(ctx context.Context, url string) *domain.Metadata {
	result := &domain.Metadata{}

	// 1. Transcript, independent of metadata. Treated as unmetered.
	result.Merge(r.try(ctx, r.transcript, url))

	// 2. Metered structured metadata, only while quota remains.
	result.Merge(r.fetchMetered(ctx, url))

	// 3. General-purpose extractor when nothing usable yet.
	if result.Title == "" {
		result.Merge(r.try(ctx, r.extractor, url))
	}

	// 4. Embed API as a second chance for a title.
	if result.Title == "" {
		result.Merge(r.try(ctx, r.embed, url))
	}

	// 5. Derive from the URL itself. Guarantees a creator or placeholder title.
	if result.Creator == "" {
		result.Merge(r.try(ctx, r.fallback, url))
	}

	// Hashtags scanned out of the description augment an empty list; they
	// never overwrite tags a higher-priority source already provided.
	if len(result.Hashtags) == 0 && result.Description != "" {
		result.Hashtags = domain.ExtractHashtags(result.Description)
	}

	return result
}

// try invokes one adapter and absorbs any failure into an empty contribution.
func (r *Resolver) try(ctx context.Context, a Adapter, url string) *domain.Metadata {
	meta, err := a.Fetch(ctx, url)
	if err != nil {
		r.logger.Warn("source adapter failed",
			"adapter", a.Name(),
			"url", url,
			"error", err,
		)
		return nil
	}
	return meta
}

// fetchMetered gates the metered adapter on the monthly quota and records one
// use per confirmed success. Failed calls never consume quota; an exhausted
// quota is a logged skip, not an error.
func (r *Resolver) fetchMetered(ctx context.Context, url string) *domain.Metadata {
	ok, err := r.gate.HasQuota(MeteredService, r.meteredLimit)
	if err != nil {
		r.logger.Error("quota check failed, skipping metered source", "error", err)
		return nil
	}
	if !ok {
		r.logger.Warn("monthly quota exhausted, skipping metered source",
			"service", MeteredService,
			"limit", r.meteredLimit,
		)
		return nil
	}

	meta, err := r.metered.Fetch(ctx, url)
	if err != nil {
		r.logger.Warn("source adapter failed",
			"adapter", r.metered.Name(),
			"url", url,
			"error", err,
		)
		return nil
	}

	used, limit, err := r.gate.RecordUse(MeteredService, r.meteredLimit)
	if err != nil {
		r.logger.Error("failed to record quota use", "error", err)
	} else {
		r.logger.Info("metered source used",
			"service", MeteredService,
			"used", used,
			"limit", limit,
		)
	}

	return meta
}
