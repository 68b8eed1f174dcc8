package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/domain"
)

const supadataBaseURL = "https://api.supadata.ai/v1"

// SupadataClient fetches video transcripts from the Supadata API.
type SupadataClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSupadataClient creates a Supadata transcript client.
func NewSupadataClient(cfg config.ScrapeConfig) *SupadataClient {
	timeout := cfg.SupadataTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SupadataClient{
		apiKey:  cfg.SupadataAPIKey,
		baseURL: supadataBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the adapter in logs.
func (c *SupadataClient) Name() string { return "supadata" }

// Fetch retrieves the transcript for a video. A missing API key or a video
// without a transcript yields an empty result, not an error.
func (c *SupadataClient) Fetch(ctx context.Context, videoURL string) (*domain.Metadata, error) {
	if c.apiKey == "" {
		return &domain.Metadata{}, nil
	}

	q := url.Values{}
	q.Set("url", videoURL)
	q.Set("text", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parse
	case http.StatusNotFound:
		// Video not found or no transcript available.
		return &domain.Metadata{}, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("supadata status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &domain.Metadata{Transcript: result.Content}, nil
}
