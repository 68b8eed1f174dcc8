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

const oembedBaseURL = "https://www.tiktok.com/oembed"

// OembedClient fetches basic metadata from TikTok's public oEmbed endpoint.
// It only ever yields title, creator and thumbnail; never engagement counts.
type OembedClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOembedClient creates a TikTok oEmbed client.
func NewOembedClient(cfg config.ScrapeConfig) *OembedClient {
	timeout := cfg.OembedTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport
	if cfg.ProxyURL != "" {
		if proxy, err := url.Parse(cfg.ProxyURL); err == nil {
			transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
		}
	}

	return &OembedClient{
		baseURL: oembedBaseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Name identifies the adapter in logs.
func (c *OembedClient) Name() string { return "oembed" }

// Fetch retrieves oEmbed metadata for a video URL.
func (c *OembedClient) Fetch(ctx context.Context, videoURL string) (*domain.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?url="+url.QueryEscape(videoURL), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("oembed status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// oEmbed has no separate description; the title doubles as one.
	return &domain.Metadata{
		Title:        result.Title,
		Description:  result.Title,
		Creator:      result.AuthorName,
		ThumbnailURL: result.ThumbnailURL,
	}, nil
}
