package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/domain"
)

const (
	scraptikBaseURL = "https://scraptik.p.rapidapi.com"
	scraptikHost    = "scraptik.p.rapidapi.com"
)

// ScrapTikClient fetches structured post metadata from the ScrapTik RapidAPI.
// This is the metered source: the resolver gates every call on the monthly
// quota tracker and records one use per confirmed success.
type ScrapTikClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewScrapTikClient creates a ScrapTik metadata client.
func NewScrapTikClient(cfg config.ScrapeConfig) *ScrapTikClient {
	timeout := cfg.ScrapTikTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScrapTikClient{
		apiKey:  cfg.ScrapTikAPIKey,
		baseURL: scraptikBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name identifies the adapter in logs.
func (c *ScrapTikClient) Name() string { return "scraptik" }

// scraptikPost mirrors the relevant slice of the get-post response.
type scraptikPost struct {
	AwemeDetail struct {
		Desc   string `json:"desc"`
		Author struct {
			UniqueID string `json:"unique_id"`
			Nickname string `json:"nickname"`
		} `json:"author"`
		Statistics struct {
			PlayCount *int64 `json:"play_count"`
			DiggCount *int64 `json:"digg_count"`
		} `json:"statistics"`
		Video struct {
			Cover struct {
				URLList []string `json:"url_list"`
			} `json:"cover"`
		} `json:"video"`
		TextExtra []struct {
			HashtagName string `json:"hashtag_name"`
		} `json:"text_extra"`
	} `json:"aweme_detail"`
}

// Fetch retrieves structured metadata for a video. Only canonical video URLs
// carry the numeric id ScrapTik needs; short links fail here and fall through
// to the other sources without consuming quota.
func (c *ScrapTikClient) Fetch(ctx context.Context, videoURL string) (*domain.Metadata, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	_, videoID := ParseVideoRef(videoURL)
	if videoID == "" {
		return nil, fmt.Errorf("no video id in URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-post?aweme_id="+videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", scraptikHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraptik status %d: %s", resp.StatusCode, string(body))
	}

	var post scraptikPost
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detail := post.AwemeDetail

	creator := detail.Author.UniqueID
	if creator == "" {
		creator = detail.Author.Nickname
	}

	var hashtags []string
	for _, te := range detail.TextExtra {
		if te.HashtagName != "" {
			hashtags = append(hashtags, te.HashtagName)
		}
	}
	if len(hashtags) == 0 {
		hashtags = domain.ExtractHashtags(detail.Desc)
	}

	var thumbnail string
	if urls := detail.Video.Cover.URLList; len(urls) > 0 {
		thumbnail = urls[0]
	}

	return &domain.Metadata{
		Title:        detail.Desc,
		Description:  detail.Desc,
		Creator:      creator,
		Hashtags:     hashtags,
		ViewCount:    detail.Statistics.PlayCount,
		LikeCount:    detail.Statistics.DiggCount,
		ThumbnailURL: thumbnail,
	}, nil
}
