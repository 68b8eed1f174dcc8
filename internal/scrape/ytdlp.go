package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/domain"
)

// YtdlpAdapter extracts metadata through the yt-dlp command-line extractor.
// TikTok intermittently blocks it, so failures are expected and opaque.
type YtdlpAdapter struct {
	path      string
	timeout   time.Duration
	proxyURL  string
	userAgent string
}

// NewYtdlpAdapter creates a yt-dlp metadata adapter.
func NewYtdlpAdapter(cfg config.ScrapeConfig) *YtdlpAdapter {
	path := cfg.YtdlpPath
	if path == "" {
		path = "yt-dlp"
	}
	timeout := cfg.YtdlpTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &YtdlpAdapter{
		path:      path,
		timeout:   timeout,
		proxyURL:  cfg.ProxyURL,
		userAgent: cfg.UserAgent,
	}
}

// Name identifies the adapter in logs.
func (a *YtdlpAdapter) Name() string { return "yt-dlp" }

// ytdlpInfo mirrors the relevant slice of yt-dlp's -J output.
type ytdlpInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Uploader    string `json:"uploader"`
	Channel     string `json:"channel"`
	ViewCount   *int64 `json:"view_count"`
	LikeCount   *int64 `json:"like_count"`
	Thumbnail   string `json:"thumbnail"`
}

// Fetch runs yt-dlp in metadata-only mode and parses its JSON output.
func (a *YtdlpAdapter) Fetch(ctx context.Context, videoURL string) (*domain.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := []string{"-J", "--skip-download", "--no-warnings"}
	if a.proxyURL != "" {
		args = append(args, "--proxy", a.proxyURL)
	}
	if a.userAgent != "" {
		args = append(args, "--user-agent", a.userAgent)
	}
	args = append(args, videoURL)

	cmd := exec.CommandContext(ctx, a.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		if strings.Contains(strings.ToLower(msg), "blocked") {
			return nil, fmt.Errorf("access blocked")
		}
		return nil, fmt.Errorf("yt-dlp: %s", firstLine(msg))
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	creator := info.Uploader
	if creator == "" {
		creator = info.Channel
	}

	return &domain.Metadata{
		Title:        info.Title,
		Description:  info.Description,
		Creator:      creator,
		Hashtags:     domain.ExtractHashtags(info.Description),
		ViewCount:    info.ViewCount,
		LikeCount:    info.LikeCount,
		ThumbnailURL: info.Thumbnail,
	}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
