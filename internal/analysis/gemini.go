package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/domain"
)

// Gemini implements Analyzer using Google's Gemini models.
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGemini creates a Gemini-backed analyzer.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Gemini{
		client:  client,
		model:   client.GenerativeModel(cfg.Model),
		timeout: timeout,
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Analyze runs the four-lens analysis. Model and parse failures are folded
// into per-lens error placeholders; Analyze never fails.
func (g *Gemini) Analyze(ctx context.Context, in Input) Result {
	content := buildContent(in)
	if strings.TrimSpace(content) == "" {
		return NoContentResult()
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generate(ctx, buildAnalysisPrompt(content))
	if err != nil {
		return ErrorResult(err.Error())
	}

	var result Result
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &result); err != nil {
		return ErrorResult("JSON parse error: " + err.Error())
	}

	return result
}

// Answer responds to a question about a processed video.
func (g *Gemini) Answer(ctx context.Context, video *domain.Video, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generate(ctx, buildChatPrompt(video, question))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// generate sends one prompt and returns the concatenated text parts.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}
