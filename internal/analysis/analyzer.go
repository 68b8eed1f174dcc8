// Package analysis runs the four-lens LLM analysis over assembled video
// content and answers follow-up questions about a processed video.
package analysis

import (
	"context"
	"encoding/json"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// Input is the assembled text content for one video.
type Input struct {
	Transcript  string
	Title       string
	Description string
	Hashtags    []string
	Context     string // optional user-provided context
}

// Result holds the four labeled analyses. Each lens is a structured JSON
// object, or an {"error": reason} placeholder when that lens could not be
// produced.
type Result struct {
	Investment json.RawMessage `json:"investment"`
	Product    json.RawMessage `json:"product"`
	Content    json.RawMessage `json:"content"`
	Knowledge  json.RawMessage `json:"knowledge"`
}

// Analyzer is the analysis engine. Analyze never fails: internal errors are
// folded into per-lens placeholders, so callers always receive a structurally
// valid four-lens result.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) Result

	// Answer responds to a question about a processed video using its
	// metadata, transcript and analyses as context.
	Answer(ctx context.Context, video *domain.Video, question string) (string, error)
}

// errorPlaceholder builds the {"error": reason} lens value.
func errorPlaceholder(reason string) json.RawMessage {
	raw, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: reason})
	if err != nil {
		return json.RawMessage(`{"error":"analysis failed"}`)
	}
	return raw
}

// ErrorResult returns a Result with the same placeholder in all four lenses.
// Calling it twice with the same reason yields identical results.
func ErrorResult(reason string) Result {
	p := errorPlaceholder(reason)
	return Result{
		Investment: p,
		Product:    p,
		Content:    p,
		Knowledge:  p,
	}
}

// NoContentResult is the uniform placeholder result for empty input.
func NoContentResult() Result {
	return ErrorResult("No content to analyze")
}
