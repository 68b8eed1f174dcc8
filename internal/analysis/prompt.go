package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

// buildContent assembles the labeled content block fed to the model. An
// entirely empty input yields an empty string, which callers short-circuit
// into the no-content placeholders.
func buildContent(in Input) string {
	var parts []string
	if in.Title != "" {
		parts = append(parts, "Title: "+in.Title)
	}
	if in.Description != "" {
		parts = append(parts, "Description: "+in.Description)
	}
	if len(in.Hashtags) > 0 {
		tags := make([]string, len(in.Hashtags))
		for i, h := range in.Hashtags {
			tags[i] = "#" + h
		}
		parts = append(parts, "Hashtags: "+strings.Join(tags, ", "))
	}
	if in.Transcript != "" {
		parts = append(parts, "Transcript: "+in.Transcript)
	}
	if in.Context != "" {
		parts = append(parts, "User Context: "+in.Context)
	}
	return strings.Join(parts, "\n\n")
}

// buildAnalysisPrompt renders the four-lens analysis prompt.
func buildAnalysisPrompt(content string) string {
	return fmt.Sprintf(`Analyze this TikTok video content through 4 different lenses. Return a JSON object with exactly these keys: investment, product, content, knowledge.

VIDEO CONTENT:
%s

ANALYSIS LENSES:

1. INVESTMENT LENS (key: "investment")
Analyze for investment/trading signals:
- traction_indicators: List of growth/momentum signals
- market_signals: Market trends or timing opportunities
- red_flags: Warning signs or risks
- opportunity_score: 1-10 rating
- summary: 2-3 sentence investment thesis

2. PRODUCT LENS (key: "product")
Analyze for product/business opportunities:
- problem_solved: What problem does this address?
- solution_approach: How is it being solved?
- recreatability: How easy to replicate (easy/medium/hard)
- market_size: Estimated market (small/medium/large)
- monetization_potential: Revenue opportunities
- summary: 2-3 sentence product opportunity

3. CONTENT LENS (key: "content")
Analyze for content creation insights:
- hook_structure: How does it grab attention?
- engagement_techniques: What keeps viewers watching?
- format_pattern: Video format/style used
- viral_indicators: Why might this spread?
- replication_tips: How to create similar content
- summary: 2-3 sentence content strategy

4. KNOWLEDGE LENS (key: "knowledge")
Extract learnings and insights:
- key_facts: Important facts or data points
- frameworks: Mental models or frameworks mentioned
- actionable_insights: What can be applied immediately
- related_topics: Connected areas to explore
- credibility_assessment: How trustworthy is this info
- summary: 2-3 sentence knowledge takeaway

Return ONLY valid JSON, no markdown formatting or code blocks.`, content)
}

// buildChatPrompt renders the per-video chat prompt.
func buildChatPrompt(video *domain.Video, question string) string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	addJSON := func(label string, raw json.RawMessage) {
		if len(raw) > 0 {
			parts = append(parts, label+": "+string(raw))
		}
	}

	add("Title", video.Title)
	add("Creator", video.Creator)
	add("Description", video.Description)
	add("Transcript", video.Transcript)
	addJSON("Investment Analysis", video.InvestmentAnalysis)
	addJSON("Product Analysis", video.ProductAnalysis)
	addJSON("Content Analysis", video.ContentAnalysis)
	addJSON("Knowledge Analysis", video.KnowledgeAnalysis)

	return fmt.Sprintf(`You are a research assistant helping analyze a TikTok video. Use the video context below to answer the user's question.

VIDEO CONTEXT:
%s

USER QUESTION: %s

Provide a helpful, concise answer based on the video content and analysis. If the question isn't answerable from the context, say so.`, strings.Join(parts, "\n\n"), question)
}

// stripCodeFences removes markdown code fences the model sometimes wraps
// around its JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
