package domain

import "regexp"

// Metadata is the transient result of one resolution pass over the source
// adapters. It is merged field-by-field and then flattened onto a Video.
type Metadata struct {
	Title        string
	Description  string
	Creator      string
	Hashtags     []string
	ViewCount    *int64
	LikeCount    *int64
	ThumbnailURL string
	Transcript   string
}

// Merge fills empty fields of m from other. m is the higher-priority record:
// a field from other only lands in a slot every higher-priority adapter left
// empty. First-non-empty wins per field, not per record.
func (m *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	if m.Title == "" {
		m.Title = other.Title
	}
	if m.Description == "" {
		m.Description = other.Description
	}
	if m.Creator == "" {
		m.Creator = other.Creator
	}
	if len(m.Hashtags) == 0 {
		m.Hashtags = other.Hashtags
	}
	if m.ViewCount == nil {
		m.ViewCount = other.ViewCount
	}
	if m.LikeCount == nil {
		m.LikeCount = other.LikeCount
	}
	if m.ThumbnailURL == "" {
		m.ThumbnailURL = other.ThumbnailURL
	}
	if m.Transcript == "" {
		m.Transcript = other.Transcript
	}
}

// IsEmpty reports whether the record carries no data at all.
func (m *Metadata) IsEmpty() bool {
	return m.Title == "" && m.Description == "" && m.Creator == "" &&
		len(m.Hashtags) == 0 && m.ViewCount == nil && m.LikeCount == nil &&
		m.ThumbnailURL == "" && m.Transcript == ""
}

// Hashtags on TikTok are frequently non-Latin, so the token class must cover
// unicode letters and digits rather than ASCII \w.
var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags scans free text for #token patterns.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}
