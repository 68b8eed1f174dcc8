package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewVideo(t *testing.T) {
	v := NewVideo("https://www.tiktok.com/@user/video/123", "some context")

	if v.Status != StatusPending {
		t.Errorf("Status = %q, want %q", v.Status, StatusPending)
	}
	if v.TikTokURL != "https://www.tiktok.com/@user/video/123" {
		t.Errorf("TikTokURL = %q", v.TikTokURL)
	}
	if v.Context != "some context" {
		t.Errorf("Context = %q", v.Context)
	}
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
	if v.ProcessedAt != nil {
		t.Error("ProcessedAt should be nil for a new video")
	}
}

func TestVideo_IsTerminal(t *testing.T) {
	tests := []struct {
		status VideoStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			v := &Video{Status: tt.status}
			if got := v.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVideo_MarkCompleted(t *testing.T) {
	v := NewVideo("https://www.tiktok.com/@user/video/123", "")
	v.MarkProcessing()
	v.MarkCompleted()

	if v.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", v.Status, StatusCompleted)
	}
	if v.ProcessedAt == nil {
		t.Error("ProcessedAt should be set on completion")
	}
	if v.ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", v.ErrorMessage)
	}
}

func TestVideo_MarkFailed(t *testing.T) {
	v := NewVideo("https://www.tiktok.com/@user/video/123", "")
	v.MarkProcessing()
	v.MarkFailed("boom")

	if v.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", v.Status, StatusFailed)
	}
	if v.ErrorMessage != "boom" {
		t.Errorf("ErrorMessage = %q, want %q", v.ErrorMessage, "boom")
	}
	if v.ProcessedAt != nil {
		t.Error("ProcessedAt should be nil on failure")
	}
}

func TestVideo_MarkFailed_ClearsProcessedAt(t *testing.T) {
	// A failure after completion bookkeeping must not leave a stale
	// ProcessedAt next to a failed status.
	v := NewVideo("https://www.tiktok.com/@user/video/123", "")
	v.MarkCompleted()
	v.MarkFailed("persist error")

	if v.ProcessedAt != nil {
		t.Error("ProcessedAt should be cleared when marked failed")
	}
	if v.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", v.Status, StatusFailed)
	}
}

func TestMetadata_Merge(t *testing.T) {
	views := int64(100)
	likes := int64(10)

	tests := []struct {
		name  string
		base  Metadata
		other Metadata
		want  Metadata
	}{
		{
			name:  "fills empty fields",
			base:  Metadata{Title: "kept"},
			other: Metadata{Title: "ignored", Creator: "alice", Transcript: "hello"},
			want:  Metadata{Title: "kept", Creator: "alice", Transcript: "hello"},
		},
		{
			name:  "per field not per record",
			base:  Metadata{Title: "X"},
			other: Metadata{Title: "Y", Creator: "Z"},
			want:  Metadata{Title: "X", Creator: "Z"},
		},
		{
			name:  "counts merge independently",
			base:  Metadata{ViewCount: &views},
			other: Metadata{ViewCount: &likes, LikeCount: &likes},
			want:  Metadata{ViewCount: &views, LikeCount: &likes},
		},
		{
			name:  "hashtags only when empty",
			base:  Metadata{Hashtags: []string{"a"}},
			other: Metadata{Hashtags: []string{"b", "c"}},
			want:  Metadata{Hashtags: []string{"a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base
			got.Merge(&tt.other)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMetadata_Merge_Nil(t *testing.T) {
	m := Metadata{Title: "X"}
	m.Merge(nil)
	if m.Title != "X" {
		t.Errorf("Title = %q, want %q", m.Title, "X")
	}
}

func TestMetadata_IsEmpty(t *testing.T) {
	if !(&Metadata{}).IsEmpty() {
		t.Error("zero record should be empty")
	}
	if (&Metadata{Transcript: "words"}).IsEmpty() {
		t.Error("record with transcript should not be empty")
	}
	views := int64(1)
	if (&Metadata{ViewCount: &views}).IsEmpty() {
		t.Error("record with view count should not be empty")
	}
}

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no tags", "plain description", nil},
		{"single tag", "check this #fyp", []string{"fyp"}},
		{"multiple tags", "#cooking tips #easyrecipes #food", []string{"cooking", "easyrecipes", "food"}},
		{"underscore and digits", "#tag_1 #2024", []string{"tag_1", "2024"}},
		{"unicode tags", "learning #日本語 and #料理 today #cooking", []string{"日本語", "料理", "cooking"}},
		{"bare hash ignored", "price # 100", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractHashtags(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractHashtags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestVideo_ApplyMetadata(t *testing.T) {
	views := int64(42)
	v := NewVideo("https://www.tiktok.com/@user/video/123", "")
	v.ApplyMetadata(&Metadata{
		Title:      "a title",
		Creator:    "user",
		Hashtags:   []string{"fyp"},
		ViewCount:  &views,
		Transcript: "spoken words",
	})

	if v.Title != "a title" || v.Creator != "user" || v.Transcript != "spoken words" {
		t.Errorf("metadata not applied: %+v", v)
	}
	if v.ViewCount == nil || *v.ViewCount != 42 {
		t.Errorf("ViewCount = %v, want 42", v.ViewCount)
	}
	if !reflect.DeepEqual(v.Hashtags, []string{"fyp"}) {
		t.Errorf("Hashtags = %v", v.Hashtags)
	}
}

func TestPipelineError(t *testing.T) {
	inner := ErrVideoNotFound
	err := NewPipelineError(7, "persist metadata", inner)

	if err.Error() == "" {
		t.Fatal("Error() should not be empty")
	}
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatal("expected a PipelineError")
	}
	if pe.VideoID != 7 || pe.Stage != "persist metadata" {
		t.Errorf("unexpected fields: %+v", pe)
	}
	if !errors.Is(err, ErrVideoNotFound) {
		t.Error("wrapped error should unwrap to the inner error")
	}
}
