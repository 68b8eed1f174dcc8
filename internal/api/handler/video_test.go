package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/NiklavsD/Tikodea/internal/domain"
)

const testURL = "https://www.tiktok.com/@zachking/video/7445916814181780769"

func postJSON(t *testing.T, env *testEnv, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func patchJSON(t *testing.T, env *testEnv, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
	return out
}

func TestVideoHandler_Submit(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/api/videos", SubmitRequest{URL: testURL, Context: "why viral"})

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusAccepted, w.Body.String())
	}
	resp := decode[SubmitResponse](t, w)
	if resp.VideoID == 0 {
		t.Error("VideoID should be assigned")
	}
	if resp.Status != string(domain.StatusPending) {
		t.Errorf("Status = %q, want pending", resp.Status)
	}

	// No queue in the test env, so the pipeline runs in the background.
	env.waitForStatus(t, domain.VideoID(resp.VideoID), domain.StatusCompleted)
}

func TestVideoHandler_Submit_InvalidURL(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/api/videos", SubmitRequest{URL: "https://www.youtube.com/watch?v=x"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestVideoHandler_Submit_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/videos", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestVideoHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	v := env.seedVideo(t, testURL)

	w := get(t, env, "/api/videos/"+strconv.FormatInt(int64(v.ID), 10))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	resp := decode[VideoResponse](t, w)
	if resp.ID != int64(v.ID) || resp.Title != "seeded" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Hashtags == nil || resp.ManualTags == nil {
		t.Error("tag lists should serialize as empty arrays, not null")
	}
	if resp.ProcessedAt == nil {
		t.Error("ProcessedAt should be set for a completed video")
	}
}

func TestVideoHandler_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := get(t, env, "/api/videos/999")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestVideoHandler_Get_BadID(t *testing.T) {
	env := newTestEnv(t)

	w := get(t, env, "/api/videos/abc")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestVideoHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, testURL)
	env.seedVideo(t, "https://www.tiktok.com/@other/video/2")

	w := get(t, env, "/api/videos")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[ListResponse](t, w)
	if resp.Total != 2 || len(resp.Videos) != 2 {
		t.Errorf("total = %d, len = %d, want 2", resp.Total, len(resp.Videos))
	}
	if resp.Limit != 20 {
		t.Errorf("default limit = %d, want 20", resp.Limit)
	}
}

func TestVideoHandler_List_FavoritesFilter(t *testing.T) {
	env := newTestEnv(t)
	v := env.seedVideo(t, testURL)
	v.IsFavorite = true
	if err := env.videos.Update(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	env.seedVideo(t, "https://www.tiktok.com/@other/video/2")

	w := get(t, env, "/api/videos?favorites_only=true")

	resp := decode[ListResponse](t, w)
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestVideoHandler_Favorite(t *testing.T) {
	env := newTestEnv(t)
	v := env.seedVideo(t, testURL)

	w := patchJSON(t, env, "/api/videos/"+strconv.FormatInt(int64(v.ID), 10)+"/favorite", FavoriteRequest{IsFavorite: true})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	resp := decode[VideoResponse](t, w)
	if !resp.IsFavorite {
		t.Error("IsFavorite should be true")
	}
}

func TestVideoHandler_Tags(t *testing.T) {
	env := newTestEnv(t)
	v := env.seedVideo(t, testURL)
	path := "/api/videos/" + strconv.FormatInt(int64(v.ID), 10) + "/tags"

	w := patchJSON(t, env, path, TagsRequest{Tags: []string{"research", "ai"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[VideoResponse](t, w)
	if len(resp.ManualTags) != 2 {
		t.Errorf("ManualTags = %v", resp.ManualTags)
	}

	// Clearing tags returns an empty array, not null.
	w = patchJSON(t, env, path, TagsRequest{})
	resp = decode[VideoResponse](t, w)
	if resp.ManualTags == nil || len(resp.ManualTags) != 0 {
		t.Errorf("ManualTags = %#v, want empty array", resp.ManualTags)
	}
}
