package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NiklavsD/Tikodea/internal/analysis"
	"github.com/NiklavsD/Tikodea/internal/domain"
	"github.com/NiklavsD/Tikodea/internal/quota"
	"github.com/NiklavsD/Tikodea/internal/repository"
	"github.com/NiklavsD/Tikodea/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeVideoRepo is an in-memory VideoRepository for handler tests.
type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[domain.VideoID]*domain.Video
	nextID domain.VideoID
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[domain.VideoID]*domain.Video), nextID: 1}
}

func (f *fakeVideoRepo) Create(ctx context.Context, v *domain.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.nextID
	f.nextID++
	copied := *v
	f.videos[v.ID] = &copied
	return nil
}

func (f *fakeVideoRepo) Get(ctx context.Context, id domain.VideoID) (*domain.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideoRepo) Update(ctx context.Context, v *domain.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[v.ID]; !ok {
		return domain.ErrVideoNotFound
	}
	copied := *v
	f.videos[v.ID] = &copied
	return nil
}

func (f *fakeVideoRepo) List(ctx context.Context, filter repository.ListFilter) ([]*domain.Video, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Video
	for _, v := range f.videos {
		if filter.FavoritesOnly && !v.IsFavorite {
			continue
		}
		copied := *v
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeVideoRepo) StatusCounts(ctx context.Context) (repository.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts repository.StatusCounts
	for _, v := range f.videos {
		switch v.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusProcessing:
			counts.Processing++
		case domain.StatusCompleted:
			counts.Completed++
		case domain.StatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}

// fakeChatRepo is an in-memory ChatRepository.
type fakeChatRepo struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	nextID   int64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{nextID: 1}
}

func (f *fakeChatRepo) Append(ctx context.Context, msg *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = f.nextID
	f.nextID++
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatRepo) ListByVideo(ctx context.Context, videoID domain.VideoID) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ChatMessage
	for _, msg := range f.messages {
		if msg.VideoID == videoID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, url string) *domain.Metadata {
	return &domain.Metadata{Title: "resolved title", Creator: "someone"}
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(ctx context.Context, in analysis.Input) analysis.Result {
	lens := json.RawMessage(`{"summary":"ok"}`)
	return analysis.Result{Investment: lens, Product: lens, Content: lens, Knowledge: lens}
}

func (fakeAnalyzer) Answer(ctx context.Context, v *domain.Video, q string) (string, error) {
	return "canned answer", nil
}

// testEnv wires real service logic over in-memory repositories, with no
// queue so submissions process synchronously in the background.
type testEnv struct {
	videos *fakeVideoRepo
	chats  *fakeChatRepo
	svc    *service.VideoService
	router *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	videos := newFakeVideoRepo()
	chats := newFakeChatRepo()
	tracker := quota.NewTracker(quota.NewMemoryStore())
	svc := service.NewVideoService(videos, chats, fakeResolver{}, fakeAnalyzer{}, nil, tracker, 50, testLogger())

	logger := testLogger()
	videoHandler := NewVideoHandler(svc, logger)
	chatHandler := NewChatHandler(svc, logger)
	healthHandler := NewHealthHandler(svc, logger)
	quotaHandler := NewQuotaHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/health", healthHandler.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", healthHandler.Stats)
		r.Get("/quota", quotaHandler.Status)
		r.Post("/videos", videoHandler.Submit)
		r.Get("/videos", videoHandler.List)
		r.Get("/videos/{videoID}", videoHandler.Get)
		r.Patch("/videos/{videoID}/favorite", videoHandler.Favorite)
		r.Patch("/videos/{videoID}/tags", videoHandler.Tags)
		r.Get("/videos/{videoID}/chat", chatHandler.History)
		r.Post("/videos/{videoID}/chat", chatHandler.Ask)
	})

	return &testEnv{videos: videos, chats: chats, svc: svc, router: r}
}

// seedVideo inserts a completed video directly into the repo.
func (e *testEnv) seedVideo(t *testing.T, url string) *domain.Video {
	t.Helper()
	v := domain.NewVideo(url, "")
	v.Title = "seeded"
	v.MarkCompleted()
	if err := e.videos.Create(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	return v
}

// waitForStatus polls until the video reaches the wanted status.
func (e *testEnv) waitForStatus(t *testing.T, id domain.VideoID, want domain.VideoStatus) *domain.Video {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := e.videos.Get(context.Background(), id)
		if err == nil && v.Status == want {
			return v
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("video %d never reached %q", id, want)
	return nil
}
