package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/storage"
	"github.com/glabrego/mytube-cli/internal/youtube"
)

func newSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "mytube.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return store
}

func TestIntegration_FakeUpstreamWithSQLite(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
			return
		}
		var body any
		switch r.URL.Path {
		case "/channels":
			body = map[string]any{"items": []any{map[string]any{
				"id":             "UCxxxxxxxxxxxxxxxxxxxxxx",
				"snippet":        map[string]any{"title": "Example", "thumbnails": map[string]any{"default": map[string]any{"url": "https://img/d"}}},
				"contentDetails": map[string]any{"relatedPlaylists": map[string]any{"uploads": "UUxxxx"}},
			}}}
		case "/playlistItems":
			body = map[string]any{"items": []any{
				map[string]any{"snippet": map[string]any{"resourceId": map[string]any{"videoId": "v1"}}},
				map[string]any{"snippet": map[string]any{"resourceId": map[string]any{"videoId": "v2"}}},
			}}
		case "/videos":
			body = map[string]any{"items": []any{
				map[string]any{
					"id":             "v1",
					"snippet":        map[string]any{"title": "Long", "publishedAt": "2025-03-01T10:00:00Z"},
					"contentDetails": map[string]any{"duration": "PT12M"},
					"statistics":     map[string]any{"viewCount": "1500"},
				},
				map[string]any{
					"id":             "v2",
					"snippet":        map[string]any{"title": "Short", "publishedAt": "2025-03-01T11:00:00Z"},
					"contentDetails": map[string]any{"duration": "PT40S"},
				},
			}}
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := newSQLiteStore(t)
	client := youtube.NewClient(ts.URL, nil, youtube.WithMaxRetries(0))
	svc := NewService(client, store, WithFallbackAPIKey("k"))
	svc.Load(ctx)

	candidates, err := svc.SearchChannels(ctx, "@example")
	if err != nil {
		t.Fatalf("SearchChannels returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %+v", candidates)
	}
	if _, err := svc.AddChannel(ctx, candidates[0], []string{"demo"}); err != nil {
		t.Fatalf("AddChannel returned error: %v", err)
	}

	items, err := svc.RefreshFeed(ctx, true)
	if err != nil {
		t.Fatalf("RefreshFeed returned error: %v", err)
	}
	if got := itemIDs(items); !equalIDs(got, "v2", "v1") {
		t.Fatalf("unexpected feed order: %v", got)
	}
	if got := itemIDs(svc.Visible(feed.TabNew, "demo")); !equalIDs(got, "v1") {
		t.Fatalf("unexpected visible items: %v", got)
	}

	reopened := NewService(client, store)
	reopened.Load(ctx)
	st := reopened.State()
	if len(st.Channels) != 1 || st.Channels[0].UploadsFeedID != "UUxxxx" {
		t.Fatalf("channels not persisted: %+v", st.Channels)
	}
	if len(st.Cache.Items) != 2 || st.Cache.FetchedAt.IsZero() {
		t.Fatalf("feed cache not persisted: %+v", st.Cache)
	}
}

func TestIntegration_LiveAPI(t *testing.T) {
	if os.Getenv("MYTUBE_INTEGRATION") != "1" {
		t.Skip("set MYTUBE_INTEGRATION=1 to run integration tests")
	}
	apiKey := os.Getenv("MYTUBE_API_KEY")
	if apiKey == "" {
		t.Skip("MYTUBE_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	svc := NewService(youtube.NewClient(youtube.DefaultBaseURL, nil), newSQLiteStore(t), WithFallbackAPIKey(apiKey))
	svc.Load(ctx)

	candidates, err := svc.SearchChannels(ctx, "@YouTube")
	if err != nil {
		t.Fatalf("SearchChannels returned error: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if _, err := svc.AddChannel(ctx, candidates[0], nil); err != nil {
		t.Fatalf("AddChannel returned error: %v", err)
	}
	items, err := svc.RefreshFeed(ctx, false)
	if err != nil {
		t.Fatalf("RefreshFeed returned error: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected at least one item from refresh")
	}
}
