package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glabrego/mytube-cli/internal/feed"
)

func TestFetchItems_NormalizesVideos(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/playlistItems":
			if q.Get("playlistId") != "UUabc" || q.Get("maxResults") != "10" {
				t.Fatalf("unexpected playlist query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"items":[{"snippet":{"resourceId":{"videoId":"v1"}}},{"snippet":{"resourceId":{"videoId":"v2"}}}]}`))
		case "/videos":
			if q.Get("id") != "v1,v2" || q.Get("part") != "contentDetails,statistics,snippet" {
				t.Fatalf("unexpected videos query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"items":[
				{"id":"v1","snippet":{"title":"Tips &amp; Tricks","channelId":"UCabc","channelTitle":"Chan","publishedAt":"2026-02-01T10:00:00Z",
				  "thumbnails":{"default":{"url":"d1"},"medium":{"url":"m1"},"high":{"url":"h1"}}},
				 "contentDetails":{"duration":"PT1H2M3S"},"statistics":{"viewCount":"4321"}},
				{"id":"v2","snippet":{"title":"Short","channelId":"UCabc","channelTitle":"Chan","publishedAt":"2026-01-31T10:00:00Z",
				  "thumbnails":{"default":{"url":"d2"}}},
				 "contentDetails":{"duration":"PT45S"},"statistics":{}}
			]}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	c := newTestClient(ts)
	ch := feed.Channel{ID: "UCabc", ThumbnailURL: "avatar.jpg", UploadsFeedID: "UUabc"}
	items, err := c.FetchItems(context.Background(), "k", ch, 10)
	if err != nil {
		t.Fatalf("FetchItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Tips &amp; Tricks" || first.ThumbnailURL != "h1" || first.DurationSeconds != 3723 || first.ViewCount != 4321 {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if first.ChannelAvatarURL != "avatar.jpg" || first.ChannelID != "UCabc" {
		t.Fatalf("unexpected channel fields: %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publishedAt: %s", first.PublishedAt)
	}

	second := items[1]
	if second.ThumbnailURL != "d2" || second.ViewCount != 0 || second.DurationSeconds != 45 {
		t.Fatalf("unexpected second item: %+v", second)
	}
}

func TestFetchItems_EmptyPlaylistSkipsDetails(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/playlistItems" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	items, err := c.FetchItems(context.Background(), "k", feed.Channel{UploadsFeedID: "UU"}, 0)
	if err != nil {
		t.Fatalf("FetchItems returned error: %v", err)
	}
	if len(items) != 0 || calls != 1 {
		t.Fatalf("expected empty result after one call, got %d items, %d calls", len(items), calls)
	}
}

func TestThumbnails_Best(t *testing.T) {
	th := Thumbnails{Default: &Thumbnail{URL: "d"}, Medium: &Thumbnail{URL: "m"}}
	if got := th.Best(); got != "m" {
		t.Fatalf("expected medium thumbnail, got %q", got)
	}
	if got := (Thumbnails{}).Best(); got != "" {
		t.Fatalf("expected empty thumbnail, got %q", got)
	}
}
