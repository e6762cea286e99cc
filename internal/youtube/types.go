package youtube

import (
	"strconv"
	"time"

	nethtml "golang.org/x/net/html"

	"github.com/glabrego/mytube-cli/internal/feed"
)

type Thumbnail struct {
	URL string `json:"url"`
}

type Thumbnails struct {
	Default *Thumbnail `json:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty"`
}

// Best returns the highest resolution thumbnail available.
func (t Thumbnails) Best() string {
	for _, th := range []*Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

func (t Thumbnails) Small() string {
	if t.Default != nil {
		return t.Default.URL
	}
	return ""
}

// ChannelRecord is a resolved channel candidate as returned by the channels
// endpoint.
type ChannelRecord struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		CustomURL   string     `json:"customUrl"`
		Thumbnails  Thumbnails `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
	Statistics *struct {
		SubscriberCount string `json:"subscriberCount"`
		VideoCount      string `json:"videoCount"`
	} `json:"statistics,omitempty"`
}

func (r ChannelRecord) Title() string {
	return r.Snippet.Title
}

// SubscriberCount returns the parsed subscriber count and false when the
// channel hides it.
func (r ChannelRecord) SubscriberCount() (int64, bool) {
	if r.Statistics == nil || r.Statistics.SubscriberCount == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(r.Statistics.SubscriberCount, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToChannel builds the registry entry for this candidate.
func (r ChannelRecord) ToChannel(tags []string) feed.Channel {
	return feed.Channel{
		ID:            r.ID,
		Title:         r.Title(),
		ThumbnailURL:  r.Snippet.Thumbnails.Small(),
		UploadsFeedID: r.ContentDetails.RelatedPlaylists.Uploads,
		Tags:          feed.NormalizeTags(tags),
	}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}

// searchResult is a search.list hit. Unlike the other endpoints, search
// snippets come back HTML-escaped.
type searchResult struct {
	Snippet struct {
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
}

func (h searchResult) title() string {
	return nethtml.UnescapeString(h.Snippet.ChannelTitle)
}

type playlistItem struct {
	Snippet struct {
		ResourceID struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type videoResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string     `json:"title"`
		ChannelID    string     `json:"channelId"`
		ChannelTitle string     `json:"channelTitle"`
		PublishedAt  time.Time  `json:"publishedAt"`
		Thumbnails   Thumbnails `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
