package youtube

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/format"
)

// MaxPageSize is the upper bound the API accepts for maxResults.
const MaxPageSize = 50

// FetchItems lists the latest uploads of ch and returns them normalized, in
// the order the upstream returns them.
func (c *Client) FetchItems(ctx context.Context, apiKey string, ch feed.Channel, maxResults int) ([]feed.Item, error) {
	if maxResults < 1 || maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}

	var uploads listResponse[playlistItem]
	err := c.get(ctx, apiKey, "playlistItems", url.Values{
		"part":       {"snippet"},
		"playlistId": {ch.UploadsFeedID},
		"maxResults": {strconv.Itoa(maxResults)},
	}, &uploads)
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(uploads.Items))
	for _, it := range uploads.Items {
		if id := it.Snippet.ResourceID.VideoID; id != "" {
			videoIDs = append(videoIDs, id)
		}
	}
	if len(videoIDs) == 0 {
		return []feed.Item{}, nil
	}

	var details listResponse[videoResource]
	err = c.get(ctx, apiKey, "videos", url.Values{
		"part": {"contentDetails,statistics,snippet"},
		"id":   {strings.Join(videoIDs, ",")},
	}, &details)
	if err != nil {
		return nil, err
	}

	items := make([]feed.Item, 0, len(details.Items))
	for _, v := range details.Items {
		items = append(items, normalizeVideo(v, ch))
	}
	return items, nil
}

func normalizeVideo(v videoResource, ch feed.Channel) feed.Item {
	views, err := strconv.ParseInt(v.Statistics.ViewCount, 10, 64)
	if err != nil || views < 0 {
		views = 0
	}
	// The tag filter keys on ChannelID, so fall back to the registry entry.
	channelID, channelTitle := v.Snippet.ChannelID, v.Snippet.ChannelTitle
	if channelID == "" {
		channelID = ch.ID
	}
	if channelTitle == "" {
		channelTitle = ch.Title
	}
	return feed.Item{
		ID:               v.ID,
		Title:            v.Snippet.Title,
		ThumbnailURL:     v.Snippet.Thumbnails.Best(),
		ChannelTitle:     channelTitle,
		ChannelID:        channelID,
		ChannelAvatarURL: ch.ThumbnailURL,
		PublishedAt:      v.Snippet.PublishedAt,
		DurationSeconds:  format.ParseDuration(v.ContentDetails.Duration),
		ViewCount:        views,
	}
}
