// Package feed holds the channel registry model, the normalized item model
// and the pure pipeline stages that turn fetched items into a view.
package feed

import (
	"slices"
	"time"
)

// Channel is a subscribed upstream channel. JSON field names match the
// settings payload shared with other devices.
type Channel struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ThumbnailURL  string   `json:"thumbnail"`
	UploadsFeedID string   `json:"uploadsPlaylistId"`
	Tags          []string `json:"tags"`
}

func (c Channel) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// Item is a normalized video. Items are rebuilt on every fetch and never
// mutated afterwards.
type Item struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ThumbnailURL     string    `json:"thumbnail"`
	ChannelTitle     string    `json:"channelTitle"`
	ChannelID        string    `json:"channelId"`
	ChannelAvatarURL string    `json:"channelAvatar"`
	PublishedAt      time.Time `json:"publishedAt"`
	DurationSeconds  int       `json:"durationSeconds"`
	ViewCount        int64     `json:"viewCount"`
}

const watchURLBase = "https://www.youtube.com/watch?v="

func (i Item) WatchURL() string {
	return watchURLBase + i.ID
}
