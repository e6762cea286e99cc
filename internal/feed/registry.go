package feed

import (
	"errors"
	"slices"
)

var (
	ErrChannelExists   = errors.New("channel already added")
	ErrChannelNotFound = errors.New("channel not found")
	ErrEmptyTag        = errors.New("tag is empty")
)

// The registry functions never modify their input slice; callers persist the
// returned slice and swap it in.

func AddChannel(channels []Channel, ch Channel) ([]Channel, error) {
	if IndexOfChannel(channels, ch.ID) >= 0 {
		return channels, ErrChannelExists
	}
	ch.Tags = NormalizeTags(ch.Tags)
	out := make([]Channel, 0, len(channels)+1)
	out = append(out, channels...)
	return append(out, ch), nil
}

func RemoveChannel(channels []Channel, id string) ([]Channel, Channel, bool) {
	idx := IndexOfChannel(channels, id)
	if idx < 0 {
		return channels, Channel{}, false
	}
	removed := channels[idx]
	out := make([]Channel, 0, len(channels)-1)
	out = append(out, channels[:idx]...)
	out = append(out, channels[idx+1:]...)
	return out, removed, true
}

// AddTag adds a normalized tag to a channel. Adding a tag the channel already
// has is a no-op.
func AddTag(channels []Channel, channelID, tag string) ([]Channel, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return channels, ErrEmptyTag
	}
	return editTags(channels, channelID, func(tags []string) []string {
		if slices.Contains(tags, tag) {
			return tags
		}
		return append(slices.Clone(tags), tag)
	})
}

func RemoveTag(channels []Channel, channelID, tag string) ([]Channel, error) {
	tag = NormalizeTag(tag)
	return editTags(channels, channelID, func(tags []string) []string {
		return slices.DeleteFunc(slices.Clone(tags), func(t string) bool { return t == tag })
	})
}

func editTags(channels []Channel, channelID string, edit func([]string) []string) ([]Channel, error) {
	idx := IndexOfChannel(channels, channelID)
	if idx < 0 {
		return channels, ErrChannelNotFound
	}
	out := slices.Clone(channels)
	out[idx].Tags = edit(out[idx].Tags)
	return out, nil
}

func IndexOfChannel(channels []Channel, id string) int {
	return slices.IndexFunc(channels, func(c Channel) bool { return c.ID == id })
}
