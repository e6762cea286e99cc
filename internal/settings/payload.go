// Package settings encodes and decodes the portable settings payload used by
// file export/import and by sync links.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glabrego/mytube-cli/internal/feed"
)

var ErrInvalidPayload = errors.New("invalid settings payload")

// Payload is the full exported settings document.
type Payload struct {
	APIKey       string         `json:"apiKey"`
	Channels     []feed.Channel `json:"channels"`
	FilterShorts bool           `json:"filterShorts"`
	WatchedIDs   []string       `json:"watchedIds"`
}

// Patch is a decoded payload where every field is optional. A nil field is
// left untouched when the patch is applied.
type Patch struct {
	APIKey       *string
	Channels     []feed.Channel
	FilterShorts *bool
	WatchedIDs   []string

	hasChannels bool
	hasWatched  bool
}

func (p Patch) HasChannels() bool { return p.hasChannels }
func (p Patch) HasWatched() bool  { return p.hasWatched }

// PatchOf returns a patch that replaces every field with the payload's.
func PatchOf(p Payload) Patch {
	out := Patch{
		FilterShorts: &p.FilterShorts,
		Channels:     nonNilChannels(p.Channels),
		WatchedIDs:   nonNilStrings(p.WatchedIDs),
		hasChannels:  true,
		hasWatched:   true,
	}
	if p.APIKey != "" {
		key := p.APIKey
		out.APIKey = &key
	}
	return out
}

type wirePayload struct {
	APIKey       *string         `json:"apiKey"`
	Channels     *[]feed.Channel `json:"channels"`
	FilterShorts *bool           `json:"filterShorts"`
	WatchedIDs   *[]string       `json:"watchedIds"`
}

// ParsePayload decodes a settings document. The document must be a JSON
// object; fields of the wrong type make the whole document invalid. An empty
// apiKey is treated as absent.
func ParsePayload(data []byte) (Patch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Patch{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	var wire wirePayload
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var patch Patch
	if wire.APIKey != nil && *wire.APIKey != "" {
		patch.APIKey = wire.APIKey
	}
	if wire.Channels != nil {
		patch.Channels = nonNilChannels(*wire.Channels)
		patch.hasChannels = true
	}
	patch.FilterShorts = wire.FilterShorts
	if wire.WatchedIDs != nil {
		patch.WatchedIDs = nonNilStrings(*wire.WatchedIDs)
		patch.hasWatched = true
	}
	return patch, nil
}

// EncodeFile renders the payload as an indented JSON document.
func EncodeFile(p Payload) ([]byte, error) {
	p.Channels = nonNilChannels(p.Channels)
	p.WatchedIDs = nonNilStrings(p.WatchedIDs)
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return append(out, '\n'), nil
}

func nonNilChannels(in []feed.Channel) []feed.Channel {
	out := make([]feed.Channel, len(in))
	for i, ch := range in {
		if ch.Tags == nil {
			ch.Tags = []string{}
		}
		out[i] = ch
	}
	return out
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
