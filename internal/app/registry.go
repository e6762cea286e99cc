package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/storage"
	"github.com/glabrego/mytube-cli/internal/youtube"
)

// SearchChannels resolves a user query into channel candidates.
func (s *Service) SearchChannels(ctx context.Context, query string) ([]youtube.ChannelRecord, error) {
	query = strings.TrimSpace(query)
	s.mu.Lock()
	apiKey := s.effectiveKeyLocked()
	s.mu.Unlock()
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	records, err := s.catalog.ResolveChannels(ctx, apiKey, query)
	if err != nil {
		return nil, fmt.Errorf("search channels: %w", err)
	}
	return records, nil
}

// AddChannel registers a resolved candidate and invalidates the feed cache.
func (s *Service) AddChannel(ctx context.Context, rec youtube.ChannelRecord, tags []string) (feed.Channel, error) {
	ch := rec.ToChannel(tags)

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := feed.AddChannel(s.state.Channels, ch)
	if err != nil {
		return feed.Channel{}, err
	}
	if err := s.commitChannelsLocked(ctx, next); err != nil {
		return feed.Channel{}, err
	}
	s.invalidateCacheLocked(ctx)
	s.logger.Info().Str("channel_id", ch.ID).Strs("tags", ch.Tags).Msg("channel added")
	return ch, nil
}

// RemoveChannel drops a channel and invalidates the feed cache. ok is false
// when no channel has that id.
func (s *Service) RemoveChannel(ctx context.Context, id string) (feed.Channel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, removed, ok := feed.RemoveChannel(s.state.Channels, id)
	if !ok {
		return feed.Channel{}, false, nil
	}
	if err := s.commitChannelsLocked(ctx, next); err != nil {
		return feed.Channel{}, false, err
	}
	s.invalidateCacheLocked(ctx)
	s.logger.Info().Str("channel_id", id).Msg("channel removed")
	return removed, true, nil
}

// AddTag and RemoveTag only change how the cached feed is filtered; the cache
// itself stays valid.
func (s *Service) AddTag(ctx context.Context, channelID, tag string) error {
	return s.editTags(ctx, func(chs []feed.Channel) ([]feed.Channel, error) {
		return feed.AddTag(chs, channelID, tag)
	})
}

func (s *Service) RemoveTag(ctx context.Context, channelID, tag string) error {
	return s.editTags(ctx, func(chs []feed.Channel) ([]feed.Channel, error) {
		return feed.RemoveTag(chs, channelID, tag)
	})
}

func (s *Service) editTags(ctx context.Context, edit func([]feed.Channel) ([]feed.Channel, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := edit(s.state.Channels)
	if err != nil {
		return err
	}
	return s.commitChannelsLocked(ctx, next)
}

func (s *Service) Channels() []feed.Channel {
	return s.State().Channels
}

func (s *Service) AllTags() []string {
	return feed.AllTags(s.State().Channels)
}

func (s *Service) commitChannelsLocked(ctx context.Context, channels []feed.Channel) error {
	if err := storage.Save(ctx, s.store, KeyChannels, channels); err != nil {
		return fmt.Errorf("save channels: %w", err)
	}
	s.state.Channels = channels
	return nil
}
