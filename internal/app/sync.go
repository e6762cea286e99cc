package app

import (
	"context"
	"fmt"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/settings"
	"github.com/glabrego/mytube-cli/internal/storage"
)

// Export snapshots the portable part of the state.
func (s *Service) Export() settings.Payload {
	st := s.State()
	return settings.Payload{
		APIKey:       st.APIKey,
		Channels:     st.Channels,
		FilterShorts: st.FilterShorts,
		WatchedIDs:   st.Watched.Slice(),
	}
}

func (s *Service) ExportFile() ([]byte, error) {
	return settings.EncodeFile(s.Export())
}

// Import overwrites every field present in the patch and always invalidates
// the feed cache. Nothing is applied in memory unless every write succeeds.
func (s *Service) Import(ctx context.Context, patch settings.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if patch.APIKey != nil {
		next.APIKey = *patch.APIKey
		if err := storage.Save(ctx, s.store, KeyAPIKey, next.APIKey); err != nil {
			return fmt.Errorf("import api key: %w", err)
		}
	}
	if patch.HasChannels() {
		channels := make([]feed.Channel, len(patch.Channels))
		for i, ch := range patch.Channels {
			ch.Tags = feed.NormalizeTags(ch.Tags)
			channels[i] = ch
		}
		next.Channels = channels
		if err := storage.Save(ctx, s.store, KeyChannels, channels); err != nil {
			return fmt.Errorf("import channels: %w", err)
		}
	}
	if patch.FilterShorts != nil {
		next.FilterShorts = *patch.FilterShorts
		if err := storage.Save(ctx, s.store, KeyFilterShorts, next.FilterShorts); err != nil {
			return fmt.Errorf("import shorts filter: %w", err)
		}
	}
	if patch.HasWatched() {
		next.Watched = feed.NewIDSet(patch.WatchedIDs)
		if err := storage.Save(ctx, s.store, KeyWatchedIDs, next.Watched.Slice()); err != nil {
			return fmt.Errorf("import watched ids: %w", err)
		}
	}

	s.state = next
	s.invalidateCacheLocked(ctx)
	s.logger.Info().
		Bool("api_key", patch.APIKey != nil).
		Bool("channels", patch.HasChannels()).
		Bool("filter_shorts", patch.FilterShorts != nil).
		Bool("watched", patch.HasWatched()).
		Msg("settings imported")
	return nil
}

// ImportFile parses a settings document and imports it. A malformed document
// leaves the state untouched.
func (s *Service) ImportFile(ctx context.Context, data []byte) error {
	patch, err := settings.ParsePayload(data)
	if err != nil {
		return err
	}
	return s.Import(ctx, patch)
}

func (s *Service) SyncLink(base string) (string, error) {
	return settings.SyncLink(base, s.Export())
}

// ApplySyncLink decodes a sync link and imports it. Decode failures return
// settings.ErrInvalidSyncLink and change nothing.
func (s *Service) ApplySyncLink(ctx context.Context, link string) error {
	patch, err := settings.DecodeSyncLink(link)
	if err != nil {
		return err
	}
	return s.Import(ctx, patch)
}
