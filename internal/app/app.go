package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/mytube-cli/internal/feed"
	"github.com/glabrego/mytube-cli/internal/storage"
	"github.com/glabrego/mytube-cli/internal/youtube"
)

// Storage keys. They match the keys used by the browser build so exported
// state lines up one to one.
const (
	KeyAPIKey       = "mytube_api_key"
	KeyChannels     = "mytube_channels"
	KeyFilterShorts = "mytube_filter_shorts"
	KeyVideoCache   = "mytube_video_cache"
	KeyCacheTime    = "mytube_cache_time"
	KeyWatchedIDs   = "mytube_watched_ids"
)

var (
	ErrMissingAPIKey   = errors.New("no API key configured")
	ErrChannelExists   = feed.ErrChannelExists
	ErrChannelNotFound = feed.ErrChannelNotFound
)

type Catalog interface {
	ResolveChannels(ctx context.Context, apiKey, query string) ([]youtube.ChannelRecord, error)
	FetchItems(ctx context.Context, apiKey string, ch feed.Channel, maxResults int) ([]feed.Item, error)
}

// State is a snapshot of everything the user owns plus the feed cache.
type State struct {
	APIKey       string
	Channels     []feed.Channel
	FilterShorts bool
	Watched      feed.IDSet
	Cache        feed.Cache
}

type Option func(*Service)

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.logger = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithCacheTTL(ttl time.Duration) Option { return func(s *Service) { s.cacheTTL = ttl } }

func WithMaxResults(n int) Option { return func(s *Service) { s.maxResults = n } }

// WithFallbackAPIKey supplies a key used when none has been persisted. It is
// never written to the store.
func WithFallbackAPIKey(key string) Option {
	return func(s *Service) { s.fallbackKey = strings.TrimSpace(key) }
}

type Service struct {
	catalog     Catalog
	store       storage.Store
	logger      zerolog.Logger
	now         func() time.Time
	cacheTTL    time.Duration
	maxResults  int
	fallbackKey string

	mu sync.Mutex
	// generation changes whenever the cache is invalidated, so a refresh that
	// started before a registry change does not repopulate the cache.
	generation uint64
	state      State
}

func NewService(catalog Catalog, store storage.Store, opts ...Option) *Service {
	s := &Service{
		catalog:    catalog,
		store:      store,
		logger:     zerolog.Nop(),
		now:        time.Now,
		cacheTTL:   feed.DefaultCacheTTL,
		maxResults: youtube.MaxPageSize,
		state: State{
			Channels:     []feed.Channel{},
			FilterShorts: true,
			Watched:      feed.NewIDSet(nil),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with what the store holds. Unreadable
// values fall back to defaults.
func (s *Service) Load(ctx context.Context) {
	apiKey := storage.Load(ctx, s.store, KeyAPIKey, "", s.logger)
	channels := storage.Load(ctx, s.store, KeyChannels, []feed.Channel{}, s.logger)
	filterShorts := storage.Load(ctx, s.store, KeyFilterShorts, true, s.logger)
	watched := storage.Load(ctx, s.store, KeyWatchedIDs, []string{}, s.logger)
	items := storage.Load(ctx, s.store, KeyVideoCache, []feed.Item{}, s.logger)
	fetchedAt := storage.Load(ctx, s.store, KeyCacheTime, int64(0), s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		APIKey:       apiKey,
		Channels:     channels,
		FilterShorts: filterShorts,
		Watched:      feed.NewIDSet(watched),
		Cache:        feed.CacheFromMillis(items, fetchedAt),
	}
	s.logger.Debug().
		Int("channels", len(channels)).
		Int("watched", len(watched)).
		Int("cached_items", len(items)).
		Msg("state loaded")
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) HasAPIKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveKeyLocked() != ""
}

// effectiveKeyLocked is the stored key, or the fallback key when none is
// stored. State.APIKey only ever holds the stored key.
func (s *Service) effectiveKeyLocked() string {
	if s.state.APIKey != "" {
		return s.state.APIKey
	}
	return s.fallbackKey
}

func (s *Service) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.Save(ctx, s.store, KeyAPIKey, key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	s.state.APIKey = key
	return nil
}

func (s *Service) FilterShorts() bool {
	return s.State().FilterShorts
}

func (s *Service) SetFilterShorts(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.Save(ctx, s.store, KeyFilterShorts, on); err != nil {
		return fmt.Errorf("save shorts filter: %w", err)
	}
	s.state.FilterShorts = on
	return nil
}

// RefreshFeed returns the merged, unfiltered feed. A cache younger than the
// TTL is served as is when useCache is set; otherwise every channel is fetched
// concurrently and the result replaces the cache. Channels that fail to fetch
// contribute nothing.
func (s *Service) RefreshFeed(ctx context.Context, useCache bool) ([]feed.Item, error) {
	s.mu.Lock()
	channels := s.state.Channels
	apiKey := s.effectiveKeyLocked()
	cache := s.state.Cache
	generation := s.generation
	s.mu.Unlock()

	if len(channels) == 0 {
		return []feed.Item{}, nil
	}
	if useCache && cache.Valid(s.now(), s.cacheTTL) {
		s.logger.Debug().Int("items", len(cache.Items)).Msg("serving cached feed")
		return cache.Items, nil
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	fetch := func(ctx context.Context, ch feed.Channel) ([]feed.Item, error) {
		return s.catalog.FetchItems(ctx, apiKey, ch, s.maxResults)
	}
	items := feed.Aggregate(ctx, channels, fetch, s.logger)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("refresh feed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		s.logger.Debug().Msg("registry changed during refresh, not caching result")
		return items, nil
	}
	s.state.Cache = feed.Cache{Items: items, FetchedAt: s.now()}
	if err := s.persistCacheLocked(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("persist feed cache")
	}
	s.logger.Info().Int("channels", len(channels)).Int("items", len(items)).Msg("feed refreshed")
	return items, nil
}

// CachedItems returns the current cache contents regardless of age.
func (s *Service) CachedItems() []feed.Item {
	return s.State().Cache.Items
}

// Visible runs the filter pipeline over the cached feed.
func (s *Service) Visible(tab feed.Tab, tag string) []feed.Item {
	return s.Filter(s.CachedItems(), tab, tag)
}

// Filter runs the filter pipeline over items with the current shorts flag,
// registry and watched ledger.
func (s *Service) Filter(items []feed.Item, tab feed.Tab, tag string) []feed.Item {
	st := s.State()
	view := feed.View{Tab: tab, Tag: tag, FilterShorts: st.FilterShorts}
	return feed.ApplyFilters(items, view, st.Channels, st.Watched)
}

func (s *Service) IsWatched(id string) bool {
	return s.State().Watched.Has(id)
}

func (s *Service) MarkWatched(ctx context.Context, id string) error {
	return s.editWatched(ctx, func(w feed.IDSet) feed.IDSet { return w.With(id) })
}

func (s *Service) MarkUnwatched(ctx context.Context, id string) error {
	return s.editWatched(ctx, func(w feed.IDSet) feed.IDSet { return w.Without(id) })
}

// ToggleWatched flips the watched flag of id and reports the new value.
func (s *Service) ToggleWatched(ctx context.Context, id string) (bool, error) {
	var watched bool
	err := s.editWatched(ctx, func(w feed.IDSet) feed.IDSet {
		if w.Has(id) {
			return w.Without(id)
		}
		watched = true
		return w.With(id)
	})
	return watched, err
}

func (s *Service) editWatched(ctx context.Context, edit func(feed.IDSet) feed.IDSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := edit(s.state.Watched)
	if err := storage.Save(ctx, s.store, KeyWatchedIDs, next.Slice()); err != nil {
		return fmt.Errorf("save watched ids: %w", err)
	}
	s.state.Watched = next
	return nil
}

func (s *Service) invalidateCacheLocked(ctx context.Context) {
	s.generation++
	s.state.Cache = feed.Cache{Items: []feed.Item{}}
	if err := s.persistCacheLocked(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("persist cache invalidation")
	}
}

func (s *Service) persistCacheLocked(ctx context.Context) error {
	if err := storage.Save(ctx, s.store, KeyVideoCache, s.state.Cache.Items); err != nil {
		return err
	}
	return storage.Save(ctx, s.store, KeyCacheTime, s.state.Cache.FetchedAtMillis())
}
