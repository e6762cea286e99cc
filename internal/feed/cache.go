package feed

import "time"

// DefaultCacheTTL bounds how long a fetched feed is reused before the
// upstream is queried again.
const DefaultCacheTTL = 5 * time.Minute

// Cache is the last unfiltered merged item set.
type Cache struct {
	Items     []Item
	FetchedAt time.Time
}

// Valid reports whether the cache may be served at now. An invalidated cache
// has a zero FetchedAt and is never valid.
func (c Cache) Valid(now time.Time, ttl time.Duration) bool {
	if c.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(c.FetchedAt) < ttl
}

// FetchedAtMillis encodes FetchedAt as unix milliseconds, zero when invalid.
func (c Cache) FetchedAtMillis() int64 {
	if c.FetchedAt.IsZero() {
		return 0
	}
	return c.FetchedAt.UnixMilli()
}

func CacheFromMillis(items []Item, ms int64) Cache {
	if ms <= 0 {
		return Cache{Items: items}
	}
	return Cache{Items: items, FetchedAt: time.UnixMilli(ms)}
}
