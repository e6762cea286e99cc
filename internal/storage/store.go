package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by Store.Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a flat key-value store holding JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Load decodes the JSON document stored under key into a T. Missing keys,
// read failures, null documents and corrupt JSON all yield fallback.
func Load[T any](ctx context.Context, s Store, key string, fallback T, logger zerolog.Logger) T {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback
	}
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("read persisted state, using default")
		return fallback
	}
	if len(raw) == 0 || string(raw) == "null" {
		return fallback
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("corrupt persisted state, using default")
		return fallback
	}
	return out
}

// Save stores v as JSON under key.
func Save(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
