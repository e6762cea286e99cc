package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestNewRedisStore_RejectsBadURL(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid redis url")
	}
}

func TestRedisStore_UnreachableServerFallsBack(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStoreFromClient(rdb)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	_, err := store.Get(ctx, "flag")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a transport error distinct from ErrNotFound, got %v", err)
	}
	if got := Load(ctx, store, "flag", true, zerolog.Nop()); got != true {
		t.Fatalf("expected fallback when redis is unreachable, got %v", got)
	}
}

func TestIntegration_RedisStore(t *testing.T) {
	if os.Getenv("MYTUBE_INTEGRATION") != "1" {
		t.Skip("set MYTUBE_INTEGRATION=1 to run integration tests")
	}
	redisURL := os.Getenv("MYTUBE_REDIS_URL")
	if redisURL == "" {
		t.Skip("MYTUBE_REDIS_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewRedisStore(ctx, redisURL)
	if err != nil {
		t.Fatalf("NewRedisStore returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	key := fmt.Sprintf("test:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = store.rdb.Del(context.Background(), redisKeyPrefix+key).Err() })

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if got := Load(ctx, store, key, []string{"default"}, zerolog.Nop()); len(got) != 1 || got[0] != "default" {
		t.Fatalf("expected fallback for missing key, got %v", got)
	}

	if err := Save(ctx, store, key, []string{"a", "b"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(raw) != `["a","b"]` {
		t.Fatalf("unexpected stored value %s", raw)
	}
	if got := Load(ctx, store, key, []string(nil), zerolog.Nop()); len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected loaded value %v", got)
	}
}
