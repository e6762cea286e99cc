package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "mytube.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return store
}

func TestSQLiteStore_SetGetAndUpsert(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`"one"`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "k", []byte(`"two"`)); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `"two"` {
		t.Fatalf("expected upserted value, got %s", got)
	}
}

func TestSQLiteStore_CheckWritable(t *testing.T) {
	store := newTestSQLite(t)
	if err := store.CheckWritable(context.Background()); err != nil {
		t.Fatalf("CheckWritable returned error: %v", err)
	}
}

func TestLoad_FallsBackOnMissingCorruptAndNull(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	logger := zerolog.Nop()

	if got := Load(ctx, store, "flag", true, logger); got != true {
		t.Fatalf("expected fallback for missing key, got %v", got)
	}

	_ = store.Set(ctx, "flag", []byte(`{not json`))
	if got := Load(ctx, store, "flag", true, logger); got != true {
		t.Fatalf("expected fallback for corrupt JSON, got %v", got)
	}

	_ = store.Set(ctx, "ids", []byte(`null`))
	if got := Load(ctx, store, "ids", []string{"x"}, logger); len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected fallback for null document, got %v", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if err := Save(ctx, store, "ids", []string{"a", "b"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got := Load(ctx, store, "ids", []string(nil), zerolog.Nop())
	if len(got) != 2 || got[1] != "b" {
		t.Fatalf("unexpected loaded value: %v", got)
	}
	if err := Save(ctx, store, "flag", false); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(ctx, store, "flag", true, zerolog.Nop()); got != false {
		t.Fatalf("expected persisted false to win over fallback, got %v", got)
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingStore) Set(context.Context, string, []byte) error { return nil }

func (failingStore) Close() error { return nil }

func TestLoad_FallsBackOnReadError(t *testing.T) {
	got := Load(context.Background(), failingStore{}, "k", 7, zerolog.Nop())
	if got != 7 {
		t.Fatalf("expected fallback on read error, got %d", got)
	}
}
