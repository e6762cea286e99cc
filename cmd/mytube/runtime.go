package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/mytube-cli/internal/app"
	"github.com/glabrego/mytube-cli/internal/config"
	"github.com/glabrego/mytube-cli/internal/logging"
	"github.com/glabrego/mytube-cli/internal/storage"
	"github.com/glabrego/mytube-cli/internal/youtube"
)

// runtime lazily wires config, logging, storage and the service so commands
// such as help never touch the store.
type runtime struct {
	cfg     config.Config
	logger  zerolog.Logger
	service *app.Service
	closers []io.Closer
	clock   func() time.Time
}

func (r *runtime) now() time.Time {
	if r.clock == nil {
		return time.Now()
	}
	return r.clock()
}

func (r *runtime) open(ctx context.Context, interactive bool, stderr io.Writer) (*app.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	r.cfg = cfg

	if interactive {
		// The TUI owns the terminal, so logs go to a file.
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.LogPath, err)
		}
		r.closers = append(r.closers, f)
		r.logger = logging.New(cfg.LogLevel, f)
	} else {
		r.logger = logging.Console(cfg.LogLevel, stderr)
	}

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	store, err := openStore(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, store)

	client := youtube.NewClient(
		cfg.APIBaseURL,
		&http.Client{Timeout: cfg.HTTPTimeout},
		youtube.WithMaxRetries(cfg.MaxRetries),
		youtube.WithLogger(r.logger),
	)
	r.service = app.NewService(client, store,
		app.WithLogger(r.logger),
		app.WithCacheTTL(cfg.CacheTTL),
		app.WithMaxResults(cfg.MaxResults),
		app.WithFallbackAPIKey(cfg.APIKey),
	)
	r.service.Load(initCtx)
	return r.service, nil
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		store, err := storage.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("storage schema error: %w", err)
		}
		if err := store.CheckWritable(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("storage write check failed (%v). Verify MYTUBE_DB_PATH is writable: %s", err, cfg.DBPath)
		}
		return store, nil
	}
}

func (r *runtime) syncBaseURL() string {
	if r.cfg.SyncBaseURL == "" {
		return "https://mytube.local/"
	}
	return r.cfg.SyncBaseURL
}

func (r *runtime) close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}
