package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Muhammaduzair321/ip-checker/internal/config"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
	"github.com/Muhammaduzair321/ip-checker/internal/store"
	"github.com/Muhammaduzair321/ip-checker/internal/store/postgres"
	"github.com/Muhammaduzair321/ip-checker/internal/store/redis"
	"github.com/Muhammaduzair321/ip-checker/internal/store/rest"
	"github.com/Muhammaduzair321/ip-checker/internal/store/sqlite"
)

// StoreCloser is a store that owns a connection.
type StoreCloser interface {
	store.Store
	io.Closer
}

// OpenStore connects to the configured store and waits until it answers.
func OpenStore(ctx context.Context, cfg config.StoreConfig, log logger.Logger) (StoreCloser, error) {
	var (
		s   StoreCloser
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err = sqlite.Open(cfg.DSN, cfg.Table)
	case config.DriverPostgres:
		s, err = openPostgres(ctx, cfg)
	case config.DriverRedis:
		s, err = redis.Connect(cfg.DSN, cfg.Table, cfg.Retention)
	case config.DriverREST:
		s = rest.NewClient(cfg.DSN, cfg.Table, cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	if p, ok := s.(store.Pinger); ok {
		if err := ping(ctx, p, log); err != nil {
			s.Close()
			return nil, fmt.Errorf("%s store unreachable: %w", cfg.Driver, err)
		}
	}

	log.Info("store ready", "driver", cfg.Driver, "table", cfg.Table)
	return s, nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (*postgres.Store, error) {
	s, err := postgres.Connect(ctx, cfg.DSN, cfg.Table)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func ping(ctx context.Context, p store.Pinger, log logger.Logger) error {
	backoff := retry.WithMaxRetries(4, retry.NewExponential(250*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.Ping(pingCtx); err != nil {
			log.Warn("store ping failed, retrying", "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
