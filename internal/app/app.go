package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Muhammaduzair321/ip-checker/internal/config"
	"github.com/Muhammaduzair321/ip-checker/internal/gate"
	"github.com/Muhammaduzair321/ip-checker/internal/ledger"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
	"github.com/Muhammaduzair321/ip-checker/internal/transport/grpc"
	httpapi "github.com/Muhammaduzair321/ip-checker/internal/transport/http"
)

// Components is everything a session needs to serve submissions.
type Components struct {
	Service   *gate.Service
	Persisted *ledger.Persisted // nil in memory mode
	Registry  *prometheus.Registry
	close     func()
}

func (c *Components) Close() {
	if c.close != nil {
		c.close()
	}
}

// Build selects the ledger variant from cfg, opening the store when the
// ledger is persisted, and loads the initial view.
func Build(ctx context.Context, cfg config.Config, log logger.Logger) (*Components, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := gate.NewMetrics(reg)

	if cfg.Ledger.Mode == config.ModeMemory {
		log.Info("using in-memory ledger")
		return &Components{
			Service:  gate.NewService(ledger.NewMemory(), log, gate.WithMetrics(metrics)),
			Registry: reg,
		}, nil
	}

	s, err := OpenStore(ctx, cfg.Store, log)
	if err != nil {
		return nil, err
	}

	p := ledger.NewPersisted(s, log)
	p.Load(ctx)
	log.Info("using persisted ledger", "driver", cfg.Store.Driver, "hosts", len(p.Snapshot().Hosts))

	return &Components{
		Service:   gate.NewService(p, log, gate.WithMetrics(metrics), gate.WithStaleAfter(cfg.Ledger.StaleAfter)),
		Persisted: p,
		Registry:  reg,
		close: func() {
			if err := s.Close(); err != nil {
				log.Warn("closing store", "err", err)
			}
		},
	}, nil
}

// Run serves gRPC and HTTP, plus the ledger refresher in persisted mode,
// until ctx is canceled or one of them fails.
func Run(ctx context.Context, cfg config.Config, log logger.Logger) error {
	c, err := Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	g, gctx := errgroup.WithContext(ctx)

	if c.Persisted != nil {
		refreshCfg := ledger.RefreshConfig{
			Interval:       cfg.Ledger.RefreshInterval,
			InitialBackoff: time.Second,
			MaxBackoff:     5 * time.Minute,
		}
		g.Go(func() error {
			return ledger.Start(gctx, refreshCfg, c.Persisted, log)
		})
	}

	if cfg.Server.GRPCAddr != "" {
		g.Go(func() error {
			return grpc.RunGRPCServer(gctx, cfg.Server.GRPCAddr, c.Service, log)
		})
	}

	if cfg.Server.HTTPAddr != "" {
		router := httpapi.NewRouter(c.Service, c.Registry, log)
		g.Go(func() error {
			return httpapi.RunHTTPServer(gctx, cfg.Server.HTTPAddr, router, log)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("servers stopped with error", "err", err)
		return err
	}

	log.Info("servers stopped gracefully")
	return nil
}
