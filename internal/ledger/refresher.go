package ledger

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type RefreshConfig struct {
	Interval       time.Duration // base refresh interval
	InitialBackoff time.Duration // initial backoff delay
	MaxBackoff     time.Duration // maximum backoff delay
	Timeout        time.Duration // per-refresh deadline
}

// Start keeps the ledger view in sync with the store until ctx stops,
// so hosts accepted by other processes show up in the list.
func Start(ctx context.Context, cfg RefreshConfig, src Refresher, log logger.Logger) error {
	if cfg.Interval <= 0 {
		return nil // refreshing disabled
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "refresher")

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var consecutiveFailures int

	for {
		select {
		case <-ctx.Done():
			log.Info("refresher stopped", "reason", ctx.Err())
			return ctx.Err()

		case <-ticker.C:
			if err := refreshOnce(ctx, src, cfg.Timeout); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, consecutiveFailures)

				log.Warn("refresh failed", "attempt", consecutiveFailures, "backoff", backoff, "err", err)

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					log.Info("refresher stopped during backoff", "reason", ctx.Err())
					return ctx.Err()
				case <-timer.C:
				}
				continue
			}

			if consecutiveFailures > 0 {
				log.Info("refresh recovered", "failures", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Add jitter to avoid synchronized retries
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}

func refreshOnce(ctx context.Context, src Refresher, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return src.Refresh(ctx)
}
