// Package gate is the input boundary: it turns a raw submission into a
// canonical host, checks it against the ledger and classifies the result.
package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/ledger"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

var ErrNotReady = errors.New("ledger not loaded")

type Service struct {
	ledger     ledger.Ledger
	log        logger.Logger
	metrics    *Metrics
	hub        *hub
	staleAfter time.Duration
}

type Option func(*Service)

func WithMetrics(m *Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithStaleAfter makes Ready fail once the view is older than d.
func WithStaleAfter(d time.Duration) Option { return func(s *Service) { s.staleAfter = d } }

func NewService(l ledger.Ledger, log logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		ledger: l,
		log:    log.With("component", "gate"),
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Submit runs normalize → contains → insert-if-absent for one input.
// It never returns raw store errors; everything is folded into Result.
func (s *Service) Submit(ctx context.Context, raw string) Result {
	res := s.submit(ctx, raw)
	s.metrics.observe(res)
	return res
}

func (s *Service) submit(ctx context.Context, raw string) Result {
	key := domain.Normalize(raw)
	if key == "" {
		s.log.Debug("ignoring empty submission", "raw", raw)
		return Result{Status: StatusError, Reason: ReasonEmpty, Hosts: s.Recent()}
	}

	out, err := s.ledger.InsertIfAbsent(ctx, key)
	switch {
	case err != nil:
		s.log.Warn("submission not stored", "host", key, "err", err)
		return Result{
			Status:    StatusError,
			Canonical: string(key),
			Reason:    ReasonStoreUnavailable,
			Hosts:     s.Recent(),
		}
	case out == domain.Duplicate:
		s.log.Info("duplicate host", "host", key)
		return Result{Status: StatusDuplicate, Canonical: string(key), Hosts: s.Recent()}
	case out == domain.Inserted:
		hosts := s.Recent()
		s.log.Info("host accepted", "host", key, "ledger_size", len(hosts))
		s.hub.publish(hosts)
		return Result{Status: StatusUnique, Canonical: string(key), Hosts: hosts}
	default:
		s.log.Error("ledger returned no outcome", "host", key)
		return Result{Status: StatusError, Canonical: string(key), Reason: ReasonStoreUnavailable, Hosts: s.Recent()}
	}
}

func (s *Service) Normalize(raw string) string {
	return string(domain.Normalize(raw))
}

// Recent returns the ledger view, most recent first.
func (s *Service) Recent() []string {
	return s.ledger.Snapshot().Strings()
}

// Ready reports whether the ledger view has been loaded and, when a
// staleness bound is configured, is fresh enough.
func (s *Service) Ready(now time.Time) error {
	snap := s.ledger.Snapshot()
	if snap.UpdatedAt.IsZero() {
		return ErrNotReady
	}
	if s.staleAfter > 0 {
		age := now.Sub(snap.UpdatedAt)
		if age < 0 || age > s.staleAfter {
			return fmt.Errorf("ledger view is stale (age %s)", age.Round(time.Second))
		}
	}
	return nil
}

// Subscribe delivers the host list after every accepted host until cancel
// is called.
func (s *Service) Subscribe() (<-chan []string, func()) {
	return s.hub.subscribe()
}
