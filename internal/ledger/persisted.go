package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
	"github.com/Muhammaduzair321/ip-checker/internal/store"
)

// Persisted is the store-backed ledger. Membership is always checked
// against the store so that other writers are taken into account; the
// local holder is only a view for rendering and readiness.
//
// Unless the store implements store.ConditionalAppender, two processes
// submitting the same host at the same moment may both see it as absent
// and both append it. The ledger tolerates that: the list then shows the
// host twice until it ages out.
type Persisted struct {
	store  store.Store
	holder *Holder
	log    logger.Logger
	now    func() time.Time

	mu           sync.Mutex
	readFailures int
}

func NewPersisted(s store.Store, log logger.Logger) *Persisted {
	if log == nil {
		log = logger.Nop()
	}
	return &Persisted{
		store:  s,
		holder: NewHolder(),
		log:    log.With("component", "ledger"),
		now:    time.Now,
	}
}

// Load reads the initial view. A read failure leaves an empty, loaded view.
func (p *Persisted) Load(ctx context.Context) {
	hosts, err := p.recent(ctx)
	if err != nil {
		hosts = nil
	}
	p.publish(hosts)
}

// Refresh re-reads the view from the store. Unlike the submission path it
// reports read errors, so the refresher can back off.
func (p *Persisted) Refresh(ctx context.Context) error {
	hosts, err := p.recent(ctx)
	if err != nil {
		return err
	}
	p.publish(hosts)
	return nil
}

func (p *Persisted) Contains(ctx context.Context, key domain.CanonicalHost) bool {
	hosts, _ := p.recent(ctx)
	return domain.Contains(hosts, key)
}

func (p *Persisted) InsertIfAbsent(ctx context.Context, key domain.CanonicalHost) (domain.Outcome, error) {
	if ca, ok := p.store.(store.ConditionalAppender); ok {
		return p.insertAtomic(ctx, ca, key)
	}

	// A failed read fails open: hosts is empty and the key is appended.
	hosts, err := p.recent(ctx)
	if err == nil && domain.Contains(hosts, key) {
		p.publish(hosts)
		return domain.Duplicate, nil
	}

	if err := p.store.Append(ctx, key); err != nil {
		p.log.Warn("append failed", "host", key, "err", err)
		return domain.OutcomeUnknown, fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}

	p.afterAppend(ctx, hosts, key)
	return domain.Inserted, nil
}

func (p *Persisted) insertAtomic(ctx context.Context, ca store.ConditionalAppender, key domain.CanonicalHost) (domain.Outcome, error) {
	appended, err := ca.AppendIfAbsent(ctx, key, domain.MaxHosts)
	if err != nil {
		p.log.Warn("conditional append failed", "host", key, "err", err)
		return domain.OutcomeUnknown, fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	if !appended {
		_ = p.Refresh(ctx)
		return domain.Duplicate, nil
	}
	p.afterAppend(ctx, p.holder.Get().Hosts, key)
	return domain.Inserted, nil
}

// afterAppend refreshes the view from the store. If that read fails the
// view is advanced locally from prev. Stores without read-your-writes may
// not return key yet; it is put in front in that case.
func (p *Persisted) afterAppend(ctx context.Context, prev []domain.CanonicalHost, key domain.CanonicalHost) {
	hosts, err := p.recent(ctx)
	switch {
	case err != nil:
		hosts = domain.Prepend(prev, key, domain.MaxHosts)
	case !domain.Contains(hosts, key):
		hosts = domain.Prepend(hosts, key, domain.MaxHosts)
	}
	p.publish(hosts)
}

func (p *Persisted) Snapshot() domain.Snapshot {
	return p.holder.Get()
}

// ReadFailures returns how many store reads degraded to an empty view.
func (p *Persisted) ReadFailures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readFailures
}

func (p *Persisted) recent(ctx context.Context) ([]domain.CanonicalHost, error) {
	hosts, err := p.store.ListRecent(ctx, domain.MaxHosts)
	if err != nil {
		p.mu.Lock()
		p.readFailures++
		p.mu.Unlock()
		p.log.Warn("store read failed, using empty history", "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreRead, err)
	}
	return domain.Truncate(hosts, domain.MaxHosts), nil
}

func (p *Persisted) publish(hosts []domain.CanonicalHost) {
	p.holder.Set(domain.Snapshot{Hosts: hosts, UpdatedAt: p.now()})
}
