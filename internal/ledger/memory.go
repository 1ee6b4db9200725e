package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// Memory is the ephemeral ledger: it lives as long as the process.
type Memory struct {
	mu     sync.Mutex
	holder *Holder
	now    func() time.Time
}

func NewMemory() *Memory {
	m := &Memory{holder: NewHolder(), now: time.Now}
	m.holder.Set(domain.Snapshot{UpdatedAt: m.now()})
	return m
}

func (m *Memory) Contains(_ context.Context, key domain.CanonicalHost) bool {
	return domain.Contains(m.holder.Get().Hosts, key)
}

func (m *Memory) InsertIfAbsent(_ context.Context, key domain.CanonicalHost) (domain.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.holder.Get()
	if domain.Contains(cur.Hosts, key) {
		return domain.Duplicate, nil
	}

	m.holder.Set(domain.Snapshot{
		Hosts:     domain.Prepend(cur.Hosts, key, domain.MaxHosts),
		UpdatedAt: m.now(),
	})
	return domain.Inserted, nil
}

func (m *Memory) Snapshot() domain.Snapshot {
	return m.holder.Get()
}
