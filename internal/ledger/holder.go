package ledger

import (
	"sync/atomic"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// Holder publishes the current ledger view. Readers never block writers.
type Holder struct {
	value atomic.Pointer[domain.Snapshot]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.value.Store(&domain.Snapshot{})
	return h
}

func (h *Holder) Get() domain.Snapshot {
	return *h.value.Load()
}

func (h *Holder) Set(s domain.Snapshot) {
	h.value.Store(&s)
}
