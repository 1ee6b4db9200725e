// Package ledger keeps the bounded history of accepted hosts and enforces
// that a host is accepted at most once while it is in that history.
package ledger

import (
	"context"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// Ledger is the dedup history, either process-local or backed by a store.
type Ledger interface {
	// Contains reports whether key is among the newest domain.MaxHosts hosts.
	Contains(ctx context.Context, key domain.CanonicalHost) bool
	// InsertIfAbsent returns domain.Duplicate without mutation when key is
	// present, otherwise records it and returns domain.Inserted. A failed
	// write returns an error wrapping domain.ErrStoreWrite.
	InsertIfAbsent(ctx context.Context, key domain.CanonicalHost) (domain.Outcome, error)
	// Snapshot returns the current view, most recent first.
	Snapshot() domain.Snapshot
}
