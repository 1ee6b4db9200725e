// Package store defines the narrow boundary between the ledger and the
// external key/record store that persists accepted hosts.
package store

import (
	"context"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// Store is an append-only record store. Each record carries a single
// field, the canonical host; the store assigns its own ordering.
type Store interface {
	// ListRecent returns up to limit hosts ordered by insertion time, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.CanonicalHost, error)
	// Append adds one record.
	Append(ctx context.Context, host domain.CanonicalHost) error
}

// ConditionalAppender is implemented by stores that can check the recent
// window and append in one atomic step. appended is false when host was
// already among the newest window records.
type ConditionalAppender interface {
	AppendIfAbsent(ctx context.Context, host domain.CanonicalHost, window int) (appended bool, err error)
}

// Pinger is implemented by stores with a cheap connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}
