package domain

import "errors"

var (
	// ErrEmptyKey is returned when a submission normalizes to an empty host.
	// Callers treat it as a no-op.
	ErrEmptyKey = errors.New("empty canonical host")

	// ErrStoreRead marks a failed read from the backing store. The ledger
	// recovers from it by treating the history as empty.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite marks a failed append. It is always surfaced: reporting
	// Inserted or Duplicate here would break the uniqueness guarantee.
	ErrStoreWrite = errors.New("store write failed")
)
