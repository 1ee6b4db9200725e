// Package storetest provides an in-memory Store for tests.
package storetest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

var ErrUnavailable = errors.New("storetest: unavailable")

// Fake keeps every appended record in memory. Setting ReadErr or WriteErr
// makes the corresponding calls fail.
type Fake struct {
	mu      sync.Mutex
	records []domain.CanonicalHost // oldest first

	ReadErr  error
	WriteErr error

	Reads   int
	Appends int
}

func New(seed ...domain.CanonicalHost) *Fake {
	return &Fake{records: slices.Clone(seed)}
}

func (f *Fake) ListRecent(_ context.Context, limit int) ([]domain.CanonicalHost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads++
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}

	out := make([]domain.CanonicalHost, 0, limit)
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

func (f *Fake) Append(_ context.Context, host domain.CanonicalHost) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Appends++
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.records = append(f.records, host)
	return nil
}

// SetReadErr and SetWriteErr toggle failures while other goroutines use the fake.
func (f *Fake) SetReadErr(err error) {
	f.mu.Lock()
	f.ReadErr = err
	f.mu.Unlock()
}

func (f *Fake) SetWriteErr(err error) {
	f.mu.Lock()
	f.WriteErr = err
	f.mu.Unlock()
}

// Len returns the number of stored records.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
