package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
	"github.com/Muhammaduzair321/ip-checker/internal/store/storetest"
)

func newPersisted(t *testing.T, seed ...domain.CanonicalHost) (*Persisted, *storetest.Fake) {
	t.Helper()
	fake := storetest.New(seed...)
	p := NewPersisted(fake, logger.Nop())
	p.Load(context.Background())
	return p, fake
}

func TestPersisted_LoadReadsHistory(t *testing.T) {
	p, _ := newPersisted(t, "old.com", "new.com")

	snap := p.Snapshot()
	assert.Equal(t, []domain.CanonicalHost{"new.com", "old.com"}, snap.Hosts)
	assert.False(t, snap.UpdatedAt.IsZero())
}

func TestPersisted_InsertThenDuplicate(t *testing.T) {
	p, fake := newPersisted(t)
	ctx := context.Background()

	out, err := p.InsertIfAbsent(ctx, "test.io")
	require.NoError(t, err)
	assert.Equal(t, domain.Inserted, out)

	out, err = p.InsertIfAbsent(ctx, "test.io")
	require.NoError(t, err)
	assert.Equal(t, domain.Duplicate, out)

	assert.Equal(t, 1, fake.Len())
	assert.Equal(t, []domain.CanonicalHost{"test.io"}, p.Snapshot().Hosts)
}

func TestPersisted_SeesOtherWriters(t *testing.T) {
	p, fake := newPersisted(t)
	ctx := context.Background()

	// Another process appends behind our back.
	require.NoError(t, fake.Append(ctx, "shared.com"))

	assert.True(t, p.Contains(ctx, "shared.com"))
	out, err := p.InsertIfAbsent(ctx, "shared.com")
	require.NoError(t, err)
	assert.Equal(t, domain.Duplicate, out)
}

func TestPersisted_Cap(t *testing.T) {
	p, _ := newPersisted(t)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := p.InsertIfAbsent(ctx, domain.CanonicalHost(fmt.Sprintf("h%d.com", i)))
		require.NoError(t, err)
	}

	hosts := p.Snapshot().Hosts
	require.Len(t, hosts, domain.MaxHosts)
	assert.Equal(t, domain.CanonicalHost("h59.com"), hosts[0])
	assert.Equal(t, domain.CanonicalHost("h10.com"), hosts[domain.MaxHosts-1])
}

func TestPersisted_ReadFailureFailsOpen(t *testing.T) {
	p, fake := newPersisted(t, "existing.com")
	ctx := context.Background()
	fake.SetReadErr(storetest.ErrUnavailable)

	assert.False(t, p.Contains(ctx, "existing.com"))

	out, err := p.InsertIfAbsent(ctx, "fresh.com")
	require.NoError(t, err)
	assert.Equal(t, domain.Inserted, out)
	assert.Equal(t, 2, fake.Len())
	assert.Positive(t, p.ReadFailures())

	// The view advanced locally because the refresh read failed too.
	assert.Equal(t, domain.CanonicalHost("fresh.com"), p.Snapshot().Hosts[0])
}

func TestPersisted_WriteFailureIsSurfaced(t *testing.T) {
	p, fake := newPersisted(t)
	ctx := context.Background()
	fake.SetWriteErr(storetest.ErrUnavailable)

	out, err := p.InsertIfAbsent(ctx, "test.io")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreWrite))
	assert.Equal(t, domain.OutcomeUnknown, out)
	assert.Empty(t, p.Snapshot().Hosts)

	// Retrying after the store recovers is safe.
	fake.SetWriteErr(nil)
	out, err = p.InsertIfAbsent(ctx, "test.io")
	require.NoError(t, err)
	assert.Equal(t, domain.Inserted, out)
}

func TestPersisted_RefreshReportsReadError(t *testing.T) {
	p, fake := newPersisted(t, "a.com")
	fake.SetReadErr(storetest.ErrUnavailable)

	err := p.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreRead)
	// The previous view is kept.
	assert.Equal(t, []domain.CanonicalHost{"a.com"}, p.Snapshot().Hosts)
}

func TestPersisted_LoadWithUnavailableStore(t *testing.T) {
	fake := storetest.New("a.com")
	fake.SetReadErr(storetest.ErrUnavailable)
	p := NewPersisted(fake, logger.Nop())

	p.Load(context.Background())

	assert.Empty(t, p.Snapshot().Hosts)
	assert.False(t, p.Snapshot().UpdatedAt.IsZero())
}

// atomicFake adds a conditional append on top of storetest.Fake.
type atomicFake struct {
	*storetest.Fake
	mu    sync.Mutex
	calls int
}

func (a *atomicFake) AppendIfAbsent(ctx context.Context, host domain.CanonicalHost, window int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++

	recent, err := a.ListRecent(ctx, window)
	if err != nil {
		return false, err
	}
	if domain.Contains(recent, host) {
		return false, nil
	}
	return true, a.Append(ctx, host)
}

func TestPersisted_UsesConditionalAppend(t *testing.T) {
	s := &atomicFake{Fake: storetest.New()}
	p := NewPersisted(s, logger.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]domain.Outcome, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.InsertIfAbsent(ctx, "race.com")
		}(i)
	}
	wg.Wait()

	inserted := 0
	for _, r := range results {
		if r == domain.Inserted {
			inserted++
		}
	}
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 10, s.calls)
}

func TestPersisted_ConditionalAppendWriteFailure(t *testing.T) {
	s := &atomicFake{Fake: storetest.New()}
	s.SetWriteErr(storetest.ErrUnavailable)
	p := NewPersisted(s, logger.Nop())

	out, err := p.InsertIfAbsent(context.Background(), "x.com")
	assert.ErrorIs(t, err, domain.ErrStoreWrite)
	assert.Equal(t, domain.OutcomeUnknown, out)
}
