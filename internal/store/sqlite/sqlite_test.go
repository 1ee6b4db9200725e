package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/ledger"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "hosts.db")

	s, err := Open(dbPath, "hosts")
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestStore_AppendAndListRecent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, h := range []domain.CanonicalHost{"a.com", "b.com", "c.com"} {
		require.NoError(t, s.Append(ctx, h))
	}

	got, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalHost{"c.com", "b.com"}, got)
}

func TestStore_SameTimestampOrderedBySequence(t *testing.T) {
	s := setupTestStore(t)
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "first.com"))
	require.NoError(t, s.Append(ctx, "second.com"))

	got, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalHost{"second.com", "first.com"}, got)
}

func TestStore_EmptyTable(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.ListRecent(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_RejectsBadTable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "x.db"), "hosts; --")
	assert.Error(t, err)
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hosts.db")
	ctx := context.Background()

	s, err := Open(dbPath, "hosts")
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "kept.com"))
	require.NoError(t, s.Close())

	s, err = Open(dbPath, "hosts")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, []domain.CanonicalHost{"kept.com"}, got)
}

func TestStore_BacksPersistedLedger(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	l := ledger.NewPersisted(s, logger.Nop())
	l.Load(ctx)

	for i := 0; i < 60; i++ {
		out, err := l.InsertIfAbsent(ctx, domain.CanonicalHost(fmt.Sprintf("h%d.com", i)))
		require.NoError(t, err)
		require.Equal(t, domain.Inserted, out)
	}

	out, err := l.InsertIfAbsent(ctx, "h59.com")
	require.NoError(t, err)
	assert.Equal(t, domain.Duplicate, out)

	hosts := l.Snapshot().Hosts
	require.Len(t, hosts, domain.MaxHosts)
	assert.Equal(t, domain.CanonicalHost("h59.com"), hosts[0])
	assert.Equal(t, domain.CanonicalHost("h10.com"), hosts[domain.MaxHosts-1])
}

func TestBuildDSN(t *testing.T) {
	d := buildDSN("/tmp/hosts.db")
	assert.Contains(t, d, "file:/tmp/hosts.db?")
	assert.Contains(t, d, "_pragma=busy_timeout(5000)")
	assert.Contains(t, d, "_pragma=journal_mode(WAL)")
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	const writers = 16
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		host := domain.CanonicalHost(fmt.Sprintf("w%d.com", i))
		g.Go(func() error {
			return s.Append(ctx, host)
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, writers)
}
