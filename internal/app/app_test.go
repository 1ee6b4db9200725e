package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammaduzair321/ip-checker/internal/config"
	"github.com/Muhammaduzair321/ip-checker/internal/gate"
	"github.com/Muhammaduzair321/ip-checker/internal/logger"
)

func persistedConfig(driver, dsn string) config.Config {
	cfg := config.Default()
	cfg.Ledger.Mode = config.ModePersisted
	cfg.Store.Driver = driver
	cfg.Store.DSN = dsn
	return cfg
}

func TestBuild_Memory(t *testing.T) {
	c, err := Build(context.Background(), config.Default(), logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Persisted)
	res := c.Service.Submit(context.Background(), "https://www.example.com/path")
	assert.Equal(t, gate.StatusUnique, res.Status)
}

func TestBuild_PersistedSQLiteSurvivesRestart(t *testing.T) {
	cfg := persistedConfig(config.DriverSQLite, filepath.Join(t.TempDir(), "hosts.db"))
	ctx := context.Background()

	c, err := Build(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, c.Persisted)
	assert.Equal(t, gate.StatusUnique, c.Service.Submit(ctx, "test.io").Status)
	c.Close()

	c, err = Build(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, []string{"test.io"}, c.Service.Recent())
	assert.Equal(t, gate.StatusDuplicate, c.Service.Submit(ctx, "http://www.test.io/page?x=1").Status)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := persistedConfig(config.DriverRedis, "redis://"+mr.Addr()+"/0")

	s, err := OpenStore(context.Background(), cfg.Store, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(context.Background(), "a.com"))
	got, err := s.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpenStore_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := persistedConfig(config.DriverRedis, "redis://"+addr+"/0")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	_, err := OpenStore(ctx, cfg.Store, logger.Nop())
	assert.Error(t, err)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := persistedConfig("mongo", "x")
	_, err := OpenStore(context.Background(), cfg.Store, logger.Nop())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.HTTPAddr = "127.0.0.1:0"
	cfg.Server.GRPCAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, logger.Nop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Server.HTTPAddr = ""
	cfg.Server.GRPCAddr = "256.0.0.1:bad"

	err := Run(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
