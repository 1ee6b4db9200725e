// Package redis stores accepted hosts in a Redis list, newest at the head.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

// appendIfAbsent checks the first ARGV[2] entries for ARGV[1] and pushes
// it only when missing, keeping the list trimmed to ARGV[3] entries.
var appendIfAbsent = goredis.NewScript(`
local recent = redis.call('LRANGE', KEYS[1], 0, tonumber(ARGV[2]) - 1)
for _, v in ipairs(recent) do
  if v == ARGV[1] then
    return 0
  end
end
redis.call('LPUSH', KEYS[1], ARGV[1])
redis.call('LTRIM', KEYS[1], 0, tonumber(ARGV[3]) - 1)
return 1
`)

type Store struct {
	client    goredis.UniversalClient
	key       string
	retention int
}

// New uses key as the list name and keeps at most retention entries.
func New(client goredis.UniversalClient, key string, retention int) *Store {
	if retention < domain.MaxHosts {
		retention = domain.MaxHosts
	}
	return &Store{client: client, key: key, retention: retention}
}

// Connect parses a redis:// URL and returns a store on it.
func Connect(url, key string, retention int) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return New(goredis.NewClient(opts), key, retention), nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.CanonicalHost, error) {
	// LRANGE 0 -1 would return the whole list.
	if limit <= 0 {
		return []domain.CanonicalHost{}, nil
	}
	vals, err := s.client.LRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}
	hosts := make([]domain.CanonicalHost, len(vals))
	for i, v := range vals {
		hosts[i] = domain.CanonicalHost(v)
	}
	return hosts, nil
}

func (s *Store) Append(ctx context.Context, host domain.CanonicalHost) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, s.key, string(host))
		pipe.LTrim(ctx, s.key, 0, int64(s.retention-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("lpush %s: %w", s.key, err)
	}
	return nil
}

// AppendIfAbsent runs the check and the push as one script, so concurrent
// submitters of the same host cannot both succeed.
func (s *Store) AppendIfAbsent(ctx context.Context, host domain.CanonicalHost, window int) (bool, error) {
	n, err := appendIfAbsent.Run(ctx, s.client, []string{s.key}, string(host), window, s.retention).Int()
	if err != nil {
		return false, fmt.Errorf("append script: %w", err)
	}
	return n == 1, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
