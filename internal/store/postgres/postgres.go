// Package postgres stores accepted hosts in a PostgreSQL table.
package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/store"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type Store struct {
	db    DB
	table string
	close func()
}

// New wraps an existing connection (or a mock in tests).
func New(db DB, table string) (*Store, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}
	return &Store{db: db, table: table, close: func() {}}, nil
}

// Connect opens a pool for dsn and makes sure the table exists.
func Connect(ctx context.Context, dsn, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	s, err := New(pool, table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.close = pool.Close
	return s, nil
}

// Migrate creates the table and its index if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
	id         BIGSERIAL PRIMARY KEY,
	host       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_created ON %[1]s (created_at DESC, id DESC);`, s.table)
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrating %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.CanonicalHost, error) {
	query, args, err := squirrel.Select("host").
		From(s.table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying hosts: %w", err)
	}
	defer rows.Close()

	hosts := make([]domain.CanonicalHost, 0, limit)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning host: %w", err)
		}
		hosts = append(hosts, domain.CanonicalHost(h))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hosts: %w", err)
	}
	return hosts, nil
}

func (s *Store) Append(ctx context.Context, host domain.CanonicalHost) error {
	query, args, err := squirrel.Insert(s.table).
		Columns("host").
		Values(string(host)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting host: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	s.close()
	return nil
}
