// Package sqlite stores accepted hosts in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
	"github.com/Muhammaduzair321/ip-checker/internal/store"
)

type Store struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

// Open opens (and creates, if needed) the database at path. The schema is
// created automatically; parent directories are created too.
func Open(path, table string) (*Store, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, table: table, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// buildDSN puts the pragmas in the DSN so the driver applies them to every
// pooled connection, not only the first one.
func buildDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *Store) createSchema() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			host       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_created ON %[1]s(created_at);
	`, s.table)
	_, err := s.db.Exec(schema)
	return err
}

// ListRecent returns the newest hosts first. Rows inserted within the same
// clock tick are ordered by their insertion sequence.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.CanonicalHost, error) {
	query, args, err := squirrel.Select("host").
		From(s.table).
		OrderBy("created_at DESC", "seq DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return hosts, rows.Err()
}

func (s *Store) Append(ctx context.Context, host domain.CanonicalHost) error {
	query, args, err := squirrel.Insert(s.table).
		Columns("id", "host", "created_at").
		Values(uuid.NewString(), string(host), s.now().UnixNano()).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting host: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
