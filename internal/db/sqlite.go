package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // database/sql driver "sqlite3"
	_ "github.com/ncruces/go-sqlite3/embed"  // bundled SQLite build
)

// SQLite wraps a single-connection database/sql handle on a local file.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens the database at path, creating its directory when needed,
// and applies connection pragmas. Migrations are run separately.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite has a single writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	return &SQLite{DB: conn}, nil
}

func (s *SQLite) Close() {
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

// Health checks the database connectivity.
func (s *SQLite) Health(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Migrate applies the embedded SQLite migrations.
func (s *SQLite) Migrate(ctx context.Context) error {
	return migrate(ctx, s.DB, dialectSQLite)
}
