package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

type dialect struct {
	name string
	dir  string
}

var (
	dialectPostgres = dialect{name: "postgres", dir: "migrations/postgres"}
	dialectSQLite   = dialect{name: "sqlite3", dir: "migrations/sqlite"}
)

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

func migrate(ctx context.Context, conn *sql.DB, d dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, d.dir); err != nil {
		return fmt.Errorf("run %s migrations: %w", d.name, err)
	}
	return nil
}

func version(ctx context.Context, conn *sql.DB, d dialect) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(d.name); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, conn)
}

// SchemaVersion reports the applied SQLite schema version.
func (s *SQLite) SchemaVersion(ctx context.Context) (int64, error) {
	return version(ctx, s.DB, dialectSQLite)
}
