package bootstrap

import (
	"context"
	"fmt"

	"bizpos-backend/internal/config"
	"bizpos-backend/internal/db"
	"bizpos-backend/internal/ports"
	"bizpos-backend/internal/repository"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Settings ports.SettingsRepository
	Audit    ports.AuditRepository
	Health   ports.HealthChecker

	close         func()
	migrate       func(context.Context) error
	schemaVersion func(context.Context) (int64, error)
}

// OpenStore connects to the backend selected by cfg.StoreDriver. When
// migrate is true the embedded migrations are applied before returning.
func OpenStore(ctx context.Context, cfg config.Config, migrate bool) (*Store, error) {
	var st *Store
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = &Store{
			Settings:      repository.SettingsRepository{DB: pg},
			Audit:         repository.AuditRepository{DB: pg},
			Health:        pg,
			close:         pg.Close,
			migrate:       pg.Migrate,
			schemaVersion: pg.SchemaVersion,
		}
	case config.DriverSQLite:
		lite, err := db.NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		st = &Store{
			Settings:      repository.SQLiteSettingsRepository{DB: lite},
			Audit:         repository.SQLiteAuditRepository{DB: lite},
			Health:        lite,
			close:         lite.Close,
			migrate:       lite.Migrate,
			schemaVersion: lite.SchemaVersion,
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if migrate {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// Migrate applies pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

// SchemaVersion reports the applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	return s.schemaVersion(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
