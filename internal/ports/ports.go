package ports

import (
	"context"

	"bizpos-backend/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SettingsRepository persists one settings document per business.
// Get returns repository.ErrNotFound when nothing was saved yet.
type SettingsRepository interface {
	Get(ctx context.Context, businessID string) (*domain.BusinessSettings, error)
	Save(ctx context.Context, businessID string, s *domain.BusinessSettings) error
}

// AuditRepository records settings changes.
type AuditRepository interface {
	Create(ctx context.Context, entry domain.AuditEntry) (int64, error)
	List(ctx context.Context, businessID string, limit int) ([]domain.AuditEntry, error)
}
