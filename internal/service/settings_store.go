package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"bizpos-backend/internal/ports"
	"bizpos-backend/internal/repository"
)

const maxBusinessIDLength = 128

var (
	ErrNotFound          = errors.New("settings not found")
	ErrLoadFailed        = errors.New("settings load failed")
	ErrSaveFailed        = errors.New("settings save failed")
	ErrInvalidBusinessID = errors.New("invalid business id")
)

// SettingsStore loads and saves whole settings trees. It does not cache or
// retry; the last save for a business wins.
type SettingsStore struct {
	Repo ports.SettingsRepository
}

// Load returns ErrNotFound when nothing was saved for the business and
// ErrLoadFailed for transport errors or a stored document that cannot be
// decoded or lacks a required section.
func (s SettingsStore) Load(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	if err := checkBusinessID(businessID); err != nil {
		return nil, err
	}
	settings, err := s.Repo.Get(ctx, businessID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		storeOperations.WithLabelValues("load", "not_found").Inc()
		return nil, ErrNotFound
	case err != nil:
		storeOperations.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	case settings == nil:
		storeOperations.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: empty document", ErrLoadFailed)
	}
	if missing := settings.MissingSections(); len(missing) > 0 {
		storeOperations.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: stored document lacks sections %s", ErrLoadFailed, strings.Join(missing, ", "))
	}
	storeOperations.WithLabelValues("load", "ok").Inc()
	return editor.Normalize(settings), nil
}

// Save replaces the stored tree unconditionally.
func (s SettingsStore) Save(ctx context.Context, businessID string, settings *domain.BusinessSettings) error {
	if err := checkBusinessID(businessID); err != nil {
		return err
	}
	if settings == nil {
		return fmt.Errorf("%w: settings are required", ErrSaveFailed)
	}
	if err := s.Repo.Save(ctx, businessID, settings); err != nil {
		storeOperations.WithLabelValues("save", "error").Inc()
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	storeOperations.WithLabelValues("save", "ok").Inc()
	return nil
}

func checkBusinessID(id string) error {
	if strings.TrimSpace(id) == "" || id != strings.TrimSpace(id) {
		return fmt.Errorf("%w: %q", ErrInvalidBusinessID, id)
	}
	if len(id) > maxBusinessIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidBusinessID, maxBusinessIDLength)
	}
	return nil
}
