package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bizpos-backend/internal/db"
	"bizpos-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository stores settings documents in a Postgres JSONB column.
type SettingsRepository struct {
	DB *db.Postgres
}

func (r SettingsRepository) Get(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	var raw []byte
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT document
		FROM business_settings
		WHERE business_id=$1
	`, businessID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDocument(raw)
}

func (r SettingsRepository) Save(ctx context.Context, businessID string, s *domain.BusinessSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings document: %w", err)
	}
	_, err = r.DB.Pool.Exec(ctx, `
		INSERT INTO business_settings (business_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (business_id) DO UPDATE SET
			document=EXCLUDED.document,
			updated_at=now()
	`, businessID, raw)
	return err
}

func decodeDocument(raw []byte) (*domain.BusinessSettings, error) {
	var s domain.BusinessSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings document: %w", err)
	}
	return &s, nil
}
