package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bizpos-backend/internal/db"
	"bizpos-backend/internal/domain"
)

// Fixed width so lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSettingsRepository stores settings documents as JSON text in SQLite.
type SQLiteSettingsRepository struct {
	DB *db.SQLite
}

func (r SQLiteSettingsRepository) Get(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	var raw string
	err := r.DB.DB.QueryRowContext(ctx, `
		SELECT document
		FROM business_settings
		WHERE business_id=?
	`, businessID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDocument([]byte(raw))
}

func (r SQLiteSettingsRepository) Save(ctx context.Context, businessID string, s *domain.BusinessSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings document: %w", err)
	}
	_, err = r.DB.DB.ExecContext(ctx, `
		INSERT INTO business_settings (business_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (business_id) DO UPDATE SET
			document=excluded.document,
			updated_at=excluded.updated_at
	`, businessID, string(raw), time.Now().UTC().Format(sqliteTimeLayout))
	return err
}

type SQLiteAuditRepository struct {
	DB *db.SQLite
}

func (r SQLiteAuditRepository) Create(ctx context.Context, in domain.AuditEntry) (int64, error) {
	res, err := r.DB.DB.ExecContext(ctx, `
		INSERT INTO settings_audit (business_id, actor, operation, path, type, logged_at)
		VALUES (?,?,?,?,?,?)
	`, in.BusinessID, in.Actor, in.Operation, in.Path, string(in.Type), in.LoggedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r SQLiteAuditRepository) List(ctx context.Context, businessID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := r.DB.DB.QueryContext(ctx, `
		SELECT id, business_id, actor, operation, path, type, logged_at
		FROM settings_audit
		WHERE business_id=?
		ORDER BY logged_at DESC, id DESC
		LIMIT ?
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var typ, loggedAt string
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.Actor, &e.Operation, &e.Path, &typ, &loggedAt); err != nil {
			return nil, err
		}
		e.Type = domain.AuditEntryType(typ)
		if e.LoggedAt, err = time.Parse(sqliteTimeLayout, loggedAt); err != nil {
			return nil, fmt.Errorf("parse audit timestamp: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
