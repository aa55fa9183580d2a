package repository

import (
	"context"

	"bizpos-backend/internal/db"
	"bizpos-backend/internal/domain"
)

const defaultAuditLimit = 100

type AuditRepository struct {
	DB *db.Postgres
}

func (r AuditRepository) Create(ctx context.Context, in domain.AuditEntry) (int64, error) {
	var id int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO settings_audit (business_id, actor, operation, path, type, logged_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, in.BusinessID, in.Actor, in.Operation, in.Path, string(in.Type), in.LoggedAt).Scan(&id)
	return id, err
}

func (r AuditRepository) List(ctx context.Context, businessID string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, business_id, actor, operation, path, type, logged_at
		FROM settings_audit
		WHERE business_id=$1
		ORDER BY logged_at DESC, id DESC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var typ string
		if err := rows.Scan(&e.ID, &e.BusinessID, &e.Actor, &e.Operation, &e.Path, &typ, &e.LoggedAt); err != nil {
			return nil, err
		}
		e.Type = domain.AuditEntryType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}
