package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"bizpos-backend/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_MigrateIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	v, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.NoError(t, store.Health(ctx))

	var n int
	require.NoError(t, store.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM business_settings`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLite_EmptyPath(t *testing.T) {
	_, err := db.NewSQLite(context.Background(), "")
	assert.Error(t, err)
}
