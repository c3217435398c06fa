package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openOfflineSQLite returns an unmigrated file-backed database whose
// directory has been removed, so every new connection fails until restore
// recreates it.
func openOfflineSQLite(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "store")
	require.NoError(t, os.Mkdir(dir, 0o755))

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "farm.db")), GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(0)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, os.RemoveAll(dir))
	return db, func() { require.NoError(t, os.Mkdir(dir, 0o755)) }
}

func TestMigrator_RetriesUntilStoreRecovers(t *testing.T) {
	db, restore := openOfflineSQLite(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	m := NewMigrator(db, time.Minute)
	m.now = func() time.Time { return now }

	err := m.Ensure(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMigrationPending)
	assert.False(t, m.Ready())
	assert.Error(t, Ping(ctx, db))

	restore()
	require.NoError(t, Ping(ctx, db))
	assert.ErrorIs(t, m.Ensure(ctx), ErrMigrationPending, "retry is throttled")

	now = now.Add(time.Minute)
	require.NoError(t, m.Ensure(ctx))
	assert.True(t, m.Ready())
	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	var count int64
	require.NoError(t, db.Raw(`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, "idx_users_email").Scan(&count).Error)
	assert.Equal(t, int64(1), count)

	// Once ready, Ensure never touches the store again.
	require.NoError(t, Close(db))
	assert.NoError(t, m.Ensure(ctx))
}

func TestMigrator_ZeroRetryMigratesImmediately(t *testing.T) {
	db := openSQLite(t)
	m := NewMigrator(db, 0)
	require.NoError(t, m.Ensure(context.Background()))
	assert.True(t, m.Ready())
	assert.True(t, db.Migrator().HasTable("posts"))
}

func TestMigrator_DoesNotWaitOnRunningAttempt(t *testing.T) {
	m := NewMigrator(openSQLite(t), 0)
	m.mu.Lock()
	defer m.mu.Unlock()

	assert.ErrorIs(t, m.Ensure(context.Background()), ErrMigrationPending)
	assert.False(t, m.Ready())
}
