package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"farmsphere/internal/config"
	"farmsphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:database_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "farm",
		DBPassword: "secret",
		DBName:     "farmsphere",
	}
	assert.Equal(t, "host=db port=5432 user=farm password=secret dbname=farmsphere sslmode=disable", DSN(cfg))

	cfg.DatabaseURL = "postgres://farm:secret@db:5432/farmsphere"
	assert.Equal(t, cfg.DatabaseURL, DSN(cfg))
}

func TestConnect_DoesNotRequireReachableServer(t *testing.T) {
	cfg := &config.Config{DBHost: "127.0.0.1", DBPort: "1", DBUser: "u", DBPassword: "p", DBName: "n"}
	db, err := Connect(cfg)
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, MaxOpenConns, sqlDB.Stats().MaxOpenConnections)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, Ping(ctx, db))
}

func TestConnect_RejectsMalformedURL(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgres://farm:secret@db:notaport/farmsphere"}
	_, err := Connect(cfg)
	assert.ErrorContains(t, err, "invalid database DSN")
}

func TestPing_NilDB(t *testing.T) {
	assert.Error(t, Ping(context.Background(), nil))
	assert.NoError(t, Close(nil))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db))

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	for _, idx := range Indexes {
		var count int64
		require.NoError(t, db.Raw(`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, idx.Name).Scan(&count).Error)
		assert.Equal(t, int64(1), count, idx.Name)
	}
	assert.NoError(t, Ping(ctx, db))
}

func TestMigrate_UniquePairs(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(context.Background(), db))

	now := time.Now()
	require.NoError(t, db.Create(models.NewPostLike("p1", "u1", now)).Error)
	err := db.Create(models.NewPostLike("p1", "u1", now)).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(models.NewSavedPost("p1", "u1", now)).Error)
	assert.ErrorIs(t, db.Create(models.NewSavedPost("p1", "u1", now)).Error, gorm.ErrDuplicatedKey)

	// NULL emails never collide.
	require.NoError(t, db.Create(models.NewUser(models.UserFields{UserID: "a"}, now)).Error)
	require.NoError(t, db.Create(models.NewUser(models.UserFields{UserID: "b"}, now)).Error)
	assert.ErrorIs(t, db.Create(models.NewUser(models.UserFields{UserID: "a"}, now)).Error, gorm.ErrDuplicatedKey)
}

func TestEnsureIndexes_ToleratesFailures(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	// Only the users table exists, so every other index fails.
	require.NoError(t, db.AutoMigrate(&models.User{}))
	assert.Equal(t, 2, EnsureIndexes(ctx, db))

	// Re-running is harmless.
	assert.Equal(t, 2, EnsureIndexes(ctx, db))
}

func TestIndexStatement(t *testing.T) {
	idx := Index{Name: "idx_x", Table: "posts", Columns: []string{"author_id", "timestamp DESC"}, Unique: true}
	assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS idx_x ON "posts" ("author_id", "timestamp" DESC)`, idx.Statement())
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now().Add(-time.Second), fc, errors.New("boom"))
	assert.Empty(t, buf.String())
}
