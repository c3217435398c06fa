// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"farmsphere/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with the full schema
// and indexes applied. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:farmsphere_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewOfflineSQLiteDB opens an unmigrated file-backed SQLite database and then
// removes its directory, so every new connection fails. restore recreates the
// directory and the store comes back empty.
func NewOfflineSQLiteDB(t testing.TB) (db *gorm.DB, restore func()) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "store")
	require.NoError(t, os.Mkdir(dir, 0o755))
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "farm.db")), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(0)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, os.RemoveAll(dir))
	return db, func() { require.NoError(t, os.Mkdir(dir, 0o755)) }
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current reading and advances the clock by one second so
// consecutive records get distinct timestamps.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(time.Second)
	return t
}
