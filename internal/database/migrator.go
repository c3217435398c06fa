package database

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"farmsphere/internal/middleware"

	"gorm.io/gorm"
)

// DefaultMigrationRetry is the minimum gap between migration attempts while
// the store is unreachable.
const DefaultMigrationRetry = 5 * time.Second

// ErrMigrationPending is returned by Ensure while another caller is migrating
// or the last failure is too recent to retry.
var ErrMigrationPending = errors.New("database migration pending")

// Migrator applies Migrate until it succeeds once. A server that starts while
// the store is down keeps calling Ensure so tables and unique indexes exist
// as soon as the store comes back.
type Migrator struct {
	db         *gorm.DB
	retryEvery time.Duration
	now        func() time.Time

	ready   atomic.Bool
	mu      sync.Mutex
	lastTry time.Time
}

// NewMigrator returns a Migrator for db that retries at most once per
// retryEvery. Zero retries on every call.
func NewMigrator(db *gorm.DB, retryEvery time.Duration) *Migrator {
	return &Migrator{db: db, retryEvery: retryEvery, now: time.Now}
}

// Ready reports whether a migration has completed.
func (m *Migrator) Ready() bool {
	return m.ready.Load()
}

// Ensure migrates unless that already happened. Concurrent callers do not
// wait on a running attempt; they get ErrMigrationPending.
func (m *Migrator) Ensure(ctx context.Context) error {
	if m.ready.Load() {
		return nil
	}
	if !m.mu.TryLock() {
		return ErrMigrationPending
	}
	defer m.mu.Unlock()
	if m.ready.Load() {
		return nil
	}

	now := m.now()
	if !m.lastTry.IsZero() && now.Sub(m.lastTry) < m.retryEvery {
		return ErrMigrationPending
	}
	m.lastTry = now

	if err := Migrate(ctx, m.db); err != nil {
		middleware.Logger.WarnContext(ctx, "Database migration failed, will retry",
			slog.Duration("retry_after", m.retryEvery),
			slog.String("error", err.Error()),
		)
		return err
	}
	m.ready.Store(true)
	return nil
}
