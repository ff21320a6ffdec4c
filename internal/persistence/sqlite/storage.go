// Package sqlite implements the persistence interfaces on SQLite through the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDir = "migrations"

// querier is the subset of *sql.DB and *sql.Tx used by the repositories.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// repositories implements persistence.Repositories over a querier.
type repositories struct {
	q      querier
	mapper *ErrorMapper
}

var _ persistence.Repositories = (*repositories)(nil)

// Storage implements persistence.Store. Calls made directly on Storage run in
// autocommit mode; WithinTx groups them in one transaction.
type Storage struct {
	*repositories
	pool  *ConnectionPool
	retry *RetryHelper
}

var _ persistence.Store = (*Storage)(nil)

// New wraps an already opened database handle.
func New(db *sql.DB, retry RetryConfig) *Storage {
	return &Storage{
		repositories: &repositories{q: db, mapper: NewErrorMapper()},
		pool:         &ConnectionPool{db: db},
		retry:        NewRetryHelper(retry),
	}
}

// Open connects to the database described by config and applies pending
// migrations.
func Open(ctx context.Context, config Config, logger *slog.Logger) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, config)
	if err != nil {
		return nil, err
	}

	storage := New(pool.DB(), config.Retry)
	storage.pool = pool
	if err := storage.Migrate(ctx, logger); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return storage, nil
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context, logger *slog.Logger) error {
	manager := migration.NewMigrationManager(
		migration.NewFileScanner(migrationFiles),
		migration.NewSQLiteExecutor(s.pool.DB()),
		migrationDir,
		logger,
	)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// WithinTx runs fn inside one immediate transaction, retrying the whole unit
// when SQLite reports the database busy or locked.
func (s *Storage) WithinTx(ctx context.Context, fn func(repos persistence.Repositories) error) error {
	return s.retry.WithRetry(ctx, func() error {
		return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			return fn(&repositories{q: tx, mapper: s.mapper})
		})
	})
}

// Ping verifies the database connection is still alive.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.pool.Close()
}
