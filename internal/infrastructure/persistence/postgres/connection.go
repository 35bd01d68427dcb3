// Package postgres implements the PostgreSQL persistence layer for the
// community engagement bot. Member progress and vocabularies live in a
// single members table keyed by Discord ID.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrConnectionClosed indicates the connection pool is closed.
	ErrConnectionClosed = errors.New("postgres: connection pool is closed")

	// ErrMigrationFailed indicates a migration failure.
	ErrMigrationFailed = errors.New("postgres: migration failed")

	// ErrTransactionFailed indicates a transaction failure.
	ErrTransactionFailed = errors.New("postgres: transaction failed")

	// ErrNoRows is returned when a query returns no rows.
	ErrNoRows = pgx.ErrNoRows
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION POOL
// ══════════════════════════════════════════════════════════════════════════════

// Connection wraps a pgx connection pool with a closed flag so callers get a
// typed error instead of a panic after shutdown.
type Connection struct {
	pool   *pgxpool.Pool
	closed bool
	mu     sync.RWMutex
}

// NewConnection creates a connection pool from a database URL.
// The URL is the single source of truth for credentials; pool sizing
// defaults are applied when the URL does not specify them.
func NewConnection(ctx context.Context, databaseURL string) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}

	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}
	if poolConfig.MinConns == 0 {
		poolConfig.MinConns = 2
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return &Connection{pool: pool}, nil
}

// Pool returns the underlying connection pool.
func (c *Connection) Pool() *pgxpool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Close closes the connection pool.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.pool.Close()
}

// IsClosed returns true if the connection pool is closed.
func (c *Connection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Ping checks if the database connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionClosed
	}

	return c.pool.Ping(ctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSACTION SUPPORT
// ══════════════════════════════════════════════════════════════════════════════

// BeginTx starts a new read-write transaction at read committed isolation.
func (c *Connection) BeginTx(ctx context.Context) (pgx.Tx, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}

	return tx, nil
}

// WithTx executes a function within a transaction.
// The transaction is committed if the function returns nil, rolled back otherwise.
func (c *Connection) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := c.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit error: %w", err)
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERY HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// Querier is an interface that both *pgxpool.Pool and pgx.Tx implement.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Exec executes a query that doesn't return rows.
func (c *Connection) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return pgconn.CommandTag{}, ErrConnectionClosed
	}

	return c.pool.Exec(ctx, sql, args...)
}

// Query executes a query that returns rows.
func (c *Connection) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	return c.pool.Query(ctx, sql, args...)
}

// QueryRow executes a query that returns a single row.
func (c *Connection) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.pool.QueryRow(ctx, sql, args...)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION SUPPORT
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a database migration.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator handles database migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	_, err := m.conn.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns all applied migrations.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time

		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}

		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		// Apply migration in transaction
		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}

			insertQuery := fmt.Sprintf(
				"INSERT INTO %s (version, name) VALUES ($1, $2)",
				m.tableName,
			)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

// Status returns the migration status.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Migration, len(m.migrations))
	copy(result, m.migrations)

	for i := range result {
		if appliedAt, ok := applied[result[i].Version]; ok {
			result[i].IsApplied = true
			result[i].AppliedAt = appliedAt
		}
	}

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// IsUniqueViolation checks if the error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// IsNoRows checks if the error is a "no rows" error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
