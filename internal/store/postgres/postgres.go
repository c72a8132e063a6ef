// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/TracecatHQ/caseboard/internal/model"
	"github.com/TracecatHQ/caseboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateCase(ctx context.Context, c *model.CaseSummary) error {
	return queryCreateCase(ctx, s.db, c)
}

func (s *PostgresStore) GetCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	return queryGetCase(ctx, s.db, workspaceID, id)
}

func (s *PostgresStore) ListCases(ctx context.Context, filter model.CaseFilter) (*model.CasePage, error) {
	return queryListCases(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateCase(ctx context.Context, c *model.CaseSummary) error {
	return queryUpdateCase(ctx, s.db, c)
}

func (s *PostgresStore) CloseCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	return queryCloseCase(ctx, s.db, workspaceID, id)
}

func (s *PostgresStore) DeleteCase(ctx context.Context, workspaceID, id string) error {
	return queryDeleteCase(ctx, s.db, workspaceID, id)
}

func (s *PostgresStore) ListAllCases(ctx context.Context) ([]*model.CaseSummary, error) {
	return queryListAllCases(ctx, s.db)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateCase(ctx context.Context, c *model.CaseSummary) error {
	return queryCreateCase(ctx, s.tx, c)
}

func (s *txStore) GetCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	return queryGetCase(ctx, s.tx, workspaceID, id)
}

func (s *txStore) ListCases(ctx context.Context, filter model.CaseFilter) (*model.CasePage, error) {
	return queryListCases(ctx, s.tx, filter)
}

func (s *txStore) UpdateCase(ctx context.Context, c *model.CaseSummary) error {
	return queryUpdateCase(ctx, s.tx, c)
}

func (s *txStore) CloseCase(ctx context.Context, workspaceID, id string) (*model.CaseSummary, error) {
	return queryCloseCase(ctx, s.tx, workspaceID, id)
}

func (s *txStore) DeleteCase(ctx context.Context, workspaceID, id string) error {
	return queryDeleteCase(ctx, s.tx, workspaceID, id)
}

func (s *txStore) ListAllCases(ctx context.Context) ([]*model.CaseSummary, error) {
	return queryListAllCases(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
