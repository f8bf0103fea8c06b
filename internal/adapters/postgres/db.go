package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
	"github.com/samirrijal/tripjournal/migrations"
)

// Pool is the subset of *pgxpool.Pool used by the repositories. pgxmock
// pools satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// DB wraps a connection pool shared by the repositories.
type DB struct {
	Pool Pool
	log  *slog.Logger
}

// New creates a new DB connection pool.
func New(ctx context.Context, dsn string, maxConns int32, log *slog.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return NewWithPool(pool, log), nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool, log *slog.Logger) *DB {
	if log == nil {
		log = slog.Default()
	}
	return &DB{Pool: pool, log: log}
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// RecordPoolStats copies pool statistics into the Prometheus gauges.
func (db *DB) RecordPoolStats() {
	if p, ok := db.Pool.(*pgxpool.Pool); ok {
		metrics.UpdateDBPoolMetrics(p.Stat())
	}
}

// Migrate applies the embedded schema files in order. Every file is
// idempotent.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	all, err := migrations.All()
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}
	applied := make([]string, 0, len(all))
	for _, m := range all {
		if _, err := db.Pool.Exec(ctx, m.SQL); err != nil {
			return applied, fmt.Errorf("exec %s: %w", m.Name, err)
		}
		db.log.InfoContext(ctx, "migration applied", "file", m.Name)
		applied = append(applied, m.Name)
	}
	return applied, nil
}

// Close releases pool resources.
func (db *DB) Close() {
	db.Pool.Close()
}

// inTx runs fn in a transaction, committing when it returns nil.
func (db *DB) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.log.WarnContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// mapErr translates driver errors into domain errors.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		// Foreign key violation: the parent row is gone.
		return domain.ErrNotFound
	}
	return err
}
