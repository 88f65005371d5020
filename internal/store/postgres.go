package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool opens and pings a pgx pool.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// PostgresSearchLog records explore searches in PostgreSQL.
type PostgresSearchLog struct {
	pool *pgxpool.Pool
}

func NewPostgresSearchLog(pool *pgxpool.Pool) *PostgresSearchLog {
	return &PostgresSearchLog{pool: pool}
}

// Migrate creates the search_log table if it doesn't exist.
func (s *PostgresSearchLog) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS search_log (
			id         BIGSERIAL PRIMARY KEY,
			query      TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS search_log_created_at_idx ON search_log (created_at DESC)`)
	return err
}

// Record appends one query.
func (s *PostgresSearchLog) Record(ctx context.Context, query string) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO search_log (query) VALUES ($1)`, query); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Recent returns up to limit distinct queries, most recently searched first.
func (s *PostgresSearchLog) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT query FROM search_log
		 GROUP BY query
		 ORDER BY MAX(created_at) DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	queries, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	return queries, nil
}
