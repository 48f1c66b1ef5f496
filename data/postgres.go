package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgTimeout = 5 * time.Second

// PostgresStore keeps every key as one row of a kv table in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// OpenPostgres connects to dsn and ensures the schema.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("data: parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	// the name is shown on /status, so it leaves out credentials
	name := fmt.Sprintf("postgres:%s/%s", cfg.ConnConfig.Host, cfg.ConnConfig.Database)
	return &PostgresStore{pool: pool, name: name}, nil
}

func (s *PostgresStore) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	var val []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&val)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("data: get %s: %w", key, err)
	}
	return val, nil
}

func (s *PostgresStore) Set(key string, val []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, val)
	if err != nil {
		return fmt.Errorf("data: set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Name() string { return s.name }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
