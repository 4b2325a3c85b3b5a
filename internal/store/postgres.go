package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig configures the remote document store.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// PostgresProgressRepo stores progress documents as JSONB rows in PostgreSQL.
type PostgresProgressRepo struct {
	db *pgxpool.Pool
}

// OpenPostgres connects to PostgreSQL and ensures the documents table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresProgressRepo, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS progress_documents (
			user_id TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}

	return NewPostgresProgressRepo(pool), nil
}

// NewPostgresProgressRepo wraps an existing pool. The table must exist.
func NewPostgresProgressRepo(db *pgxpool.Pool) *PostgresProgressRepo {
	return &PostgresProgressRepo{db: db}
}

// Close releases the connection pool.
func (r *PostgresProgressRepo) Close() {
	r.db.Close()
}

func (r *PostgresProgressRepo) Read(ctx context.Context, userID string) (*ProgressData, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT data FROM progress_documents WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress document: %w", err)
	}

	var data ProgressData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode progress document: %w", err)
	}
	return &data, nil
}

func (r *PostgresProgressRepo) Create(ctx context.Context, userID string, data *ProgressData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode progress document: %w", err)
	}

	query := `
		INSERT INTO progress_documents (user_id, data)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id)
		DO UPDATE SET
			data = excluded.data,
			updated_at = now()
	`
	if _, err := r.db.Exec(ctx, query, userID, string(b)); err != nil {
		return fmt.Errorf("create progress document: %w", err)
	}
	return nil
}

// Update merges the patch with the JSONB || operator, which replaces
// top-level keys and keeps the rest.
func (r *PostgresProgressRepo) Update(ctx context.Context, userID string, patch ProgressPatch) error {
	if len(patch) == 0 {
		return nil
	}

	b, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode progress patch: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE progress_documents
		SET data = data || $2::jsonb, updated_at = now()
		WHERE user_id = $1
	`, userID, string(b))
	if err != nil {
		return fmt.Errorf("update progress document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
