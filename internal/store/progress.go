package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const progressTable = "progress_documents"

// sqliteProgressRepo stores one JSON document per user in SQLite.
type sqliteProgressRepo struct {
	db *sql.DB
}

func (r *sqliteProgressRepo) Read(ctx context.Context, userID string) (*ProgressData, error) {
	raw, err := r.readRaw(ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var data ProgressData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode progress document: %w", err)
	}
	return &data, nil
}

func (r *sqliteProgressRepo) Create(ctx context.Context, userID string, data *ProgressData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode progress document: %w", err)
	}

	now := time.Now().UnixMilli()
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns("user_id", "data", "created_at", "updated_at").
		Values(userID, string(b), now, now).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("data")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create progress document: %w", err)
	}
	return nil
}

func (r *sqliteProgressRepo) Update(ctx context.Context, userID string, patch ProgressPatch) error {
	if len(patch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	raw, err := r.readRaw(ctx, tx, userID)
	if err != nil {
		return err
	}
	if raw == nil {
		return ErrNotFound
	}

	merged, err := mergePatch(raw, patch)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Update(progressTable).
		Set("data", string(merged)).
		Set("updated_at", time.Now().UnixMilli()).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update progress document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readRaw returns the stored JSON for userID, or nil if none exists.
func (r *sqliteProgressRepo) readRaw(ctx context.Context, q queryRower, userID string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var data string
	err := q.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read progress document: %w", err)
	}
	return []byte(data), nil
}

// mergePatch replaces the patched top-level fields of a stored document.
func mergePatch(raw []byte, patch ProgressPatch) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	for field, v := range patch {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", field, err)
		}
		doc[field] = b
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode merged document: %w", err)
	}
	return merged, nil
}
