package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventRepo implements EventRepo on SQLite. Activity and LLM events share
// one sequence so history pages can interleave and resume from a position.
type eventRepo struct {
	db *sql.DB
	mu *sync.Mutex
}

// insertFunc builds the insert statement for an event with the given
// sequence number.
type insertFunc func(seq int64) (string, []any)

// appendEvent reserves the next sequence number and inserts the event in
// one transaction, so a failed insert never leaves a gap. mu serializes
// writers inside the process; SQLite would otherwise report SQLITE_BUSY
// when two deferred transactions upgrade at once.
func (r *eventRepo) appendEvent(ctx context.Context, insert insertFunc) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	query, args := insert(seq)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return seq, tx.Commit()
}
