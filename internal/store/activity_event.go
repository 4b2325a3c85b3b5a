package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const activityTable = "activity_events"

func (r *eventRepo) AppendActivity(ctx context.Context, data ActivityEventData) error {
	detail := []byte("{}")
	if len(data.Detail) > 0 {
		var err error
		if detail, err = json.Marshal(data.Detail); err != nil {
			return fmt.Errorf("encode activity detail: %w", err)
		}
	}

	_, err := r.appendEvent(ctx, func(seq int64) (string, []any) {
		return entsql.Dialect(dialect.SQLite).
			Insert(activityTable).
			Columns("sequence", "timestamp", "user_id", "session_id", "kind", "detail", "fluency_score").
			Values(seq, time.Now().UnixMilli(), data.UserID, data.SessionID, data.Kind, string(detail), data.FluencyScore).
			Query()
	})
	if err != nil {
		return fmt.Errorf("save activity event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryActivity(ctx context.Context, userID string, opts QueryOpts) ([]ActivityRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "user_id", "session_id", "kind", "detail", "fluency_score").
		From(entsql.Table(activityTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence"))

	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", opts.Kind))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	defer rows.Close()

	var records []ActivityRecord
	for rows.Next() {
		var (
			rec    ActivityRecord
			ts     int64
			detail string
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.UserID, &rec.SessionID, &rec.Kind, &detail, &rec.FluencyScore); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Detail = json.RawMessage(detail)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) ActivityCounts(ctx context.Context, userID string) (map[string]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("kind", entsql.Count("*")).
		From(entsql.Table(activityTable)).
		Where(entsql.EQ("user_id", userID)).
		GroupBy("kind").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan activity count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity counts: %w", err)
	}
	return counts, nil
}
