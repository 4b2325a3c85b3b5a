package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.appendEvent(ctx, func(seq int64) (string, []any) {
		return entsql.Dialect(dialect.SQLite).
			Insert(llmTable).
			Columns(llmColumns...).
			Values(
				seq, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
				data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
				data.ErrorMessage, data.RequestBody, data.ResponseBody,
			).
			Query()
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const llmTable = "llm_request_events"

var llmColumns = []string{
	"sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func scanLLMRequest(sc interface{ Scan(...any) error }) (LLMRequestRecord, error) {
	var (
		rec LLMRequestRecord
		ts  int64
	)
	err := sc.Scan(
		&rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success,
		&rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	rec.Timestamp = time.UnixMilli(ts)
	return rec, err
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(llmColumns...).
		From(entsql.Table(llmTable)).
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
	if opts.Kind != "" {
		sel.Where(entsql.EQ("purpose", opts.Kind))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var records []LLMRequestRecord
	for rows.Next() {
		rec, err := scanLLMRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM request event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM request events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(llmColumns...).
		From(entsql.Table(llmTable)).
		Where(entsql.EQ("sequence", sequence)).
		Query()

	rec, err := scanLLMRequest(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM request event %d: %w", sequence, err)
	}
	return &rec, nil
}
