package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRecorder struct {
	db *pgxpool.Pool
}

func NewPostgresRecorder(db *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	var jobID *string
	if e.JobID != "" {
		jobID = &e.JobID
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO usage_logs (id, kind, provider, model, endpoint, characters, input_tokens, output_tokens,
		                         cost_usd, audio_seconds, latency_ms, job_id, fallback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		uuid.New(), e.Kind, e.Provider, e.Model, e.Endpoint, e.Characters, e.InputTokens, e.OutputTokens,
		e.CostUSD, e.AudioSeconds, e.LatencyMs, jobID, e.Fallback, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	return nil
}

// Summary groups usage by kind, provider and model, optionally bounded by
// creation time.
func (r *PostgresRecorder) Summary(ctx context.Context, startDate, endDate *time.Time) ([]Summary, error) {
	query := `SELECT kind, provider, model, COUNT(*) AS total_calls,
	                 COUNT(*) FILTER (WHERE fallback) AS fallback_calls,
	                 COALESCE(SUM(characters), 0) AS total_characters,
	                 COALESCE(SUM(input_tokens + output_tokens), 0) AS total_tokens,
	                 COALESCE(SUM(audio_seconds), 0) AS total_audio_seconds,
	                 COALESCE(SUM(cost_usd), 0) AS total_cost_usd
	          FROM usage_logs WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if startDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *endDate)
	}

	query += " GROUP BY kind, provider, model ORDER BY total_calls DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Kind, &s.Provider, &s.Model, &s.TotalCalls, &s.FallbackCalls,
			&s.TotalCharacters, &s.TotalTokens, &s.TotalAudioSeconds, &s.TotalCostUSD); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
