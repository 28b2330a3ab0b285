package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type pgStore struct {
	DB *sqlx.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sqlx.DB) *pgStore {
	return &pgStore{DB: db}
}

const insertRecordSQL = `
INSERT INTO ai_usage (
    id, request_id, provider, model, task_type, prompt_tokens, completion_tokens, total_tokens,
    cost_estimate, success, fallback_used, error_message, duration_ms, created_at
) VALUES (
    :id, :request_id, :provider, :model, :task_type, :prompt_tokens, :completion_tokens, :total_tokens,
    :cost_estimate, :success, :fallback_used, :error_message, :duration_ms, :created_at
)`

func (s *pgStore) Insert(ctx context.Context, rec Record) error {
	if _, err := s.DB.NamedExecContext(ctx, insertRecordSQL, rec); err != nil {
		return fmt.Errorf("insert ai_usage: %w", err)
	}
	return nil
}

const summarizeSQL = `
SELECT provider,
       COUNT(*) AS calls,
       COUNT(*) FILTER (WHERE success) AS successes,
       COUNT(*) FILTER (WHERE NOT success) AS failures,
       COUNT(*) FILTER (WHERE success AND fallback_used) AS fallbacks,
       COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
       COALESCE(SUM(completion_tokens), 0) AS completion_tokens,
       COALESCE(SUM(total_tokens), 0) AS total_tokens,
       COALESCE(SUM(cost_estimate), 0) AS cost_estimate
FROM ai_usage
WHERE created_at >= $1
GROUP BY provider
ORDER BY provider`

func (s *pgStore) Summarize(ctx context.Context, since time.Time) ([]ProviderSummary, error) {
	var out []ProviderSummary
	if err := s.DB.SelectContext(ctx, &out, summarizeSQL, since); err != nil {
		return nil, fmt.Errorf("summarize ai_usage: %w", err)
	}
	return out, nil
}
