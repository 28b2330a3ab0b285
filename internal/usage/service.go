package usage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"nac-advisor/internal/llm"
)

type store interface {
	Insert(ctx context.Context, rec Record) error
	Summarize(ctx context.Context, since time.Time) ([]ProviderSummary, error)
}

// Service records gateway attempts and reports usage.
type Service struct {
	store store
	now   func() time.Time
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore(), now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore, now: time.Now}
}

// Record stores one attempt. It satisfies llm.Recorder.
func (s *Service) Record(ctx context.Context, a llm.Attempt) error {
	rec := Record{
		ID:               uuid.NewString(),
		RequestID:        a.RequestID,
		Provider:         llm.NormalizeProvider(a.Provider),
		Model:            a.Model,
		TaskType:         normalizeTaskType(a.TaskType),
		PromptTokens:     a.Usage.PromptTokens,
		CompletionTokens: a.Usage.CompletionTokens,
		TotalTokens:      a.Usage.TotalTokens,
		CostEstimate:     a.Usage.CostEstimate,
		Success:          a.Success,
		FallbackUsed:     a.FallbackUsed,
		DurationMS:       a.Duration.Milliseconds(),
		CreatedAt:        s.now().UTC(),
	}
	if a.Err != nil {
		rec.ErrorMessage = a.Err.Error()
	}
	if rec.Provider == "" {
		return ErrInvalidRecord
	}
	return s.store.Insert(ctx, rec)
}

// Summary aggregates usage per provider since the given time.
func (s *Service) Summary(ctx context.Context, since time.Time) (Summary, error) {
	rows, err := s.store.Summarize(ctx, since.UTC())
	if err != nil {
		return Summary{}, err
	}
	out := Summary{Since: since.UTC(), Providers: rows}
	if out.Providers == nil {
		out.Providers = []ProviderSummary{}
	}
	for _, p := range out.Providers {
		out.Calls += p.Calls
		out.TotalCost += p.CostEstimate
	}
	return out, nil
}

func normalizeTaskType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

var _ llm.Recorder = (*Service)(nil)
