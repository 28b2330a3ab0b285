package usage

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"nac-advisor/internal/llm"
)

func newTestService(now time.Time) *Service {
	svc := NewService()
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordAndSummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(now)
	ctx := context.Background()

	attempts := []llm.Attempt{
		{Provider: "openai", Model: "gpt-4o", Success: false, Err: errors.New("openai error (status 500): boom")},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Success: true, FallbackUsed: true,
			Usage: llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, CostEstimate: 0.00105}},
		{Provider: "Anthropic", Model: "claude-sonnet-4-5", Success: true, TaskType: " Checklist ",
			Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, CostEstimate: 0.000105}},
	}
	for _, a := range attempts {
		if err := svc.Record(ctx, a); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Calls != 3 || len(summary.Providers) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	anthropic := summary.Providers[0]
	if anthropic.Provider != "anthropic" || anthropic.Calls != 2 || anthropic.Successes != 2 || anthropic.Fallbacks != 1 {
		t.Fatalf("unexpected anthropic row: %+v", anthropic)
	}
	if anthropic.TotalTokens != 165 {
		t.Fatalf("expected 165 tokens, got %d", anthropic.TotalTokens)
	}
	openai := summary.Providers[1]
	if openai.Provider != "openai" || openai.Failures != 1 || openai.CostEstimate != 0 {
		t.Fatalf("unexpected openai row: %+v", openai)
	}
	if math.Abs(summary.TotalCost-0.001155) > 1e-12 {
		t.Fatalf("unexpected total cost %v", summary.TotalCost)
	}
}

func TestRecordStoresErrorAndTaskType(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(now)
	if err := svc.Record(context.Background(), llm.Attempt{
		Provider: "gemini", TaskType: " Compliance ", Err: errors.New("quota"), Duration: 1500 * time.Millisecond,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	mem := svc.store.(*memoryStore)
	rec := mem.records[0]
	if rec.ID == "" || rec.TaskType != "compliance" || rec.ErrorMessage != "quota" || rec.DurationMS != 1500 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, rec.CreatedAt)
	}
}

func TestRecordRejectsMissingProvider(t *testing.T) {
	svc := NewService()
	if err := svc.Record(context.Background(), llm.Attempt{}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestSummaryExcludesOlderRecords(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(now.Add(-48 * time.Hour))
	if err := svc.Record(context.Background(), llm.Attempt{Provider: "openai", Success: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Calls != 0 || summary.Providers == nil || len(summary.Providers) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestSummaryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewService().Summary(ctx, time.Now()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
