package usage

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) Insert(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *memoryStore) Summarize(ctx context.Context, since time.Time) ([]ProviderSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProvider := make(map[string]*ProviderSummary)
	for _, rec := range s.records {
		if rec.CreatedAt.Before(since) {
			continue
		}
		p, ok := byProvider[rec.Provider]
		if !ok {
			p = &ProviderSummary{Provider: rec.Provider}
			byProvider[rec.Provider] = p
		}
		p.Calls++
		if rec.Success {
			p.Successes++
			if rec.FallbackUsed {
				p.Fallbacks++
			}
		} else {
			p.Failures++
		}
		p.PromptTokens += rec.PromptTokens
		p.CompletionTokens += rec.CompletionTokens
		p.TotalTokens += rec.TotalTokens
		p.CostEstimate += rec.CostEstimate
	}

	out := make([]ProviderSummary, 0, len(byProvider))
	for _, p := range byProvider {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}
