package decisions

import (
	"context"
	"testing"

	"nac-advisor/internal/library"
)

func intPtr(v int) *int { return &v }

func healthcareSnapshot() library.Snapshot {
	return library.Snapshot{
		Industries: []library.Industry{{ID: "healthcare", Name: "Healthcare"}},
		ComplianceFrameworks: []library.ComplianceFramework{{
			ID:               "hipaa",
			Name:             "HIPAA",
			IndustrySpecific: []string{"Healthcare"},
			Requirements:     []string{"unique user identification"},
		}},
		UseCases: []library.UseCase{{
			ID:                   "clinical-onboarding",
			Name:                 "Clinical Device Onboarding",
			ComplianceFrameworks: []string{"HIPAA"},
			Complexity:           "high",
			EstimatedEffortWeeks: 4,
		}},
	}
}

func seedSnapshot(t *testing.T) library.Snapshot {
	t.Helper()
	r, err := library.SeedReader()
	if err != nil {
		t.Fatalf("seed reader: %v", err)
	}
	snap, err := r.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return snap
}

func countType(recs []Recommendation, kind string) int {
	n := 0
	for _, r := range recs {
		if r.Type == kind {
			n++
		}
	}
	return n
}

func containsString(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
