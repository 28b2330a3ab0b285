package decisions

import (
	"encoding/json"
	"testing"

	"nac-advisor/internal/library"
)

func vendorRec(t *testing.T, v library.Vendor) Recommendation {
	t.Helper()
	return newRecommendation(TypeVendor, v.ID, v.Name, v.Description, PriorityMedium, "", v)
}

func TestBuildChecklistPhaseOrder(t *testing.T) {
	cases := []struct {
		name     string
		selected []Recommendation
	}{
		{"empty", nil},
		{"vendor_only", []Recommendation{vendorRec(t, library.Vendor{ID: "okta", Name: "Okta"})}},
	}
	want := []string{PhasePlanning, PhaseConfiguration, PhaseTesting, PhaseDeployment}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			phases := BuildChecklist(DecisionContext{}, tc.selected)
			if len(phases) != len(want) {
				t.Fatalf("expected %d phases, got %d", len(want), len(phases))
			}
			for i, p := range phases {
				if p.Phase != want[i] {
					t.Fatalf("phase %d: expected %q, got %q", i, want[i], p.Phase)
				}
			}
			if len(phases[0].Tasks) != 2 || len(phases[2].Tasks) != 2 || len(phases[3].Tasks) != 2 {
				t.Fatalf("fixed phases should have two tasks each")
			}
			assertNoForwardReferences(t, phases)
		})
	}
}

func TestBuildChecklistEmptyConfiguration(t *testing.T) {
	phases := BuildChecklist(DecisionContext{}, []Recommendation{
		{Type: TypeRequirement, ID: "r1", Title: "Audit"},
	})
	if len(phases[1].Tasks) != 0 {
		t.Fatalf("expected empty configuration phase, got %+v", phases[1].Tasks)
	}
	for _, task := range phases[2].Tasks {
		if len(task.Prerequisites) != 0 {
			t.Fatalf("testing task %s should have no prerequisites, got %v", task.ID, task.Prerequisites)
		}
	}
}

func TestBuildChecklistEfforts(t *testing.T) {
	uc := library.UseCase{ID: "seg", Name: "Segmentation", EstimatedEffortWeeks: 3, Dependencies: []string{"dot1x"}}
	noEffort := library.UseCase{ID: "dot1x", Name: "802.1X"}
	selected := []Recommendation{
		useCaseRecommendation(noEffort, PriorityMedium, ""),
		vendorRec(t, library.Vendor{ID: "catalyst", Name: "Cisco Catalyst", ConfigurationComplexity: "High"}),
		vendorRec(t, library.Vendor{ID: "okta", Name: "Okta", ConfigurationComplexity: "low"}),
		useCaseRecommendation(uc, PriorityHigh, ""),
	}

	phases := BuildChecklist(DecisionContext{ComplianceFrameworks: []string{"PCI-DSS"}}, selected)
	config := phases[1].Tasks
	hours := map[string]float64{}
	for _, task := range config {
		hours[task.ID] = task.EstimatedHours
	}
	want := map[string]float64{
		"config-vendor-catalyst": 16,
		"config-vendor-okta":     8,
		"config-usecase-dot1x":   40,
		"config-usecase-seg":     120,
	}
	for id, h := range want {
		if hours[id] != h {
			t.Fatalf("%s: expected %vh, got %vh", id, h, hours[id])
		}
	}
	if config[0].ID != "config-vendor-catalyst" {
		t.Fatalf("vendor tasks come first, got %s", config[0].ID)
	}
	last := config[len(config)-1]
	if last.ID != "config-usecase-seg" || !containsString(last.Prerequisites, "config-usecase-dot1x") {
		t.Fatalf("expected seg to depend on dot1x task, got %+v", last)
	}

	for _, task := range phases[2].Tasks {
		if len(task.Prerequisites) != len(config) {
			t.Fatalf("testing task %s should depend on every configuration task, got %v", task.ID, task.Prerequisites)
		}
	}
	assertNoForwardReferences(t, phases)
}

func TestBuildChecklistDropsUnresolvedDependencies(t *testing.T) {
	later := library.UseCase{ID: "later", Name: "Later"}
	first := library.UseCase{ID: "first", Name: "First", Dependencies: []string{"later", "missing"}}
	phases := BuildChecklist(DecisionContext{}, []Recommendation{
		useCaseRecommendation(first, PriorityHigh, ""),
		useCaseRecommendation(later, PriorityHigh, ""),
	})
	task := phases[1].Tasks[0]
	if task.ID != "config-usecase-first" {
		t.Fatalf("unexpected first task %s", task.ID)
	}
	if containsString(task.Prerequisites, "config-usecase-later") {
		t.Fatalf("forward reference leaked: %v", task.Prerequisites)
	}
	assertNoForwardReferences(t, phases)
}

func TestBuildChecklistUniqueIDs(t *testing.T) {
	shared := "dup"
	selected := []Recommendation{
		vendorRec(t, library.Vendor{ID: shared, Name: "Vendor"}),
		vendorRec(t, library.Vendor{ID: shared, Name: "Vendor"}),
		useCaseRecommendation(library.UseCase{ID: shared, Name: "Use case"}, PriorityLow, ""),
	}
	phases := BuildChecklist(DecisionContext{}, selected)
	seen := map[string]bool{}
	for _, p := range phases {
		for _, task := range p.Tasks {
			if seen[task.ID] {
				t.Fatalf("duplicate task id %s", task.ID)
			}
			seen[task.ID] = true
		}
	}
	if len(phases[1].Tasks) != 2 {
		t.Fatalf("expected vendor and use case tasks, got %d", len(phases[1].Tasks))
	}
}

func TestBuildChecklistBadMetadata(t *testing.T) {
	rec := Recommendation{Type: TypeUseCase, ID: "x", Title: "X", Metadata: json.RawMessage(`"not an object"`)}
	phases := BuildChecklist(DecisionContext{}, []Recommendation{rec})
	if got := phases[1].Tasks[0].EstimatedHours; got != 40 {
		t.Fatalf("expected default 40h, got %v", got)
	}
}

func TestBuildChecklistFractionalEffort(t *testing.T) {
	uc := library.UseCase{ID: "posture", Name: "Posture", EstimatedEffortWeeks: 1.5}
	meta, err := json.Marshal(uc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := Recommendation{Type: TypeUseCase, ID: uc.ID, Title: uc.Name, Metadata: meta}
	phases := BuildChecklist(DecisionContext{}, []Recommendation{rec})
	if got := phases[1].Tasks[0].EstimatedHours; got != 60 {
		t.Fatalf("expected 60h for 1.5 weeks, got %v", got)
	}
}

func assertNoForwardReferences(t *testing.T, phases []ChecklistPhase) {
	t.Helper()
	known := map[string]bool{}
	for _, p := range phases {
		for _, task := range p.Tasks {
			for _, pre := range task.Prerequisites {
				if !known[pre] && !inPhase(p, pre) {
					t.Fatalf("task %s references %s which is not in this or an earlier phase", task.ID, pre)
				}
			}
		}
		for _, task := range p.Tasks {
			known[task.ID] = true
		}
	}
}

func inPhase(p ChecklistPhase, id string) bool {
	for _, task := range p.Tasks {
		if task.ID == id {
			return true
		}
	}
	return false
}
