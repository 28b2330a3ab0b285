package decisions

import (
	"encoding/json"
	"fmt"
	"strings"

	"nac-advisor/internal/shared/telemetry"
)

// Phase names, in checklist order.
const (
	PhasePlanning      = "Planning & Preparation"
	PhaseConfiguration = "Configuration & Setup"
	PhaseTesting       = "Testing & Validation"
	PhaseDeployment    = "Deployment & Go-Live"
)

const (
	hoursPerWeek            = 40
	vendorHoursHigh         = 16
	vendorHoursDefault      = 8
	defaultEffortWeeks      = 1
	highConfigurationEffort = "high"
	vendorTaskPrefix        = "config-vendor-"
	useCaseTaskPrefix       = "config-usecase-"
	taskPlanRequirements    = "plan-requirements"
	taskPlanArchitecture    = "plan-architecture"
	taskTestFunctional      = "test-functional"
	taskTestSecurity        = "test-security"
	taskDeployPilot         = "deploy-pilot"
	taskDeployProduction    = "deploy-production"
)

// recordAttributes holds the metadata fields the checklist reads back from a recommendation.
type recordAttributes struct {
	ConfigurationComplexity string  `json:"configuration_complexity"`
	EstimatedEffortWeeks    float64 `json:"estimated_effort_weeks"`
}

// BuildChecklist turns selected recommendations into four ordered phases. Tasks are
// appended in phase order and a prerequisite is only kept when it names a task that
// already exists, so no task can depend on a later one.
func BuildChecklist(dc DecisionContext, selected []Recommendation) []ChecklistPhase {
	planning := planningTasks(dc)
	config := configurationTasks(selected)

	configIDs := make([]string, 0, len(config))
	for _, t := range config {
		configIDs = append(configIDs, t.ID)
	}

	testing := []Task{
		{
			ID:             taskTestFunctional,
			Title:          "Functional testing",
			Description:    "Verify authentication, authorization and VLAN/policy assignment for every configured component.",
			EstimatedHours: 16,
			Prerequisites:  append([]string{}, configIDs...),
			Deliverables:   []string{"Test plan", "Functional test results"},
		},
		{
			ID:             taskTestSecurity,
			Title:          "Security validation",
			Description:    "Validate posture enforcement, quarantine flows and failure modes.",
			EstimatedHours: 16,
			Prerequisites:  append([]string{}, configIDs...),
			Deliverables:   []string{"Security validation report"},
		},
	}

	deployment := []Task{
		{
			ID:             taskDeployPilot,
			Title:          "Pilot deployment",
			Description:    "Enable enforcement for a pilot group in monitor mode, then closed mode.",
			EstimatedHours: 24,
			Prerequisites:  []string{taskTestFunctional, taskTestSecurity},
			Deliverables:   []string{"Pilot feedback", "Tuned policies"},
		},
		{
			ID:             taskDeployProduction,
			Title:          "Production rollout",
			Description:    "Roll enforcement out to all sites and hand over to operations.",
			EstimatedHours: 40,
			Prerequisites:  []string{taskDeployPilot},
			Deliverables:   []string{"Go-live sign-off", "Operations runbook"},
		},
	}

	return []ChecklistPhase{
		{Phase: PhasePlanning, Tasks: planning},
		{Phase: PhaseConfiguration, Tasks: config},
		{Phase: PhaseTesting, Tasks: testing},
		{Phase: PhaseDeployment, Tasks: deployment},
	}
}

func planningTasks(dc DecisionContext) []Task {
	scope := "Document scope, stakeholders and success criteria."
	if len(dc.ComplianceFrameworks) > 0 {
		scope = fmt.Sprintf("Document scope, stakeholders and success criteria, including %s obligations.",
			strings.Join(dc.ComplianceFrameworks, ", "))
	}
	return []Task{
		{
			ID:             taskPlanRequirements,
			Title:          "Requirements gathering",
			Description:    scope,
			EstimatedHours: 16,
			Prerequisites:  []string{},
			Deliverables:   []string{"Requirements document", "Stakeholder sign-off"},
		},
		{
			ID:             taskPlanArchitecture,
			Title:          "Architecture design",
			Description:    "Design the policy model, authentication flows and network segmentation.",
			EstimatedHours: 24,
			Prerequisites:  []string{taskPlanRequirements},
			Deliverables:   []string{"Architecture diagram", "Policy matrix"},
		},
	}
}

func configurationTasks(selected []Recommendation) []Task {
	tasks := []Task{}
	builtVendors := make(map[string]string)
	builtUseCases := make(map[string]string)

	for _, rec := range selected {
		if rec.Type != TypeVendor {
			continue
		}
		if _, dup := builtVendors[rec.ID]; dup {
			continue
		}
		id := vendorTaskPrefix + rec.ID
		attrs := decodeAttributes(rec)
		hours := float64(vendorHoursDefault)
		if equalFold(attrs.ConfigurationComplexity, highConfigurationEffort) {
			hours = vendorHoursHigh
		}
		tasks = append(tasks, Task{
			ID:             id,
			Title:          "Configure " + rec.Title,
			Description:    fmt.Sprintf("Integrate %s with the access control platform.", rec.Title),
			EstimatedHours: hours,
			Prerequisites:  []string{taskPlanArchitecture},
			Deliverables:   []string{rec.Title + " integration configured"},
		})
		builtVendors[rec.ID] = id
	}

	for _, rec := range selected {
		if rec.Type != TypeUseCase {
			continue
		}
		if _, dup := builtUseCases[rec.ID]; dup {
			continue
		}
		attrs := decodeAttributes(rec)
		weeks := attrs.EstimatedEffortWeeks
		if weeks <= 0 {
			weeks = defaultEffortWeeks
		}
		prereqs := []string{taskPlanArchitecture}
		for _, dep := range rec.Dependencies {
			if taskID, ok := builtUseCases[dep]; ok {
				prereqs = append(prereqs, taskID)
			} else if taskID, ok := builtVendors[dep]; ok {
				prereqs = append(prereqs, taskID)
			}
		}
		id := useCaseTaskPrefix + rec.ID
		tasks = append(tasks, Task{
			ID:             id,
			Title:          "Implement " + rec.Title,
			Description:    rec.Description,
			EstimatedHours: weeks * hoursPerWeek,
			Prerequisites:  prereqs,
			Deliverables:   []string{rec.Title + " policies", rec.Title + " configuration notes"},
		})
		builtUseCases[rec.ID] = id
	}
	return tasks
}

// decodeAttributes reads checklist inputs from a recommendation's metadata. Unreadable
// metadata falls back to the defaults and is logged.
func decodeAttributes(rec Recommendation) recordAttributes {
	var attrs recordAttributes
	if len(rec.Metadata) == 0 {
		return attrs
	}
	if err := json.Unmarshal(rec.Metadata, &attrs); err != nil {
		telemetry.Warn("checklist.metadata_invalid", map[string]any{
			"type":  rec.Type,
			"id":    rec.ID,
			"error": err.Error(),
		})
		return recordAttributes{}
	}
	return attrs
}
