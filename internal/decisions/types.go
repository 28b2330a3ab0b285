package decisions

import "encoding/json"

// Recommendation types.
const (
	TypeUseCase             = "use_case"
	TypeRequirement         = "requirement"
	TypeVendor              = "vendor"
	TypeAuthMethod          = "authentication_method"
	TypePainPoint           = "pain_point"
	TypeComplianceFramework = "compliance_framework"
)

// Priorities, highest first.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Step identifiers tracked in a DecisionPath.
const (
	StepSelectIndustry        = "select_industry"
	StepSelectCompliance      = "select_compliance_frameworks"
	StepMapExistingVendors    = "map_existing_vendors"
	StepIdentifyPainPoints    = "identify_pain_points"
	StepReviewRecommendations = "review_recommendations"
)

// MaxRecommendations caps the recommendations returned by one analysis.
const MaxRecommendations = 10

// DecisionContext describes an organization's environment. Every field is optional.
type DecisionContext struct {
	Industry                   string              `json:"industry,omitempty"`
	OrganizationSize           *int                `json:"organizationSize,omitempty"`
	ComplianceFrameworks       []string            `json:"complianceFrameworks,omitempty"`
	PainPoints                 []string            `json:"painPoints,omitempty"`
	ExistingVendors            map[string][]string `json:"existingVendors,omitempty"`
	AuthenticationRequirements []string            `json:"authenticationRequirements,omitempty"`
	SecurityLevel              string              `json:"securityLevel,omitempty"`
	DeploymentType             string              `json:"deploymentType,omitempty"`
	NetworkSegments            []string            `json:"networkSegments,omitempty"`
	BusinessDomains            []string            `json:"businessDomains,omitempty"`
}

// Recommendation is one suggested resource with its priority and rationale.
type Recommendation struct {
	Type          string          `json:"type"`
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      string          `json:"priority"`
	Reasoning     string          `json:"reasoning"`
	Prerequisites []string        `json:"prerequisites"`
	Dependencies  []string        `json:"dependencies"`
	ConflictsWith []string        `json:"conflictsWith"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// DecisionPath is the outcome of one analysis.
type DecisionPath struct {
	CurrentStep     string           `json:"currentStep"`
	NextSteps       []string         `json:"nextSteps"`
	CompletedSteps  []string         `json:"completedSteps"`
	Recommendations []Recommendation `json:"recommendations"`
	Blockers        []string         `json:"blockers"`
	Warnings        []string         `json:"warnings"`
}

// ChecklistPhase is a named, ordered group of tasks.
type ChecklistPhase struct {
	Phase string `json:"phase"`
	Tasks []Task `json:"tasks"`
}

// Task is one implementation step.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	EstimatedHours float64  `json:"estimatedHours"`
	Prerequisites  []string `json:"prerequisites"`
	Deliverables   []string `json:"deliverables"`
}
