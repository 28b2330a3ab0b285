package decisions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"nac-advisor/internal/library"
	"nac-advisor/internal/shared/metrics"
)

// Engine analyzes decision contexts against the resource library.
type Engine struct {
	Library library.Reader
}

// NewEngine constructs an Engine reading from r.
func NewEngine(r library.Reader) *Engine {
	return &Engine{Library: r}
}

// AnalyzeContext reads a fresh library snapshot and analyzes dc against it. A reader
// failure is returned unmodified and no partial path is produced.
func (e *Engine) AnalyzeContext(ctx context.Context, dc DecisionContext) (DecisionPath, error) {
	snap, err := library.Load(ctx, e.Library)
	if err != nil {
		metrics.ObserveAnalysis(err, 0)
		return DecisionPath{}, err
	}
	path := Analyze(snap, dc)
	metrics.ObserveAnalysis(nil, len(path.Recommendations))
	return path, nil
}

type stage func(idx *index, dc DecisionContext) []Recommendation

// Analyze runs every stage over snap. It is deterministic for a given snapshot and context.
func Analyze(snap library.Snapshot, dc DecisionContext) DecisionPath {
	idx := &index{snap: snap}
	stages := []stage{
		industryStage,
		scaleStage,
		existingVendorStage,
		complianceStage,
	}

	candidates := make([]Recommendation, 0, 16)
	for _, s := range stages {
		candidates = append(candidates, s(idx, dc)...)
	}

	path := DecisionPath{
		NextSteps:      []string{},
		CompletedSteps: []string{},
		Blockers:       []string{},
		Warnings:       []string{},
	}
	computeSteps(&path, dc)

	blockers, conflicts := detectConflicts(idx, dc)
	path.Blockers = append(path.Blockers, blockers...)

	recs := dedupe(candidates)
	for i := range recs {
		if recs[i].Type == TypeComplianceFramework {
			if ids, ok := conflicts[recs[i].ID]; ok {
				recs[i].ConflictsWith = append(recs[i].ConflictsWith, ids...)
			}
		}
	}
	sortByPriority(recs)
	if dropped := len(recs) - MaxRecommendations; dropped > 0 {
		recs = recs[:MaxRecommendations]
		path.Warnings = append(path.Warnings, fmt.Sprintf("%d lower-priority recommendations were omitted", dropped))
	}
	path.Recommendations = recs
	return path
}

func industryStage(idx *index, dc DecisionContext) []Recommendation {
	ind, ok := idx.industry(dc.Industry)
	if !ok {
		return nil
	}

	var out []Recommendation
	var frameworkNames []string
	for _, fw := range idx.snap.ComplianceFrameworks {
		if !containsFold(fw.IndustrySpecific, ind.Name) && !containsFold(fw.IndustrySpecific, ind.ID) {
			continue
		}
		frameworkNames = append(frameworkNames, fw.Name, fw.ID)
		out = append(out, newRecommendation(TypeComplianceFramework, fw.ID, fw.Name, fw.Description, PriorityHigh,
			fmt.Sprintf("Required for %s organizations", ind.Name), fw))
	}
	if len(frameworkNames) == 0 {
		return out
	}

	for _, uc := range idx.snap.UseCases {
		if !intersectsFold(uc.ComplianceFrameworks, frameworkNames) {
			continue
		}
		priority := PriorityMedium
		if isHigh(uc.Complexity) {
			priority = PriorityHigh
		}
		out = append(out, useCaseRecommendation(uc, priority,
			fmt.Sprintf("Addresses %s compliance common in %s", strings.Join(uc.ComplianceFrameworks, ", "), ind.Name)))
	}
	return out
}

func scaleStage(idx *index, dc DecisionContext) []Recommendation {
	if dc.OrganizationSize == nil || *dc.OrganizationSize <= 1000 {
		return nil
	}
	var out []Recommendation
	for _, uc := range idx.snap.UseCases {
		if !mentionsScale(uc.TechnicalRequirements) {
			continue
		}
		out = append(out, useCaseRecommendation(uc, PriorityHigh,
			fmt.Sprintf("Recommended for organizations with %d users", *dc.OrganizationSize)))
	}
	return out
}

func existingVendorStage(idx *index, dc DecisionContext) []Recommendation {
	var out []Recommendation
	for _, category := range orderedCategories(dc.ExistingVendors) {
		for _, name := range dc.ExistingVendors[category] {
			vendor, ok := idx.vendor(name)
			if !ok {
				continue
			}
			for _, other := range idx.snap.Vendors {
				if other.ID == vendor.ID || equalFold(other.Category, vendor.Category) {
					continue
				}
				shared := sharedMethods(vendor.IntegrationMethods, other.IntegrationMethods)
				if len(shared) == 0 {
					continue
				}
				out = append(out, newRecommendation(TypeVendor, other.ID, other.Name, other.Description, PriorityMedium,
					fmt.Sprintf("Integrates with your existing %s (%s) via %s", vendor.Name, category, strings.Join(shared, ", ")), other))
			}
			for _, uc := range idx.snap.UseCases {
				if !mentionsVendor(uc.SupportedVendors, vendor.Name) {
					continue
				}
				out = append(out, useCaseRecommendation(uc, PriorityMedium,
					fmt.Sprintf("Supported by your existing %s (%s)", vendor.Name, category)))
			}
		}
	}
	return out
}

func complianceStage(idx *index, dc DecisionContext) []Recommendation {
	var out []Recommendation
	for _, name := range dc.ComplianceFrameworks {
		fw, ok := idx.framework(name)
		if !ok {
			continue
		}
		for _, req := range idx.snap.Requirements {
			if !containsFold(req.ComplianceFrameworks, fw.Name) && !containsFold(req.ComplianceFrameworks, fw.ID) {
				continue
			}
			out = append(out, newRecommendation(TypeRequirement, req.ID, req.Name, req.Description, normalizePriority(req.Priority),
				fmt.Sprintf("Required by %s", fw.Name), req))
		}
		for _, method := range idx.snap.AuthenticationMethods {
			entry, ok := requirementMentioning(fw.Requirements, method.MethodType)
			if !ok {
				continue
			}
			priority := PriorityMedium
			if isHigh(method.SecurityLevel) {
				priority = PriorityHigh
			}
			out = append(out, newRecommendation(TypeAuthMethod, method.ID, method.Name, method.Description, priority,
				fmt.Sprintf("Satisfies %s requirement: %s", fw.Name, entry), method))
		}
	}
	return out
}

func computeSteps(path *DecisionPath, dc DecisionContext) {
	checkpoints := []struct {
		step string
		done bool
	}{
		{StepSelectIndustry, strings.TrimSpace(dc.Industry) != ""},
		{StepSelectCompliance, len(dc.ComplianceFrameworks) > 0},
		{StepMapExistingVendors, hasVendors(dc.ExistingVendors)},
		{StepIdentifyPainPoints, len(dc.PainPoints) > 0},
	}
	for _, cp := range checkpoints {
		if cp.done {
			path.CompletedSteps = append(path.CompletedSteps, cp.step)
		} else {
			path.NextSteps = append(path.NextSteps, cp.step)
		}
	}
	path.CurrentStep = StepReviewRecommendations
	if len(path.NextSteps) > 0 {
		path.CurrentStep = path.NextSteps[0]
	}
}

// detectConflicts tests every unordered pair of resolved frameworks. It returns the
// blocker messages and, per framework id, the ids it conflicts with.
func detectConflicts(idx *index, dc DecisionContext) ([]string, map[string][]string) {
	var resolved []library.ComplianceFramework
	seen := make(map[string]bool)
	for _, name := range dc.ComplianceFrameworks {
		fw, ok := idx.framework(name)
		if !ok || seen[fw.ID] {
			continue
		}
		seen[fw.ID] = true
		resolved = append(resolved, fw)
	}

	var blockers []string
	conflicts := make(map[string][]string)
	for i := 0; i < len(resolved); i++ {
		for j := i + 1; j < len(resolved); j++ {
			a, b := resolved[i], resolved[j]
			if !hasConflictingRequirements(a.Requirements, b.Requirements) {
				continue
			}
			blockers = append(blockers, fmt.Sprintf("Conflicting requirements between %s and %s", a.Name, b.Name))
			conflicts[a.ID] = append(conflicts[a.ID], b.ID)
			conflicts[b.ID] = append(conflicts[b.ID], a.ID)
		}
	}
	return blockers, conflicts
}

// dedupe collapses repeated (type, id) recommendations into the position of the
// first one, keeping whichever occurrence ranks highest.
func dedupe(items []Recommendation) []Recommendation {
	pos := make(map[string]int, len(items))
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		key := item.Type + "|" + item.ID
		i, ok := pos[key]
		if !ok {
			pos[key] = len(out)
			out = append(out, item)
			continue
		}
		if priorityRank(item.Priority) > priorityRank(out[i].Priority) {
			out[i] = item
		}
	}
	return out
}

func sortByPriority(items []Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		return priorityRank(items[i].Priority) > priorityRank(items[j].Priority)
	})
}

func newRecommendation(kind, id, title, description, priority, reasoning string, record any) Recommendation {
	meta, _ := json.Marshal(record)
	return Recommendation{
		Type:          kind,
		ID:            id,
		Title:         title,
		Description:   description,
		Priority:      priority,
		Reasoning:     reasoning,
		Prerequisites: []string{},
		Dependencies:  []string{},
		ConflictsWith: []string{},
		Metadata:      meta,
	}
}

func useCaseRecommendation(uc library.UseCase, priority, reasoning string) Recommendation {
	rec := newRecommendation(TypeUseCase, uc.ID, uc.Name, uc.Description, priority, reasoning, uc)
	rec.Prerequisites = append(rec.Prerequisites, uc.Prerequisites...)
	rec.Dependencies = append(rec.Dependencies, uc.Dependencies...)
	return rec
}

var categoryOrder = []string{"wired", "wireless", "mdm", "idp", "edr", "radius", "nac"}

// orderedCategories returns the keys of vendors in the canonical category order,
// followed by any other categories sorted alphabetically.
func orderedCategories(vendors map[string][]string) []string {
	out := make([]string, 0, len(vendors))
	known := make(map[string]bool, len(categoryOrder))
	for _, c := range categoryOrder {
		known[c] = true
		if _, ok := vendors[c]; ok {
			out = append(out, c)
		}
	}
	var rest []string
	for c := range vendors {
		if !known[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func hasVendors(vendors map[string][]string) bool {
	for _, names := range vendors {
		for _, n := range names {
			if strings.TrimSpace(n) != "" {
				return true
			}
		}
	}
	return false
}

func sharedMethods(a, b []string) []string {
	var out []string
	for _, m := range a {
		if containsFold(b, m) && !containsFold(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// requirementMentioning returns the first requirement entry containing methodType.
func requirementMentioning(requirements []string, methodType string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(methodType))
	if needle == "" {
		return "", false
	}
	for _, r := range requirements {
		if strings.Contains(strings.ToLower(r), needle) {
			return r, true
		}
	}
	return "", false
}

// index resolves caller-supplied names against a snapshot.
type index struct {
	snap library.Snapshot
}

func (x *index) industry(name string) (library.Industry, bool) {
	if strings.TrimSpace(name) == "" {
		return library.Industry{}, false
	}
	for _, ind := range x.snap.Industries {
		if equalFold(ind.Name, name) || equalFold(ind.ID, name) {
			return ind, true
		}
	}
	return library.Industry{}, false
}

func (x *index) framework(name string) (library.ComplianceFramework, bool) {
	if strings.TrimSpace(name) == "" {
		return library.ComplianceFramework{}, false
	}
	for _, fw := range x.snap.ComplianceFrameworks {
		if equalFold(fw.Name, name) || equalFold(fw.ID, name) {
			return fw, true
		}
	}
	return library.ComplianceFramework{}, false
}

func (x *index) vendor(name string) (library.Vendor, bool) {
	if strings.TrimSpace(name) == "" {
		return library.Vendor{}, false
	}
	for _, v := range x.snap.Vendors {
		if equalFold(v.Name, name) || equalFold(v.ID, name) {
			return v, true
		}
	}
	return library.Vendor{}, false
}
