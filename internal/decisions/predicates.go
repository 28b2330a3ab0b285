package decisions

import "strings"

// conflictPairs lists requirement keywords that contradict each other. The first
// member appearing in one framework and the second in another marks a conflict.
var conflictPairs = [][2]string{
	{"encryption", "no-encryption"},
	{"mfa-required", "single-factor"},
	{"audit-all", "minimal-audit"},
}

var scaleKeywords = []string{"enterprise", "scale"}

// mentionsScale reports whether any technical requirement mentions enterprise or scale.
func mentionsScale(requirements []string) bool {
	for _, req := range requirements {
		lower := strings.ToLower(req)
		for _, kw := range scaleKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// conflictsOn reports whether a's requirements carry the first member of a conflict
// pair while b's carry the second. It is a plain substring test and directional;
// "no-encryption" also matches "encryption".
func conflictsOn(a, b []string) bool {
	textA := strings.ToLower(strings.Join(a, "\n"))
	textB := strings.ToLower(strings.Join(b, "\n"))
	for _, pair := range conflictPairs {
		if strings.Contains(textA, pair[0]) && strings.Contains(textB, pair[1]) {
			return true
		}
	}
	return false
}

// hasConflictingRequirements is conflictsOn checked in both directions.
func hasConflictingRequirements(a, b []string) bool {
	return conflictsOn(a, b) || conflictsOn(b, a)
}

// mentionsVendor reports whether any supported vendor entry contains name.
func mentionsVendor(supported []string, name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, s := range supported {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// intersectsFold reports whether a and b share an element, ignoring case.
func intersectsFold(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if equalFold(x, y) {
				return true
			}
		}
	}
	return false
}

func containsFold(items []string, value string) bool {
	for _, item := range items {
		if equalFold(item, value) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func isHigh(level string) bool {
	return equalFold(level, "high")
}

func priorityRank(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// normalizePriority maps a declared priority onto the known set, defaulting to medium.
func normalizePriority(priority string) string {
	p := strings.ToLower(strings.TrimSpace(priority))
	if priorityRank(p) == 0 {
		return PriorityMedium
	}
	return p
}
