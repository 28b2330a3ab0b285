package llm

import "strings"

// Persona is the fixed system instruction sent with every completion.
const Persona = "You are a senior network access control (NAC) architect. You advise organizations on " +
	"802.1X, RADIUS, device posture, network segmentation and zero-trust access, and on how these map to " +
	"compliance frameworks such as HIPAA, PCI-DSS and NIST 800-53. Give precise, vendor-aware, actionable " +
	"guidance and state assumptions explicitly."

var taskGuidance = map[string]string{
	"recommendation":    "Recommend concrete use cases, vendors and authentication methods, ordered by priority, with a one-line rationale each.",
	"checklist":         "Produce an ordered implementation checklist grouped into planning, configuration, testing and deployment phases with effort estimates.",
	"vendor_comparison": "Compare the named vendors on integration methods, configuration complexity and operational fit. Use a table where helpful.",
	"compliance":        "Map each relevant compliance control to the access control capabilities that satisfy it and call out gaps.",
}

// SystemInstruction builds the system prompt for req: the persona, guidance for a
// known task type, then req.Context verbatim.
func SystemInstruction(req Request) string {
	var b strings.Builder
	b.WriteString(Persona)
	if guidance, ok := taskGuidance[strings.ToLower(strings.TrimSpace(req.TaskType))]; ok {
		b.WriteString("\n\n")
		b.WriteString(guidance)
	}
	if req.Context != "" {
		b.WriteString("\n\nContext:\n")
		b.WriteString(req.Context)
	}
	return b.String()
}
