package usage

import "time"

// Record is one provider attempt made by the AI gateway.
type Record struct {
	ID               string    `json:"id" db:"id"`
	RequestID        string    `json:"requestId" db:"request_id"`
	Provider         string    `json:"provider" db:"provider"`
	Model            string    `json:"model" db:"model"`
	TaskType         string    `json:"taskType" db:"task_type"`
	PromptTokens     int       `json:"promptTokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completionTokens" db:"completion_tokens"`
	TotalTokens      int       `json:"totalTokens" db:"total_tokens"`
	CostEstimate     float64   `json:"costEstimate" db:"cost_estimate"`
	Success          bool      `json:"success" db:"success"`
	FallbackUsed     bool      `json:"fallbackUsed" db:"fallback_used"`
	ErrorMessage     string    `json:"errorMessage,omitempty" db:"error_message"`
	DurationMS       int64     `json:"durationMs" db:"duration_ms"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// ProviderSummary aggregates records of one provider.
type ProviderSummary struct {
	Provider         string  `json:"provider" db:"provider"`
	Calls            int     `json:"calls" db:"calls"`
	Successes        int     `json:"successes" db:"successes"`
	Failures         int     `json:"failures" db:"failures"`
	Fallbacks        int     `json:"fallbacks" db:"fallbacks"`
	PromptTokens     int     `json:"promptTokens" db:"prompt_tokens"`
	CompletionTokens int     `json:"completionTokens" db:"completion_tokens"`
	TotalTokens      int     `json:"totalTokens" db:"total_tokens"`
	CostEstimate     float64 `json:"costEstimate" db:"cost_estimate"`
}

// Summary is the per-provider usage report since a point in time.
type Summary struct {
	Since     time.Time         `json:"since"`
	Providers []ProviderSummary `json:"providers"`
	Calls     int               `json:"calls"`
	TotalCost float64           `json:"totalCost"`
}
