package llm

import (
	"context"
	"strings"
)

// Provider identifiers.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderPerplexity = "perplexity"
	ProviderDeepSeek   = "deepseek"
	ProviderAzure      = "azure"
)

// Request is a provider-neutral completion request.
type Request struct {
	Prompt          string   `json:"prompt"`
	Context         string   `json:"context,omitempty"`
	TaskType        string   `json:"taskType,omitempty"`
	Provider        string   `json:"provider,omitempty"`
	Model           string   `json:"model,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxTokens       *int     `json:"maxTokens,omitempty"`
	ReasoningEffort string   `json:"reasoningEffort,omitempty"`
	Verbosity       string   `json:"verbosity,omitempty"`
	EnableFallback  bool     `json:"enableFallback"`
}

// Usage reports token counts and the estimated USD cost of a completion.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostEstimate     float64 `json:"cost_estimate"`
}

// Response is the normalized completion result.
type Response struct {
	Content      string `json:"content"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Usage        *Usage `json:"usage,omitempty"`
	FromCache    bool   `json:"fromCache,omitempty"`
	FallbackUsed bool   `json:"fallbackUsed,omitempty"`

	// ResolvedModel is the model the adapter asked for. Model is what the
	// upstream reported back, often a dated snapshot name.
	ResolvedModel string `json:"-"`
}

// Adapter executes completions against one upstream provider.
type Adapter interface {
	ID() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// NormalizeProvider lower-cases and trims a provider id.
func NormalizeProvider(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ModelOrDefault returns the requested model, or def when none was requested.
func ModelOrDefault(req Request, def string) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	return def
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the inbound request id for usage records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
