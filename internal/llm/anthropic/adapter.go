package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nac-advisor/internal/llm"
)

const (
	// DefaultBaseURL is the Anthropic API root.
	DefaultBaseURL = "https://api.anthropic.com/v1"
	// DefaultModel is used when a request names no model.
	DefaultModel = "claude-sonnet-4-5"
	// EnvAPIKey names the credential variable.
	EnvAPIKey = "ANTHROPIC_API_KEY"

	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
)

// Option customizes an Adapter.
type Option func(*Adapter)

// WithBaseURL points the adapter at another API root.
func WithBaseURL(u string) Option {
	return func(a *Adapter) { a.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithDefaultModel overrides the provider default model.
func WithDefaultModel(model string) Option {
	return func(a *Adapter) { a.model = strings.TrimSpace(model) }
}

// Adapter implements llm.Adapter over the Messages API.
type Adapter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New constructs the Anthropic adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &llm.MissingCredentialError{Provider: llm.ProviderAnthropic, EnvVar: EnvAPIKey}
	}
	a := &Adapter{
		apiKey:     key,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Type    string `json:"type"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ID returns the provider id.
func (a *Adapter) ID() string {
	return llm.ProviderAnthropic
}

// Complete runs one completion.
func (a *Adapter) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := llm.ModelOrDefault(req, a.model)
	body := messagesRequest{
		Model:       model,
		MaxTokens:   defaultMaxTokens,
		System:      llm.SystemInstruction(req),
		Messages:    []message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		body.MaxTokens = *req.MaxTokens
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return llm.Response{}, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, fmt.Errorf("anthropic read: %w", err)
	}

	var parsed messagesResponse
	parseErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode != http.StatusOK || (parseErr == nil && parsed.Error != nil) {
		msg := strings.TrimSpace(string(raw))
		if parseErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return llm.Response{}, llm.NewProviderError(llm.ProviderAnthropic, resp.StatusCode, msg)
	}
	if parseErr != nil {
		return llm.Response{}, &llm.ProviderError{Provider: llm.ProviderAnthropic, StatusCode: resp.StatusCode, Message: "malformed response body", Err: parseErr}
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := llm.Response{
		Content:       strings.TrimSpace(text.String()),
		Model:         parsed.Model,
		ResolvedModel: model,
	}
	if out.Model == "" {
		out.Model = model
	}
	if parsed.Usage != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
		}
	}
	return out, nil
}

var _ llm.Adapter = (*Adapter)(nil)
