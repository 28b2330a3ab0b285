package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nac-advisor/internal/llm"
)

const (
	// DefaultBaseURL is the Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when a request names no model.
	DefaultModel = "gemini-2.5-flash"
	// EnvAPIKey names the credential variable.
	EnvAPIKey = "GEMINI_API_KEY"
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

// Adapter implements llm.Adapter over generateContent.
type Adapter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New constructs the Gemini adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &llm.MissingCredentialError{Provider: llm.ProviderGemini, EnvVar: EnvAPIKey}
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

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	ModelVersion string `json:"modelVersion"`
	Error        *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ID returns the provider id.
func (a *Adapter) ID() string {
	return llm.ProviderGemini
}

// Complete runs one completion.
func (a *Adapter) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := llm.ModelOrDefault(req, a.model)
	body := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: llm.SystemInstruction(req)}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if req.Temperature != nil || req.MaxTokens != nil {
		body.GenerationConfig = &generationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return llm.Response{}, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, err
	}
	httpReq.Header.Set("x-goog-api-key", a.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini read: %w", err)
	}

	var parsed generateResponse
	parseErr := json.Unmarshal(raw, &parsed)
	if resp.StatusCode != http.StatusOK || (parseErr == nil && parsed.Error != nil) {
		msg := strings.TrimSpace(string(raw))
		if parseErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return llm.Response{}, llm.NewProviderError(llm.ProviderGemini, resp.StatusCode, msg)
	}
	if parseErr != nil {
		return llm.Response{}, &llm.ProviderError{Provider: llm.ProviderGemini, StatusCode: resp.StatusCode, Message: "malformed response body", Err: parseErr}
	}
	if len(parsed.Candidates) == 0 {
		return llm.Response{}, llm.NewProviderError(llm.ProviderGemini, resp.StatusCode, "response missing candidates")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	out := llm.Response{
		Content:       strings.TrimSpace(text.String()),
		Model:         parsed.ModelVersion,
		ResolvedModel: model,
	}
	if out.Model == "" {
		out.Model = model
	}
	if u := parsed.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return out, nil
}

var _ llm.Adapter = (*Adapter)(nil)
