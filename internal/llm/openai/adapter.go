package openai

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"nac-advisor/internal/llm"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when a request names no model.
	DefaultModel = "gpt-4o"
	// EnvAPIKey names the credential variable.
	EnvAPIKey = "OPENAI_API_KEY"
)

// Option customizes an Adapter.
type Option func(*settings)

type settings struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// WithBaseURL points the adapter at another API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithDefaultModel overrides the provider default model.
func WithDefaultModel(model string) Option {
	return func(s *settings) { s.model = strings.TrimSpace(model) }
}

// Compatible describes an OpenAI-compatible chat endpoint.
type Compatible struct {
	ID      string
	EnvVar  string
	BaseURL string
	Model   string
}

// Adapter implements llm.Adapter over the OpenAI chat completions API and, for
// reasoning models, the Responses API.
type Adapter struct {
	id         string
	apiKey     string
	baseURL    string
	model      string
	reasoning  bool
	httpClient *http.Client
	chat       *goopenai.Client
}

// New constructs the OpenAI adapter.
func New(apiKey string, opts ...Option) (*Adapter, error) {
	a, err := build(Compatible{
		ID:      llm.ProviderOpenAI,
		EnvVar:  EnvAPIKey,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	}, apiKey, opts)
	if err != nil {
		return nil, err
	}
	a.reasoning = true
	return a, nil
}

// NewCompatible constructs a chat-only adapter for an OpenAI-compatible provider.
func NewCompatible(p Compatible, apiKey string, opts ...Option) (*Adapter, error) {
	return build(p, apiKey, opts)
}

func build(p Compatible, apiKey string, opts []Option) (*Adapter, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &llm.MissingCredentialError{Provider: p.ID, EnvVar: p.EnvVar}
	}
	s := settings{
		baseURL:    p.BaseURL,
		model:      p.Model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := goopenai.DefaultConfig(key)
	cfg.BaseURL = s.baseURL
	cfg.HTTPClient = s.httpClient

	return &Adapter{
		id:         p.ID,
		apiKey:     key,
		baseURL:    s.baseURL,
		model:      s.model,
		httpClient: s.httpClient,
		chat:       goopenai.NewClientWithConfig(cfg),
	}, nil
}

// ID returns the provider id.
func (a *Adapter) ID() string {
	return a.id
}

// Complete runs one completion.
func (a *Adapter) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	model := llm.ModelOrDefault(req, a.model)
	system := llm.SystemInstruction(req)
	if a.reasoning && isReasoningModel(model) {
		return a.respond(ctx, model, system, req)
	}
	return a.completeChat(ctx, model, system, req)
}

func (a *Adapter) completeChat(ctx context.Context, model, system string, req llm.Request) (llm.Response, error) {
	chatReq := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
		// go-openai drops a zero temperature through omitempty.
		if chatReq.Temperature == 0 {
			chatReq.Temperature = math.SmallestNonzeroFloat32
		}
	}
	if req.MaxTokens != nil {
		chatReq.MaxTokens = *req.MaxTokens
	}

	resp, err := a.chat.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return llm.Response{}, TranslateError(a.id, err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, llm.NewProviderError(a.id, 0, "response missing choices")
	}

	out := llm.Response{
		Content:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:         resp.Model,
		ResolvedModel: model,
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if out.Model == "" {
		out.Model = model
	}
	return out, nil
}

// TranslateError maps a go-openai client error onto *llm.ProviderError. Errors
// that carry no upstream status are returned unchanged.
func TranslateError(provider string, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.HTTPStatusCode)
		}
		return &llm.ProviderError{Provider: provider, StatusCode: apiErr.HTTPStatusCode, Message: msg, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		msg := strings.TrimSpace(string(reqErr.Body))
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		if msg == "" {
			msg = http.StatusText(reqErr.HTTPStatusCode)
		}
		return &llm.ProviderError{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return err
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

var _ llm.Adapter = (*Adapter)(nil)
