package azure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"nac-advisor/internal/llm"
)

const (
	// EnvAPIKey names the credential variable.
	EnvAPIKey = "AZURE_OPENAI_API_KEY"
	// EnvEndpoint names the resource endpoint variable.
	EnvEndpoint = "AZURE_OPENAI_ENDPOINT"
	// DefaultDeployment is used when a request names no model.
	DefaultDeployment = "gpt-4o"
)

// Option customizes an Adapter.
type Option func(*settings)

type settings struct {
	deployment string
	transport  policy.Transporter
}

// WithDeployment overrides the default deployment name.
func WithDeployment(name string) Option {
	return func(s *settings) {
		if name = strings.TrimSpace(name); name != "" {
			s.deployment = name
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. with a test server client.
func WithTransport(t policy.Transporter) Option {
	return func(s *settings) { s.transport = t }
}

// Adapter implements llm.Adapter over Azure OpenAI chat completions. Request
// models are deployment names.
type Adapter struct {
	client     *azopenai.Client
	deployment string
}

// New constructs the Azure OpenAI adapter. Both the key and the endpoint are required.
func New(apiKey, endpoint string, opts ...Option) (*Adapter, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &llm.MissingCredentialError{Provider: llm.ProviderAzure, EnvVar: EnvAPIKey}
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, &llm.MissingCredentialError{Provider: llm.ProviderAzure, EnvVar: EnvEndpoint}
	}

	s := settings{deployment: DefaultDeployment}
	for _, opt := range opts {
		opt(&s)
	}

	clientOpts := &azopenai.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
	if s.transport != nil {
		clientOpts.Transport = s.transport
	}

	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(key), clientOpts)
	if err != nil {
		return nil, err
	}
	return &Adapter{client: client, deployment: s.deployment}, nil
}

// ID returns the provider id.
func (a *Adapter) ID() string {
	return llm.ProviderAzure
}

// Complete runs one completion.
func (a *Adapter) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	deployment := llm.ModelOrDefault(req, a.deployment)
	opts := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(deployment),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(llm.SystemInstruction(req)),
			},
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(req.Prompt),
			},
		},
	}
	if req.Temperature != nil {
		opts.Temperature = to.Ptr(float32(*req.Temperature))
	}
	if req.MaxTokens != nil {
		opts.MaxTokens = to.Ptr(int32(*req.MaxTokens))
	}

	resp, err := a.client.GetChatCompletions(ctx, opts, nil)
	if err != nil {
		return llm.Response{}, translateError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return llm.Response{}, llm.NewProviderError(llm.ProviderAzure, 0, "response missing choices")
	}

	out := llm.Response{Model: deployment, ResolvedModel: deployment}
	if c := resp.Choices[0].Message.Content; c != nil {
		out.Content = strings.TrimSpace(*c)
	}
	if resp.Model != nil && *resp.Model != "" {
		out.Model = *resp.Model
	}
	if u := resp.Usage; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(deref(u.PromptTokens)),
			CompletionTokens: int(deref(u.CompletionTokens)),
			TotalTokens:      int(deref(u.TotalTokens)),
		}
	}
	return out, nil
}

type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func translateError(err error) error {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}
	msg := respErr.ErrorCode
	if respErr.RawResponse != nil {
		if body, readErr := runtime.Payload(respErr.RawResponse); readErr == nil {
			var env errorEnvelope
			if json.Unmarshal(body, &env) == nil && env.Error != nil && env.Error.Message != "" {
				msg = env.Error.Message
			}
		}
	}
	if msg == "" {
		msg = http.StatusText(respErr.StatusCode)
	}
	return &llm.ProviderError{Provider: llm.ProviderAzure, StatusCode: respErr.StatusCode, Message: msg, Err: err}
}

func deref(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}

var _ llm.Adapter = (*Adapter)(nil)
