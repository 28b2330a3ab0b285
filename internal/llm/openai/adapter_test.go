package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nac-advisor/internal/llm"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := New("  ")
	var missing *llm.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "openai", missing.Provider)
	assert.Equal(t, EnvAPIKey, missing.EnvVar)
}

func TestIsReasoningModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-5", true},
		{"gpt-5-mini", true},
		{" GPT-5o ", true},
		{"o1-preview", true},
		{"o3", true},
		{"o4-mini", true},
		{"gpt-4o", false},
		{"gpt-4.1", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, isReasoningModel(tt.model))
		})
	}
}

func TestChatCompletion(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-2024-08-06",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Deploy EAP-TLS.  "},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":21,"completion_tokens":7,"total_tokens":28}
		}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	temp := 0.2
	resp, err := a.Complete(context.Background(), llm.Request{
		Prompt:      "How do I onboard clinical devices?",
		Context:     "Industry: Healthcare",
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "Deploy EAP-TLS.", resp.Content)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 21, resp.Usage.PromptTokens)
	assert.Equal(t, 7, resp.Usage.CompletionTokens)

	assert.Equal(t, DefaultModel, got["model"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], llm.Persona)
	assert.Contains(t, system["content"], "Industry: Healthcare")
	assert.Equal(t, "How do I onboard clinical devices?", messages[1].(map[string]any)["content"])
}

func TestChatCompletionSendsZeroTemperature(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	zero := 0.0
	_, err = a.Complete(context.Background(), llm.Request{Prompt: "hi", Temperature: &zero})
	require.NoError(t, err)

	temp, ok := got["temperature"].(float64)
	require.True(t, ok, "temperature missing from request body")
	assert.Less(t, temp, 1e-6)
}

func TestRouterPricesDatedSnapshotAsRequestedModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model":"gpt-4o-2024-08-06",
			"choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}],
			"usage":{"prompt_tokens":100,"completion_tokens":50,"total_tokens":150}
		}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	prices := llm.DefaultPrices()
	router := llm.NewRouter([]llm.Adapter{a}, nil, llm.Options{DefaultProvider: "openai", Prices: prices})

	for _, model := range []string{"gpt-4o", ""} {
		resp, err := router.Complete(context.Background(), llm.Request{Prompt: "hi", Model: model})
		require.NoError(t, err)
		require.NotNil(t, resp.Usage)
		assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)

		p := prices["gpt-4o"]
		want := 100*p.Input + 50*p.Output
		assert.LessOrEqual(t, math.Abs(resp.Usage.CostEstimate-want), 1e-9, "model %q", model)
	}
}

func TestChatCompletionErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached for gpt-4o","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), llm.Request{Prompt: "hi"})
	var pe *llm.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Equal(t, "Rate limit reached for gpt-4o", pe.Message)
}

func TestResponsesAPIForReasoningModels(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model":"gpt-5-2025-08-07",
			"output":[
				{"type":"reasoning","content":[]},
				{"type":"message","content":[{"type":"output_text","text":"Segment the CDE."}]}
			],
			"usage":{"input_tokens":40,"output_tokens":12,"total_tokens":52}
		}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL), WithDefaultModel("gpt-5"))
	require.NoError(t, err)

	maxTokens := 512
	resp, err := a.Complete(context.Background(), llm.Request{
		Prompt:          "PCI scope?",
		ReasoningEffort: "low",
		Verbosity:       "medium",
		MaxTokens:       &maxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "Segment the CDE.", resp.Content)
	assert.Equal(t, "gpt-5-2025-08-07", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 52, resp.Usage.TotalTokens)

	assert.Equal(t, "gpt-5", got["model"])
	input, _ := got["input"].(string)
	assert.Contains(t, input, llm.Persona)
	assert.Contains(t, input, "\n\nPCI scope?")
	assert.Equal(t, map[string]any{"effort": "low"}, got["reasoning"])
	assert.Equal(t, map[string]any{"verbosity": "medium"}, got["text"])
	assert.EqualValues(t, 512, got["max_output_tokens"])
}

func TestResponsesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Unsupported parameter: temperature","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	a, err := New("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), llm.Request{Prompt: "hi", Model: "o3"})
	var pe *llm.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "Unsupported parameter: temperature", pe.Message)
}

func TestTranslateErrorPassesThroughTransportErrors(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	assert.Same(t, cause, TranslateError("openai", cause))
}
