package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nac-advisor/internal/llm"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := New("")
	var missing *llm.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, EnvAPIKey, missing.EnvVar)
}

func TestComplete(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{
			"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",
			"content":[{"type":"text","text":"Use MAB "},{"type":"text","text":"for printers."}],
			"usage":{"input_tokens":30,"output_tokens":9}
		}`))
	}))
	defer server.Close()

	a, err := New("ak-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	resp, err := a.Complete(context.Background(), llm.Request{Prompt: "Printers?", TaskType: "recommendation"})
	require.NoError(t, err)
	assert.Equal(t, "Use MAB for printers.", resp.Content)
	assert.Equal(t, "claude-sonnet-4-5-20250929", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 30, resp.Usage.PromptTokens)
	assert.Equal(t, 9, resp.Usage.CompletionTokens)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	assert.Contains(t, got.System, llm.Persona)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Nil(t, got.Temperature)
}

func TestCompleteHonorsOverrides(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"type":"message","content":[{"type":"text","text":"ok"}]}`))
	}))
	defer server.Close()

	a, err := New("ak-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	temp := 0.7
	maxTokens := 256
	resp, err := a.Complete(context.Background(), llm.Request{
		Prompt: "hi", Model: "claude-opus-4-1", Temperature: &temp, MaxTokens: &maxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-1", resp.Model)
	assert.Nil(t, resp.Usage)
	assert.Equal(t, 256, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 1e-9)
}

func TestCompleteErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer server.Close()

	a, err := New("ak-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), llm.Request{Prompt: "hi"})
	var pe *llm.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 529, pe.StatusCode)
	assert.Equal(t, "Overloaded", pe.Message)
	assert.Equal(t, "anthropic error (status 529): Overloaded", err.Error())
}

func TestCompleteNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	a, err := New("ak-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = a.Complete(context.Background(), llm.Request{Prompt: "hi"})
	var pe *llm.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad gateway", pe.Message)
}
