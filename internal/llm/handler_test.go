package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nac-advisor/internal/shared/server/middleware"
)

type completerFunc func(ctx context.Context, req Request) (Response, error)

func (f completerFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

func newTestRouter(gw Completer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	NewHandler(gw).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postComplete(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/complete", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCompleteHandlerSuccess(t *testing.T) {
	var seen Request
	var seenID string
	router := newTestRouter(completerFunc(func(ctx context.Context, req Request) (Response, error) {
		seen = req
		seenID = RequestIDFromContext(ctx)
		return Response{
			Content:  "Use EAP-TLS.",
			Provider: "anthropic",
			Model:    "claude-sonnet-4-5",
			Usage:    &Usage{PromptTokens: 12, CompletionTokens: 4, TotalTokens: 16, CostEstimate: 0.0001},
		}, nil
	}))

	resp := postComplete(router, `{"prompt":"Which EAP method?","provider":"anthropic","taskType":"recommendation","enableFallback":true}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out Response
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "Use EAP-TLS.", out.Content)
	assert.Equal(t, "anthropic", out.Provider)
	require.NotNil(t, out.Usage)
	assert.Equal(t, 16, out.Usage.TotalTokens)

	assert.Equal(t, "req-42", seenID)
	assert.True(t, seen.EnableFallback)
	assert.Equal(t, "recommendation", seen.TaskType)
	assert.Contains(t, resp.Body.String(), `"prompt_tokens":12`)
}

func TestCompleteHandlerValidation(t *testing.T) {
	router := newTestRouter(completerFunc(func(ctx context.Context, req Request) (Response, error) {
		t.Fatal("gateway must not be called")
		return Response{}, nil
	}))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad_json", `{"prompt":`, "invalid json body"},
		{"empty_prompt", `{"prompt":"   "}`, "prompt is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postComplete(router, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.want), resp.Body.String())
		})
	}
}

func TestCompleteHandlerErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported", &UnsupportedProviderError{Provider: "mistral"}, http.StatusBadRequest},
		{"missing_credential", &MissingCredentialError{Provider: "gemini", EnvVar: "GEMINI_API_KEY"}, http.StatusServiceUnavailable},
		{"timeout", &TimeoutError{Provider: "openai", After: time.Second, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"provider", NewProviderError("anthropic", 529, "overloaded"), http.StatusBadGateway},
		{"canceled", context.Canceled, http.StatusRequestTimeout},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(completerFunc(func(ctx context.Context, req Request) (Response, error) {
				return Response{}, tc.err
			}))
			resp := postComplete(router, `{"prompt":"hi"}`)
			require.Equal(t, tc.status, resp.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Error(), body["error"])
		})
	}
}
