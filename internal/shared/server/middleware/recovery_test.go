package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRecoveryErrorBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), ClientID(), Recovery("/api/v1/ai/"))
	boom := func(c *gin.Context) { panic("boom") }
	router.POST("/api/v1/ai/complete", boom)
	router.POST("/api/v1/decisions/analyze", boom)

	tests := []struct {
		name string
		path string
		flat bool
	}{
		{"ai route is flat", "/api/v1/ai/complete", true},
		{"other routes are nested", "/api/v1/decisions/analyze", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, tt.path, nil))
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			_, isString := body["error"].(string)
			if isString != tt.flat {
				t.Fatalf("unexpected error body: %s", resp.Body.String())
			}
		})
	}
}
