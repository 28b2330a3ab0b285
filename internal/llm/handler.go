package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/shared/server/middleware"
	"nac-advisor/internal/shared/server/respond"
)

// Completer is the gateway entry point used by the HTTP handler.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Handler exposes the AI gateway endpoints.
type Handler struct {
	Gateway Completer
}

// NewHandler constructs a Handler.
func NewHandler(gateway Completer) *Handler {
	return &Handler{Gateway: gateway}
}

// RegisterRoutes attaches gateway routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/complete", h.complete)
}

func (h *Handler) complete(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Flat(c, http.StatusBadRequest, "validation_error", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respond.Flat(c, http.StatusBadRequest, "validation_error", "prompt is required")
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	resp, err := h.Gateway.Complete(ctx, req)
	if err != nil {
		status, code := StatusFor(err)
		respond.Flat(c, status, code, err.Error())
		return
	}
	c.Set("aiProvider", resp.Provider)
	respond.OK(c, resp)
}

// StatusFor maps a gateway error onto an HTTP status and error code.
func StatusFor(err error) (int, string) {
	var unsupported *UnsupportedProviderError
	var missing *MissingCredentialError
	var timeout *TimeoutError
	var provider *ProviderError
	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, "unsupported_provider"
	case errors.As(err, &missing):
		return http.StatusServiceUnavailable, "missing_credential"
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "canceled"
	case errors.As(err, &provider):
		return http.StatusBadGateway, "provider_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
