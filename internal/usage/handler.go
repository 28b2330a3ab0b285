package usage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/shared/server/respond"
)

const defaultWindow = 24 * time.Hour

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ai/usage", h.getUsage)
}

// getUsage accepts either ?since=<RFC3339> or ?window=<duration>, defaulting to the last 24h.
func (h *Handler) getUsage(c *gin.Context) {
	since, ok := h.sinceFromQuery(c)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "since must be RFC3339 and window a positive duration", nil)
		return
	}

	summary, err := h.Svc.Summary(c.Request.Context(), since)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch usage", nil)
		}
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) sinceFromQuery(c *gin.Context) (time.Time, bool) {
	if raw := strings.TrimSpace(c.Query("since")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		return t, err == nil
	}
	window := defaultWindow
	if raw := strings.TrimSpace(c.Query("window")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return time.Time{}, false
		}
		window = d
	}
	return h.Svc.now().Add(-window), true
}
