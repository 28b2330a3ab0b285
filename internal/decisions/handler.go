package decisions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/library"
	"nac-advisor/internal/shared/server/middleware"
	"nac-advisor/internal/shared/server/respond"
	"nac-advisor/internal/shared/telemetry"
)

// Handler exposes decision endpoints.
type Handler struct {
	Engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

// RegisterRoutes attaches decision routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/decisions/analyze", h.analyze)
	rg.POST("/decisions/checklist", h.checklist)
}

type checklistRequest struct {
	Context         DecisionContext  `json:"context"`
	Recommendations []Recommendation `json:"recommendations"`
}

type checklistResponse struct {
	Phases []ChecklistPhase `json:"phases"`
}

func (h *Handler) analyze(c *gin.Context) {
	var dc DecisionContext
	if err := c.ShouldBindJSON(&dc); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	path, err := h.Engine.AnalyzeContext(c.Request.Context(), dc)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		case errors.Is(err, library.ErrNotFound):
			respond.Error(c, http.StatusServiceUnavailable, "library_unavailable", "resource library not available", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze context", nil)
		}
		return
	}

	telemetry.Info("decisions.analyzed", map[string]any{
		"request_id":      middleware.RequestIDFromContext(c),
		"industry":        dc.Industry,
		"frameworks":      len(dc.ComplianceFrameworks),
		"recommendations": len(path.Recommendations),
		"blockers":        len(path.Blockers),
		"current_step":    path.CurrentStep,
	})
	respond.OK(c, path)
}

func (h *Handler) checklist(c *gin.Context) {
	var req checklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}
	respond.OK(c, checklistResponse{Phases: BuildChecklist(req.Context, req.Recommendations)})
}
