package library

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/shared/server/respond"
)

// Handler exposes resource library endpoints.
type Handler struct {
	Reader Reader
}

// NewHandler constructs a Handler.
func NewHandler(reader Reader) *Handler {
	return &Handler{Reader: reader}
}

// RegisterRoutes attaches library routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/library/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	snap, err := Load(c.Request.Context(), h.Reader)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "library snapshot not found", nil)
		case errors.Is(err, ErrInvalidSnapshot):
			respond.Error(c, http.StatusInternalServerError, "invalid_library", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read library", nil)
		}
		return
	}
	respond.OK(c, snap.Summarize())
}
