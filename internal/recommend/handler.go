package recommend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/server/respond"
)

// Handler exposes the recommendation engine over HTTP.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a recommendation Handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts recommendation routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
}

func (h *Handler) recommend(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	courses, err := h.engine.Recommend(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute recommendations", nil)
		return
	}
	respond.OK(c, gin.H{"items": courses, "count": len(courses)})
}
