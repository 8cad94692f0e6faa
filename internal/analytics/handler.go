package analytics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/server/respond"
)

// Handler exposes analytics reads over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler constructs an analytics Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts analytics routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics/:userId", h.get)
	rg.GET("/analytics/:userId/trend", h.trend)
}

func (h *Handler) get(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}

	aggregate, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "storage_error", "analytics store unavailable", nil)
		return
	}
	respond.OK(c, aggregate)
}

func (h *Handler) trend(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be 1-500", nil)
			return
		}
		limit = parsed
	}

	points, err := h.svc.Trend(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "storage_error", "analytics store unavailable", nil)
		return
	}
	respond.OK(c, gin.H{"userId": userID, "points": points})
}
