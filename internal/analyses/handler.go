package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 5 << 20

// Handler wires HTTP handlers to the pipeline service.
type Handler struct {
	Svc *Service

	// MaxUploadBytes caps the resume file size; <=0 selects the default.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.runAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

func (h *Handler) runAnalysis(c *gin.Context) {
	userID := strings.TrimSpace(c.PostForm("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}
	c.Set("userId", userID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds the upload size limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file could not be read", nil)
		return
	}
	if int64(len(data)) > h.MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds the upload size limit", nil)
		return
	}

	out, err := h.Svc.Run(c.Request.Context(), RunInput{
		Document: extract.RawDocument{
			Bytes:    data,
			MimeType: fileHeader.Header.Get("Content-Type"),
			FileName: fileHeader.Filename,
			Size:     int64(len(data)),
		},
		UserID:       userID,
		JobRole:      strings.TrimSpace(c.PostForm("jobRole")),
		AnalysisType: strings.TrimSpace(c.PostForm("analysisType")),
	})
	if err != nil {
		h.respondRunError(c, err)
		return
	}

	c.Set("analysisId", out.Analysis.ID)
	c.Set("provider", out.Analysis.Provider)
	respond.Created(c, out)
}

func (h *Handler) respondRunError(c *gin.Context, err error) {
	switch ErrorCodeFor(err) {
	case ErrorCodeInput:
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case ErrorCodeProviderExhausted:
		respond.Error(c, http.StatusBadGateway, "providers_exhausted", "all analysis providers are currently unavailable", nil)
	case ErrorCodeSchemaMismatch:
		respond.Error(c, http.StatusBadGateway, "schema_mismatch", "the analysis provider returned an unusable response", nil)
	default:
		if c.Request.Context().Err() != nil {
			// Client went away; nothing useful to send.
			c.Abort()
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
	}
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := strings.TrimSpace(c.Param("id"))
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.GetByID(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
		}
		return
	}
	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}
	limit, ok := queryInt(c, "limit", 20, 1, 100)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be 1-100", nil)
		return
	}
	offset, ok := queryInt(c, "offset", 0, 0, 1<<30)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be >= 0", nil)
		return
	}

	items, err := h.Svc.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}
	respond.OK(c, gin.H{"items": items, "count": len(items)})
}

func queryInt(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < min || val > max {
		return 0, false
	}
	return val, true
}
