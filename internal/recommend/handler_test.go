package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(engine *Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(engine).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestRecommendationsEndpoint(t *testing.T) {
	router := newTestRouter(NewEngine(testCatalog()))

	body := `{"jobRole": "devops engineer", "skillsGap": ["kubernetes"], "limit": 2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Items []CourseRecommendation `json:"items"`
		Count int                    `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Items) != 2 {
		t.Fatalf("count = %d items = %d, want 2", out.Count, len(out.Items))
	}
	if out.Items[0].Course.ID != "k8s" {
		t.Fatalf("top course = %q, want k8s", out.Items[0].Course.ID)
	}
}

func TestRecommendationsEndpointRejectsEmptyRequest(t *testing.T) {
	router := newTestRouter(NewEngine(testCatalog()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
