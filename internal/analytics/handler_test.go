package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestGetAnalyticsEndpoint(t *testing.T) {
	svc := NewService()
	if err := svc.Record(context.Background(), "user-1", Sample{ATSScore: 70, OverallScore: 80}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/user-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	var got UserAnalytics
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.AnalysisCount != 1 || got.AverageScore != 80 {
		t.Fatalf("aggregate = %+v, want count 1 average 80", got)
	}
}

func TestTrendEndpointValidatesLimit(t *testing.T) {
	router := newTestRouter(NewService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/user-1/trend?limit=9999", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}
