package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/analytics"
	"resume-pipeline/internal/llm"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc, 1<<20).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func multipartResume(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	doc := testResume()
	if _, err := fw.Write(doc.Bytes); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestRunAnalysisEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(t, repo, analytics.NewService(), llm.Success(pipelinePayload()))
	router := newTestRouter(t, svc)

	body, contentType := multipartResume(t, map[string]string{
		"userId":  "user-1",
		"jobRole": "devops engineer",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var out RunOutput
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Analysis.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", out.Analysis.Status)
	}
	if out.Analysis.Result == nil || out.Analysis.Result.ATSScore != 100 {
		t.Fatalf("result = %+v, want clamped atsScore 100", out.Analysis.Result)
	}
}

func TestRunAnalysisRequiresUser(t *testing.T) {
	svc := newTestService(t, NewMemoryRepo(), analytics.NewService(), llm.Success(pipelinePayload()))
	router := newTestRouter(t, svc)

	body, contentType := multipartResume(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestRunAnalysisMapsExhaustionToBadGateway(t *testing.T) {
	svc := newTestService(t, NewMemoryRepo(), analytics.NewService(), llm.Transient(errors.New("down")))
	router := newTestRouter(t, svc)

	body, contentType := multipartResume(t, map[string]string{"userId": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.Code)
	}
}

func TestGetAnalysisEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	svc := newTestService(t, repo, analytics.NewService(), llm.Success(pipelinePayload()))
	router := newTestRouter(t, svc)

	seeded := Analysis{ID: "analysis-1", UserID: "user-1", Status: StatusCompleted}
	if err := repo.Create(context.Background(), seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/analysis-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}

func TestListAnalysesEndpointValidatesQuery(t *testing.T) {
	svc := newTestService(t, NewMemoryRepo(), analytics.NewService(), llm.Success(pipelinePayload()))
	router := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status without userId = %d, want 400", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analyses?userId=user-1&limit=0", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status with bad limit = %d, want 400", resp.Code)
	}
}
