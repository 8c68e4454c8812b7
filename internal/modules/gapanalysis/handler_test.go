package gapanalysis

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(newTestDB(t))
	r := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), passthrough)
	return r, svc
}

func TestGetGapAnalysisHTTP(t *testing.T) {
	r, svc := newTestRouter(t)
	if _, err := svc.Ingest("wf-1", samplePayload()); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/wf-1/gap-analysis", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		WorkflowID string `json:"workflow_id"`
		SkillGaps  []struct {
			SkillName string `json:"skill_name"`
		} `json:"skill_gaps"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.WorkflowID != "wf-1" || len(body.SkillGaps) != 2 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetGapAnalysisUnknownWorkflowHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/workflows/nope/gap-analysis",
		"/api/v1/workflows/nope/gap-analysis/summary",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", path, w.Code)
		}
	}
}

func TestIngestHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	payload, _ := json.Marshal(samplePayload())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workflows/wf-1/gap-analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first ingest status = %d, body = %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/workflows/wf-1/gap-analysis", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate ingest status = %d, want 409", w.Code)
	}
}
