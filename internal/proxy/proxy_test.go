package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/certlab/core/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newProxyRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{}
	cfg.Upstream.URL = upstreamURL
	cfg.Upstream.TimeoutSeconds = 2

	handler, err := NewHandler(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	r := gin.New()
	handler.RegisterRoutes(r)
	return r
}

// The proxy mirrors whatever the upstream answers, status and body included.
func TestForwardMirrorsUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workflows/wf-1/gap-analysis" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		if r.URL.RawQuery != "verbose=1" {
			t.Errorf("upstream query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, `{"ok":0,"code":418,"message":"short and stout"}`)
	}))
	defer upstream.Close()

	r := newProxyRouter(t, upstream.URL)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/api/workflows/wf-1/gap-analysis?verbose=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", w.Code)
	}
	if w.Body.String() != `{"ok":0,"code":418,"message":"short and stout"}` {
		t.Fatalf("body not mirrored verbatim: %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestForwardRelaysMethodAndBody(t *testing.T) {
	var gotMethod, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, `{"course_id":"c1","status":"queued","task_id":"t1"}`)
	}))
	defer upstream.Close()

	r := newProxyRouter(t, upstream.URL)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/dashboard/api/courses/c1/generate", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if gotMethod != http.MethodPost || gotBody != `{}` {
		t.Fatalf("upstream saw %s %q", gotMethod, gotBody)
	}
}

// A dead upstream is a 502, not a mirrored error.
func TestForwardUpstreamUnreachable(t *testing.T) {
	// Grab a port that nothing listens on.
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	r := newProxyRouter(t, deadURL)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/api/ping", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "upstream unavailable") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestTypedClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/workflows/wf-1/gap-analysis/summary":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"workflow_id":"wf-1","overall_score":0.62,"questions_total":40,"questions_correct":25,"gap_count":2,"weakest_domain":"Networking","generated_at":"2026-08-01T10:00:00Z"}`)
		case "/api/v1/workflows/wf-1/outlines":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"data":[{"id":"o1","workflow_id":"wf-1","relevance_score":0.9}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"ok":0,"code":404,"message":"not found"}`)
		}
	}))
	defer upstream.Close()

	client, err := NewClient(upstream.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	summary, err := client.Summary(context.Background(), "wf-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.QuestionsTotal != 40 || summary.WeakestDomain != "Networking" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	outlines, err := client.Outlines(context.Background(), "wf-1")
	if err != nil {
		t.Fatalf("outlines: %v", err)
	}
	if len(outlines) != 1 || outlines[0].ID != "o1" {
		t.Fatalf("unexpected outlines: %+v", outlines)
	}

	_, err = client.GapAnalysis(context.Background(), "nope")
	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.Status != http.StatusNotFound {
		t.Fatalf("err = %v, want UpstreamError 404", err)
	}
}
