package outline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/certlab/core/internal/database"
	"github.com/certlab/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticChecker bool

func (s staticChecker) Exists(string) (bool, error) { return bool(s), nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestListByWorkflowOrderedByRelevance(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	for _, score := range []float64{0.4, 0.9, 0.7} {
		outline := &models.ContentOutlineModel{
			SkillGapID:     uuid.New().String(),
			WorkflowID:     "wf-1",
			RelevanceScore: score,
			Topics:         []models.OutlineTopic{{Topic: "CIDR notation", Source: "study-guide"}},
		}
		if err := db.Create(outline).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, err := svc.ListByWorkflowID("wf-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].RelevanceScore < items[i].RelevanceScore {
			t.Fatal("not ordered by relevance descending")
		}
	}
}

func TestGetUnknownOutline(t *testing.T) {
	svc := NewService(newTestDB(t))

	outline, err := svc.GetByID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if outline != nil {
		t.Fatalf("expected nil, got %+v", outline)
	}
}

// A known workflow with zero outlines answers an empty list, not 404; only
// an unknown workflow is 404.
func TestListEndpointEmptyVsUnknown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(newTestDB(t))
	passthrough := func(c *gin.Context) { c.Next() }

	known := gin.New()
	NewHandler(svc, staticChecker(true)).RegisterRoutes(known.Group("/api/v1"), passthrough)
	w := httptest.NewRecorder()
	known.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/workflows/wf-1/outlines", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("known workflow status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"data":[]}` {
		t.Fatalf("known workflow body = %s, want empty data list", w.Body.String())
	}

	unknown := gin.New()
	NewHandler(svc, staticChecker(false)).RegisterRoutes(unknown.Group("/api/v1"), passthrough)
	w = httptest.NewRecorder()
	unknown.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/workflows/nope/outlines", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown workflow status = %d, want 404", w.Code)
	}
}
