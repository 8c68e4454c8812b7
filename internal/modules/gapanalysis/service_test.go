package gapanalysis

import (
	"errors"
	"testing"

	"github.com/certlab/core/internal/database"
	"github.com/certlab/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func samplePayload() *IngestDTO {
	return &IngestDTO{
		OverallScore: 0.62,
		PerformanceByDomain: models.DomainPerformanceMap{
			"Networking": {Percentage: 0.40, Correct: 4, Total: 10},
			"Security":   {Percentage: 0.80, Correct: 8, Total: 10},
			"Storage":    {Percentage: 0.65, Correct: 13, Total: 20},
		},
		TextSummary: "struggles with networking fundamentals",
		SkillGaps: []IngestSkillGapDTO{
			{
				SkillName:       "Subnetting",
				ExamDomain:      "Networking",
				Severity:        8,
				ConfidenceDelta: -0.3,
				QuestionIDs:     []string{"q1", "q4", "q9"},
				Outlines: []IngestOutlineDTO{
					{RelevanceScore: 0.91, Topics: []models.OutlineTopic{{Topic: "CIDR notation", Source: "study-guide"}}},
				},
				Courses: []IngestCourseDTO{
					{Title: "Subnetting Deep Dive", DurationMinutes: 90, Difficulty: "intermediate", Priority: 1},
					{Title: "IP Addressing Basics", DurationMinutes: 45, Difficulty: "beginner", Priority: 3},
				},
			},
			{
				SkillName:  "Key Rotation",
				ExamDomain: "Security",
				Severity:   4,
				Courses: []IngestCourseDTO{
					{Title: "Managing Secrets", DurationMinutes: 60, Difficulty: "intermediate", Priority: 2},
				},
			},
		},
	}
}

func TestIngestAndGet(t *testing.T) {
	svc := NewService(newTestDB(t))

	result, err := svc.Ingest("wf-1", samplePayload())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.WorkflowID != "wf-1" {
		t.Fatalf("workflow id = %q", result.WorkflowID)
	}
	if len(result.SkillGaps) != 2 {
		t.Fatalf("skill gaps = %d, want 2", len(result.SkillGaps))
	}
	if result.TotalQuestions != 40 || result.CorrectAnswers != 25 {
		t.Fatalf("stored totals = %d/%d, want 40/25", result.CorrectAnswers, result.TotalQuestions)
	}

	got, err := svc.GetByWorkflowID("wf-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != result.ID {
		t.Fatalf("get returned %+v", got)
	}
}

func TestIngestDuplicateWorkflow(t *testing.T) {
	svc := NewService(newTestDB(t))

	if _, err := svc.Ingest("wf-1", samplePayload()); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	_, err := svc.Ingest("wf-1", samplePayload())
	if !errors.Is(err, ErrWorkflowExists) {
		t.Fatalf("second ingest err = %v, want ErrWorkflowExists", err)
	}
}

func TestIngestValidation(t *testing.T) {
	svc := NewService(newTestDB(t))

	badSeverity := samplePayload()
	badSeverity.SkillGaps[0].Severity = 11
	if _, err := svc.Ingest("wf-sev", badSeverity); !errors.Is(err, ErrValidation) {
		t.Fatalf("severity 11 err = %v, want ErrValidation", err)
	}

	badPriority := samplePayload()
	badPriority.SkillGaps[0].Courses[0].Priority = 0
	if _, err := svc.Ingest("wf-pri", badPriority); !errors.Is(err, ErrValidation) {
		t.Fatalf("priority 0 err = %v, want ErrValidation", err)
	}

	empty := samplePayload()
	empty.PerformanceByDomain = nil
	if _, err := svc.Ingest("wf-empty", empty); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty domains err = %v, want ErrValidation", err)
	}
}

// The summary's question counters must equal the sums of the per-domain
// breakdown of the full result, whatever the stored totals say.
func TestSummaryCountsMatchDomainBreakdown(t *testing.T) {
	svc := NewService(newTestDB(t))

	if _, err := svc.Ingest("wf-1", samplePayload()); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	full, err := svc.GetByWorkflowID("wf-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	summary, err := svc.Summary("wf-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	wantTotal, wantCorrect := 0, 0
	for _, perf := range full.PerformanceByDomain {
		wantTotal += perf.Total
		wantCorrect += perf.Correct
	}
	if summary.QuestionsTotal != wantTotal || summary.QuestionsCorrect != wantCorrect {
		t.Fatalf("summary counts = %d/%d, want %d/%d",
			summary.QuestionsCorrect, summary.QuestionsTotal, wantCorrect, wantTotal)
	}
	if summary.GapCount != len(full.SkillGaps) {
		t.Fatalf("gap count = %d, want %d", summary.GapCount, len(full.SkillGaps))
	}
	if summary.WeakestDomain != "Networking" {
		t.Fatalf("weakest domain = %q, want Networking", summary.WeakestDomain)
	}
}

func TestGetUnknownWorkflow(t *testing.T) {
	svc := NewService(newTestDB(t))

	result, err := svc.GetByWorkflowID("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil for unknown workflow, got %+v", result)
	}

	summary, err := svc.Summary("nope")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary for unknown workflow, got %+v", summary)
	}
}
