package gapanalysis

import (
	"time"

	"github.com/certlab/core/internal/models"
)

// IngestDTO is the payload the upstream assessment pipeline posts when a
// workflow completes. Skill gaps carry their outlines and courses so the
// whole run lands in one call.
type IngestDTO struct {
	OverallScore        float64                     `json:"overall_score"`
	PerformanceByDomain models.DomainPerformanceMap `json:"performance_by_domain" binding:"required"`
	TextSummary         string                      `json:"text_summary"`
	GeneratedAt         *time.Time                  `json:"generated_at"`
	SkillGaps           []IngestSkillGapDTO         `json:"skill_gaps"`
}

type IngestSkillGapDTO struct {
	SkillName       string             `json:"skill_name" binding:"required"`
	ExamDomain      string             `json:"exam_domain"`
	Severity        int                `json:"severity"`
	ConfidenceDelta float64            `json:"confidence_delta"`
	QuestionIDs     []string           `json:"question_ids"`
	Outlines        []IngestOutlineDTO `json:"outlines"`
	Courses         []IngestCourseDTO  `json:"courses"`
}

type IngestOutlineDTO struct {
	RelevanceScore float64               `json:"relevance_score"`
	Topics         []models.OutlineTopic `json:"topics"`
}

type IngestCourseDTO struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Objectives      []string `json:"objectives"`
	DurationMinutes int      `json:"duration_minutes"`
	Difficulty      string   `json:"difficulty"`
	Priority        int      `json:"priority"`
}

// SummaryResponse is the compact dashboard card for one workflow. The
// question counters are recomputed from the per-domain breakdown so they
// always match the full result.
type SummaryResponse struct {
	WorkflowID       string    `json:"workflow_id"`
	OverallScore     float64   `json:"overall_score"`
	QuestionsTotal   int       `json:"questions_total"`
	QuestionsCorrect int       `json:"questions_correct"`
	GapCount         int       `json:"gap_count"`
	WeakestDomain    string    `json:"weakest_domain,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}
