package models

import "time"

// DomainPerformance is one exam domain's slice of an assessment run.
type DomainPerformance struct {
	Percentage float64 `json:"percentage"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
}

// DomainPerformanceMap maps exam domain name to its performance breakdown.
type DomainPerformanceMap map[string]DomainPerformance

// GapAnalysisResultModel is the outcome of one completed assessment workflow.
// Written once by the upstream assessment pipeline, read-only afterwards.
type GapAnalysisResultModel struct {
	Base
	WorkflowID          string               `json:"workflow_id"           gorm:"uniqueIndex;not null"`
	OverallScore        float64              `json:"overall_score"`
	TotalQuestions      int                  `json:"total_questions"`
	CorrectAnswers      int                  `json:"correct_answers"`
	PerformanceByDomain DomainPerformanceMap `json:"performance_by_domain" gorm:"type:json;serializer:json"`
	TextSummary         string               `json:"text_summary"          gorm:"type:text"`
	GeneratedAt         time.Time            `json:"generated_at"`

	SkillGaps []SkillGapModel `json:"skill_gaps,omitempty" gorm:"foreignKey:ResultID"`
}

func (GapAnalysisResultModel) TableName() string { return "gap_analysis_results" }

const (
	// SeverityMin and SeverityMax bound SkillGapModel.Severity.
	SeverityMin = 0
	SeverityMax = 10
)

// SkillGapModel is one detected deficiency inside a gap analysis result.
type SkillGapModel struct {
	Base
	ResultID        string      `json:"result_id"        gorm:"index;not null"`
	SkillName       string      `json:"skill_name"       gorm:"not null"`
	ExamDomain      string      `json:"exam_domain"      gorm:"index"`
	Severity        int         `json:"severity"` // 0..10
	ConfidenceDelta float64     `json:"confidence_delta"`
	QuestionIDs     StringSlice `json:"question_ids"     gorm:"type:json"`
}

func (SkillGapModel) TableName() string { return "skill_gaps" }
