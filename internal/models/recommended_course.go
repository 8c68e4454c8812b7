package models

// GenerationStatus is the forward-only lifecycle of a recommended course.
// not_started -> queued -> generated, never backward.
type GenerationStatus string

const (
	GenerationNotStarted GenerationStatus = "not_started"
	GenerationQueued     GenerationStatus = "queued"
	GenerationGenerated  GenerationStatus = "generated"
)

// Valid reports whether s is one of the known lifecycle values.
func (s GenerationStatus) Valid() bool {
	switch s {
	case GenerationNotStarted, GenerationQueued, GenerationGenerated:
		return true
	}
	return false
}

// Next reports whether a transition from s to target moves forward.
func (s GenerationStatus) Next(target GenerationStatus) bool {
	switch s {
	case GenerationNotStarted:
		return target == GenerationQueued
	case GenerationQueued:
		return target == GenerationGenerated
	default:
		return false
	}
}

const (
	// PriorityMin and PriorityMax bound RecommendedCourseModel.Priority.
	PriorityMin = 1
	PriorityMax = 5
)

// RecommendedCourseModel is a proposed remediation course for a skill gap.
type RecommendedCourseModel struct {
	Base
	SkillGapID       string           `json:"skill_gap_id"     gorm:"index;not null"`
	WorkflowID       string           `json:"workflow_id"      gorm:"index;not null"`
	Title            string           `json:"title"            gorm:"not null"`
	Description      string           `json:"description"      gorm:"type:text"`
	Objectives       StringSlice      `json:"objectives"       gorm:"type:json"`
	DurationMinutes  int              `json:"duration_minutes"`
	Difficulty       string           `json:"difficulty"`
	Priority         int              `json:"priority"` // 1..5
	GenerationStatus GenerationStatus `json:"generation_status" gorm:"type:varchar(16);default:'not_started';index"`
}

func (RecommendedCourseModel) TableName() string { return "recommended_courses" }
