package models

// OutlineTopic is one retrieved topic/source pair.
type OutlineTopic struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
}

// ContentOutlineModel associates a skill gap with retrieved reference
// material. Produced by the external retrieval process, read-only here.
type ContentOutlineModel struct {
	Base
	SkillGapID     string         `json:"skill_gap_id"    gorm:"index;not null"`
	WorkflowID     string         `json:"workflow_id"     gorm:"index;not null"`
	RelevanceScore float64        `json:"relevance_score"`
	Topics         []OutlineTopic `json:"topics" gorm:"type:json;serializer:json"`
}

func (ContentOutlineModel) TableName() string { return "content_outlines" }
