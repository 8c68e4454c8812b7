package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// UpstreamError carries a non-2xx upstream response through the typed
// client methods without losing the original status or payload.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// envelope matches the API server's {data: ...} wrapper on success.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

type DomainPerformance struct {
	Percentage float64 `json:"percentage"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
}

type SkillGap struct {
	ID              string   `json:"id"`
	SkillName       string   `json:"skill_name"`
	ExamDomain      string   `json:"exam_domain"`
	Severity        int      `json:"severity"`
	ConfidenceDelta float64  `json:"confidence_delta"`
	QuestionIDs     []string `json:"question_ids"`
}

type GapAnalysisResult struct {
	ID                  string                       `json:"id"`
	WorkflowID          string                       `json:"workflow_id"`
	OverallScore        float64                      `json:"overall_score"`
	TotalQuestions      int                          `json:"total_questions"`
	CorrectAnswers      int                          `json:"correct_answers"`
	PerformanceByDomain map[string]DomainPerformance `json:"performance_by_domain"`
	TextSummary         string                       `json:"text_summary"`
	GeneratedAt         time.Time                    `json:"generated_at"`
	SkillGaps           []SkillGap                   `json:"skill_gaps"`
}

type Summary struct {
	WorkflowID       string    `json:"workflow_id"`
	OverallScore     float64   `json:"overall_score"`
	QuestionsTotal   int       `json:"questions_total"`
	QuestionsCorrect int       `json:"questions_correct"`
	GapCount         int       `json:"gap_count"`
	WeakestDomain    string    `json:"weakest_domain"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type OutlineTopic struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
}

type Outline struct {
	ID             string         `json:"id"`
	SkillGapID     string         `json:"skill_gap_id"`
	WorkflowID     string         `json:"workflow_id"`
	RelevanceScore float64        `json:"relevance_score"`
	Topics         []OutlineTopic `json:"topics"`
}

type Course struct {
	ID               string   `json:"id"`
	SkillGapID       string   `json:"skill_gap_id"`
	WorkflowID       string   `json:"workflow_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Objectives       []string `json:"objectives"`
	DurationMinutes  int      `json:"duration_minutes"`
	Difficulty       string   `json:"difficulty"`
	Priority         int      `json:"priority"`
	GenerationStatus string   `json:"generation_status"`
}

type GenerateTicket struct {
	CourseID string `json:"course_id"`
	Status   string `json:"status"`
	TaskID   string `json:"task_id"`
}

func (c *Client) GapAnalysis(ctx context.Context, workflowID string) (*GapAnalysisResult, error) {
	var out GapAnalysisResult
	path := fmt.Sprintf("/api/v1/workflows/%s/gap-analysis", url.PathEscape(workflowID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Summary(ctx context.Context, workflowID string) (*Summary, error) {
	var out Summary
	path := fmt.Sprintf("/api/v1/workflows/%s/gap-analysis/summary", url.PathEscape(workflowID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Outlines(ctx context.Context, workflowID string) ([]Outline, error) {
	var out []Outline
	path := fmt.Sprintf("/api/v1/workflows/%s/outlines", url.PathEscape(workflowID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Courses(ctx context.Context, workflowID string) ([]Course, error) {
	var out []Course
	path := fmt.Sprintf("/api/v1/workflows/%s/courses", url.PathEscape(workflowID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TriggerGenerate(ctx context.Context, courseID string) (*GenerateTicket, error) {
	path := fmt.Sprintf("/api/v1/courses/%s/generate", url.PathEscape(courseID))
	up, err := c.Forward(ctx, http.MethodPost, path, "", nil, bytes.NewReader(nil))
	if err != nil {
		return nil, err
	}
	var out GenerateTicket
	if err := decodeEnvelope(up, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	up, err := c.Forward(ctx, http.MethodGet, path, "", nil, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(up, dest)
}

func decodeEnvelope(up *Upstream, dest interface{}) error {
	if up.Status < 200 || up.Status > 299 {
		return &UpstreamError{Status: up.Status, Body: up.Body}
	}
	var env envelope
	if err := json.Unmarshal(up.Body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, dest)
	}
	return json.Unmarshal(up.Body, dest)
}
