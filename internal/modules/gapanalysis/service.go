package gapanalysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/certlab/core/internal/models"
	"github.com/certlab/core/internal/pkg/pagination"
	"github.com/certlab/core/internal/pkg/response"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrWorkflowExists signals that a result was already ingested for a workflow.
var ErrWorkflowExists = errors.New("workflow already has a gap analysis result")

// ErrValidation wraps payload-level problems so handlers answer 400.
var ErrValidation = errors.New("invalid gap analysis payload")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetByWorkflowID returns the full result with its skill gaps, or nil when
// the workflow is unknown.
func (s *Service) GetByWorkflowID(workflowID string) (*models.GapAnalysisResultModel, error) {
	var result models.GapAnalysisResultModel
	err := s.db.Preload("SkillGaps").First(&result, "workflow_id = ?", workflowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Exists reports whether a workflow has an ingested result.
func (s *Service) Exists(workflowID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.GapAnalysisResultModel{}).
		Where("workflow_id = ?", workflowID).
		Count(&count).Error
	return count > 0, err
}

// Summary condenses a result into the dashboard card shape. The question
// counters come from summing the per-domain breakdown, not from the stored
// totals, so they cannot drift from the full result.
func (s *Service) Summary(workflowID string) (*SummaryResponse, error) {
	result, err := s.GetByWorkflowID(workflowID)
	if err != nil || result == nil {
		return nil, err
	}

	summary := &SummaryResponse{
		WorkflowID:   result.WorkflowID,
		OverallScore: result.OverallScore,
		GapCount:     len(result.SkillGaps),
		GeneratedAt:  result.GeneratedAt,
	}

	weakest := -1.0
	for domain, perf := range result.PerformanceByDomain {
		summary.QuestionsTotal += perf.Total
		summary.QuestionsCorrect += perf.Correct
		if weakest < 0 || perf.Percentage < weakest {
			weakest = perf.Percentage
			summary.WeakestDomain = domain
		}
	}

	return summary, nil
}

// List returns results ordered by generation time descending, for the
// paginated admin listing.
func (s *Service) List(q pagination.Query) ([]models.GapAnalysisResultModel, response.Pagination, error) {
	tx := s.db.Model(&models.GapAnalysisResultModel{}).Order("generated_at DESC")
	var items []models.GapAnalysisResultModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// Ingest stores one completed workflow run: the result row plus its skill
// gaps, outlines and recommended courses, in a single transaction.
func (s *Service) Ingest(workflowID string, dto *IngestDTO) (*models.GapAnalysisResultModel, error) {
	if err := validateIngest(dto); err != nil {
		return nil, err
	}

	exists, err := s.Exists(workflowID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWorkflowExists
	}

	generatedAt := time.Now()
	if dto.GeneratedAt != nil && !dto.GeneratedAt.IsZero() {
		generatedAt = *dto.GeneratedAt
	}

	var totalQuestions, correctAnswers int
	for _, perf := range dto.PerformanceByDomain {
		totalQuestions += perf.Total
		correctAnswers += perf.Correct
	}

	result := models.GapAnalysisResultModel{
		WorkflowID:          workflowID,
		OverallScore:        dto.OverallScore,
		TotalQuestions:      totalQuestions,
		CorrectAnswers:      correctAnswers,
		PerformanceByDomain: dto.PerformanceByDomain,
		TextSummary:         dto.TextSummary,
		GeneratedAt:         generatedAt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&result).Error; err != nil {
			// Two ingests racing past the existence check land here; the
			// unique index on workflow_id settles it.
			var mysqlErr *mysqlDriver.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
				return ErrWorkflowExists
			}
			return err
		}
		for _, gapDTO := range dto.SkillGaps {
			gap := models.SkillGapModel{
				ResultID:        result.ID,
				SkillName:       gapDTO.SkillName,
				ExamDomain:      gapDTO.ExamDomain,
				Severity:        gapDTO.Severity,
				ConfidenceDelta: gapDTO.ConfidenceDelta,
				QuestionIDs:     models.StringSlice(gapDTO.QuestionIDs),
			}
			if err := tx.Create(&gap).Error; err != nil {
				return err
			}
			for _, outlineDTO := range gapDTO.Outlines {
				outline := models.ContentOutlineModel{
					SkillGapID:     gap.ID,
					WorkflowID:     workflowID,
					RelevanceScore: outlineDTO.RelevanceScore,
					Topics:         outlineDTO.Topics,
				}
				if err := tx.Create(&outline).Error; err != nil {
					return err
				}
			}
			for _, courseDTO := range gapDTO.Courses {
				course := models.RecommendedCourseModel{
					SkillGapID:       gap.ID,
					WorkflowID:       workflowID,
					Title:            courseDTO.Title,
					Description:      courseDTO.Description,
					Objectives:       models.StringSlice(courseDTO.Objectives),
					DurationMinutes:  courseDTO.DurationMinutes,
					Difficulty:       courseDTO.Difficulty,
					Priority:         courseDTO.Priority,
					GenerationStatus: models.GenerationNotStarted,
				}
				if err := tx.Create(&course).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByWorkflowID(workflowID)
}

func validateIngest(dto *IngestDTO) error {
	if len(dto.PerformanceByDomain) == 0 {
		return fmt.Errorf("%w: performance_by_domain is empty", ErrValidation)
	}
	for domain, perf := range dto.PerformanceByDomain {
		if perf.Total < 0 || perf.Correct < 0 || perf.Correct > perf.Total {
			return fmt.Errorf("%w: domain %q has inconsistent counts", ErrValidation, domain)
		}
	}
	for _, gap := range dto.SkillGaps {
		if gap.Severity < models.SeverityMin || gap.Severity > models.SeverityMax {
			return fmt.Errorf("%w: severity %d out of range for skill %q", ErrValidation, gap.Severity, gap.SkillName)
		}
		for _, course := range gap.Courses {
			if course.Priority < models.PriorityMin || course.Priority > models.PriorityMax {
				return fmt.Errorf("%w: priority %d out of range for course %q", ErrValidation, course.Priority, course.Title)
			}
		}
	}
	return nil
}
