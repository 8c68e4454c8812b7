package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/certlab/core/internal/models"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/certlab/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyQueued means a trigger raced or repeated while the course
	// was still waiting on the worker.
	ErrAlreadyQueued = errors.New("generation already in progress")
	// ErrAlreadyGenerated means the course content exists and the trigger
	// is a no-op.
	ErrAlreadyGenerated = errors.New("course already generated")
	// ErrBadTransition means a status update tried to move backwards or
	// skip a step.
	ErrBadTransition = errors.New("invalid generation status transition")
)

// TaskEnqueuer is the slice of the task queue the trigger needs.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, dedupKey string) (*taskqueue.Task, error)
}

type Service struct {
	db    *gorm.DB
	tasks TaskEnqueuer
}

func NewService(db *gorm.DB, tasks TaskEnqueuer) *Service {
	return &Service{db: db, tasks: tasks}
}

// ListByWorkflowID returns the recommended courses for a workflow, highest
// priority first. Empty slice when the workflow has a result but no courses.
func (s *Service) ListByWorkflowID(workflowID string) ([]models.RecommendedCourseModel, error) {
	items := []models.RecommendedCourseModel{}
	err := s.db.
		Where("workflow_id = ?", workflowID).
		Order("priority ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.RecommendedCourseModel, error) {
	var course models.RecommendedCourseModel
	if err := s.db.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

// GenerateTicket is what the trigger endpoint returns to the dashboard.
type GenerateTicket struct {
	CourseID string `json:"course_id"`
	Status   string `json:"status"`
	TaskID   string `json:"task_id"`
}

type generatePayload struct {
	CourseID   string `json:"course_id"`
	WorkflowID string `json:"workflow_id"`
	Title      string `json:"title"`
}

// TriggerGeneration flips a course from not_started to queued and enqueues
// the worker task. The flip is a single conditional UPDATE so two concurrent
// triggers cannot both win.
func (s *Service) TriggerGeneration(ctx context.Context, courseID string) (*GenerateTicket, error) {
	res := s.db.Model(&models.RecommendedCourseModel{}).
		Where("id = ? AND generation_status = ?", courseID, models.GenerationNotStarted).
		Update("generation_status", models.GenerationQueued)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		course, err := s.GetByID(courseID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, nil
		}
		switch course.GenerationStatus {
		case models.GenerationGenerated:
			return nil, ErrAlreadyGenerated
		default:
			return nil, ErrAlreadyQueued
		}
	}

	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %s vanished after status flip", courseID)
	}

	task, err := s.tasks.Enqueue(ctx, taskqueue.TypeCourseGenerate, generatePayload{
		CourseID:   course.ID,
		WorkflowID: course.WorkflowID,
		Title:      course.Title,
	}, course.ID)
	if err != nil {
		// The status already flipped; roll it back so the trigger can be
		// retried once redis is reachable again.
		s.db.Model(&models.RecommendedCourseModel{}).
			Where("id = ? AND generation_status = ?", courseID, models.GenerationQueued).
			Update("generation_status", models.GenerationNotStarted)
		return nil, err
	}

	return &GenerateTicket{
		CourseID: course.ID,
		Status:   string(models.GenerationQueued),
		TaskID:   task.ID,
	}, nil
}

// SetGenerationStatus applies the worker callback. Only forward moves are
// allowed; not_started is never a valid target.
func (s *Service) SetGenerationStatus(courseID string, target models.GenerationStatus) (*models.RecommendedCourseModel, error) {
	course, err := s.GetByID(courseID)
	if err != nil || course == nil {
		return nil, err
	}

	if !course.GenerationStatus.Next(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, course.GenerationStatus, target)
	}

	res := s.db.Model(&models.RecommendedCourseModel{}).
		Where("id = ? AND generation_status = ?", courseID, course.GenerationStatus).
		Update("generation_status", target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: status changed concurrently", ErrBadTransition)
	}

	course.GenerationStatus = target
	return course, nil
}

type UpdateStatusDTO struct {
	Status models.GenerationStatus `json:"status" binding:"required"`
}

type Handler struct {
	svc       *Service
	workflows workflowChecker
}

type workflowChecker interface {
	Exists(workflowID string) (bool, error)
}

func NewHandler(svc *Service, workflows workflowChecker) *Handler {
	return &Handler{svc: svc, workflows: workflows}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/workflows/:workflow_id/courses", h.listByWorkflow)

	g := rg.Group("/courses")
	g.GET("/:id", h.get)
	g.POST("/:id/generate", h.generate)
	g.PATCH("/:id/generation-status", authMW, h.setStatus)
}

func (h *Handler) listByWorkflow(c *gin.Context) {
	workflowID := c.Param("workflow_id")

	known, err := h.workflows.Exists(workflowID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !known {
		response.NotFoundMsg(c, "no gap analysis result for this workflow")
		return
	}

	items, err := h.svc.ListByWorkflowID(workflowID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	course, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, course)
}

func (h *Handler) generate(c *gin.Context) {
	ticket, err := h.svc.TriggerGeneration(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyQueued):
			response.Conflict(c, "generation already in progress")
		case errors.Is(err, ErrAlreadyGenerated):
			response.Conflict(c, "course already generated")
		default:
			response.InternalError(c, err)
		}
		return
	}
	if ticket == nil {
		response.NotFound(c)
		return
	}
	response.Accepted(c, ticket)
}

func (h *Handler) setStatus(c *gin.Context) {
	var dto UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !dto.Status.Valid() {
		response.BadRequest(c, "unknown generation status")
		return
	}

	course, err := h.svc.SetGenerationStatus(c.Param("id"), dto.Status)
	if err != nil {
		if errors.Is(err, ErrBadTransition) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if course == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, course)
}
