package outline

import (
	"errors"

	"github.com/certlab/core/internal/models"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListByWorkflowID returns the outlines for a workflow ordered by relevance.
// A workflow with a result but no outlines yields an empty slice, not nil.
func (s *Service) ListByWorkflowID(workflowID string) ([]models.ContentOutlineModel, error) {
	items := []models.ContentOutlineModel{}
	err := s.db.
		Where("workflow_id = ?", workflowID).
		Order("relevance_score DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) GetByID(id string) (*models.ContentOutlineModel, error) {
	var outline models.ContentOutlineModel
	if err := s.db.First(&outline, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &outline, nil
}

type Handler struct {
	svc       *Service
	workflows workflowChecker
}

// workflowChecker lets the handler distinguish an unknown workflow (404)
// from a known workflow that simply has no outlines (empty list).
type workflowChecker interface {
	Exists(workflowID string) (bool, error)
}

func NewHandler(svc *Service, workflows workflowChecker) *Handler {
	return &Handler{svc: svc, workflows: workflows}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/workflows/:workflow_id/outlines", h.listByWorkflow)

	g := rg.Group("/outlines")
	g.GET("/:id", h.get)
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
	outline, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if outline == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, outline)
}
