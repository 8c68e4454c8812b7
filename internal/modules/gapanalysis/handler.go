package gapanalysis

import (
	"errors"

	"github.com/certlab/core/internal/pkg/pagination"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/workflows")

	g.GET("", authMW, h.list)
	g.GET("/:workflow_id/gap-analysis", h.get)
	g.GET("/:workflow_id/gap-analysis/summary", h.summary)
	g.POST("/:workflow_id/gap-analysis", authMW, h.ingest)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	result, err := h.svc.GetByWorkflowID(c.Param("workflow_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if result == nil {
		response.NotFoundMsg(c, "no gap analysis result for this workflow")
		return
	}
	response.OK(c, result)
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Param("workflow_id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if summary == nil {
		response.NotFoundMsg(c, "no gap analysis result for this workflow")
		return
	}
	response.OK(c, summary)
}

func (h *Handler) ingest(c *gin.Context) {
	var dto IngestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Ingest(c.Param("workflow_id"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrWorkflowExists):
			response.Conflict(c, "workflow already has a gap analysis result")
		case errors.Is(err, ErrValidation):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, result)
}
