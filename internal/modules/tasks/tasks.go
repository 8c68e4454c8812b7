package tasks

import (
	"github.com/certlab/core/internal/pkg/pagination"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/certlab/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

// Handler exposes the generation task queue to the admin dashboard.
type Handler struct {
	svc *taskqueue.Service
}

func NewHandler(svc *taskqueue.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/generation/tasks", authMW)

	g.GET("", h.list)
	g.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var taskType *string
	if t := c.Query("type"); t != "" {
		taskType = &t
	}
	var status *taskqueue.TaskStatus
	if s := c.Query("status"); s != "" {
		st := taskqueue.TaskStatus(s)
		status = &st
	}

	items, total, err := h.svc.List(c.Request.Context(), q.Page, q.Size, taskType, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	totalPage := 0
	if q.Size > 0 {
		totalPage = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	response.Paged(c, items, response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	})
}

func (h *Handler) get(c *gin.Context) {
	task, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}
