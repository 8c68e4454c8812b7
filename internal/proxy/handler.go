package proxy

import (
	"time"

	"github.com/certlab/core/internal/config"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler mounts the dashboard-facing proxy. Everything under
// /dashboard/api/* is replayed against the API server; the upstream
// status and body come back untouched, and transport failures turn
// into 502 so the dashboard can tell "API said no" from "API is down".
type Handler struct {
	client *Client
	logger *zap.Logger
}

func NewHandler(cfg *config.AppConfig, logger *zap.Logger) (*Handler, error) {
	timeout := time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second
	client, err := NewClient(cfg.Upstream.URL, timeout)
	if err != nil {
		return nil, err
	}
	return &Handler{client: client, logger: logger}, nil
}

// upstreamPrefix maps /dashboard/api/<x> onto the API server's /api/v1/<x>.
const upstreamPrefix = "/api/v1"

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Any("/dashboard/api/*upstream_path", h.forward)
}

func (h *Handler) forward(c *gin.Context) {
	path := upstreamPrefix + c.Param("upstream_path")

	up, err := h.client.Forward(
		c.Request.Context(),
		c.Request.Method,
		path,
		c.Request.URL.RawQuery,
		c.Request.Header,
		c.Request.Body,
	)
	if err != nil {
		h.logger.Warn("upstream unreachable",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Error(err))
		response.BadGateway(c)
		return
	}

	for k, vv := range up.Header {
		for _, v := range vv {
			c.Writer.Header().Add(k, v)
		}
	}
	c.Writer.Header().Set("x-certlab-served-by", "dashboard-proxy")
	c.Data(up.Status, up.Header.Get("Content-Type"), up.Body)
}
