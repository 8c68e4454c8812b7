package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/certlab/core/internal/middleware"
	"github.com/certlab/core/internal/modules/auth"
	"github.com/certlab/core/internal/modules/course"
	"github.com/certlab/core/internal/modules/gapanalysis"
	"github.com/certlab/core/internal/modules/health"
	"github.com/certlab/core/internal/modules/outline"
	"github.com/certlab/core/internal/modules/tasks"
	pkgredis "github.com/certlab/core/internal/pkg/redis"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/certlab/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "certlab-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/certlab/core",
	}

	apiPrefix := "/api/v1"

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	taskSvc := taskqueue.NewService(rc)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth())
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	health.RegisterRoutes(api, db, rc, a.cfg.Paths.Logs, authMW)

	// App info endpoints
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(a.startTime()).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", authMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Auth
	auth.NewHandler(a.cfg).RegisterRoutes(api, authMW)

	// Gap analysis results and their derived content
	gapSvc := gapanalysis.NewService(db)
	gapanalysis.NewHandler(gapSvc).RegisterRoutes(api, authMW)
	outline.NewHandler(outline.NewService(db), gapSvc).RegisterRoutes(api, authMW)
	course.NewHandler(course.NewService(db, taskSvc), gapSvc).RegisterRoutes(api, authMW)

	// Generation task queue (admin)
	tasks.NewHandler(taskSvc).RegisterRoutes(api, authMW)
}

func httpCacheSkipPaths(apiPrefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(apiPrefix), "/")
	if p == "" {
		p = "/api/v1"
	}
	return []string{
		p + "/uptime",
		p + "/health",
		p + "/health/*",
		p + "/clean_cache",
		p + "/auth/login",
		p + "/auth/check",
		p + "/generation/tasks",
		p + "/generation/tasks/*",
		p + "/courses/*",
	}
}
