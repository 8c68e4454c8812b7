package health

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/certlab/core/internal/pkg/applog"
	pkgredis "github.com/certlab/core/internal/pkg/redis"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type logItem struct {
	Size     string `json:"size"`
	Filename string `json:"filename"`
	Created  int64  `json:"created"`
}

// RegisterRoutes wires the liveness endpoint and the admin log browser.
// The health probe reports degraded (503) when the database is down; redis
// state is informational because cached reads still work without it.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client, logDir string, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.Ping() == nil
		redisOK := rc.Ping(c.Request.Context()) == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"redis":    redisOK,
		})
	})

	logGroup := rg.Group("/health/log", authMW)
	{
		logGroup.GET("/list", func(c *gin.Context) {
			dir := applog.ResolveDir(logDir)
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					response.OK(c, []logItem{})
					return
				}
				response.BadRequest(c, "log dir not readable")
				return
			}

			items := make([]logItem, 0, len(entries))
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
					continue
				}
				info, err := entry.Info()
				if err != nil {
					continue
				}
				items = append(items, logItem{
					Size:     formatByteSize(info.Size()),
					Filename: entry.Name(),
					Created:  info.ModTime().UnixMilli(),
				})
			}

			sort.Slice(items, func(i, j int) bool {
				return items[i].Created > items[j].Created
			})
			response.OK(c, items)
		})

		logGroup.GET("", func(c *gin.Context) {
			filename := strings.TrimSpace(c.Query("filename"))
			if filename == "" || filename != filepath.Base(filename) {
				response.BadRequest(c, "invalid filename")
				return
			}
			data, err := os.ReadFile(filepath.Join(applog.ResolveDir(logDir), filename))
			if err != nil {
				response.NotFoundMsg(c, "log file not found")
				return
			}
			c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
		})
	}
}

func formatByteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}
