package auth

import (
	"time"

	"github.com/certlab/core/internal/config"
	"github.com/certlab/core/internal/middleware"
	"github.com/certlab/core/internal/pkg/jwt"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Handler struct {
	cfg *config.AppConfig
}

func NewHandler(cfg *config.AppConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/login", h.login)
	g.GET("/check", authMW, h.check)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	admin := h.cfg.Admin
	if admin.Name == "" || admin.PasswordHash == "" || dto.Username != admin.Name {
		response.Unauthorized(c)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(dto.Password)); err != nil {
		response.Unauthorized(c)
		return
	}

	token, err := jwt.Sign(admin.Name, tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"token":      token,
		"expires_in": int64(tokenTTL.Seconds()),
	})
}

func (h *Handler) check(c *gin.Context) {
	response.OK(c, gin.H{"name": middleware.CurrentSubject(c)})
}
