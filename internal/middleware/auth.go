package middleware

import (
	"errors"
	"strings"

	"github.com/certlab/core/internal/pkg/jwt"
	"github.com/certlab/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const ContextKeySubject = "auth_subject"

// Auth returns a middleware that enforces JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ValidateTokenClaims(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// OptionalAuth sets the subject if a valid token is present, but does not block.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := ValidateTokenClaims(extractToken(c)); err == nil && claims.Subject != "" {
			c.Set(ContextKeySubject, claims.Subject)
		}
		c.Next()
	}
}

// ValidateTokenClaims validates a JWT and returns its claims.
func ValidateTokenClaims(rawToken string) (*jwt.Claims, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return nil, errors.New("token is required")
	}
	return jwt.Parse(token)
}

// CurrentSubject extracts the authenticated subject from context.
func CurrentSubject(c *gin.Context) string {
	v, _ := c.Get(ContextKeySubject)
	subject, _ := v.(string)
	return subject
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentSubject(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
