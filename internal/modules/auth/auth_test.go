package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/certlab/core/internal/config"
	"github.com/certlab/core/internal/middleware"
	pkgjwt "github.com/certlab/core/internal/pkg/jwt"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	pkgjwt.SetSecret("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := &config.AppConfig{}
	cfg.Admin.Name = "admin"
	cfg.Admin.PasswordHash = string(hash)

	r := gin.New()
	NewHandler(cfg).RegisterRoutes(r.Group("/api/v1"), middleware.Auth())
	return r
}

func postLogin(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(LoginDTO{Username: username, Password: password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	w := postLogin(r, "admin", "hunter2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a token")
	}

	// The issued token passes the auth middleware.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("check status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	if w := postLogin(r, "admin", "wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", w.Code)
	}
	if w := postLogin(r, "intruder", "hunter2"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong username status = %d, want 401", w.Code)
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/check", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
