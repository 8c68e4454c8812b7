package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != defaultPort {
		t.Fatalf("port = %d, want %d", cfg.Port, defaultPort)
	}
	if !cfg.IsDev() {
		t.Fatal("default env should be development")
	}
	if cfg.Upstream.URL != defaultUpstreamURL {
		t.Fatalf("upstream url = %q", cfg.Upstream.URL)
	}
	if !strings.Contains(cfg.DSN, defaultDBName) {
		t.Fatalf("assembled DSN %q does not reference %q", cfg.DSN, defaultDBName)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
port: 9999
env: production
jwt_secret: super-secret
admin:
  name: operator
  password_hash: "$2a$10$abcdefghijklmnopqrstuv"
upstream:
  url: http://api.internal:2330
  timeout_seconds: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.IsDev() {
		t.Fatal("env production should not be dev")
	}
	if cfg.Admin.Name != "operator" {
		t.Fatalf("admin name = %q", cfg.Admin.Name)
	}
	if cfg.Upstream.URL != "http://api.internal:2330" || cfg.Upstream.TimeoutSeconds != 5 {
		t.Fatalf("upstream = %+v", cfg.Upstream)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("bogus_key: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDSN, "user:pass@tcp(db:3306)/certlab")
	t.Setenv(EnvUpstreamURL, "http://api:2330/")
	t.Setenv(EnvJWTSecret, "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DSN != "user:pass@tcp(db:3306)/certlab" {
		t.Fatalf("dsn = %q", cfg.DSN)
	}
	if cfg.Upstream.URL != "http://api:2330" {
		t.Fatalf("upstream url = %q, trailing slash should be stripped", cfg.Upstream.URL)
	}
	if cfg.JWTSecret != "from-env" {
		t.Fatalf("jwt secret = %q", cfg.JWTSecret)
	}
}
