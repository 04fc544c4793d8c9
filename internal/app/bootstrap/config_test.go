package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: voting-service
  http_port: 8181
dependencies:
  postgres_url: postgres://file-host/voting
  redis_url: redis://file-host:6379/0
auth:
  token_ttl_minutes: 60
google:
  client_id: file-client-id
`)
	t.Setenv("DB_URL", "postgres://env-host/voting")
	t.Setenv("HTTP_PORT", "8282")
	t.Setenv("TOKEN_TTL_MINUTES", "90")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabaseURL != "postgres://env-host/voting" {
		t.Fatalf("env must override file, got %q", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://file-host:6379/0" {
		t.Fatalf("file value must survive without env override, got %q", cfg.RedisURL)
	}
	if cfg.HTTPPort != 8282 {
		t.Fatalf("http port = %d, want 8282", cfg.HTTPPort)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Fatalf("token ttl = %v, want 90m", cfg.TokenTTL)
	}
	if cfg.GoogleClientID != "file-client-id" {
		t.Fatalf("google client id = %q", cfg.GoogleClientID)
	}
}

func TestLoadConfigFailsWithoutDatabase(t *testing.T) {
	path := writeConfigFile(t, `
dependencies:
  redis_url: redis://localhost:6379/0
`)
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for missing database url")
	}
}

func TestLoadConfigRequiresSecretWhenEphemeralDisabled(t *testing.T) {
	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://localhost/voting
  redis_url: redis://localhost:6379/0
`)
	t.Setenv("JWT_ALLOW_EPHEMERAL", "false")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for missing jwt secret")
	}
}

func TestEnvBoolAcceptsMixedCase(t *testing.T) {
	cases := map[string]bool{
		"True": true, "TRUE": true, "true": true, " yes ": true, "1": true,
		"False": false, "NO": false, "0": false,
	}
	for raw, want := range cases {
		t.Setenv("ENV_BOOL_SAMPLE_VALUE", raw)
		if got := envBool("ENV_BOOL_SAMPLE_VALUE", !want); got != want {
			t.Fatalf("envBool(%q) = %v, want %v", raw, got, want)
		}
	}
	t.Setenv("ENV_BOOL_SAMPLE_VALUE", "maybe")
	if got := envBool("ENV_BOOL_SAMPLE_VALUE", true); !got {
		t.Fatalf("unparseable value must keep the fallback")
	}
}
