package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "healthsync"
  user: "healthsync"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "healthsync" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "healthsync")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestEnvOverride verifies that HEALTHSYNC_ env vars take precedence over YAML values.
// This ensures production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("HEALTHSYNC_DB_HOST", "override-host")
	t.Setenv("HEALTHSYNC_DB_PORT", "9999")
	t.Setenv("HEALTHSYNC_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Database.Port != 9999 {
		t.Errorf("database.port = %d, want 9999", cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	// Unchanged fields keep YAML values.
	if cfg.Database.Name != "healthsync" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "healthsync")
	}
}

// TestValidateMissingPort verifies that a missing server port fails unless
// Tailscale serves the listener instead.
func TestValidateMissingPort(t *testing.T) {
	yaml := `
database:
  host: "localhost"
  port: 5432
  name: "healthsync"
  user: "healthsync"
auth:
  api_key: "k"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Error("expected error for missing server.port")
	}

	withTS := yaml + `
tailscale:
  enabled: true
  hostname: "healthsync"
`
	if _, err := Load(writeTemp(t, withTS)); err != nil {
		t.Errorf("tailscale-only config should be valid: %v", err)
	}
}

// TestValidateTailscaleHostname verifies hostname is required when
// Tailscale is enabled.
func TestValidateTailscaleHostname(t *testing.T) {
	yaml := validYAML + `
tailscale:
  enabled: true
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Error("expected error for missing tailscale.hostname")
	}
}

// TestValidateMissingAPIKey verifies the API key is mandatory.
func TestValidateMissingAPIKey(t *testing.T) {
	yaml := `
server:
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "healthsync"
  user: "healthsync"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Error("expected error for missing auth.api_key")
	}
}

// TestDSN verifies the connection string format and sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "hs", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/hs?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	d.SSLMode = "require"
	if got := d.DSN(); got != "postgres://u:p@db:5432/hs?sslmode=require" {
		t.Errorf("DSN = %q", got)
	}
}

// TestLoadMissingFile verifies a clear error for an absent config file.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
