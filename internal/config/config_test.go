package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8082 {
		t.Errorf("expected default port 8082, got %d", cfg.Server.Port)
	}
	if cfg.SMTP.MaxConnections != 5 {
		t.Errorf("expected default max_connections 5, got %d", cfg.SMTP.MaxConnections)
	}
	if cfg.SMTP.MaxMessages != 100 {
		t.Errorf("expected default max_messages 100, got %d", cfg.SMTP.MaxMessages)
	}
	if cfg.Auth.APIKey != "default-email-key" {
		t.Errorf("expected default API key, got %q", cfg.Auth.APIKey)
	}
	if cfg.Dispatch.WorkerCount != 5 {
		t.Errorf("expected default worker_count 5, got %d", cfg.Dispatch.WorkerCount)
	}
	if cfg.Server.MaxBodyBytes != 50*1024*1024 {
		t.Errorf("expected default max_body_bytes 50MB, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default logging level info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9090
  read_timeout: 5s
smtp:
  host: relay.example.com
  port: 2525
  username: billing@example.com
  password: secret
dispatch:
  worker_count: 3
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.SMTP.Host != "relay.example.com" {
		t.Errorf("expected smtp host relay.example.com, got %q", cfg.SMTP.Host)
	}
	if cfg.Dispatch.WorkerCount != 3 {
		t.Errorf("expected worker_count 3, got %d", cfg.Dispatch.WorkerCount)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTIFIER_SMTP_USERNAME", "env-user@example.com")
	t.Setenv("NOTIFIER_AUTH_API_KEY", "env-key")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SMTP.Username != "env-user@example.com" {
		t.Errorf("expected env username, got %q", cfg.SMTP.Username)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("expected env API key, got %q", cfg.Auth.APIKey)
	}
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("GMAIL_USER", "legacy@example.com")
	t.Setenv("GMAIL_APP_PASSWORD", "legacy-pass")
	t.Setenv("EMAIL_SERVICE_API_KEY", "legacy-key")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SMTP.Username != "legacy@example.com" {
		t.Errorf("expected legacy username, got %q", cfg.SMTP.Username)
	}
	if cfg.SMTP.Password != "legacy-pass" {
		t.Errorf("expected legacy password, got %q", cfg.SMTP.Password)
	}
	if cfg.Auth.APIKey != "legacy-key" {
		t.Errorf("expected legacy API key, got %q", cfg.Auth.APIKey)
	}
}

func TestEmailConfigured(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"both present", "u@example.com", "pass", true},
		{"missing password", "u@example.com", "", false},
		{"missing username", "", "pass", false},
		{"both missing", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SMTP: SMTPConfig{Username: tt.username, Password: tt.password}}
			if got := cfg.EmailConfigured(); got != tt.want {
				t.Errorf("EmailConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}
