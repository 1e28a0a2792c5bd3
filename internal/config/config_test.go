package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_DefaultsWithMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Server.StoragePath)
	assert.Equal(t, ExportModeCSV, cfg.Export.Mode)
	assert.Equal(t, "10s", cfg.Notifications.FanOutTimeout)
	assert.True(t, cfg.Notifications.Async)
	assert.False(t, cfg.Notifications.NotifyExhibitorOnDecision)
	assert.Equal(t, "@every 1h", cfg.Jobs.DeadlineCloserSpec)
}

func TestLoadConfig_FileThenEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
jwt:
  secret: from-file
export:
  mode: http
  url: http://exporter.local/close
notifications:
  notify_exhibitor_on_decision: true
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("RATE_LIMIT_BURST", "9")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, ExportModeHTTP, cfg.Export.Mode)
	assert.Equal(t, 9, cfg.RateLimit.Burst)
	assert.True(t, cfg.Notifications.NotifyExhibitorOnDecision)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing secret", content: "server:\n  port: \"1\"\n"},
		{name: "http export without url", content: "jwt:\n  secret: s\nexport:\n  mode: http\n"},
		{name: "unknown export mode", content: "jwt:\n  secret: s\nexport:\n  mode: ftp\n"},
		{name: "bad fan-out timeout", content: "jwt:\n  secret: s\nnotifications:\n  fanout_timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnvOverrides_InvalidValue(t *testing.T) {
	cfg := &Config{}
	err := applyEnvOverrides(cfg, func(key string) (string, bool) {
		if key == "SMTP_PORT" {
			return "not-a-number", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestGetPublicURL(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	assert.Equal(t, "http://localhost:8080", cfg.GetPublicURL())

	cfg.Server.PublicURL = "https://api.stallhub.app/"
	assert.Equal(t, "https://api.stallhub.app", cfg.GetPublicURL())
}

func TestApplyEnvOverrides_NestedTypes(t *testing.T) {
	env := map[string]string{
		"SERVER_PORT":    " 9090 ",
		"SMTP_PORT":      "2525",
		"DB_SEED":        "true",
		"SERVER_APP_URL": "https://store.example.com",
	}
	cfg := &Config{}
	err := applyEnvOverrides(cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.True(t, cfg.Database.Seed)
	assert.Equal(t, "https://store.example.com", cfg.Server.AppURL)
}
