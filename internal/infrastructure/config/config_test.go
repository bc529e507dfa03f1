package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  database: ":memory:"
provisioning:
  base_saas_domain: saas.example.com
  selection_policy: sequence
  expiration_notify_in_advance: 3
notification:
  transport: nats
  nats_url: nats://nats:4222
`)

	cfg, err := Load("production", path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Server.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.GetDSN())
	assert.Equal(t, "saas.example.com", cfg.Provisioning.BaseSaaSDomain)
	assert.Equal(t, "sequence", cfg.Provisioning.SelectionPolicy)
	assert.Equal(t, 3, cfg.Provisioning.NotifyAdvanceDays)
	assert.Equal(t, 30, cfg.Dispatcher.TimeoutSeconds)
	assert.Equal(t, "nats", cfg.Notification.Transport)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("SAASPORTAL_SERVER_PORT", "9100")
	t.Setenv("SAASPORTAL_DISPATCHER_TIMEOUT_SECONDS", "5")

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Dispatcher.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Server.Mode)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"unknown policy":    "provisioning:\n  selection_policy: round_robin\n",
		"unknown transport": "notification:\n  transport: sqs\n",
		"unknown driver":    "database:\n  driver: oracle\n",
		"negative advance":  "provisioning:\n  expiration_notify_in_advance: -1\n",
		"zero timeout":      "dispatcher:\n  timeout_seconds: 0\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load("", writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
