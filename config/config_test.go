package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Alerts.ThresholdMonths)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 7 * * *", cfg.Scheduler.Schedule)
	assert.Equal(t, "Europe/Paris", cfg.Scheduler.Location.String())
	assert.Equal(t, 10*time.Second, cfg.Teams.Timeout)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.False(t, cfg.Notifications.RecordFailures)
	assert.Equal(t, "http://localhost:8529", cfg.Database.Endpoint())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
smtp:
  host: smtp.corp.io
  sender: alerts@corp.io
teams:
  webhook_url: https://hooks.example/abc
  timeout: 5s
alerts:
  threshold_months: 3
scheduler:
  timezone: UTC
kafka:
  brokers: ["k1:9092"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("ALERT_THRESHOLD_MONTHS", "4")
	t.Setenv("NOTIFY_RECORD_FAILURES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smtp.corp.io", cfg.SMTP.Host)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, "https://hooks.example/abc", cfg.Teams.WebhookURL)
	assert.Equal(t, 5*time.Second, cfg.Teams.Timeout)
	assert.Equal(t, 4, cfg.Alerts.ThresholdMonths)
	assert.Equal(t, time.UTC.String(), cfg.Scheduler.Location.String())
	assert.True(t, cfg.Notifications.RecordFailures)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalidTimezone(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SCHEDULER_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeThreshold(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ALERT_THRESHOLD_MONTHS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestSMTPConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{Host: "smtp"}.Configured())
	assert.False(t, SMTPConfig{Sender: "a@b"}.Configured())
	assert.True(t, SMTPConfig{Host: "smtp", Sender: "a@b"}.Configured())
}
