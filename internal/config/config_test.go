package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaults()
	require.NoError(t, applyEnv(&cfg, envMap(nil)))

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Second, cfg.NotificationTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.ReminderInterval)
	assert.Empty(t, cfg.TelegramToken)
}

func TestApplyEnv(t *testing.T) {
	cfg := defaults()
	err := applyEnv(&cfg, envMap(map[string]string{
		"TELEGRAM_TOKEN":          " token ",
		"HTTP_ADDR":               "",
		"NOTIFICATION_TTL":        "5s",
		"REMINDER_INTERVAL_HOURS": "6",
		"REMINDER_TIME":           "09:00",
		"SHUTDOWN_TIMEOUT":        "2s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Empty(t, cfg.HTTPAddr, "explicit empty HTTP_ADDR disables the HTTP host")
	assert.Equal(t, 5*time.Second, cfg.NotificationTTL)
	assert.Equal(t, 6*time.Hour, cfg.ReminderInterval)
	assert.Equal(t, "09:00", cfg.ReminderTime)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestApplyEnv_InvalidDurations(t *testing.T) {
	cfg := defaults()
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{"NOTIFICATION_TTL": "soon"})))

	cfg = defaults()
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{"SHUTDOWN_TIMEOUT": "-1s"})))
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, 5*time.Hour, parseInterval("5"))
	assert.Zero(t, parseInterval(""))
	assert.Zero(t, parseInterval("-2"))
	assert.Zero(t, parseInterval("x"))
}

func TestApplyYAML(t *testing.T) {
	cfg := defaults()
	err := applyYAML(&cfg, []byte(`
telegram_token: abc
http_addr: ":9090"
notification_ttl: 1500ms
reminder_interval_hours: "12"
reminder_time: "17:30"
`))
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.TelegramToken)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 1500*time.Millisecond, cfg.NotificationTTL)
	assert.Equal(t, 12*time.Hour, cfg.ReminderInterval)
	assert.Equal(t, "17:30", cfg.ReminderTime)
	assert.Equal(t, ":memory:", cfg.DatabaseURL)
}

func TestApplyYAML_Invalid(t *testing.T) {
	cfg := defaults()
	assert.Error(t, applyYAML(&cfg, []byte("telegram_token: [unterminated")))
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7070\"\nnotification_ttl: 4s\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("NOTIFICATION_TTL", "2s")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("HTTP_ADDR", ":7071")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7071", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.NotificationTTL)
}

func TestLoad_RequiresAHost(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("HTTP_ADDR", "")

	_, err := Load()
	assert.Error(t, err)
}
