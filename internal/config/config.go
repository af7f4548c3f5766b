package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the dashboard.
type Config struct {
	TelegramToken    string
	HTTPAddr         string
	DatabaseURL      string
	NotificationTTL  time.Duration
	ReminderInterval time.Duration
	ReminderTime     string
	ShutdownTimeout  time.Duration
}

// fileConfig mirrors Config in the optional YAML file.
type fileConfig struct {
	TelegramToken         string  `yaml:"telegram_token"`
	HTTPAddr              *string `yaml:"http_addr"`
	DatabaseURL           string  `yaml:"database_url"`
	NotificationTTL       string  `yaml:"notification_ttl"`
	ReminderIntervalHours string  `yaml:"reminder_interval_hours"`
	ReminderTime          string  `yaml:"reminder_time"`
	ShutdownTimeout       string  `yaml:"shutdown_timeout"`
}

func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		DatabaseURL:     ":memory:",
		NotificationTTL: 3 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads CONFIG_FILE when set, then applies environment overrides.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := applyYAML(&cfg, raw); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if cfg.TelegramToken == "" && cfg.HTTPAddr == "" {
		return cfg, fmt.Errorf("either TELEGRAM_TOKEN or HTTP_ADDR is required")
	}
	return cfg, nil
}

func applyYAML(cfg *Config, raw []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.TelegramToken != "" {
		cfg.TelegramToken = strings.TrimSpace(fc.TelegramToken)
	}
	if fc.HTTPAddr != nil {
		cfg.HTTPAddr = strings.TrimSpace(*fc.HTTPAddr)
	}
	if fc.DatabaseURL != "" {
		cfg.DatabaseURL = strings.TrimSpace(fc.DatabaseURL)
	}
	if fc.ReminderTime != "" {
		cfg.ReminderTime = strings.TrimSpace(fc.ReminderTime)
	}
	return applyDurations(cfg, fc.NotificationTTL, fc.ReminderIntervalHours, fc.ShutdownTimeout)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		return strings.TrimSpace(v), ok
	}

	if v, ok := get("TELEGRAM_TOKEN"); ok && v != "" {
		cfg.TelegramToken = v
	}
	if v, ok := get("HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get("DATABASE_URL"); ok && v != "" {
		cfg.DatabaseURL = v
	}
	if v, ok := get("REMINDER_TIME"); ok && v != "" {
		cfg.ReminderTime = v
	}

	ttl, _ := get("NOTIFICATION_TTL")
	hours, _ := get("REMINDER_INTERVAL_HOURS")
	shutdown, _ := get("SHUTDOWN_TIMEOUT")
	return applyDurations(cfg, ttl, hours, shutdown)
}

func applyDurations(cfg *Config, ttl, intervalHours, shutdown string) error {
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid notification ttl %q", ttl)
		}
		cfg.NotificationTTL = d
	}
	if intervalHours != "" {
		cfg.ReminderInterval = parseInterval(intervalHours)
	}
	if shutdown != "" {
		d, err := time.ParseDuration(shutdown)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid shutdown timeout %q", shutdown)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
