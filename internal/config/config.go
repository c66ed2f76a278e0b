package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr     string        `toml:"listen-addr"`
	DatabaseURL    string        `toml:"database-url"`
	ActivityLog    string        `toml:"activity-log"`
	FlashTTL       time.Duration `toml:"-"`
	SweepInterval  time.Duration `toml:"-"`
	DailySummaryAt string        `toml:"daily-summary-at"`

	FlashTTLMinutes      int `toml:"flash-ttl-minutes"`
	SweepIntervalSeconds int `toml:"sweep-interval-seconds"`
}

// Load reads an optional taskboard.toml, then applies environment-variable
// overrides and defaults. The only hard failure is an unreadable or invalid
// config file.
func Load() (Config, error) {
	cfg := Config{}

	path := strings.TrimSpace(os.Getenv("TASKBOARD_CONFIG"))
	if path == "" {
		path = "taskboard.toml"
	}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskboard.db"
	}
	if cfg.ActivityLog == "" {
		cfg.ActivityLog = "logs/activity.log"
	}
	if cfg.FlashTTLMinutes <= 0 {
		cfg.FlashTTLMinutes = 30
	}
	if cfg.SweepIntervalSeconds <= 0 {
		cfg.SweepIntervalSeconds = 60
	}
	cfg.FlashTTL = time.Duration(cfg.FlashTTLMinutes) * time.Minute
	cfg.SweepInterval = time.Duration(cfg.SweepIntervalSeconds) * time.Second

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TASKBOARD_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ACTIVITY_LOG")); v != "" {
		cfg.ActivityLog = v
	}
	if v := strings.TrimSpace(os.Getenv("FLASH_TTL_MINUTES")); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.FlashTTLMinutes = minutes
		}
	}
	if v := strings.TrimSpace(os.Getenv("DAILY_SUMMARY_AT")); v != "" {
		cfg.DailySummaryAt = v
	}
}
