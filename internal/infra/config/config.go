package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	Environment string

	// CronSecret guards the manual /api/cron trigger endpoints.
	CronSecret string

	// TelegramToken enables the Telegram reminder channel when set.
	TelegramToken string

	CronSpecDailyBriefing string
	CronSpecOverdueSweep  string
	CronSpecEscalation    string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSecret = os.Getenv("CRON_SECRET")

	// Optional: reminders fall back to the console notifier when unset.
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.CronSpecDailyBriefing = os.Getenv("CRON_SPEC_DAILY_BRIEFING")
	if cfg.CronSpecDailyBriefing == "" {
		cfg.CronSpecDailyBriefing = "0 8 * * *" // Default: 08:00 daily
	}
	cfg.CronSpecOverdueSweep = os.Getenv("CRON_SPEC_OVERDUE_SWEEP")
	if cfg.CronSpecOverdueSweep == "" {
		cfg.CronSpecOverdueSweep = "30 0 * * *" // Default: 00:30 daily
	}
	cfg.CronSpecEscalation = os.Getenv("CRON_SPEC_ESCALATION")
	if cfg.CronSpecEscalation == "" {
		cfg.CronSpecEscalation = "0 */6 * * *" // Default: every 6 hours
	}

	return cfg, nil
}
