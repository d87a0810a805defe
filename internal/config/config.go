package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultDBName             = "data/trio.db"
	defaultPort               = "8080"
	defaultTimezone           = "UTC"
	defaultRecentMatchesLimit = 10
	defaultWeeklyReportCron   = "0 16 * * 5"
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
)

// Load reads configuration from environment variables and .env file.
// Missing or invalid values fall back to defaults.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:             getEnv("DB_NAME", defaultDBName),
		Port:               getEnv("PORT", defaultPort),
		Location:           loadLocation(getEnv("TIMEZONE", defaultTimezone)),
		RecentMatchesLimit: defaultRecentMatchesLimit,
		WeeklyReportCron:   getEnv("WEEKLY_REPORT_CRON", defaultWeeklyReportCron),
		LogLevel:           getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:          getEnv("LOG_FORMAT", defaultLogFormat),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
	}

	if raw, ok := os.LookupEnv("RECENT_MATCHES_LIMIT"); ok && raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			log.Warn("Invalid RECENT_MATCHES_LIMIT, using default", "value", raw, "default", defaultRecentMatchesLimit)
		} else {
			cfg.RecentMatchesLimit = limit
		}
	}

	if _, err := cron.ParseStandard(cfg.WeeklyReportCron); err != nil {
		log.Warn("Invalid WEEKLY_REPORT_CRON, using default", "value", cfg.WeeklyReportCron, "error", err)
		cfg.WeeklyReportCron = defaultWeeklyReportCron
	}

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warn("Invalid LOG_LEVEL, using default", "value", cfg.LogLevel)
		cfg.LogLevel = defaultLogLevel
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		log.Warn("Invalid LOG_FORMAT, using default", "value", cfg.LogFormat)
		cfg.LogFormat = defaultLogFormat
	}

	return cfg
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("Unknown TIMEZONE, using UTC", "value", name, "error", err)
		return time.UTC
	}
	return loc
}
