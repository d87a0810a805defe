package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_NAME", "PORT", "TIMEZONE", "RECENT_MATCHES_LIMIT", "WEEKLY_REPORT_CRON",
		"LOG_LEVEL", "LOG_FORMAT", "SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID",
		"SLACK_SIGNING_SECRET", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "data/trio.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 10, cfg.RecentMatchesLimit)
	assert.Equal(t, "0 16 * * 5", cfg.WeeklyReportCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Slack.Enabled())
	assert.Empty(t, cfg.Turso.PrimaryURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_NAME", "/tmp/trio.db")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "Europe/Copenhagen")
	t.Setenv("RECENT_MATCHES_LIMIT", "25")
	t.Setenv("WEEKLY_REPORT_CRON", "30 15 * * 5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")

	cfg := Load()

	assert.Equal(t, "/tmp/trio.db", cfg.DBName)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Europe/Copenhagen", cfg.Location.String())
	assert.Equal(t, 25, cfg.RecentMatchesLimit)
	assert.Equal(t, "30 15 * * 5", cfg.WeeklyReportCron)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Slack.Enabled())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	t.Setenv("RECENT_MATCHES_LIMIT", "-3")
	t.Setenv("WEEKLY_REPORT_CRON", "every friday")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("LOG_FORMAT", "xml")

	cfg := Load()

	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 10, cfg.RecentMatchesLimit)
	assert.Equal(t, "0 16 * * 5", cfg.WeeklyReportCron)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}
