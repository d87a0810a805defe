package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	Port               string
	Location           *time.Location
	RecentMatchesLimit int
	WeeklyReportCron   string
	LogLevel           string
	LogFormat          string
	Slack              SlackConfig
	Turso              TursoConfig
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether enough is configured to post messages.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
