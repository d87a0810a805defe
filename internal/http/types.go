package http

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/trio-tracker/internal/clock"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/config"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	"github.com/mauv0809/trio-tracker/internal/notifier"
)

type Server struct {
	Store          club.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Reporter       WeeklyReporter
	Clock          clock.Clock
	Router         *mux.Router
	templates      *template.Template
}

// WeeklyReporter posts the weekly leaderboard on demand.
type WeeklyReporter interface {
	PostWeeklyLeaderboard(ctx context.Context, dryRun bool) error
}

// WeeklyReporterFunc adapts a function to WeeklyReporter.
type WeeklyReporterFunc func(ctx context.Context, dryRun bool) error

func (f WeeklyReporterFunc) PostWeeklyLeaderboard(ctx context.Context, dryRun bool) error {
	return f(ctx, dryRun)
}

// pageData feeds the page and fragment templates. Sections read only the
// fields they need; OOB marks fragments for an out-of-band swap.
type pageData struct {
	OOB         bool
	Players     []club.Player
	Leaderboard []club.LeaderboardEntry
	MostActive  []club.ActivityEntry
	Weekly      *club.WeeklyLeaderboard
	Recent      []club.RecentMatch
	WinStreaks  []club.WinStreak
	PodiumDays  []club.PodiumDays
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

type recordMatchRequest struct {
	WinnerID       int64   `json:"winner_id"`
	ParticipantIDs []int64 `json:"participant_ids"`
}

type weeklyReportResponse struct {
	Posted bool `json:"posted"`
	DryRun bool `json:"dry_run"`
}

type errorResponse struct {
	Error string `json:"error"`
}
