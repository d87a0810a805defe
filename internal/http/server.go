package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mauv0809/trio-tracker/internal/clock"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/config"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	"github.com/mauv0809/trio-tracker/internal/notifier"
)

func NewServer(store club.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.MetricsStore, cfg config.Config, notifier notifier.Notifier, reporter WeeklyReporter, clk clock.Clock) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Reporter:       reporter,
		Clock:          clk,
		Router:         mux.NewRouter(),
	}
	server.templates = newTemplates(clk, cfg.Location)

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), recoveryMiddleware, requestIDMiddleware, paramsMiddleware, authMiddleware)
	common := []Middleware{recoveryMiddleware, requestIDMiddleware, paramsMiddleware}
	handle := func(path string, h http.Handler, methods ...string) {
		s.Router.Handle(path, Chain(h, common...)).Methods(methods...)
	}

	s.Router.Handle("/metrics", s.MetricsHandler).Methods(http.MethodGet)
	handle("/health", s.HealthCheckHandler(), http.MethodGet)

	// Page and HTMX fragments
	handle("/", s.IndexHandler(), http.MethodGet)
	handle("/partials/{section}", s.PartialHandler(), http.MethodGet)
	handle("/players", s.AddPlayerHandler(), http.MethodPost)
	handle("/players/{id}", s.DeletePlayerHandler(), http.MethodDelete)
	handle("/matches", s.RecordMatchHandler(), http.MethodPost)

	// JSON API
	handle("/api/players", s.ListPlayersAPIHandler(), http.MethodGet)
	handle("/api/players", s.AddPlayerAPIHandler(), http.MethodPost)
	handle("/api/players/{id}", s.DeletePlayerAPIHandler(), http.MethodDelete)
	handle("/api/matches", s.RecordMatchAPIHandler(), http.MethodPost)
	handle("/api/matches/{id}", s.GetMatchAPIHandler(), http.MethodGet)
	handle("/api/leaderboard", s.LeaderboardAPIHandler(), http.MethodGet)
	handle("/api/most-active", s.MostActiveAPIHandler(), http.MethodGet)
	handle("/api/recent", s.RecentMatchesAPIHandler(), http.MethodGet)
	handle("/api/streaks", s.WinStreaksAPIHandler(), http.MethodGet)
	handle("/api/weekly", s.WeeklyLeaderboardAPIHandler(), http.MethodGet)
	handle("/api/podium-days", s.PodiumDaysAPIHandler(), http.MethodGet)
	handle("/api/counters", s.CountersAPIHandler(), http.MethodGet)
	handle("/api/export", s.ExportHandler(), http.MethodGet)
	handle("/api/weekly-report", s.WeeklyReportHandler(), http.MethodPost)

	// Slack slash commands
	verify := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), append(common, verify)...)).Methods(http.MethodPost)
	s.Router.Handle("/slack/command/streaks", Chain(s.WinStreaksCommandHandler(), append(common, verify)...)).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
