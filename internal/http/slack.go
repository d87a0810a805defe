package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
)

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := observe(s, sectionLeaderboard, func() ([]club.LeaderboardEntry, error) {
			return s.Store.GetLeaderboard(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, msg)
	}
}

// WinStreaksCommandHandler returns a handler for the /streaks Slack command.
func (s *Server) WinStreaksCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streaks, err := observe(s, sectionWinStreaks, func() ([]club.WinStreak, error) {
			return s.Store.GetWinStreaks(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}

		msg, err := s.Notifier.FormatWinStreaksResponse(streaks)
		if err != nil {
			http.Error(w, "Failed to format win streaks", http.StatusInternalServerError)
			log.Error("Failed to format win streaks", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, msg)
	}
}
