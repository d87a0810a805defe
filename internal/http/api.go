package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/notifier"
)

func (s *Server) ListPlayersAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := observe(s, "players", func() ([]club.Player, error) {
			return s.Store.ListPlayers(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) AddPlayerAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err))
			return
		}
		player, err := s.Store.AddPlayer(r.Context(), req.Name)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.playerAdded(player)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) DeletePlayerAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		if err := s.Store.DeletePlayer(r.Context(), id); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.playerDeleted(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RecordMatchAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err))
			return
		}
		match, err := s.Store.RecordMatch(r.Context(), req.WinnerID, req.ParticipantIDs)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.matchRecorded(match, isDryRunFromContext(r))
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		match, err := s.Store.GetMatch(r.Context(), id)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, match)
	}
}

// LeaderboardAPIHandler returns a handler that serves the all-time leaderboard.
func (s *Server) LeaderboardAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := observe(s, sectionLeaderboard, func() ([]club.LeaderboardEntry, error) {
			return s.Store.GetLeaderboard(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) MostActiveAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := observe(s, sectionMostActive, func() ([]club.ActivityEntry, error) {
			return s.Store.GetMostActive(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

// RecentMatchesAPIHandler serves the latest matches. The optional 'limit'
// parameter overrides the configured default.
func (s *Server) RecentMatchesAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := s.Cfg.RecentMatchesLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				s.respondError(w, r, fmt.Errorf("%w: limit must be a number", errBadRequest))
				return
			}
			limit = parsed
		}
		matches, err := observe(s, sectionRecent, func() ([]club.RecentMatch, error) {
			return s.Store.GetRecentMatches(r.Context(), limit)
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) WinStreaksAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streaks, err := observe(s, sectionWinStreaks, func() ([]club.WinStreak, error) {
			return s.Store.GetWinStreaks(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, streaks)
	}
}

func (s *Server) WeeklyLeaderboardAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := observe(s, sectionWeekly, func() (*club.WeeklyLeaderboard, error) {
			return s.Store.GetWeeklyLeaderboard(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, board)
	}
}

func (s *Server) PodiumDaysAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		podium, err := observe(s, sectionPodiumDays, func() ([]club.PodiumDays, error) {
			return s.Store.GetPodiumDays(r.Context())
		})
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, podium)
	}
}

// CountersAPIHandler serves the persisted activity counters.
func (s *Server) CountersAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Counters.GetAll()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("failed to read counters: %w", err))
			return
		}
		respondJSON(w, http.StatusOK, counters)
	}
}

// ExportHandler streams a MessagePack snapshot of every player and match.
func (s *Server) ExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := s.Store.Export(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := club.EncodeSnapshot(&buf, snapshot); err != nil {
			s.respondError(w, r, err)
			return
		}

		filename := fmt.Sprintf("trio-%s.msgpack", snapshot.ExportedAt.Format("20060102-150405"))
		w.Header().Set("Content-Type", "application/msgpack")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			log.Error("Failed to write export", "error", err)
			return
		}
		log.Info("Exported snapshot", "players", len(snapshot.Players), "matches", len(snapshot.Matches))
	}
}

// WeeklyReportHandler posts the weekly leaderboard now instead of waiting for the schedule.
// A Slack failure is logged and reported as posted=false.
func (s *Server) WeeklyReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dryRun := isDryRunFromContext(r)
		err := s.Reporter.PostWeeklyLeaderboard(r.Context(), dryRun)
		switch {
		case errors.Is(err, notifier.ErrDeliveryFailed):
			log.Error("Failed to post weekly leaderboard", "error", err, "requestID", requestIDFromContext(r))
			respondJSON(w, http.StatusOK, weeklyReportResponse{Posted: false, DryRun: dryRun})
		case err != nil:
			s.respondError(w, r, err)
		default:
			respondJSON(w, http.StatusOK, weeklyReportResponse{Posted: true, DryRun: dryRun})
		}
	}
}
