package http

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/metrics"
)

// Fragment names double as template names.
const (
	sectionLeaderboard = "leaderboard"
	sectionWeekly      = "weekly"
	sectionMostActive  = "most-active"
	sectionWinStreaks  = "win-streaks"
	sectionPodiumDays  = "podium-days"
	sectionRecent      = "recent"
	sectionPlayerList  = "player-list"
	sectionMatchForm   = "match-form"
)

var allSections = []string{
	sectionLeaderboard,
	sectionWeekly,
	sectionMostActive,
	sectionWinStreaks,
	sectionPodiumDays,
	sectionRecent,
	sectionPlayerList,
	sectionMatchForm,
}

// observe times a report query.
func observe[T any](s *Server, report string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	s.Metrics.ObserveQueryDuration(report, time.Since(start).Seconds())
	return v, err
}

// load runs the queries the given sections need.
func (s *Server) load(ctx context.Context, data *pageData, sections ...string) error {
	playersLoaded := false
	for _, section := range sections {
		var err error
		switch section {
		case sectionLeaderboard:
			data.Leaderboard, err = observe(s, section, func() ([]club.LeaderboardEntry, error) {
				return s.Store.GetLeaderboard(ctx)
			})
		case sectionWeekly:
			data.Weekly, err = observe(s, section, func() (*club.WeeklyLeaderboard, error) {
				return s.Store.GetWeeklyLeaderboard(ctx)
			})
		case sectionMostActive:
			data.MostActive, err = observe(s, section, func() ([]club.ActivityEntry, error) {
				return s.Store.GetMostActive(ctx)
			})
		case sectionWinStreaks:
			data.WinStreaks, err = observe(s, section, func() ([]club.WinStreak, error) {
				return s.Store.GetWinStreaks(ctx)
			})
		case sectionPodiumDays:
			data.PodiumDays, err = observe(s, section, func() ([]club.PodiumDays, error) {
				return s.Store.GetPodiumDays(ctx)
			})
		case sectionRecent:
			data.Recent, err = observe(s, section, func() ([]club.RecentMatch, error) {
				return s.Store.GetRecentMatches(ctx, s.Cfg.RecentMatchesLimit)
			})
		case sectionPlayerList, sectionMatchForm:
			if playersLoaded {
				continue
			}
			data.Players, err = observe(s, "players", func() ([]club.Player, error) {
				return s.Store.ListPlayers(ctx)
			})
			playersLoaded = true
		default:
			return fmt.Errorf("%w: unknown section %q", club.ErrNotFound, section)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// IndexHandler serves the full page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data pageData
		if err := s.load(r.Context(), &data, allSections...); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.render(w, "index", data)
	}
}

// PartialHandler serves a single page section for HTMX refreshes.
func (s *Server) PartialHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section := mux.Vars(r)["section"]
		if !slices.Contains(allSections, section) {
			http.NotFound(w, r)
			return
		}
		var data pageData
		if err := s.load(r.Context(), &data, section); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.render(w, section, data)
	}
}

// AddPlayerHandler adds a player from the page form and returns every section
// for an out-of-band swap.
func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
		player, err := s.Store.AddPlayer(r.Context(), r.PostForm.Get("name"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.playerAdded(player)
		s.renderAllStats(w, r)
	}
}

// DeletePlayerHandler deletes a player and returns every section for an
// out-of-band swap, since the cascade can remove matches.
func (s *Server) DeletePlayerHandler() http.HandlerFunc {
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
		s.renderAllStats(w, r)
	}
}

// RecordMatchHandler records a match from the page form and returns every
// section for an out-of-band swap.
func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		winnerID, participantIDs, err := parseMatchForm(r)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		match, err := s.Store.RecordMatch(r.Context(), winnerID, participantIDs)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.matchRecorded(match, isDryRunFromContext(r))
		s.renderAllStats(w, r)
	}
}

func (s *Server) renderAllStats(w http.ResponseWriter, r *http.Request) {
	data := pageData{OOB: true}
	if err := s.load(r.Context(), &data, allSections...); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, "all-stats", data)
}

func (s *Server) playerAdded(p *club.Player) {
	s.Metrics.IncPlayersAdded()
	s.Counters.Increment(metrics.KeyPlayersAdded)
	log.Info("Player added", "playerID", p.ID, "name", p.Name)
}

func (s *Server) playerDeleted(id int64) {
	s.Metrics.IncPlayersDeleted()
	s.Counters.Increment(metrics.KeyPlayersDeleted)
	log.Info("Player deleted", "playerID", id)
}

// matchRecorded counts the match and posts it to Slack. Slack failures are logged only.
func (s *Server) matchRecorded(m *club.Match, dryRun bool) {
	s.Metrics.IncMatchesRecorded()
	s.Counters.Increment(metrics.KeyMatchesRecorded)
	log.Info("Match recorded", "matchID", m.ID, "winnerID", m.WinnerID, "players", len(m.Participants))

	if err := s.Notifier.SendMatchResult(m, dryRun); err != nil {
		log.Error("Failed to post match result", "matchID", m.ID, "error", err)
	}
}

func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

func parseMatchForm(r *http.Request) (int64, []int64, error) {
	if err := r.ParseForm(); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	winnerID, err := strconv.ParseInt(r.PostForm.Get("winner_id"), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: winner_id must be a player id", errBadRequest)
	}
	participants := make([]int64, 0, len(r.PostForm["participants"]))
	for _, raw := range r.PostForm["participants"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: invalid participant %q", errBadRequest, raw)
		}
		participants = append(participants, id)
	}
	return winnerID, participants, nil
}
