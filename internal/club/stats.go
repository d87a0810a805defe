package club

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// window is a half-open [from, to) range of unix seconds.
type window struct {
	from, to int64
}

var allTime = window{from: math.MinInt64, to: math.MaxInt64}

type playerTotals struct {
	player Player
	wins   int
	played int
}

// totals counts wins and participations of every player within w.
func (s *store) totals(ctx context.Context, w window) ([]playerTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			p.id,
			p.name,
			p.created_at,
			(SELECT COUNT(*) FROM matches m
				WHERE m.winner_id = p.id AND m.played_at >= ? AND m.played_at < ?) AS wins,
			(SELECT COUNT(*) FROM match_players mp
				JOIN matches m ON m.id = mp.match_id
				WHERE mp.player_id = p.id AND m.played_at >= ? AND m.played_at < ?) AS matches_played
		FROM players p
	`, w.from, w.to, w.from, w.to)
	if err != nil {
		return nil, storageErr("query player totals", err)
	}
	defer rows.Close()

	var result []playerTotals
	for rows.Next() {
		var t playerTotals
		var createdAt int64
		if err := rows.Scan(&t.player.ID, &t.player.Name, &createdAt, &t.wins, &t.played); err != nil {
			return nil, storageErr("scan player totals", err)
		}
		t.player.CreatedAt = fromUnix(createdAt)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query player totals", err)
	}
	return result, nil
}

// GetLeaderboard returns every player ordered by wins, then win rate, then name.
func (s *store) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals, err := s.totals(ctx, allTime)
	if err != nil {
		log.Error("Failed to get leaderboard", "error", err)
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, newLeaderboardEntry(t.player, t.wins, t.played))
	}
	sortLeaderboard(entries)
	return entries, nil
}

// GetMostActive returns every player ordered by matches played, then wins, then name.
func (s *store) GetMostActive(ctx context.Context) ([]ActivityEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals, err := s.totals(ctx, allTime)
	if err != nil {
		log.Error("Failed to get most active players", "error", err)
		return nil, err
	}
	entries := make([]ActivityEntry, 0, len(totals))
	for _, t := range totals {
		entries = append(entries, ActivityEntry{Player: t.player, MatchesPlayed: t.played, Wins: t.wins})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return playerLess(a.Player, b.Player)
	})
	return entries, nil
}

// GetRecentMatches returns the latest matches, newest first.
func (s *store) GetRecentMatches(ctx context.Context, limit int) ([]RecentMatch, error) {
	if limit <= 0 {
		return []RecentMatch{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.winner_id, w.name, m.played_at
		FROM matches m
		JOIN players w ON w.id = m.winner_id
		ORDER BY m.played_at DESC, m.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageErr("query recent matches", err)
	}

	matches := []RecentMatch{}
	var ids []int64
	for rows.Next() {
		var m RecentMatch
		var playedAt int64
		if err := rows.Scan(&m.MatchID, &m.WinnerID, &m.WinnerName, &playedAt); err != nil {
			rows.Close()
			return nil, storageErr("scan recent match", err)
		}
		m.PlayedAt = fromUnix(playedAt)
		matches = append(matches, m)
		ids = append(ids, m.MatchID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, storageErr("query recent matches", err)
	}
	// The participant query needs the connection.
	rows.Close()

	participants, err := participantsByMatch(ctx, s.db, ids)
	if err != nil {
		return nil, storageErr("query recent match participants", err)
	}
	for i := range matches {
		opponents := []Player{}
		for _, p := range participants[matches[i].MatchID] {
			if p.ID != matches[i].WinnerID {
				opponents = append(opponents, p)
			}
		}
		matches[i].Opponents = opponents
	}
	return matches, nil
}

// GetWeeklyLeaderboard returns the leaderboard of the current Monday to Friday
// work week, limited to players who played that week.
func (s *store) GetWeeklyLeaderboard(ctx context.Context) (*WeeklyLeaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := workWeek(s.clock.Now(), s.loc)
	// Saturday 00:00 is the exclusive end of the window.
	totals, err := s.totals(ctx, window{from: start.Unix(), to: end.Add(time.Second).Unix()})
	if err != nil {
		log.Error("Failed to get weekly leaderboard", "error", err)
		return nil, err
	}

	board := &WeeklyLeaderboard{WeekStart: start, WeekEnd: end, Entries: []LeaderboardEntry{}}
	for _, t := range totals {
		if t.played == 0 {
			continue
		}
		board.Entries = append(board.Entries, newLeaderboardEntry(t.player, t.wins, t.played))
	}
	sortLeaderboard(board.Entries)
	return board, nil
}

// workWeek returns Monday 00:00:00 and Friday 23:59:59 of the week containing now.
func workWeek(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	sinceMonday := (int(local.Weekday()) + 6) % 7
	monday := time.Date(local.Year(), local.Month(), local.Day()-sinceMonday, 0, 0, 0, 0, loc)
	friday := time.Date(monday.Year(), monday.Month(), monday.Day()+4, 23, 59, 59, 0, loc)
	return monday, friday
}

func newLeaderboardEntry(p Player, wins, played int) LeaderboardEntry {
	return LeaderboardEntry{
		Player:        p,
		Wins:          wins,
		MatchesPlayed: played,
		WinRate:       winRate(wins, played),
	}
}

// winRate is wins/played, or 0 when nothing was played.
func winRate(wins, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(wins) / float64(played)
}

func sortLeaderboard(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return playerLess(a.Player, b.Player)
	})
}

// playerLess orders players by name ignoring case, then by id.
func playerLess(a, b Player) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}

func sortPlayers(players []Player) {
	sort.Slice(players, func(i, j int) bool {
		return playerLess(players[i], players[j])
	})
}
