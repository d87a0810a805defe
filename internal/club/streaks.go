package club

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
)

// participation is one row of a player's match history.
type participation struct {
	playerID int64
	matchID  int64
	winnerID int64
	playedAt int64
}

// GetWinStreaks returns the current win streak of every player, longest first.
func (s *store) GetWinStreaks(ctx context.Context) ([]WinStreak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players, err := s.listPlayers(ctx, s.db)
	if err != nil {
		log.Error("Failed to get win streaks", "error", err)
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT mp.player_id, m.id, m.winner_id, m.played_at
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
		ORDER BY m.played_at DESC, m.id DESC
	`)
	if err != nil {
		return nil, storageErr("query match history", err)
	}
	defer rows.Close()

	var history []participation
	for rows.Next() {
		var p participation
		if err := rows.Scan(&p.playerID, &p.matchID, &p.winnerID, &p.playedAt); err != nil {
			return nil, storageErr("scan match history", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query match history", err)
	}

	return computeStreaks(players, history), nil
}

// computeStreaks walks each player's own history from the most recent match
// backwards and counts wins until the first match they did not win.
func computeStreaks(players []Player, history []participation) []WinStreak {
	ordered := make([]participation, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].playedAt != ordered[j].playedAt {
			return ordered[i].playedAt > ordered[j].playedAt
		}
		return ordered[i].matchID > ordered[j].matchID
	})

	streaks := make(map[int64]int, len(players))
	broken := make(map[int64]bool, len(players))
	for _, p := range ordered {
		if broken[p.playerID] {
			continue
		}
		if p.winnerID == p.playerID {
			streaks[p.playerID]++
		} else {
			broken[p.playerID] = true
		}
	}

	result := make([]WinStreak, 0, len(players))
	for _, p := range players {
		result = append(result, WinStreak{Player: p, Streak: streaks[p.ID]})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Streak != result[j].Streak {
			return result[i].Streak > result[j].Streak
		}
		return playerLess(result[i].Player, result[j].Player)
	})
	return result
}
