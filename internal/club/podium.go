package club

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

const podiumSize = 3

// matchRecord is a match reduced to what the podium computation needs.
type matchRecord struct {
	id           int64
	winnerID     int64
	playedAt     int64
	participants []int64
}

// GetPodiumDays reports, per player, the best top-3 position they held at the
// end of a match day and for how many match days they held it.
func (s *store) GetPodiumDays(ctx context.Context) ([]PodiumDays, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players, err := s.listPlayers(ctx, s.db)
	if err != nil {
		log.Error("Failed to get podium days", "error", err)
		return nil, err
	}
	matches, err := s.matchRecords(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return computePodiumDays(players, matches, s.loc), nil
}

// matchRecords loads every match with its participant ids, oldest first.
func (s *store) matchRecords(ctx context.Context, q queryer) ([]matchRecord, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, winner_id, played_at FROM matches ORDER BY played_at, id")
	if err != nil {
		return nil, storageErr("query matches", err)
	}
	var matches []matchRecord
	index := make(map[int64]int)
	for rows.Next() {
		var m matchRecord
		if err := rows.Scan(&m.id, &m.winnerID, &m.playedAt); err != nil {
			rows.Close()
			return nil, storageErr("scan match", err)
		}
		index[m.id] = len(matches)
		matches = append(matches, m)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, storageErr("query matches", err)
	}

	rows, err = q.QueryContext(ctx, "SELECT match_id, player_id FROM match_players ORDER BY match_id, player_id")
	if err != nil {
		return nil, storageErr("query participants", err)
	}
	defer rows.Close()
	for rows.Next() {
		var matchID, playerID int64
		if err := rows.Scan(&matchID, &playerID); err != nil {
			return nil, storageErr("scan participant", err)
		}
		if i, ok := index[matchID]; ok {
			matches[i].participants = append(matches[i].participants, playerID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query participants", err)
	}
	return matches, nil
}

// computePodiumDays replays matches day by day, building the cumulative
// leaderboard at the end of each match day. matches must be ordered by time.
func computePodiumDays(players []Player, matches []matchRecord, loc *time.Location) []PodiumDays {
	byID := make(map[int64]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	wins := make(map[int64]int)
	played := make(map[int64]int)
	podium := make(map[int64]*PodiumDays)

	closeDay := func() {
		var board []LeaderboardEntry
		for id, n := range played {
			p, ok := byID[id]
			if !ok || n == 0 {
				continue
			}
			board = append(board, newLeaderboardEntry(p, wins[id], n))
		}
		sortLeaderboard(board)
		for i := 0; i < len(board) && i < podiumSize; i++ {
			position := i + 1
			p := board[i].Player
			current, ok := podium[p.ID]
			switch {
			case !ok || position < current.BestPosition:
				podium[p.ID] = &PodiumDays{Player: p, BestPosition: position, Days: 1}
			case position == current.BestPosition:
				current.Days++
			}
		}
	}

	var day string
	for _, m := range matches {
		d := time.Unix(m.playedAt, 0).In(loc).Format(time.DateOnly)
		if day != "" && d != day {
			closeDay()
		}
		day = d
		wins[m.winnerID]++
		for _, id := range m.participants {
			played[id]++
		}
	}
	if day != "" {
		closeDay()
	}

	result := make([]PodiumDays, 0, len(podium))
	for _, pd := range podium {
		result = append(result, *pd)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.BestPosition != b.BestPosition {
			return a.BestPosition < b.BestPosition
		}
		if a.Days != b.Days {
			return a.Days > b.Days
		}
		return playerLess(a.Player, b.Player)
	})
	return result
}
