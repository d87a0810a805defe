package club

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// RecordMatch stores a match and its participants in a single transaction.
// Duplicate participant ids are ignored.
func (s *store) RecordMatch(ctx context.Context, winnerID int64, participantIDs []int64) (*Match, error) {
	ids := dedupe(participantIDs)
	if len(ids) < 2 {
		return nil, fmt.Errorf("%w: at least 2 distinct players required, got %d", ErrInvalidParticipants, len(ids))
	}
	if !slices.Contains(ids, winnerID) {
		return nil, fmt.Errorf("%w: winner %d is not a participant", ErrInvalidParticipants, winnerID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin record match", err)
	}
	defer tx.Rollback()

	players, err := playersByID(ctx, tx, ids)
	if err != nil {
		return nil, storageErr("load participants", err)
	}
	for _, id := range ids {
		if _, ok := players[id]; !ok {
			return nil, fmt.Errorf("%w: unknown player %d", ErrInvalidParticipants, id)
		}
	}

	playedAt := s.now()
	res, err := tx.ExecContext(ctx, "INSERT INTO matches (winner_id, played_at) VALUES (?, ?)", winnerID, playedAt.Unix())
	if err != nil {
		return nil, storageErr("insert match", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("read match id", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO match_players (match_id, player_id) VALUES (?, ?)")
	if err != nil {
		return nil, storageErr("prepare participants", err)
	}
	defer stmt.Close()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, matchID, id); err != nil {
			return nil, storageErr("insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit record match", err)
	}

	match := &Match{
		ID:         matchID,
		WinnerID:   winnerID,
		WinnerName: players[winnerID].Name,
		PlayedAt:   playedAt,
	}
	for _, id := range ids {
		match.Participants = append(match.Participants, players[id])
	}
	sortPlayers(match.Participants)

	log.Info("Recorded match", "matchID", matchID, "winner", match.WinnerName, "participants", len(ids))
	return match, nil
}

// GetMatch returns a match with its participants.
func (s *store) GetMatch(ctx context.Context, id int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match Match
	var playedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.winner_id, w.name, m.played_at
		FROM matches m
		JOIN players w ON w.id = m.winner_id
		WHERE m.id = ?
	`, id).Scan(&match.ID, &match.WinnerID, &match.WinnerName, &playedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: match %d", ErrNotFound, id)
		}
		return nil, storageErr("get match", err)
	}
	match.PlayedAt = fromUnix(playedAt)

	participants, err := participantsByMatch(ctx, s.db, []int64{id})
	if err != nil {
		return nil, storageErr("get match participants", err)
	}
	match.Participants = participants[id]
	return &match, nil
}

// playersByID loads the given players keyed by id. Unknown ids are absent from the map.
func playersByID(ctx context.Context, q queryer, ids []int64) (map[int64]Player, error) {
	players := make(map[int64]Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, created_at FROM players WHERE id IN ("+placeholders(len(ids))+")",
		ToAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players[p.ID] = p
	}
	return players, rows.Err()
}

// participantsByMatch loads the participants of the given matches, in name order.
func participantsByMatch(ctx context.Context, q queryer, matchIDs []int64) (map[int64][]Player, error) {
	result := make(map[int64][]Player, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}
	rows, err := q.QueryContext(ctx, `
		SELECT mp.match_id, p.id, p.name, p.created_at
		FROM match_players mp
		JOIN players p ON p.id = mp.player_id
		WHERE mp.match_id IN (`+placeholders(len(matchIDs))+`)
		ORDER BY p.name COLLATE NOCASE, p.id
	`, ToAnySlice(matchIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var matchID, createdAt int64
		var p Player
		if err := rows.Scan(&matchID, &p.ID, &p.Name, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = fromUnix(createdAt)
		result[matchID] = append(result[matchID], p)
	}
	return result, rows.Err()
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
