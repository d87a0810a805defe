package club

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// Export returns a copy of every player and match.
func (s *store) Export(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players, err := s.listPlayers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	records, err := s.matchRecords(ctx, s.db)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		Version:    snapshotVersion,
		ExportedAt: s.now(),
		Players:    players,
		Matches:    make([]SnapshotMatch, 0, len(records)),
	}
	for _, r := range records {
		snapshot.Matches = append(snapshot.Matches, SnapshotMatch{
			ID:             r.id,
			WinnerID:       r.winnerID,
			PlayedAt:       fromUnix(r.playedAt),
			ParticipantIDs: r.participants,
		})
	}
	return snapshot, nil
}

// Restore loads a snapshot into an empty store, keeping the snapshot's ids.
func (s *store) Restore(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	if snapshot.Version != snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snapshot.Version)
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin restore", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT (SELECT COUNT(*) FROM players) + (SELECT COUNT(*) FROM matches)").Scan(&count); err != nil {
		return storageErr("count rows", err)
	}
	if count > 0 {
		return ErrRestoreNotEmpty
	}

	for _, p := range snapshot.Players {
		_, err := tx.ExecContext(ctx, "INSERT INTO players (id, name, created_at) VALUES (?, ?, ?)", p.ID, strings.TrimSpace(p.Name), p.CreatedAt.Unix())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
			}
			return storageErr("restore player", err)
		}
	}
	for _, m := range snapshot.Matches {
		if _, err := tx.ExecContext(ctx, "INSERT INTO matches (id, winner_id, played_at) VALUES (?, ?, ?)", m.ID, m.WinnerID, m.PlayedAt.Unix()); err != nil {
			return storageErr("restore match", err)
		}
		for _, id := range dedupe(m.ParticipantIDs) {
			if _, err := tx.ExecContext(ctx, "INSERT INTO match_players (match_id, player_id) VALUES (?, ?)", m.ID, id); err != nil {
				return storageErr("restore participant", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit restore", err)
	}

	log.Info("Restored snapshot", "players", len(snapshot.Players), "matches", len(snapshot.Matches))
	return nil
}

// validateSnapshot applies the same rules as AddPlayer and RecordMatch, and
// requires player and match ids to be unique.
func validateSnapshot(snapshot *Snapshot) error {
	known := make(map[int64]bool, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d", ErrInvalidName, p.ID)
		}
		if known[p.ID] {
			return fmt.Errorf("%w: duplicate player id %d", ErrInvalidSnapshot, p.ID)
		}
		known[p.ID] = true
	}
	matchIDs := make(map[int64]bool, len(snapshot.Matches))
	for _, m := range snapshot.Matches {
		if matchIDs[m.ID] {
			return fmt.Errorf("%w: duplicate match id %d", ErrInvalidSnapshot, m.ID)
		}
		matchIDs[m.ID] = true
		ids := dedupe(m.ParticipantIDs)
		if len(ids) < 2 {
			return fmt.Errorf("%w: match %d has %d distinct players", ErrInvalidParticipants, m.ID, len(ids))
		}
		if !slices.Contains(ids, m.WinnerID) {
			return fmt.Errorf("%w: winner of match %d is not a participant", ErrInvalidParticipants, m.ID)
		}
		for _, id := range ids {
			if !known[id] {
				return fmt.Errorf("%w: match %d references unknown player %d", ErrInvalidParticipants, m.ID, id)
			}
		}
	}
	return nil
}

// EncodeSnapshot writes a snapshot as MessagePack.
func EncodeSnapshot(w io.Writer, snapshot *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snapshot)
}

// DecodeSnapshot reads a MessagePack snapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snapshot Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
