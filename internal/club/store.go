package club

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/clock"
)

// New creates a new Store. Day and week boundaries of the reports are
// computed in loc; a nil loc means UTC.
func New(db *sql.DB, clk clock.Clock, loc *time.Location) Store {
	if loc == nil {
		loc = time.UTC
	}
	return &store{
		db:    db,
		clock: clk,
		loc:   loc,
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AddPlayer registers a new player. Names are trimmed and compared case-insensitively.
func (s *store) AddPlayer(ctx context.Context, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin add player", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE name = ? COLLATE NOCASE)", name).Scan(&exists)
	if err != nil {
		return nil, storageErr("check player name", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	createdAt := s.now()
	res, err := tx.ExecContext(ctx, "INSERT INTO players (name, created_at) VALUES (?, ?)", name, createdAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return nil, storageErr("insert player", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("read player id", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit add player", err)
	}

	log.Info("Added new player", "playerID", id, "name", name)
	return &Player{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// ListPlayers returns every player ordered by name.
func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPlayers(ctx, s.db)
}

func (s *store) listPlayers(ctx context.Context, q queryer) ([]Player, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, created_at FROM players ORDER BY name COLLATE NOCASE, id")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, storageErr("list players", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, storageErr("scan player", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list players", err)
	}
	return players, nil
}

// GetPlayer returns a single player by id.
func (s *store) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM players WHERE id = ?", id)
	p, err := scanPlayer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: player %d", ErrNotFound, id)
		}
		return nil, storageErr("get player", err)
	}
	return &p, nil
}

// DeletePlayer removes a player and their participation rows. Matches the
// player won are removed entirely, as are matches that would be left with
// fewer than two participants.
func (s *store) DeletePlayer(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin delete player", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", id).Scan(&exists); err != nil {
		return storageErr("check player", err)
	}
	if !exists {
		return fmt.Errorf("%w: player %d", ErrNotFound, id)
	}

	doomed, err := queryIDs(ctx, tx, `
		SELECT id FROM matches WHERE winner_id = ?
		UNION
		SELECT match_id FROM match_players
		WHERE match_id IN (SELECT match_id FROM match_players WHERE player_id = ?)
		GROUP BY match_id
		HAVING COUNT(*) <= 2
	`, id, id)
	if err != nil {
		return storageErr("find affected matches", err)
	}

	if len(doomed) > 0 {
		in := placeholders(len(doomed))
		if _, err := tx.ExecContext(ctx, "DELETE FROM match_players WHERE match_id IN ("+in+")", ToAnySlice(doomed)...); err != nil {
			return storageErr("delete match participants", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE id IN ("+in+")", ToAnySlice(doomed)...); err != nil {
			return storageErr("delete matches", err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM match_players WHERE player_id = ?", id); err != nil {
		return storageErr("delete participations", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id); err != nil {
		return storageErr("delete player", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit delete player", err)
	}

	log.Info("Deleted player", "playerID", id, "matches_removed", len(doomed))
	return nil
}

func (s *store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var p Player
	var createdAt int64
	if err := scanner.Scan(&p.ID, &p.Name, &createdAt); err != nil {
		return Player{}, err
	}
	p.CreatedAt = fromUnix(createdAt)
	return p, nil
}

func queryIDs(ctx context.Context, q queryer, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func fromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
