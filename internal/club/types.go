package club

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/trio-tracker/internal/clock"
)

// store handles all database operations for the club.
type store struct {
	db    *sql.DB
	clock clock.Clock
	loc   *time.Location
	mu    sync.RWMutex
}

// Player is a registered member of the club.
type Player struct {
	ID        int64     `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// Match is a recorded game together with everyone who took part in it.
type Match struct {
	ID           int64     `json:"id"`
	WinnerID     int64     `json:"winner_id"`
	WinnerName   string    `json:"winner_name"`
	PlayedAt     time.Time `json:"played_at"`
	Participants []Player  `json:"participants"`
}

// LeaderboardEntry represents a player's standing on the leaderboard.
type LeaderboardEntry struct {
	Player        Player  `json:"player"`
	Wins          int     `json:"wins"`
	MatchesPlayed int     `json:"matches_played"`
	WinRate       float64 `json:"win_rate"`
}

// ActivityEntry represents how often a player has played.
type ActivityEntry struct {
	Player        Player `json:"player"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
}

// RecentMatch is a row of the recent matches report.
type RecentMatch struct {
	MatchID    int64     `json:"match_id"`
	WinnerID   int64     `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	PlayedAt   time.Time `json:"played_at"`
	Opponents  []Player  `json:"opponents"`
}

// WinStreak is the number of consecutive wins ending at a player's latest match.
type WinStreak struct {
	Player Player `json:"player"`
	Streak int    `json:"streak_length"`
}

// WeeklyLeaderboard is the leaderboard of the current Monday to Friday work week.
type WeeklyLeaderboard struct {
	WeekStart time.Time          `json:"week_start"`
	WeekEnd   time.Time          `json:"week_end"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// PodiumDays reports the best leaderboard position a player has held at the
// end of a match day, and on how many match days they held it.
type PodiumDays struct {
	Player       Player `json:"player"`
	BestPosition int    `json:"best_position"`
	Days         int    `json:"days"`
}

// Snapshot is a full copy of the club's data, used for backups and seeding.
type Snapshot struct {
	Version    int             `json:"version" msgpack:"version"`
	ExportedAt time.Time       `json:"exported_at" msgpack:"exported_at"`
	Players    []Player        `json:"players" msgpack:"players"`
	Matches    []SnapshotMatch `json:"matches" msgpack:"matches"`
}

// SnapshotMatch is a match as stored in a Snapshot.
type SnapshotMatch struct {
	ID             int64     `json:"id" msgpack:"id"`
	WinnerID       int64     `json:"winner_id" msgpack:"winner_id"`
	PlayedAt       time.Time `json:"played_at" msgpack:"played_at"`
	ParticipantIDs []int64   `json:"participant_ids" msgpack:"participant_ids"`
}
