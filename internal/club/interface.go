package club

import "context"

// Store defines the interface for interacting with the club's data.
type Store interface {
	AddPlayer(ctx context.Context, name string) (*Player, error)
	ListPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	RecordMatch(ctx context.Context, winnerID int64, participantIDs []int64) (*Match, error)
	GetMatch(ctx context.Context, id int64) (*Match, error)

	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	GetMostActive(ctx context.Context) ([]ActivityEntry, error)
	GetRecentMatches(ctx context.Context, limit int) ([]RecentMatch, error)
	GetWinStreaks(ctx context.Context) ([]WinStreak, error)
	GetWeeklyLeaderboard(ctx context.Context) (*WeeklyLeaderboard, error)
	GetPodiumDays(ctx context.Context) ([]PodiumDays, error)

	Export(ctx context.Context) (*Snapshot, error)
	Restore(ctx context.Context, snapshot *Snapshot) error
}
