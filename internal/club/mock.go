package club

import (
	"context"
	"sync"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// Unset funcs return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc            func(ctx context.Context, name string) (*Player, error)
	ListPlayersFunc          func(ctx context.Context) ([]Player, error)
	GetPlayerFunc            func(ctx context.Context, id int64) (*Player, error)
	DeletePlayerFunc         func(ctx context.Context, id int64) error
	RecordMatchFunc          func(ctx context.Context, winnerID int64, participantIDs []int64) (*Match, error)
	GetMatchFunc             func(ctx context.Context, id int64) (*Match, error)
	GetLeaderboardFunc       func(ctx context.Context) ([]LeaderboardEntry, error)
	GetMostActiveFunc        func(ctx context.Context) ([]ActivityEntry, error)
	GetRecentMatchesFunc     func(ctx context.Context, limit int) ([]RecentMatch, error)
	GetWinStreaksFunc        func(ctx context.Context) ([]WinStreak, error)
	GetWeeklyLeaderboardFunc func(ctx context.Context) (*WeeklyLeaderboard, error)
	GetPodiumDaysFunc        func(ctx context.Context) ([]PodiumDays, error)
	ExportFunc               func(ctx context.Context) (*Snapshot, error)
	RestoreFunc              func(ctx context.Context, snapshot *Snapshot) error

	// Call records
	AddPlayerCalls    []string
	DeletePlayerCalls []int64
	RecordMatchCalls  []struct {
		WinnerID       int64
		ParticipantIDs []int64
	}
	GetRecentMatchesCalls []int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.DeletePlayerCalls = nil
	m.RecordMatchCalls = nil
	m.GetRecentMatchesCalls = nil
}

func (m *MockStore) AddPlayer(ctx context.Context, name string) (*Player, error) {
	m.mu.Lock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, name)
	m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, name)
	}
	return &Player{Name: name}, nil
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return []Player{}, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) DeletePlayer(ctx context.Context, id int64) error {
	m.mu.Lock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, id)
	m.mu.Unlock()
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) RecordMatch(ctx context.Context, winnerID int64, participantIDs []int64) (*Match, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, struct {
		WinnerID       int64
		ParticipantIDs []int64
	}{winnerID, participantIDs})
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(ctx, winnerID, participantIDs)
	}
	return &Match{WinnerID: winnerID}, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id int64) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx)
	}
	return []LeaderboardEntry{}, nil
}

func (m *MockStore) GetMostActive(ctx context.Context) ([]ActivityEntry, error) {
	if m.GetMostActiveFunc != nil {
		return m.GetMostActiveFunc(ctx)
	}
	return []ActivityEntry{}, nil
}

func (m *MockStore) GetRecentMatches(ctx context.Context, limit int) ([]RecentMatch, error) {
	m.mu.Lock()
	m.GetRecentMatchesCalls = append(m.GetRecentMatchesCalls, limit)
	m.mu.Unlock()
	if m.GetRecentMatchesFunc != nil {
		return m.GetRecentMatchesFunc(ctx, limit)
	}
	return []RecentMatch{}, nil
}

func (m *MockStore) GetWinStreaks(ctx context.Context) ([]WinStreak, error) {
	if m.GetWinStreaksFunc != nil {
		return m.GetWinStreaksFunc(ctx)
	}
	return []WinStreak{}, nil
}

func (m *MockStore) GetWeeklyLeaderboard(ctx context.Context) (*WeeklyLeaderboard, error) {
	if m.GetWeeklyLeaderboardFunc != nil {
		return m.GetWeeklyLeaderboardFunc(ctx)
	}
	return &WeeklyLeaderboard{Entries: []LeaderboardEntry{}}, nil
}

func (m *MockStore) GetPodiumDays(ctx context.Context) ([]PodiumDays, error) {
	if m.GetPodiumDaysFunc != nil {
		return m.GetPodiumDaysFunc(ctx)
	}
	return []PodiumDays{}, nil
}

func (m *MockStore) Export(ctx context.Context) (*Snapshot, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx)
	}
	return &Snapshot{Version: snapshotVersion}, nil
}

func (m *MockStore) Restore(ctx context.Context, snapshot *Snapshot) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, snapshot)
	}
	return nil
}
