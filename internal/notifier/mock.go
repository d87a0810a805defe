package notifier

import (
	"sync"

	"github.com/mauv0809/trio-tracker/internal/club"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchResultCalls       []*club.Match
	SendWeeklyLeaderboardCalls []*club.WeeklyLeaderboard
	DryRunCalls                []bool

	// Spies
	SendMatchResultFunc           func(match *club.Match, dryRun bool) error
	SendWeeklyLeaderboardFunc     func(board *club.WeeklyLeaderboard, dryRun bool) error
	FormatLeaderboardResponseFunc func(entries []club.LeaderboardEntry) (any, error)
	FormatWinStreaksResponseFunc  func(streaks []club.WinStreak) (any, error)

	// Call records for format functions
	LastLeaderboardResponse any
	LastWinStreaksResponse  any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendWeeklyLeaderboardCalls = nil
	m.DryRunCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastWinStreaksResponse = nil
}

func (m *Mock) SendMatchResult(match *club.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, match)
	m.DryRunCalls = append(m.DryRunCalls, dryRun)
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(match, dryRun)
	}
	return nil
}

func (m *Mock) SendWeeklyLeaderboard(board *club.WeeklyLeaderboard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendWeeklyLeaderboardCalls = append(m.SendWeeklyLeaderboardCalls, board)
	m.DryRunCalls = append(m.DryRunCalls, dryRun)
	if m.SendWeeklyLeaderboardFunc != nil {
		return m.SendWeeklyLeaderboardFunc(board, dryRun)
	}
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []club.LeaderboardEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(entries)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	return "formatted_leaderboard", nil
}

func (m *Mock) FormatWinStreaksResponse(streaks []club.WinStreak) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatWinStreaksResponseFunc != nil {
		resp, err := m.FormatWinStreaksResponseFunc(streaks)
		m.LastWinStreaksResponse = resp
		return resp, err
	}
	return "formatted_win_streaks", nil
}

// MatchResultsSent returns how many match results were sent.
func (m *Mock) MatchResultsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendMatchResultCalls)
}
