package notifier

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchResult(match *club.Match, dryRun bool) error
	// For the scheduled weekly report
	SendWeeklyLeaderboard(board *club.WeeklyLeaderboard, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []club.LeaderboardEntry) (any, error)
	FormatWinStreaksResponse(streaks []club.WinStreak) (any, error)
}

// ErrDeliveryFailed marks a notification the provider did not accept.
var ErrDeliveryFailed = errors.New("notification delivery failed")

var _ Notifier = Nop{}

// Nop is used when no Slack workspace is configured. Sends are logged and dropped.
type Nop struct{}

func (Nop) SendMatchResult(match *club.Match, dryRun bool) error {
	log.Debug("Notifications disabled, dropping match result", "matchID", match.ID)
	return nil
}

func (Nop) SendWeeklyLeaderboard(board *club.WeeklyLeaderboard, dryRun bool) error {
	log.Debug("Notifications disabled, dropping weekly leaderboard", "entries", len(board.Entries))
	return nil
}

func (Nop) FormatLeaderboardResponse(entries []club.LeaderboardEntry) (any, error) {
	return entries, nil
}

func (Nop) FormatWinStreaksResponse(streaks []club.WinStreak) (any, error) {
	return streaks, nil
}
