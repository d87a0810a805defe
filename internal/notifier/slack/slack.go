package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	"github.com/mauv0809/trio-tracker/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	loc       *time.Location
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier. Times are shown in loc.
func NewNotifier(token, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, loc, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, loc *time.Location, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		loc:       loc,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(match *club.Match, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(match), dryRun)
	return err
}

func (s *Notifier) SendWeeklyLeaderboard(board *club.WeeklyLeaderboard, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatWeeklyLeaderboard(board), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []club.LeaderboardEntry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

// FormatWinStreaksResponse formats the win streaks for a slash command response.
func (s *Notifier) FormatWinStreaksResponse(streaks []club.WinStreak) (any, error) {
	return s.formatWinStreaks(streaks), nil
}

func (s *Notifier) location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

func plainSection(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil)
}

func header(text string) *slack.HeaderBlock {
	return slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", text, true, false))
}

func medal(rank int) string {
	switch rank {
	case 1:
		return ":first_place_medal: "
	case 2:
		return ":second_place_medal: "
	case 3:
		return ":third_place_medal: "
	}
	return ""
}

// formatMatchResult creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatMatchResult(match *club.Match) slack.Message {
	blocks := []slack.Block{header(":trophy: Match recorded! :trophy:")}

	playedAt := match.PlayedAt.In(s.location()).Format("Monday 02 Jan, 15:04")
	blocks = append(blocks, plainSection(fmt.Sprintf("%s won on %s", match.WinnerName, playedAt)))

	var names []string
	for _, p := range match.Participants {
		names = append(names, "• "+p.Name)
	}
	if len(names) > 0 {
		blocks = append(blocks, plainSection("Players:\n"+strings.Join(names, "\n")))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Match #%d", match.ID), false, false)))

	return slack.NewBlockMessage(blocks...)
}

func leaderboardLine(rank int, e club.LeaderboardEntry) string {
	return fmt.Sprintf("%d. %s%s\n> Wins: %d/%d | Win rate: %.1f%%",
		rank,
		medal(rank),
		e.Player.Name,
		e.Wins,
		e.MatchesPlayed,
		e.WinRate*100,
	)
}

// formatLeaderboard creates a Slack message to display the all-time leaderboard.
func (s *Notifier) formatLeaderboard(entries []club.LeaderboardEntry) slack.Message {
	blocks := []slack.Block{header(":trophy: Leaderboard :trophy:")}

	if len(entries) == 0 {
		blocks = append(blocks, plainSection("No players yet. Add some and go play!"))
		return slack.NewBlockMessage(blocks...)
	}
	for i, e := range entries {
		blocks = append(blocks, plainSection(leaderboardLine(i+1, e)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatWeeklyLeaderboard creates the Friday report message.
func (s *Notifier) formatWeeklyLeaderboard(board *club.WeeklyLeaderboard) slack.Message {
	blocks := []slack.Block{header(":calendar: Weekly leaderboard :calendar:")}

	loc := s.location()
	period := fmt.Sprintf("%s - %s",
		board.WeekStart.In(loc).Format("Mon 02 Jan"),
		board.WeekEnd.In(loc).Format("Mon 02 Jan"))
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", period, false, false)))

	if len(board.Entries) == 0 {
		blocks = append(blocks, plainSection("No matches this week."))
		return slack.NewBlockMessage(blocks...)
	}
	for i, e := range board.Entries {
		blocks = append(blocks, plainSection(leaderboardLine(i+1, e)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatWinStreaks lists the players currently on a winning streak.
func (s *Notifier) formatWinStreaks(streaks []club.WinStreak) slack.Message {
	blocks := []slack.Block{header(":fire: Win streaks :fire:")}

	var lines []string
	for _, ws := range streaks {
		if ws.Streak == 0 {
			continue
		}
		unit := "wins"
		if ws.Streak == 1 {
			unit = "win"
		}
		lines = append(lines, fmt.Sprintf("*%s*: %d %s in a row", ws.Player.Name, ws.Streak, unit))
	}
	if len(lines) == 0 {
		blocks = append(blocks, plainSection("Nobody is on a streak right now."))
		return slack.NewBlockMessage(blocks...)
	}

	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}
