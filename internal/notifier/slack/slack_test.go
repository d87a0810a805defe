package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testMatch() *club.Match {
	alice := club.Player{ID: 1, Name: "Alice"}
	bob := club.Player{ID: 2, Name: "Bob"}
	return &club.Match{
		ID:           42,
		WinnerID:     alice.ID,
		WinnerName:   alice.Name,
		PlayedAt:     time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC),
		Participants: []club.Player{alice, bob},
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", time.UTC, metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", time.UTC, metrics)

	message := slackapi.NewBlockMessage(plainSection("hello"))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", time.UTC, metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchResult_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", time.UTC, metrics.NewMock())

	require.NoError(t, notifier.SendMatchResult(testMatch(), false))
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendMatchResult")
}

func TestFormatMatchResult(t *testing.T) {
	client := &Notifier{channelID: "C123", loc: time.FixedZone("CEST", 2*60*60)}
	msg := client.formatMatchResult(testMatch())
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	headerBlock, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, ":trophy: Match recorded! :trophy:", headerBlock.Text.Text)

	details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Alice won on Wednesday 09 Jul, 20:00", details.Text.Text)

	players, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Players:\n• Alice\n• Bob", players.Text.Text)

	contextBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok)
	require.Len(t, contextBlock.ContextElements.Elements, 1)
	element, ok := contextBlock.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Match #42", element.Text)
}

func TestFormatLeaderboard(t *testing.T) {
	t.Run("displays leaderboard with stats", func(t *testing.T) {
		entries := []club.LeaderboardEntry{
			{Player: club.Player{Name: "Player A"}, Wins: 2, MatchesPlayed: 3, WinRate: 2.0 / 3},
			{Player: club.Player{Name: "Player B"}, Wins: 1, MatchesPlayed: 2, WinRate: 0.5},
			{Player: club.Player{Name: "Player C"}, Wins: 0, MatchesPlayed: 1, WinRate: 0},
			{Player: club.Player{Name: "Player D"}},
		}

		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(entries)
		require.Len(t, msg.Blocks.BlockSet, 5, "Expected 5 blocks (header + 4 players)")

		player1, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "1. :first_place_medal: Player A\n> Wins: 2/3 | Win rate: 66.7%", player1.Text.Text)

		player2, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, player2.Text.Text, "2. :second_place_medal: Player B")

		player4, ok := msg.Blocks.BlockSet[4].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "4. Player D\n> Wins: 0/0 | Win rate: 0.0%", player4.Text.Text)
	})

	t.Run("displays message when there are no players", func(t *testing.T) {
		client := &Notifier{channelID: "C123"}
		msg := client.formatLeaderboard(nil)

		require.Len(t, msg.Blocks.BlockSet, 2, "Expected 2 blocks (header + message)")
		message, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No players yet. Add some and go play!", message.Text.Text)
	})
}

func TestFormatWeeklyLeaderboard(t *testing.T) {
	client := &Notifier{channelID: "C123", loc: time.UTC}
	board := &club.WeeklyLeaderboard{
		WeekStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC),
	}

	msg := client.formatWeeklyLeaderboard(board)
	require.Len(t, msg.Blocks.BlockSet, 3)
	period, ok := msg.Blocks.BlockSet[1].(*slackapi.ContextBlock)
	require.True(t, ok)
	element, ok := period.ContextElements.Elements[0].(*slackapi.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, "Mon 10 Mar - Fri 14 Mar", element.Text)
	empty, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "No matches this week.", empty.Text.Text)

	board.Entries = []club.LeaderboardEntry{{Player: club.Player{Name: "Alice"}, Wins: 3, MatchesPlayed: 4, WinRate: 0.75}}
	msg = client.formatWeeklyLeaderboard(board)
	require.Len(t, msg.Blocks.BlockSet, 3)
	line, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "1. :first_place_medal: Alice\n> Wins: 3/4 | Win rate: 75.0%", line.Text.Text)
}

func TestFormatWinStreaks(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("lists players on a streak", func(t *testing.T) {
		msg := client.formatWinStreaks([]club.WinStreak{
			{Player: club.Player{Name: "Bob"}, Streak: 3},
			{Player: club.Player{Name: "Alice"}, Streak: 1},
			{Player: club.Player{Name: "Carol"}, Streak: 0},
		})
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "mrkdwn", section.Text.Type)
		assert.Equal(t, "*Bob*: 3 wins in a row\n*Alice*: 1 win in a row", section.Text.Text)
	})

	t.Run("nobody on a streak", func(t *testing.T) {
		msg := client.formatWinStreaks([]club.WinStreak{{Player: club.Player{Name: "Carol"}}})
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Nobody is on a streak right now.", section.Text.Text)
	})
}
