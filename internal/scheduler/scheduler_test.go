package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countersSpy struct {
	keys []string
}

func (c *countersSpy) Increment(key string) {
	c.keys = append(c.keys, key)
}

func (c *countersSpy) GetAll() (map[string]int, error) {
	counts := map[string]int{}
	for _, k := range c.keys {
		counts[k]++
	}
	return counts, nil
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("not a cron", time.UTC, club.NewMock(), notifier.NewMock(), &countersSpy{})
	assert.Error(t, err)
}

func TestPostWeeklyLeaderboard(t *testing.T) {
	board := &club.WeeklyLeaderboard{
		WeekStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WeekEnd:   time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC),
		Entries:   []club.LeaderboardEntry{{Player: club.Player{ID: 1, Name: "Alice"}, Wins: 2, MatchesPlayed: 2, WinRate: 1}},
	}
	store := club.NewMock()
	store.GetWeeklyLeaderboardFunc = func(ctx context.Context) (*club.WeeklyLeaderboard, error) {
		return board, nil
	}
	n := notifier.NewMock()
	counters := &countersSpy{}

	s, err := New("0 16 * * 5", time.UTC, store, n, counters)
	require.NoError(t, err)

	require.NoError(t, s.PostWeeklyLeaderboard(context.Background(), true))
	require.Len(t, n.SendWeeklyLeaderboardCalls, 1)
	assert.Same(t, board, n.SendWeeklyLeaderboardCalls[0])
	assert.Equal(t, []bool{true}, n.DryRunCalls)
	assert.Equal(t, []string{"weekly_reports_run"}, counters.keys)
}

func TestPostWeeklyLeaderboard_Errors(t *testing.T) {
	t.Run("store failure", func(t *testing.T) {
		store := club.NewMock()
		store.GetWeeklyLeaderboardFunc = func(ctx context.Context) (*club.WeeklyLeaderboard, error) {
			return nil, club.ErrStorageUnavailable
		}
		n := notifier.NewMock()
		s, err := New("@weekly", time.UTC, store, n, &countersSpy{})
		require.NoError(t, err)

		err = s.PostWeeklyLeaderboard(context.Background(), false)
		assert.ErrorIs(t, err, club.ErrStorageUnavailable)
		assert.NotErrorIs(t, err, notifier.ErrDeliveryFailed)
		assert.Empty(t, n.SendWeeklyLeaderboardCalls)
	})

	t.Run("slack failure", func(t *testing.T) {
		slackErr := errors.New("channel_not_found")
		n := notifier.NewMock()
		n.SendWeeklyLeaderboardFunc = func(board *club.WeeklyLeaderboard, dryRun bool) error {
			return slackErr
		}
		counters := &countersSpy{}
		s, err := New("@weekly", time.UTC, club.NewMock(), n, counters)
		require.NoError(t, err)

		err = s.PostWeeklyLeaderboard(context.Background(), false)
		assert.ErrorIs(t, err, slackErr)
		assert.ErrorIs(t, err, notifier.ErrDeliveryFailed)
		assert.Empty(t, counters.keys)
	})
}

func TestStartStop(t *testing.T) {
	s, err := New("0 16 * * 5", time.UTC, club.NewMock(), notifier.NewMock(), &countersSpy{})
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
