package club

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStreaks_UnorderedHistory(t *testing.T) {
	players := []Player{{ID: 1, Name: "A"}, {ID: 2, Name: "b"}}
	// Same timestamp: the higher match id is the more recent one.
	history := []participation{
		{playerID: 1, matchID: 1, winnerID: 1, playedAt: 100},
		{playerID: 2, matchID: 1, winnerID: 1, playedAt: 100},
		{playerID: 1, matchID: 3, winnerID: 1, playedAt: 200},
		{playerID: 2, matchID: 3, winnerID: 1, playedAt: 200},
		{playerID: 1, matchID: 2, winnerID: 2, playedAt: 100},
		{playerID: 2, matchID: 2, winnerID: 2, playedAt: 100},
	}

	streaks := computeStreaks(players, history)
	require.Len(t, streaks, 2)
	assert.Equal(t, WinStreak{Player: players[0], Streak: 1}, streaks[0])
	assert.Equal(t, WinStreak{Player: players[1], Streak: 0}, streaks[1])
}

func TestComputeStreaks_NoHistory(t *testing.T) {
	players := []Player{{ID: 2, Name: "zoe"}, {ID: 1, Name: "Al"}}

	streaks := computeStreaks(players, nil)
	require.Len(t, streaks, 2)
	assert.Equal(t, "Al", streaks[0].Player.Name)
	assert.Zero(t, streaks[0].Streak)
	assert.Zero(t, streaks[1].Streak)
}

func TestComputePodiumDays_UsesLocationForDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	players := []Player{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	evening := time.Date(2025, time.March, 10, 21, 30, 0, 0, time.UTC).Unix()

	matches := []matchRecord{
		{id: 1, winnerID: 1, playedAt: evening, participants: []int64{1, 2}},
		// 23:45 UTC is already the next day at UTC+2.
		{id: 2, winnerID: 2, playedAt: evening + 8100, participants: []int64{1, 2}},
		{id: 3, winnerID: 2, playedAt: evening + 8200, participants: []int64{1, 2}},
	}

	inUTC := computePodiumDays(players, matches, time.UTC)
	require.Len(t, inUTC, 2)
	assert.Equal(t, PodiumDays{Player: players[1], BestPosition: 1, Days: 1}, inUTC[0])
	assert.Equal(t, PodiumDays{Player: players[0], BestPosition: 2, Days: 1}, inUTC[1])

	local := computePodiumDays(players, matches, loc)
	require.Len(t, local, 2)
	assert.Equal(t, PodiumDays{Player: players[0], BestPosition: 1, Days: 1}, local[0])
	assert.Equal(t, PodiumDays{Player: players[1], BestPosition: 1, Days: 1}, local[1])
}

func TestComputePodiumDays_OnlyTopThree(t *testing.T) {
	players := []Player{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	matches := []matchRecord{
		{id: 1, winnerID: 1, playedAt: 0, participants: []int64{1, 2, 3, 4}},
		{id: 2, winnerID: 2, playedAt: 10, participants: []int64{2, 3, 4}},
		{id: 3, winnerID: 3, playedAt: 20, participants: []int64{3, 4}},
	}

	podium := computePodiumDays(players, matches, time.UTC)
	require.Len(t, podium, 3)
	for _, pd := range podium {
		assert.NotEqual(t, "D", pd.Player.Name)
	}
}

func TestWorkWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"monday midnight", time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2025, time.March, 12, 15, 4, 5, 0, time.UTC)},
		{"saturday", time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)},
		{"sunday night", time.Date(2025, time.March, 16, 23, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := workWeek(tt.now, time.UTC)
			assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2025, time.March, 14, 23, 59, 59, 0, time.UTC), end)
		})
	}
}
