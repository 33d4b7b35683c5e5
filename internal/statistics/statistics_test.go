package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.ReturnRate())
	assert.Zero(t, stats.WinRate())
	assert.Error(t, stats.Validate())
}

func TestStatistics_SingleRound(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 15, Bet: 10, Outcome: game.PlayerBlackjack})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 15.0, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 15.0, stats.Median())
	assert.Equal(t, 1, stats.PlayerBlackjacks)
	assert.Equal(t, 15.0, stats.BiggestWin)
	assert.Equal(t, 1.5, stats.ReturnRate())
	require.NoError(t, stats.Validate())
}

func sampleStats() *Statistics {
	stats := &Statistics{}
	for _, r := range []RoundResult{
		{Net: 10, Bet: 10, Outcome: game.PlayerWon},
		{Net: -10, Bet: 10, Outcome: game.DealerWon},
		{Net: 15, Bet: 10, Outcome: game.PlayerBlackjack},
		{Net: 0, Bet: 10, Outcome: game.Push},
		{Net: -10, Bet: 10, Outcome: game.DealerBlackjack},
	} {
		stats.Add(r)
	}
	return stats
}

func TestStatistics_MultipleRounds(t *testing.T) {
	stats := sampleStats()

	assert.Equal(t, 5, stats.Rounds)
	assert.Equal(t, 1.0, stats.Mean())
	assert.Equal(t, 0.0, stats.Median())
	assert.Equal(t, 50.0, stats.Wagered)
	assert.InDelta(t, 0.1, stats.ReturnRate(), 1e-9)
	assert.InDelta(t, 0.4, stats.WinRate(), 1e-9)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Pushes)
	assert.Equal(t, 1, stats.PlayerBlackjacks)
	assert.Equal(t, 1, stats.DealerBlackjacks)
	assert.Equal(t, 15.0, stats.BiggestWin)
	assert.Equal(t, 10.0, stats.BiggestLoss)

	// values 10 -10 15 0 -10, mean 1: squared deviations 81+121+196+1+121 = 520
	assert.InDelta(t, 130.0, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(130), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(130)/math.Sqrt(5), stats.StdError(), 1e-9)

	low, high := stats.ConfidenceInterval95()
	assert.Less(t, low, stats.Mean())
	assert.Greater(t, high, stats.Mean())
	assert.InDelta(t, high-stats.Mean(), stats.Mean()-low, 1e-9)

	require.NoError(t, stats.Validate())
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := sampleStats()

	assert.Equal(t, -10.0, stats.Percentile(0))
	assert.Equal(t, 15.0, stats.Percentile(1))
	assert.Equal(t, 0.0, stats.Percentile(0.5))
	// sorted -10 -10 0 10 15; p=0.75 → index 3
	assert.Equal(t, 10.0, stats.Percentile(0.75))
	// p=0.875 → index 3.5
	assert.Equal(t, 12.5, stats.Percentile(0.875))
}

func TestStatistics_Merge(t *testing.T) {
	a := sampleStats()
	b := sampleStats()
	b.Add(RoundResult{Net: -40, Bet: 40, Outcome: game.DealerWon})

	a.Merge(b)
	assert.Equal(t, 11, a.Rounds)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 3, a.Losses)
	assert.Equal(t, 40.0, a.BiggestLoss)
	assert.Len(t, a.Values, 11)
	require.NoError(t, a.Validate())
}

func TestStatistics_Validate(t *testing.T) {
	t.Run("values mismatch", func(t *testing.T) {
		stats := sampleStats()
		stats.Values = stats.Values[:3]
		assert.ErrorContains(t, stats.Validate(), "values array length")
	})

	t.Run("outcome mismatch", func(t *testing.T) {
		stats := sampleStats()
		stats.Wins++
		assert.ErrorContains(t, stats.Validate(), "outcome total")
	})

	t.Run("net mismatch", func(t *testing.T) {
		stats := sampleStats()
		stats.SumNet += 5
		assert.ErrorContains(t, stats.Validate(), "net mismatch")
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	bus := game.NewEventBus()
	bus.Subscribe(c)

	bus.Publish(game.RoundStartedEvent{RoundID: "r1", Bet: 10})
	bus.Publish(game.RoundSettledEvent{Result: game.RoundResult{
		RoundID: "r1", Outcome: game.PlayerWon, Bet: 10, Payout: 20,
	}})
	bus.Publish(game.RoundSettledEvent{Result: game.RoundResult{
		RoundID: "r2", Outcome: game.Push, Bet: 10, Payout: 10,
	}})

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Rounds)
	assert.Equal(t, 10.0, snap.SumNet)
	assert.Equal(t, 1, snap.Wins)
	assert.Equal(t, 1, snap.Pushes)

	snap.Values[0] = 999
	assert.Equal(t, 10.0, c.Snapshot().Values[0], "snapshot is a copy")
}
