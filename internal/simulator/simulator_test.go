package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

func testConfig(t *testing.T) Config {
	return Config{
		Rounds:          200,
		Tables:          4,
		Bet:             10,
		DeckCount:       6,
		StartingBalance: 1000,
		Seed:            12345,
		Strategy:        strategy.Basic{},
		Logger:          log.New(io.Discard),
		Clock:           quartz.NewMock(t),
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(Config{Rounds: 1})
	assert.Equal(t, 1, s.config.Tables)
	assert.Equal(t, 6, s.config.DeckCount)
	assert.Equal(t, 10.0, s.config.Bet)
	assert.Equal(t, 1000.0, s.config.StartingBalance)
	assert.Equal(t, "basic", s.config.Strategy.Name())
	assert.NotZero(t, s.config.Seed)
}

func TestRun(t *testing.T) {
	result, err := New(testConfig(t)).Run(context.Background())
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, 200, stats.Rounds)
	assert.Equal(t, 2000.0, stats.Wagered)
	assert.Equal(t, "basic", result.Strategy)
	assert.Equal(t, 4, result.Tables)
	assert.Equal(t, int64(12345), result.Seed)
	require.NoError(t, stats.Validate())

	// every round settles for one of the five payouts
	for _, v := range stats.Values {
		assert.Contains(t, []float64{-10, 0, 10, 15}, v)
	}
}

func TestRun_Deterministic(t *testing.T) {
	first, err := New(testConfig(t)).Run(context.Background())
	require.NoError(t, err)
	second, err := New(testConfig(t)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Stats.SumNet, second.Stats.SumNet)
	assert.Equal(t, first.Stats.Wins, second.Stats.Wins)
	assert.Equal(t, first.Reshuffles, second.Reshuffles)
}

func TestRun_ReshufflesLongSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables = 1
	cfg.DeckCount = 1
	cfg.Rounds = 300

	s := New(cfg)
	assert.Equal(t, MinDeckCount, s.config.DeckCount)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, result.Stats.Rounds)
	// a two-deck shoe reaches its cut card every dozen or so rounds
	assert.Greater(t, result.Reshuffles, 5)
}

func TestRun_Rebuys(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tables = 1
	cfg.StartingBalance = 10
	cfg.Rounds = 50

	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, result.Stats.Rounds)
	assert.Positive(t, result.Rebuys)
}

func TestRun_MoreTablesThanRounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rounds = 3
	cfg.Tables = 8

	result, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stats.Rounds)
}

func TestRun_InvalidRounds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rounds = 0
	_, err := New(cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	stats := &statistics.Statistics{}
	stats.Add(statistics.RoundResult{Net: 15, Bet: 10, Outcome: game.PlayerBlackjack})
	stats.Add(statistics.RoundResult{Net: -10, Bet: 10, Outcome: game.DealerWon})

	out := Summary(&Result{Stats: stats, Strategy: "basic", Tables: 1, Seed: 7})
	assert.Contains(t, out, "=== RESULTS: basic strategy ===")
	assert.Contains(t, out, "Rounds played: 2 on 1 table(s)")
	assert.Contains(t, out, "Blackjacks: 1 (50.0%)")
	assert.Contains(t, out, "Net: +5.00 over 20.00 wagered")
	assert.Contains(t, out, "Return: +25.000%")
}
