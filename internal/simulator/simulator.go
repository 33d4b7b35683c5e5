// Package simulator plays many automated rounds against a local shoe and
// reports the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/cardsource"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
)

// MinDeckCount is the smallest shoe a simulated table uses
const MinDeckCount = 2

// Config holds configuration for running simulations
type Config struct {
	Rounds          int
	Tables          int
	Bet             float64
	DeckCount       int
	StartingBalance float64
	Seed            int64
	Strategy        strategy.Strategy
	Logger          *log.Logger
	Clock           quartz.Clock
}

// Result is the outcome of a simulation run
type Result struct {
	Stats      *statistics.Statistics
	Strategy   string
	Tables     int
	Seed       int64
	Reshuffles int
	Rebuys     int
	Elapsed    time.Duration
}

// Simulator runs independent tables in parallel. Each table has its own
// engine, shoe and balance; nothing is shared between goroutines.
type Simulator struct {
	config Config
}

// New creates a new simulator, filling unset fields with defaults
func New(config Config) *Simulator {
	if config.Tables < 1 {
		config.Tables = 1
	}
	if config.DeckCount < 1 {
		config.DeckCount = 6
	}
	// A single deck's cut card leaves too few cards to finish every round
	if config.DeckCount < MinDeckCount {
		config.DeckCount = MinDeckCount
	}
	if config.Bet <= 0 {
		config.Bet = 10
	}
	if config.StartingBalance < config.Bet {
		config.StartingBalance = 100 * config.Bet
	}
	if config.Strategy == nil {
		config.Strategy = strategy.Basic{}
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	config.Seed = randutil.ResolveSeed(config.Seed)
	return &Simulator{config: config}
}

type tableResult struct {
	stats      *statistics.Statistics
	reshuffles int
	rebuys     int
}

// Run plays the configured number of rounds spread across the tables
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Rounds <= 0 {
		return nil, errors.New("rounds must be positive")
	}

	start := s.config.Clock.Now()
	results := make([]tableResult, s.config.Tables)

	g, ctx := errgroup.WithContext(ctx)
	for table := 0; table < s.config.Tables; table++ {
		rounds := s.config.Rounds / s.config.Tables
		if table < s.config.Rounds%s.config.Tables {
			rounds++
		}
		if rounds == 0 {
			results[table] = tableResult{stats: &statistics.Statistics{}}
			continue
		}

		g.Go(func() error {
			res, err := s.playTable(ctx, table, rounds)
			if err != nil {
				return fmt.Errorf("table %d: %w", table+1, err)
			}
			results[table] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Stats:    &statistics.Statistics{},
		Strategy: s.config.Strategy.Name(),
		Tables:   s.config.Tables,
		Seed:     s.config.Seed,
	}
	for _, r := range results {
		out.Stats.Merge(r.stats)
		out.Reshuffles += r.reshuffles
		out.Rebuys += r.rebuys
	}
	out.Elapsed = s.config.Clock.Since(start)

	if err := out.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return out, nil
}

// playTable plays rounds on one table with its own seeded shoe
func (s *Simulator) playTable(ctx context.Context, table, rounds int) (tableResult, error) {
	logger := s.config.Logger.With("table", table+1)
	seed := randutil.Derive(s.config.Seed, table)

	shoe, err := game.OpenShoe(ctx, cardsource.NewLocalSource(seed), s.config.DeckCount, logger)
	if err != nil {
		return tableResult{}, err
	}

	roundNum := 0
	collector := statistics.NewCollector()
	bus := game.NewEventBus()
	bus.Subscribe(collector)

	player := game.NewPlayer(fmt.Sprintf("sim-%d", table+1), "Simulator", s.config.StartingBalance)
	engine := game.NewEngine(shoe, ledger.NewMemoryStore(), player, logger,
		game.WithClock(s.config.Clock),
		game.WithEventBus(bus),
		game.WithRoundIDs(func() string {
			roundNum++
			return fmt.Sprintf("t%d-r%d", table+1, roundNum)
		}),
	)

	res := tableResult{}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return tableResult{}, err
		}

		reshuffled, err := engine.ShuffleIfNeeded(ctx)
		if err != nil {
			return tableResult{}, err
		}
		if reshuffled {
			res.reshuffles++
		}

		if player.Balance < s.config.Bet {
			player.Balance += s.config.StartingBalance
			res.rebuys++
			logger.Debug("Rebuy", "balance", player.Balance)
		}

		if err := s.playRound(ctx, engine); err != nil {
			return tableResult{}, err
		}
	}

	stats := collector.Snapshot()
	res.stats = &stats
	logger.Debug("Table finished", "rounds", stats.Rounds, "net", stats.SumNet, "balance", player.Balance)
	return res, nil
}

func (s *Simulator) playRound(ctx context.Context, engine *game.Engine) error {
	if err := engine.PlaceBet(s.config.Bet); err != nil {
		return err
	}
	if err := engine.DealInitial(ctx); err != nil {
		return err
	}

	upcard, _ := engine.Dealer().Upcard()
	for engine.PlayerStatus() == game.Active {
		if s.config.Strategy.Decide(engine.Player().Total(), upcard) == strategy.Stand {
			break
		}
		if _, err := engine.PlayerHit(ctx); err != nil {
			return err
		}
	}

	if _, err := engine.Settle(ctx); err != nil {
		return err
	}
	return engine.ResetRound()
}
