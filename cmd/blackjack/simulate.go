package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/strategy"
)

type SimulateCmd struct {
	Rounds   int     `help:"Rounds to play (default from config)"`
	Tables   int     `help:"Tables to run in parallel (default from config)"`
	Bet      float64 `help:"Flat bet per round (default from config)"`
	Strategy string  `help:"Player strategy: basic, dealer or never-bust (default from config)"`
	Decks    int     `help:"Decks per shoe (default from config)"`
	Seed     int64   `help:"Random seed for reproducible runs (0 for random)"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := g.stderrLogger(cfg)

	rounds := pick(c.Rounds, cfg.Simulate.Rounds)
	tables := pick(c.Tables, cfg.Simulate.Tables)
	decks := pick(c.Decks, cfg.Shoe.DeckCount)
	bet := cfg.Simulate.Bet
	if c.Bet > 0 {
		bet = c.Bet
	}
	name := cfg.Simulate.Strategy
	if c.Strategy != "" {
		name = c.Strategy
	}
	seed := cfg.Shoe.Seed
	if c.Seed != 0 {
		seed = c.Seed
	}

	strat, err := strategy.ByName(name)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulator.New(simulator.Config{
		Rounds:    rounds,
		Tables:    tables,
		Bet:       bet,
		DeckCount: decks,
		Seed:      seed,
		Strategy:  strat,
		Logger:    logger,
	})

	logger.Info("Starting simulation", "rounds", rounds, "tables", tables, "strategy", strat.Name())
	result, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Print(simulator.Summary(result))
	return nil
}

func pick(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}
