package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/cardsource"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
	"github.com/lox/blackjack/internal/tui"
)

type PlayCmd struct {
	Name   string  `help:"Display name (overrides config)"`
	Bet    float64 `help:"Default bet (overrides config)"`
	Source string  `help:"Card source: http or local (overrides config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Bet > 0 {
		cfg.Player.DefaultBet = c.Bet
	}
	if c.Source != "" {
		cfg.Shoe.Source = c.Source
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The terminal belongs to the TUI, so logs go to a file
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		Level:           g.level(cfg),
		ReportTimestamp: true,
		Prefix:          "blackjack",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	balance, err := ledger.LoadBalance(ctx, store, cfg.Player.ID, cfg.Player.StartingBalance)
	if err != nil {
		return err
	}
	logger.Info("Loaded balance", "player", cfg.Player.ID, "balance", balance)

	s, err := game.OpenShoe(ctx, cardSource(cfg, logger), cfg.Shoe.DeckCount, logger)
	if err != nil {
		return err
	}

	player := game.NewPlayer(cfg.Player.ID, cfg.Player.Name, balance)
	engine := game.NewEngine(s, store, player, logger)

	// Mirror round events into the log file
	formatter := game.NewEventFormatter(game.FormattingOptions{
		PlayerName:   cfg.Player.Name,
		ShowHoleCard: true,
		ShowRoundIDs: true,
	})
	engine.EventBus().Subscribe(game.SubscriberFunc(func(event game.GameEvent) {
		if line := formatter.Format(event); line != "" {
			logger.Info(line)
		}
	}))

	err = tui.Run(ctx, engine, logger, tui.Options{
		DefaultBet:   cfg.Player.DefaultBet,
		ShowHoleCard: cfg.UI.ShowHoleCard,
		Theme:        cfg.UI.Theme,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Final balance: $%.2f\n", player.Balance)
	return nil
}

func cardSource(cfg *config.Config, logger *log.Logger) shoe.Source {
	if cfg.Shoe.Source == "local" {
		seed := randutil.ResolveSeed(cfg.Shoe.Seed)
		logger.Info("Using local shoe", "seed", seed)
		return cardsource.NewLocalSource(seed)
	}
	logger.Info("Using card service", "url", cfg.Shoe.APIURL, "timeout", cfg.RequestTimeout())
	return cardsource.NewHTTPSource(cfg.Shoe.APIURL, cfg.RequestTimeout(), logger)
}
