package main

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lox/blackjack/internal/ledger"
)

type BalanceCmd struct {
	Show BalanceShowCmd `cmd:"" default:"1" help:"Show the saved balance"`
	Set  BalanceSetCmd  `cmd:"" help:"Overwrite the saved balance"`
}

type BalanceShowCmd struct{}

func (c *BalanceShowCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	balance, found, err := store.Load(context.Background(), cfg.Player.ID)
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("%s has no saved balance (new players start with $%.2f)\n", cfg.Player.ID, cfg.Player.StartingBalance)
		return nil
	}
	fmt.Printf("%s: $%.2f\n", cfg.Player.ID, balance)
	return nil
}

type BalanceSetCmd struct {
	Amount float64 `arg:"" help:"New balance"`
}

func (c *BalanceSetCmd) Run(g *Globals) error {
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) || c.Amount < ledger.MinimumBalance {
		return errors.New("balance must be a finite amount of at least 1")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Persist(context.Background(), cfg.Player.ID, c.Amount); err != nil {
		return err
	}
	g.stderrLogger(cfg).Info("Balance saved", "player", cfg.Player.ID, "balance", c.Amount)
	return nil
}
