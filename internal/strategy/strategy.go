// Package strategy contains hit/stand policies for automated play.
package strategy

import (
	"fmt"
	"sort"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Action is a player decision
type Action int

const (
	Hit Action = iota
	Stand
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	default:
		return "unknown"
	}
}

// Strategy decides whether an active player hand should draw
type Strategy interface {
	Name() string
	Decide(total game.HandTotal, upcard deck.Card) Action
}

var registry = map[string]func() Strategy{
	"basic":      func() Strategy { return Basic{} },
	"dealer":     func() Strategy { return MimicDealer{} },
	"never-bust": func() Strategy { return NeverBust{} },
}

// Names lists the registered strategies
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the strategy registered under name
func ByName(name string) (Strategy, error) {
	create, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, Names())
	}
	return create(), nil
}

// upcardValue counts an Ace as 11, the way strategy charts index it
func upcardValue(c deck.Card) int {
	if c.IsAce() {
		return 11
	}
	return game.CardPoints(c.Rank)
}

// Basic is the hit/stand part of standard basic strategy for a hit-soft-17
// game. Doubles and splits aren't offered, so those rows fall back to hitting.
type Basic struct{}

func (Basic) Name() string { return "basic" }

func (Basic) Decide(total game.HandTotal, upcard deck.Card) Action {
	up := upcardValue(upcard)

	if total.Soft {
		switch {
		case total.Value >= 19:
			return Stand
		case total.Value == 18:
			if up >= 9 {
				return Hit
			}
			return Stand
		default:
			return Hit
		}
	}

	switch {
	case total.Value >= 17:
		return Stand
	case total.Value >= 13:
		if up <= 6 {
			return Stand
		}
		return Hit
	case total.Value == 12:
		if up >= 4 && up <= 6 {
			return Stand
		}
		return Hit
	default:
		return Hit
	}
}

// MimicDealer plays the house rule: hit below 17 and on soft 17
type MimicDealer struct{}

func (MimicDealer) Name() string { return "dealer" }

func (MimicDealer) Decide(total game.HandTotal, upcard deck.Card) Action {
	if total.Value < game.DealerStandsOn || (total.Value == game.DealerStandsOn && total.Soft) {
		return Hit
	}
	return Stand
}

// NeverBust only draws when no single card can bust the hand
type NeverBust struct{}

func (NeverBust) Name() string { return "never-bust" }

func (NeverBust) Decide(total game.HandTotal, upcard deck.Card) Action {
	if total.Value <= 11 || (total.Soft && total.Value <= 17) {
		return Hit
	}
	return Stand
}
