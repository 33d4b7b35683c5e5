package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Blackjack is the target total
const Blackjack = 21

// HandTotal is the evaluated value of a hand. Soft is set when exactly one
// Ace is being counted as 11.
type HandTotal struct {
	Value int
	Soft  bool
}

// IsBust returns true when the total is over 21
func (t HandTotal) IsBust() bool {
	return t.Value > Blackjack
}

func (t HandTotal) String() string {
	switch {
	case t.IsBust():
		return fmt.Sprintf("bust (%d)", t.Value)
	case t.Soft:
		return fmt.Sprintf("soft %d", t.Value)
	default:
		return fmt.Sprintf("%d", t.Value)
	}
}

// CardPoints returns the fixed value of a non-Ace card, and 1 for an Ace
func CardPoints(r deck.Rank) int {
	switch {
	case r == deck.Ace:
		return 1
	case r.IsFace():
		return 10
	default:
		return int(r)
	}
}

// Evaluate computes the best total for cards. Every Ace counts 1 except at
// most one, which counts 11 when that keeps the hand at 21 or under.
func Evaluate(cards []deck.Card) HandTotal {
	base, aces := 0, 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			continue
		}
		base += CardPoints(c.Rank)
	}

	if aces == 0 {
		return HandTotal{Value: base}
	}

	// all but the reserved Ace are forced to 1
	base += aces - 1
	if base+11 <= Blackjack {
		return HandTotal{Value: base + 11, Soft: true}
	}
	return HandTotal{Value: base + 1}
}
