package game

import "github.com/lox/blackjack/internal/deck"

// DealerStandsOn is the lowest hard total the dealer stands on
const DealerStandsOn = 17

// Dealer is a hand plus the house drawing rule
type Dealer struct {
	Hand
}

// NewDealer creates a dealer with an empty hand
func NewDealer() *Dealer {
	return &Dealer{}
}

// Upcard returns the first card dealt, the one the player sees
func (d *Dealer) Upcard() (deck.Card, bool) {
	if len(d.cards) == 0 {
		return deck.Card{}, false
	}
	return d.cards[0], true
}

// ShouldHit applies the hit-soft-17 rule: draw below 17 and on soft 17
func (d *Dealer) ShouldHit() bool {
	total := d.Total()
	if total.Value < DealerStandsOn {
		return true
	}
	return total.Value == DealerStandsOn && total.Soft
}
