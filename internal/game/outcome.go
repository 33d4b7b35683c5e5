package game

import "time"

// Outcome is the result of a settled round
type Outcome int

const (
	PlayerWon Outcome = iota + 1
	DealerWon
	Push
	PlayerBlackjack
	DealerBlackjack
)

func (o Outcome) String() string {
	switch o {
	case PlayerWon:
		return "player won"
	case DealerWon:
		return "dealer won"
	case Push:
		return "push"
	case PlayerBlackjack:
		return "player blackjack"
	case DealerBlackjack:
		return "dealer blackjack"
	default:
		return "unknown"
	}
}

// PlayerWins is true for outcomes that return more than the stake
func (o Outcome) PlayerWins() bool {
	return o == PlayerWon || o == PlayerBlackjack
}

// DetermineOutcome applies the settlement table in precedence order. A
// blackjack on both sides falls through to the total comparison and pushes.
func DetermineOutcome(player, dealer Participant) Outcome {
	playerBJ, dealerBJ := player.HasBlackjack(), dealer.HasBlackjack()

	switch {
	case playerBJ && !dealerBJ:
		return PlayerBlackjack
	case dealerBJ && !playerBJ:
		return DealerBlackjack
	}

	p, d := player.Total().Value, dealer.Total().Value
	switch {
	case p > Blackjack:
		return DealerWon
	case d > Blackjack:
		return PlayerWon
	case p > d:
		return PlayerWon
	case d > p:
		return DealerWon
	default:
		return Push
	}
}

// Payout returns the total credited back for bet, stake included. Blackjack
// pays 3:2.
func Payout(outcome Outcome, bet float64) float64 {
	switch outcome {
	case PlayerBlackjack:
		return bet * 2.5
	case PlayerWon:
		return bet * 2
	case Push:
		return bet
	default:
		return 0
	}
}

// RoundResult records how a round was settled
type RoundResult struct {
	RoundID     string
	Outcome     Outcome
	Bet         float64
	Payout      float64
	PlayerTotal HandTotal
	DealerTotal HandTotal
	SettledAt   time.Time
}

// Net is the player's profit or loss for the round
func (r RoundResult) Net() float64 {
	return r.Payout - r.Bet
}
