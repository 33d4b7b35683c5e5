package game

import "github.com/lox/blackjack/internal/deck"

// Snapshot is a copy of everything a renderer needs. It shares no memory
// with the engine.
type Snapshot struct {
	State        State
	RoundID      string
	Bet          float64
	PlayerName   string
	Balance      float64
	PlayerCards  []deck.Card
	PlayerTotal  HandTotal
	PlayerStatus PlayerStatus
	DealerCards  []deck.Card
	DealerTotal  HandTotal
	Result       *RoundResult

	ShoeRemaining  int
	CutCard        int
	NeedsReshuffle bool
}

// Snapshot captures the engine's current state
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:          e.state,
		RoundID:        e.roundID,
		Bet:            e.bet,
		PlayerName:     e.player.Name,
		Balance:        e.player.Balance,
		PlayerCards:    e.player.Cards(),
		PlayerTotal:    e.player.Total(),
		PlayerStatus:   e.player.Status(),
		DealerCards:    e.dealer.Cards(),
		DealerTotal:    e.dealer.Total(),
		ShoeRemaining:  e.shoe.Remaining(),
		CutCard:        e.shoe.CutCard(),
		NeedsReshuffle: e.shoe.NeedsReshuffle(),
	}
	if e.result != nil {
		r := *e.result
		s.Result = &r
	}
	return s
}

// DealerHidden reports whether the dealer's hole card should still be face down
func (s Snapshot) DealerHidden() bool {
	return s.State == PlayerTurn || s.State == InitialDeal
}
