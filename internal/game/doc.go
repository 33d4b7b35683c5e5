// Package game implements a single-player blackjack round against the dealer.
//
// The main type is Engine, which walks one round through its states:
//
//	AwaitingBet → InitialDeal → PlayerTurn → DealerTurn → RoundEnd
//
// Cards come from a Shoe (normally a *shoe.Manager over a card source) and
// the player's balance is saved through a BalanceStore after every payout.
//
// # Basic Usage
//
//	e := game.NewEngine(s, store, game.NewPlayer("p1", "Alice", 1000), logger)
//	_ = e.PlaceBet(10)
//	_ = e.DealInitial(ctx)
//	for e.PlayerStatus() == game.Active && wantHit(e) {
//	    _, _ = e.PlayerHit(ctx)
//	}
//	result, err := e.Settle(ctx)
//	_ = e.ResetRound()
//
// Every error returned by the engine is a *PhaseError naming the step that
// failed and the kind of failure; the cause is available with errors.Is.
//
// # Deterministic Testing
//
// NewTestEngine builds an engine over a scripted shoe:
//
//	e, _ := game.NewTestEngine(game.WithCards("AS KH 7C 8D"))
package game
