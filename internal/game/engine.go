package game

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/roundid"
	"github.com/lox/blackjack/internal/shoe"
)

// initialDealCards is drawn in one request: two for the player, then two for the dealer
const initialDealCards = 4

// State is the round's position in AwaitingBet → InitialDeal → PlayerTurn → DealerTurn → RoundEnd
type State int

const (
	AwaitingBet State = iota
	InitialDeal
	PlayerTurn
	DealerTurn
	RoundEnd
)

func (s State) String() string {
	switch s {
	case AwaitingBet:
		return "awaiting bet"
	case InitialDeal:
		return "initial deal"
	case PlayerTurn:
		return "player turn"
	case DealerTurn:
		return "dealer turn"
	case RoundEnd:
		return "round end"
	default:
		return "unknown"
	}
}

// Shoe is the card supply the engine deals from. *shoe.Manager implements it.
type Shoe interface {
	DrawOne(ctx context.Context) (deck.Card, error)
	DrawMany(ctx context.Context, n int) ([]deck.Card, error)
	NeedsReshuffle() bool
	Reshuffle(ctx context.Context) error
	Remaining() int
	CutCard() int
}

// BalanceStore persists a player's balance after each payout
type BalanceStore interface {
	Persist(ctx context.Context, playerID string, balance float64) error
}

// OpenShoe creates a shoe from source, reporting failures as setup errors
func OpenShoe(ctx context.Context, source shoe.Source, deckCount int, logger *log.Logger) (*shoe.Manager, error) {
	m, err := shoe.New(ctx, source, deckCount, logger)
	if err != nil {
		return nil, phaseError(KindSetup, PhaseCreateShoe, err)
	}
	return m, nil
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock sets the clock used for event and settlement timestamps
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithEventBus publishes round events to bus instead of a private bus
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.eventBus = bus }
}

// WithRoundIDs overrides round ID generation
func WithRoundIDs(next func() string) EngineOption {
	return func(e *Engine) { e.newRoundID = next }
}

// Engine plays blackjack rounds for one player against the dealer. It is not
// safe for concurrent use; calls must be made one at a time.
type Engine struct {
	shoe       Shoe
	store      BalanceStore
	player     *Player
	dealer     *Dealer
	logger     *log.Logger
	clock      quartz.Clock
	eventBus   EventBus
	newRoundID func() string

	state   State
	roundID string
	bet     float64
	result  *RoundResult
	paid    bool
}

// NewEngine creates an engine in the AwaitingBet state
func NewEngine(s Shoe, store BalanceStore, player *Player, logger *log.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		shoe:       s,
		store:      store,
		player:     player,
		dealer:     NewDealer(),
		logger:     logger.WithPrefix("engine"),
		clock:      quartz.NewReal(),
		eventBus:   NewEventBus(),
		newRoundID: roundid.New,
		state:      AwaitingBet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current round state
func (e *Engine) State() State { return e.state }

// Player returns the player
func (e *Engine) Player() *Player { return e.player }

// Dealer returns the dealer
func (e *Engine) Dealer() *Dealer { return e.dealer }

// Bet returns the active stake, zero between rounds
func (e *Engine) Bet() float64 { return e.bet }

// RoundID returns the current round's ID, empty between rounds
func (e *Engine) RoundID() string { return e.roundID }

// EventBus returns the bus round events are published on
func (e *Engine) EventBus() EventBus { return e.eventBus }

// Result returns the evaluated result of the current round, if any
func (e *Engine) Result() (RoundResult, bool) {
	if e.result == nil {
		return RoundResult{}, false
	}
	return *e.result, true
}

// PlayerStatus reports whether the player is still live
func (e *Engine) PlayerStatus() PlayerStatus {
	return e.player.Status()
}

// ShuffleIfNeeded reshuffles between rounds once the cut card is reached
func (e *Engine) ShuffleIfNeeded(ctx context.Context) (bool, error) {
	if e.state != AwaitingBet {
		return false, stateError(PhaseReshuffle, e.state)
	}
	if !e.shoe.NeedsReshuffle() {
		return false, nil
	}

	if err := e.shoe.Reshuffle(ctx); err != nil {
		return false, phaseError(KindSetup, PhaseReshuffle, err)
	}

	e.logger.Info("Shoe reshuffled", "remaining", e.shoe.Remaining(), "cut", e.shoe.CutCard())
	e.eventBus.Publish(ShoeReshuffledEvent{
		Remaining: e.shoe.Remaining(),
		CutCard:   e.shoe.CutCard(),
		timestamp: e.clock.Now(),
	})
	return true, nil
}

// PlaceBet debits amount from the player's balance and opens a round
func (e *Engine) PlaceBet(amount float64) error {
	if e.state != AwaitingBet {
		return stateError(PhasePlaceBet, e.state)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return phaseError(KindBetting, PhasePlaceBet, fmt.Errorf("%w: %.2f", ErrInvalidBet, amount))
	}
	if amount > e.player.Balance {
		return phaseError(KindBetting, PhasePlaceBet,
			fmt.Errorf("%w: bet %.2f, balance %.2f", ErrInsufficientBalance, amount, e.player.Balance))
	}

	e.player.Balance -= amount
	e.bet = amount
	e.roundID = e.newRoundID()
	e.result = nil
	e.paid = false
	e.state = InitialDeal

	e.logger.Debug("Bet placed", "round", e.roundID, "bet", amount, "balance", e.player.Balance)
	e.eventBus.Publish(RoundStartedEvent{
		RoundID:   e.roundID,
		PlayerID:  e.player.ID,
		Bet:       amount,
		Balance:   e.player.Balance,
		timestamp: e.clock.Now(),
	})
	return nil
}

// DealInitial draws four cards in one request and deals two to each hand
func (e *Engine) DealInitial(ctx context.Context) error {
	if e.state != InitialDeal {
		return stateError(PhaseDealInitial, e.state)
	}

	cards, err := e.shoe.DrawMany(ctx, initialDealCards)
	if err != nil {
		return phaseError(KindDraw, PhaseDealInitial, err)
	}
	if len(cards) != initialDealCards {
		return phaseError(KindDraw, PhaseDealInitial,
			fmt.Errorf("%w: requested %d, got %d", shoe.ErrCardCountMismatch, initialDealCards, len(cards)))
	}

	e.player.SetHand(cards[:2])
	e.dealer.SetHand(cards[2:4])
	e.state = PlayerTurn

	e.logger.Debug("Dealt initial cards",
		"round", e.roundID,
		"player", e.player.Total(),
		"upcard", cards[2])
	e.publishDealt(ToPlayer, cards[:2], e.player.Total())
	e.publishDealt(ToDealer, cards[2:4], e.dealer.Total())
	return nil
}

// PlayerHit draws one card for the player. Callers check PlayerStatus afterwards.
func (e *Engine) PlayerHit(ctx context.Context) (deck.Card, error) {
	if e.state != PlayerTurn {
		return deck.Card{}, stateError(PhaseHitPlayer, e.state)
	}
	if status := e.player.Status(); status != Active {
		return deck.Card{}, phaseError(KindState, PhaseHitPlayer, fmt.Errorf("%w: player %s", ErrInvalidState, status))
	}

	card, err := e.shoe.DrawOne(ctx)
	if err != nil {
		return deck.Card{}, phaseError(KindDraw, PhaseHitPlayer, err)
	}

	e.player.AddCard(card)
	e.logger.Debug("Player hit", "round", e.roundID, "card", card, "total", e.player.Total())
	e.publishDealt(ToPlayer, []deck.Card{card}, e.player.Total())
	return card, nil
}

// Stand ends the player's turn
func (e *Engine) Stand() error {
	if e.state != PlayerTurn {
		return stateError(PhaseStand, e.state)
	}
	e.state = DealerTurn
	e.logger.Debug("Player stands", "round", e.roundID, "total", e.player.Total())
	return nil
}

// DealerAutoPlay draws for the dealer until the house rule says stand. A
// failed draw keeps the cards already dealt and leaves the dealer's turn open.
func (e *Engine) DealerAutoPlay(ctx context.Context) error {
	if e.state != DealerTurn {
		return stateError(PhaseHitDealer, e.state)
	}

	for e.dealer.ShouldHit() {
		card, err := e.shoe.DrawOne(ctx)
		if err != nil {
			return phaseError(KindDraw, PhaseHitDealer, err)
		}
		e.dealer.AddCard(card)
		e.logger.Debug("Dealer hit", "round", e.roundID, "card", card, "total", e.dealer.Total())
		e.publishDealt(ToDealer, []deck.Card{card}, e.dealer.Total())
	}

	e.state = RoundEnd
	return nil
}

// EvaluateOutcome settles the round on the current hands. Calling it again
// returns the recorded result.
func (e *Engine) EvaluateOutcome() (RoundResult, error) {
	if e.state != DealerTurn && e.state != RoundEnd {
		return RoundResult{}, stateError(PhaseEvaluate, e.state)
	}
	if e.result != nil {
		return *e.result, nil
	}

	outcome := DetermineOutcome(e.player, e.dealer)
	e.result = &RoundResult{
		RoundID:     e.roundID,
		Outcome:     outcome,
		Bet:         e.bet,
		Payout:      Payout(outcome, e.bet),
		PlayerTotal: e.player.Total(),
		DealerTotal: e.dealer.Total(),
		SettledAt:   e.clock.Now(),
	}
	e.state = RoundEnd

	e.logger.Info("Round evaluated",
		"round", e.roundID,
		"outcome", outcome,
		"player", e.result.PlayerTotal,
		"dealer", e.result.DealerTotal)
	return *e.result, nil
}

// ApplyPayout credits the payout and persists the balance. If saving fails
// the credit and the result still stand; only the save is reported.
func (e *Engine) ApplyPayout(ctx context.Context) (RoundResult, error) {
	if e.state != RoundEnd || e.result == nil || e.paid {
		return RoundResult{}, stateError(PhaseSaveBalance, e.state)
	}

	e.player.Balance += e.result.Payout
	e.paid = true
	result := *e.result

	e.eventBus.Publish(RoundSettledEvent{
		Result:    result,
		Balance:   e.player.Balance,
		timestamp: e.clock.Now(),
	})

	if err := e.store.Persist(ctx, e.player.ID, e.player.Balance); err != nil {
		e.logger.Error("Failed to save balance", "player", e.player.ID, "balance", e.player.Balance, "error", err)
		return result, phaseError(KindPersistence, PhaseSaveBalance, err)
	}

	e.logger.Debug("Payout applied", "round", e.roundID, "payout", result.Payout, "balance", e.player.Balance)
	return result, nil
}

// Settle finishes a round from the player's turn onwards: stand, let the
// dealer play unless the player's hand already decided it, then evaluate and
// pay out.
func (e *Engine) Settle(ctx context.Context) (RoundResult, error) {
	if e.state == PlayerTurn {
		if err := e.Stand(); err != nil {
			return RoundResult{}, err
		}
	}

	if e.state == DealerTurn {
		if e.player.Status() != Busted && !e.player.HasBlackjack() {
			if err := e.DealerAutoPlay(ctx); err != nil {
				return RoundResult{}, err
			}
		}
	}

	if _, err := e.EvaluateOutcome(); err != nil {
		return RoundResult{}, err
	}
	return e.ApplyPayout(ctx)
}

// ResetRound clears the stake and result so the next bet can be taken.
// Hands stay visible until the next deal replaces them.
func (e *Engine) ResetRound() error {
	switch {
	case e.state == AwaitingBet:
		return nil
	case e.state == RoundEnd && e.paid:
	default:
		return stateError(PhaseReset, e.state)
	}

	e.roundID = ""
	e.bet = 0
	e.result = nil
	e.paid = false
	e.state = AwaitingBet
	return nil
}

// ClearHands empties both hands between rounds
func (e *Engine) ClearHands() error {
	if e.state != AwaitingBet && e.state != InitialDeal {
		return stateError(PhaseClearHands, e.state)
	}
	e.player.Clear()
	e.dealer.Clear()
	return nil
}

func (e *Engine) publishDealt(to Recipient, cards []deck.Card, total HandTotal) {
	e.eventBus.Publish(CardsDealtEvent{
		RoundID:   e.roundID,
		Recipient: to,
		Cards:     append([]deck.Card(nil), cards...),
		Total:     total,
		timestamp: e.clock.Now(),
	})
}
