package game

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/cardsource"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/shoe"
)

// RecordingStore is a BalanceStore that remembers what was saved
type RecordingStore struct {
	mu    sync.Mutex
	Saved map[string]float64
	Calls int
	Err   error
}

// NewRecordingStore creates an empty recording store
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{Saved: make(map[string]float64)}
}

func (s *RecordingStore) Persist(ctx context.Context, playerID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	s.Saved[playerID] = balance
	return nil
}

// TestEngineOption configures test engine creation
type TestEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	cards      []deck.Card
	shoeSize   int
	balance    float64
	store      BalanceStore
	failures   map[int]error
	engineOpts []EngineOption
}

// WithCards scripts the deal order, e.g. "AS KH 7C 8D" deals A♠ K♥ to the
// player and 7♣ 8♦ to the dealer
func WithCards(codes string) TestEngineOption {
	return func(b *testEngineBuilder) { b.cards = deck.MustParseCodes(codes) }
}

// WithShoeSize makes the shoe report size cards regardless of the script
func WithShoeSize(size int) TestEngineOption {
	return func(b *testEngineBuilder) { b.shoeSize = size }
}

func WithBalance(balance float64) TestEngineOption {
	return func(b *testEngineBuilder) { b.balance = balance }
}

func WithStore(store BalanceStore) TestEngineOption {
	return func(b *testEngineBuilder) { b.store = store }
}

// WithDrawFailure fails the n-th draw request (1-based) with err
func WithDrawFailure(n int, err error) TestEngineOption {
	return func(b *testEngineBuilder) { b.failures[n] = err }
}

func WithEngineOptions(opts ...EngineOption) TestEngineOption {
	return func(b *testEngineBuilder) { b.engineOpts = append(b.engineOpts, opts...) }
}

// NewTestEngine creates an engine dealing from a scripted shoe with
// sensible defaults: 1000 balance, a recording store and discarded logs
func NewTestEngine(opts ...TestEngineOption) (*Engine, *cardsource.ScriptedSource) {
	builder := &testEngineBuilder{
		cards:    deck.MustParseCodes("AS KH 7C 8D"),
		shoeSize: 6 * deck.CardsPerDeck,
		balance:  1000,
		store:    NewRecordingStore(),
		failures: make(map[int]error),
	}
	for _, opt := range opts {
		opt(builder)
	}

	src := cardsource.NewScriptedSource(builder.cards...).WithSize(builder.shoeSize)
	for n, err := range builder.failures {
		src.FailDraw(n, err)
	}

	logger := log.New(io.Discard)
	s, err := shoe.New(context.Background(), src, 6, logger)
	if err != nil {
		panic(fmt.Sprintf("test shoe: %v", err))
	}

	player := NewPlayer("p1", "Alice", builder.balance)
	return NewEngine(s, builder.store, player, logger, builder.engineOpts...), src
}

// PlayToPlayerTurn places bet and deals the initial cards
func PlayToPlayerTurn(e *Engine, bet float64) error {
	if err := e.PlaceBet(bet); err != nil {
		return err
	}
	return e.DealInitial(context.Background())
}
