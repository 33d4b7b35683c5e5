// Package shoe manages a multi-deck shoe dealt by an external card source,
// including the cut card that decides when the shoe is reshuffled.
package shoe

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
)

// CutFraction is the share of a full shoe dealt before the cut card comes out
const CutFraction = 0.775

var (
	// ErrCardCountMismatch means the source returned a different number of
	// cards than requested
	ErrCardCountMismatch = errors.New("card count mismatch")

	// ErrInvalidPayload means the source returned an unusable shoe description
	ErrInvalidPayload = errors.New("invalid card source payload")
)

// Created describes a freshly created shoe
type Created struct {
	ID        string
	Remaining int
}

// Drawn is the result of a draw request
type Drawn struct {
	Cards     []deck.Card
	Remaining int
}

// Source supplies shuffled cards. Every call must report the accurate
// number of cards left in the shoe.
type Source interface {
	CreateShoe(ctx context.Context, deckCount int) (Created, error)
	Draw(ctx context.Context, shoeID string, count int) (Drawn, error)
	Reshuffle(ctx context.Context, shoeID string) (int, error)
}

// Manager owns one shoe's identity, remaining count and cut card position
type Manager struct {
	source    Source
	logger    *log.Logger
	id        string
	deckCount int
	remaining int
	cutCard   int
}

// CutCardPosition returns the remaining-card count at which the cut card sits
// for a shoe that starts with initial cards.
func CutCardPosition(initial int) int {
	return int(math.Round(float64(initial) * (1 - CutFraction)))
}

// New asks the source for a fresh shoe of deckCount decks and fixes the cut card
func New(ctx context.Context, source Source, deckCount int, logger *log.Logger) (*Manager, error) {
	if deckCount < 1 {
		return nil, fmt.Errorf("%w: deck count %d", ErrInvalidPayload, deckCount)
	}

	created, err := source.CreateShoe(ctx, deckCount)
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: empty shoe id", ErrInvalidPayload)
	}
	if created.Remaining <= 0 {
		return nil, fmt.Errorf("%w: remaining %d", ErrInvalidPayload, created.Remaining)
	}

	m := &Manager{
		source:    source,
		logger:    logger.WithPrefix("shoe"),
		id:        created.ID,
		deckCount: deckCount,
		remaining: created.Remaining,
		cutCard:   CutCardPosition(created.Remaining),
	}
	m.logger.Debug("Created shoe", "id", m.id, "decks", deckCount, "remaining", m.remaining, "cut", m.cutCard)
	return m, nil
}

// ID returns the source's identifier for the shoe
func (m *Manager) ID() string {
	return m.id
}

// DeckCount returns how many decks the shoe was created with
func (m *Manager) DeckCount() int {
	return m.deckCount
}

// Remaining returns the source-reported number of cards left
func (m *Manager) Remaining() int {
	return m.remaining
}

// CutCard returns the fixed cut card position
func (m *Manager) CutCard() int {
	return m.cutCard
}

// DrawOne draws exactly one card
func (m *Manager) DrawOne(ctx context.Context) (deck.Card, error) {
	drawn, err := m.source.Draw(ctx, m.id, 1)
	if err != nil {
		return deck.Card{}, err
	}
	m.remaining = drawn.Remaining

	if len(drawn.Cards) != 1 {
		return deck.Card{}, fmt.Errorf("%w: requested 1, got %d", ErrCardCountMismatch, len(drawn.Cards))
	}
	return drawn.Cards[0], nil
}

// DrawMany draws n cards in the order the source delivered them
func (m *Manager) DrawMany(ctx context.Context, n int) ([]deck.Card, error) {
	drawn, err := m.source.Draw(ctx, m.id, n)
	if err != nil {
		return nil, err
	}
	m.remaining = drawn.Remaining

	if len(drawn.Cards) != n {
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrCardCountMismatch, n, len(drawn.Cards))
	}
	return drawn.Cards, nil
}

// NeedsReshuffle reports whether the cut card has been reached
func (m *Manager) NeedsReshuffle() bool {
	return m.remaining < m.cutCard
}

// Reshuffle returns every card to the shoe and shuffles it. The cut card
// keeps the position fixed when the shoe was created.
func (m *Manager) Reshuffle(ctx context.Context) error {
	remaining, err := m.source.Reshuffle(ctx, m.id)
	if err != nil {
		return err
	}
	m.remaining = remaining
	m.logger.Debug("Reshuffled shoe", "id", m.id, "remaining", remaining, "cut", m.cutCard)
	return nil
}
