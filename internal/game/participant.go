package game

import (
	"github.com/lox/blackjack/internal/deck"
)

// Participant is anything holding a blackjack hand
type Participant interface {
	Cards() []deck.Card
	SetHand(cards []deck.Card)
	AddCard(card deck.Card)
	Total() HandTotal
	HasBlackjack() bool
}

// Hand is an ordered, append-only sequence of cards. The zero value is an
// empty hand.
type Hand struct {
	cards []deck.Card
}

// Cards returns a copy of the cards in deal order
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// SetHand replaces the hand with a copy of cards
func (h *Hand) SetHand(cards []deck.Card) {
	h.cards = append([]deck.Card(nil), cards...)
}

// AddCard appends a card
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Clear empties the hand
func (h *Hand) Clear() {
	h.cards = nil
}

// Total evaluates the hand
func (h *Hand) Total() HandTotal {
	return Evaluate(h.cards)
}

// HasBlackjack is true for a two-card 21
func (h *Hand) HasBlackjack() bool {
	return len(h.cards) == 2 && h.Total().Value == Blackjack
}
