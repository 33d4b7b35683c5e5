package deck

import (
	rand "math/rand/v2"
)

// CardsPerDeck is the size of a single standard pack
const CardsPerDeck = 52

// Pack is an ordered multi-deck stack of cards dealt from the top
type Pack struct {
	decks int
	cards []Card
	rng   *rand.Rand
}

// NewPack creates a shuffled pack of decks×52 cards using rng
func NewPack(decks int, rng *rand.Rand) *Pack {
	p := &Pack{
		decks: decks,
		cards: make([]Card, 0, decks*CardsPerDeck),
		rng:   rng,
	}
	p.Reset()
	return p
}

// Reset restores every card to the pack and shuffles it
func (p *Pack) Reset() {
	p.cards = p.cards[:0]
	for i := 0; i < p.decks; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				p.cards = append(p.cards, NewCard(rank, suit))
			}
		}
	}
	p.Shuffle()
}

// Shuffle randomizes the order of the remaining cards
func (p *Pack) Shuffle() {
	p.rng.Shuffle(len(p.cards), func(i, j int) {
		p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
	})
}

// DealN removes and returns up to n cards from the top of the pack
func (p *Pack) DealN(n int) []Card {
	if n > len(p.cards) {
		n = len(p.cards)
	}
	if n < 0 {
		n = 0
	}

	cards := make([]Card, n)
	copy(cards, p.cards[:n])
	p.cards = p.cards[n:]
	return cards
}

// Remaining returns the number of cards left in the pack
func (p *Pack) Remaining() int {
	return len(p.cards)
}

// Size returns the number of cards in a full pack
func (p *Pack) Size() int {
	return p.decks * CardsPerDeck
}
