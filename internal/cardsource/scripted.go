package cardsource

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/shoe"
)

// ScriptedShoeID is the shoe ID reported by ScriptedSource
const ScriptedShoeID = "scripted"

// ScriptedSource deals a fixed card sequence. It backs deterministic tests
// and replaying a known deal.
type ScriptedSource struct {
	cards      []deck.Card
	pos        int
	size       int
	draws      int
	failures   map[int]error
	Reshuffles int
}

// NewScriptedSource deals cards in order
func NewScriptedSource(cards ...deck.Card) *ScriptedSource {
	return &ScriptedSource{
		cards:    append([]deck.Card(nil), cards...),
		failures: make(map[int]error),
	}
}

// NewScriptedSourceFromCodes deals the cards named by codes, e.g. "AS KH 7C 8D"
func NewScriptedSourceFromCodes(codes string) (*ScriptedSource, error) {
	cards, err := deck.ParseCodes(codes)
	if err != nil {
		return nil, err
	}
	return NewScriptedSource(cards...), nil
}

// WithSize makes the source report a shoe of size cards regardless of how
// many are scripted, so cut card behaviour can be exercised
func (s *ScriptedSource) WithSize(size int) *ScriptedSource {
	s.size = size
	return s
}

// FailDraw makes the n-th draw call (1-based) fail with err
func (s *ScriptedSource) FailDraw(n int, err error) *ScriptedSource {
	s.failures[n] = err
	return s
}

// Append queues more cards after the existing script
func (s *ScriptedSource) Append(cards ...deck.Card) {
	s.cards = append(s.cards, cards...)
}

// Draws returns how many draw calls were made
func (s *ScriptedSource) Draws() int {
	return s.draws
}

func (s *ScriptedSource) remaining() int {
	size := s.size
	if size == 0 {
		size = len(s.cards)
	}
	return size - s.pos
}

// CreateShoe reports the scripted shoe
func (s *ScriptedSource) CreateShoe(ctx context.Context, deckCount int) (shoe.Created, error) {
	return shoe.Created{ID: ScriptedShoeID, Remaining: s.remaining()}, nil
}

// Draw deals the next count scripted cards
func (s *ScriptedSource) Draw(ctx context.Context, shoeID string, count int) (shoe.Drawn, error) {
	s.draws++
	if err, ok := s.failures[s.draws]; ok {
		return shoe.Drawn{}, err
	}
	if s.pos+count > len(s.cards) {
		return shoe.Drawn{}, fmt.Errorf("%w: script exhausted after %d cards", ErrRejected, len(s.cards))
	}

	cards := append([]deck.Card(nil), s.cards[s.pos:s.pos+count]...)
	s.pos += count
	return shoe.Drawn{Cards: cards, Remaining: s.remaining()}, nil
}

// Reshuffle rewinds the script
func (s *ScriptedSource) Reshuffle(ctx context.Context, shoeID string) (int, error) {
	s.Reshuffles++
	s.pos = 0
	return s.remaining(), nil
}
