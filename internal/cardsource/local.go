package cardsource

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/shoe"
)

// LocalSource keeps shoes in memory. With a fixed seed the deal order is
// reproducible.
type LocalSource struct {
	mu    sync.Mutex
	rng   *rand.Rand
	shoes map[string]*deck.Pack
}

// NewLocalSource creates a local source shuffling with the given seed
func NewLocalSource(seed int64) *LocalSource {
	return &LocalSource{
		rng:   randutil.New(seed),
		shoes: make(map[string]*deck.Pack),
	}
}

// CreateShoe builds and shuffles a new shoe
func (s *LocalSource) CreateShoe(ctx context.Context, deckCount int) (shoe.Created, error) {
	if deckCount < 1 {
		return shoe.Created{}, fmt.Errorf("%w: deck count %d", ErrRejected, deckCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	pack := deck.NewPack(deckCount, s.rng)
	s.shoes[id] = pack
	return shoe.Created{ID: id, Remaining: pack.Remaining()}, nil
}

// Draw deals count cards from the top of the shoe
func (s *LocalSource) Draw(ctx context.Context, shoeID string, count int) (shoe.Drawn, error) {
	if err := ctx.Err(); err != nil {
		return shoe.Drawn{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pack, ok := s.shoes[shoeID]
	if !ok {
		return shoe.Drawn{}, fmt.Errorf("%w: unknown shoe %q", ErrRejected, shoeID)
	}
	if count > pack.Remaining() {
		return shoe.Drawn{}, fmt.Errorf("%w: not enough cards remaining to draw %d additional", ErrRejected, count)
	}

	cards := pack.DealN(count)
	return shoe.Drawn{Cards: cards, Remaining: pack.Remaining()}, nil
}

// Reshuffle returns every card to the shoe and shuffles it
func (s *LocalSource) Reshuffle(ctx context.Context, shoeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pack, ok := s.shoes[shoeID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown shoe %q", ErrRejected, shoeID)
	}
	pack.Reset()
	return pack.Remaining(), nil
}
