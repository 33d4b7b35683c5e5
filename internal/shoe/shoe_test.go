package shoe

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

// fakeSource reports whatever the test sets and records calls
type fakeSource struct {
	created     Created
	createErr   error
	remaining   int
	shortBy     int
	extra       int
	drawErr     error
	reshuffleTo int
	reshuffles  int
	draws       []int
}

func (f *fakeSource) CreateShoe(ctx context.Context, deckCount int) (Created, error) {
	if f.createErr != nil {
		return Created{}, f.createErr
	}
	f.remaining = f.created.Remaining
	return f.created, nil
}

func (f *fakeSource) Draw(ctx context.Context, shoeID string, count int) (Drawn, error) {
	f.draws = append(f.draws, count)
	if f.drawErr != nil {
		return Drawn{}, f.drawErr
	}
	n := count - f.shortBy + f.extra
	cards := make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, deck.NewCard(deck.Ranks[i%len(deck.Ranks)], deck.Spades))
	}
	f.remaining -= n
	return Drawn{Cards: cards, Remaining: f.remaining}, nil
}

func (f *fakeSource) Reshuffle(ctx context.Context, shoeID string) (int, error) {
	f.reshuffles++
	f.remaining = f.reshuffleTo
	return f.reshuffleTo, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestManager(t *testing.T, src *fakeSource) *Manager {
	t.Helper()
	m, err := New(context.Background(), src, 6, quietLogger())
	require.NoError(t, err)
	return m
}

func TestCutCardPosition(t *testing.T) {
	assert.Equal(t, 70, CutCardPosition(312))
	assert.Equal(t, 12, CutCardPosition(52))
	assert.Equal(t, 23, CutCardPosition(104))
}

func TestNew(t *testing.T) {
	src := &fakeSource{created: Created{ID: "abc", Remaining: 312}}
	m := newTestManager(t, src)

	assert.Equal(t, "abc", m.ID())
	assert.Equal(t, 312, m.Remaining())
	assert.Equal(t, 70, m.CutCard())
	assert.Equal(t, 6, m.DeckCount())
	assert.False(t, m.NeedsReshuffle())
}

func TestNewFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("source error propagates", func(t *testing.T) {
		boom := errors.New("unreachable")
		_, err := New(ctx, &fakeSource{createErr: boom}, 6, quietLogger())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := New(ctx, &fakeSource{created: Created{Remaining: 52}}, 1, quietLogger())
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("no cards", func(t *testing.T) {
		_, err := New(ctx, &fakeSource{created: Created{ID: "x"}}, 1, quietLogger())
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("zero decks", func(t *testing.T) {
		_, err := New(ctx, &fakeSource{created: Created{ID: "x", Remaining: 52}}, 0, quietLogger())
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestDrawOne(t *testing.T) {
	ctx := context.Background()

	t.Run("updates remaining", func(t *testing.T) {
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}}
		m := newTestManager(t, src)

		card, err := m.DrawOne(ctx)
		require.NoError(t, err)
		assert.Equal(t, deck.Two, card.Rank)
		assert.Equal(t, 311, m.Remaining())
		assert.Equal(t, []int{1}, src.draws)
	})

	t.Run("zero cards is an integrity error", func(t *testing.T) {
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, shortBy: 1}
		m := newTestManager(t, src)

		_, err := m.DrawOne(ctx)
		assert.ErrorIs(t, err, ErrCardCountMismatch)
	})

	t.Run("two cards is an integrity error", func(t *testing.T) {
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, extra: 1}
		m := newTestManager(t, src)

		_, err := m.DrawOne(ctx)
		assert.ErrorIs(t, err, ErrCardCountMismatch)
	})

	t.Run("source error propagates", func(t *testing.T) {
		boom := errors.New("timeout")
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, drawErr: boom}
		m := newTestManager(t, src)

		_, err := m.DrawOne(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 312, m.Remaining())
	})
}

func TestDrawMany(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cards in source order", func(t *testing.T) {
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}}
		m := newTestManager(t, src)

		cards, err := m.DrawMany(ctx, 4)
		require.NoError(t, err)
		require.Len(t, cards, 4)
		assert.Equal(t, deck.Two, cards[0].Rank)
		assert.Equal(t, deck.Five, cards[3].Rank)
		assert.Equal(t, 308, m.Remaining())
	})

	t.Run("short delivery is rejected but remaining is tracked", func(t *testing.T) {
		src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, shortBy: 2}
		m := newTestManager(t, src)

		_, err := m.DrawMany(ctx, 4)
		assert.ErrorIs(t, err, ErrCardCountMismatch)
		assert.Equal(t, 310, m.Remaining())
	})
}

func TestNeedsReshuffleAtCutCard(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, reshuffleTo: 312}
	m := newTestManager(t, src)

	// 312 -> 70 remaining
	_, err := m.DrawMany(ctx, 242)
	require.NoError(t, err)
	assert.Equal(t, 70, m.Remaining())
	assert.False(t, m.NeedsReshuffle())

	_, err = m.DrawOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, 69, m.Remaining())
	assert.True(t, m.NeedsReshuffle())

	require.NoError(t, m.Reshuffle(ctx))
	assert.Equal(t, 312, m.Remaining())
	assert.Equal(t, 70, m.CutCard())
	assert.False(t, m.NeedsReshuffle())
	assert.Equal(t, 1, src.reshuffles)
}

func TestReshuffleKeepsCutCard(t *testing.T) {
	ctx := context.Background()
	// a source that reports a smaller shoe after reshuffling must not move the cut card
	src := &fakeSource{created: Created{ID: "abc", Remaining: 312}, reshuffleTo: 60}
	m := newTestManager(t, src)

	require.NoError(t, m.Reshuffle(ctx))
	assert.Equal(t, 60, m.Remaining())
	assert.Equal(t, 70, m.CutCard())
	assert.True(t, m.NeedsReshuffle())
}
