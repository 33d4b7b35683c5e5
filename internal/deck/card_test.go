package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/randutil"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "AS", expected: Card{Rank: Ace, Suit: Spades, Code: "AS"}},
		{name: "ten as zero", input: "0H", expected: Card{Rank: Ten, Suit: Hearts, Code: "0H"}},
		{name: "ten as 10", input: "10H", expected: Card{Rank: Ten, Suit: Hearts, Code: "0H"}},
		{name: "ten as T", input: "TD", expected: Card{Rank: Ten, Suit: Diamonds, Code: "0D"}},
		{name: "lower case", input: "kd", expected: Card{Rank: King, Suit: Diamonds, Code: "KD"}},
		{name: "pip card", input: "7C", expected: Card{Rank: Seven, Suit: Clubs, Code: "7C"}},
		{name: "invalid rank", input: "1S", wantErr: true},
		{name: "invalid suit", input: "AX", wantErr: true},
		{name: "too short", input: "A", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCodes(t *testing.T) {
	cards, err := ParseCodes("AS, KH 7c\t0D")
	require.NoError(t, err)
	require.Len(t, cards, 4)
	assert.Equal(t, Ace, cards[0].Rank)
	assert.Equal(t, King, cards[1].Rank)
	assert.Equal(t, Clubs, cards[2].Suit)
	assert.Equal(t, Ten, cards[3].Rank)

	empty, err := ParseCodes("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseCodes("AS ZZ")
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestParseNames(t *testing.T) {
	rank, err := ParseRankName("QUEEN")
	require.NoError(t, err)
	assert.Equal(t, Queen, rank)

	rank, err = ParseRankName("10")
	require.NoError(t, err)
	assert.Equal(t, Ten, rank)

	_, err = ParseRankName("JOKER")
	assert.ErrorIs(t, err, ErrInvalidCard)

	suit, err := ParseSuitName("diamonds")
	require.NoError(t, err)
	assert.Equal(t, Diamonds, suit)

	_, err = ParseSuitName("STARS")
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.True(t, NewCard(Two, Diamonds).IsRed())
	assert.False(t, NewCard(Two, Clubs).IsRed())
	assert.True(t, NewCard(Queen, Clubs).Rank.IsFace())
	assert.False(t, NewCard(Ace, Clubs).Rank.IsFace())
}

func TestPack(t *testing.T) {
	p := NewPack(6, randutil.New(42))
	assert.Equal(t, 312, p.Size())
	assert.Equal(t, 312, p.Remaining())

	dealt := p.DealN(4)
	assert.Len(t, dealt, 4)
	assert.Equal(t, 308, p.Remaining())

	rest := p.DealN(1000)
	assert.Len(t, rest, 308)
	assert.Equal(t, 0, p.Remaining())

	p.Reset()
	assert.Equal(t, 312, p.Remaining())
}

func TestPackComposition(t *testing.T) {
	p := NewPack(2, randutil.New(7))
	counts := make(map[string]int)
	for _, c := range p.DealN(p.Size()) {
		counts[c.Code]++
	}
	assert.Len(t, counts, 52)
	for code, n := range counts {
		assert.Equal(t, 2, n, "card %s", code)
	}
}

func TestPackSeededDeterminism(t *testing.T) {
	a := NewPack(1, randutil.New(99)).DealN(10)
	b := NewPack(1, randutil.New(99)).DealN(10)
	assert.Equal(t, a, b)
}
