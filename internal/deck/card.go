package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCard is returned when a card code, rank or suit can't be parsed
var ErrInvalidCard = errors.New("invalid card")

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in pack order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the symbol for a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single-letter code used in card codes (S, H, D, C)
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank from Two to Ace
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the display form of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "10"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// codeLetter is the rank part of a card code; tens are "0" so every code is two characters
func (r Rank) codeLetter() string {
	if r == Ten {
		return "0"
	}
	return r.String()
}

// IsFace returns true for J, Q and K
func (r Rank) IsFace() bool {
	return r >= Jack && r <= King
}

// Card represents a playing card. Code is an opaque display code, usually
// the code assigned by the card source that dealt it.
type Card struct {
	Rank Rank
	Suit Suit
	Code string
}

// NewCard creates a card with the canonical two-character code (e.g. "AS", "0H")
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit, Code: rank.codeLetter() + suit.Letter()}
}

// String returns the display form of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// ParseCode parses a card code such as "AS", "0H", "10H" or "kd".
func ParseCode(code string) (Card, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: code %q", ErrInvalidCard, code)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]

	var rank Rank
	switch rankPart {
	case "0", "10", "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return Card{}, fmt.Errorf("%w: rank in code %q", ErrInvalidCard, code)
		}
		rank = Rank(rankPart[0] - '0')
	}

	suit, err := parseSuitLetter(suitPart)
	if err != nil {
		return Card{}, fmt.Errorf("%w: suit in code %q", ErrInvalidCard, code)
	}

	return NewCard(rank, suit), nil
}

// ParseCodes parses a whitespace or comma separated list of card codes
func ParseCodes(codes string) ([]Card, error) {
	fields := strings.FieldsFunc(codes, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCode(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCodes is like ParseCodes but panics on error. Intended for tests
// and fixed card scripts.
func MustParseCodes(codes string) []Card {
	cards, err := ParseCodes(codes)
	if err != nil {
		panic(err)
	}
	return cards
}

// ParseRankName parses a spelled-out rank as used by card services ("ACE", "10", "KING")
func ParseRankName(name string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10", "0":
		return Ten, nil
	case "JACK":
		return Jack, nil
	case "QUEEN":
		return Queen, nil
	case "KING":
		return King, nil
	case "ACE":
		return Ace, nil
	}
	return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, name)
}

// ParseSuitName parses a spelled-out suit ("SPADES", "hearts")
func ParseSuitName(name string) (Suit, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SPADES":
		return Spades, nil
	case "HEARTS":
		return Hearts, nil
	case "DIAMONDS":
		return Diamonds, nil
	case "CLUBS":
		return Clubs, nil
	}
	return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, name)
}

func parseSuitLetter(letter string) (Suit, error) {
	switch letter {
	case "S":
		return Spades, nil
	case "H":
		return Hearts, nil
	case "D":
		return Diamonds, nil
	case "C":
		return Clubs, nil
	}
	return 0, ErrInvalidCard
}
