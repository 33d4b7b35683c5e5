// Package cardsource provides shoe.Source implementations: a client for a
// deckofcardsapi-compatible HTTP service, an in-memory local shoe, and a
// scripted source that deals a fixed sequence.
package cardsource

import (
	"errors"
)

var (
	// ErrUnavailable indicates the card service is unreachable or failing
	ErrUnavailable = errors.New("cardsource: unavailable")

	// ErrRejected indicates the source refused the request (unknown shoe,
	// not enough cards left)
	ErrRejected = errors.New("cardsource: request rejected")

	// ErrMalformed indicates a response that can't be decoded into cards
	ErrMalformed = errors.New("cardsource: malformed response")
)
