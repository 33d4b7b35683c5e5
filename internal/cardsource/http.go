package cardsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/shoe"
)

// DefaultBaseURL is the public deck of cards service
const DefaultBaseURL = "https://deckofcardsapi.com"

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// HTTPSource deals cards from a deckofcardsapi-compatible service
type HTTPSource struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPSource creates a source for the service at baseURL. timeout bounds
// each request; zero means no client-side timeout.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *log.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithPrefix("cardsource"),
	}
}

type apiCard struct {
	Code  string `json:"code"`
	Value string `json:"value"`
	Suit  string `json:"suit"`
	Image string `json:"image,omitempty"`
}

type apiResponse struct {
	Success   bool      `json:"success"`
	DeckID    string    `json:"deck_id"`
	Shuffled  bool      `json:"shuffled"`
	Remaining int       `json:"remaining"`
	Cards     []apiCard `json:"cards,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// CreateShoe requests a new shuffled shoe of deckCount decks
func (s *HTTPSource) CreateShoe(ctx context.Context, deckCount int) (shoe.Created, error) {
	q := url.Values{"deck_count": {strconv.Itoa(deckCount)}}
	resp, err := s.get(ctx, "/api/deck/new/shuffle/", q)
	if err != nil {
		return shoe.Created{}, err
	}
	s.logger.Debug("Created shoe", "id", resp.DeckID, "remaining", resp.Remaining)
	return shoe.Created{ID: resp.DeckID, Remaining: resp.Remaining}, nil
}

// Draw requests count cards from the shoe
func (s *HTTPSource) Draw(ctx context.Context, shoeID string, count int) (shoe.Drawn, error) {
	q := url.Values{"count": {strconv.Itoa(count)}}
	resp, err := s.get(ctx, "/api/deck/"+url.PathEscape(shoeID)+"/draw/", q)
	if err != nil {
		return shoe.Drawn{}, err
	}

	cards := make([]deck.Card, 0, len(resp.Cards))
	for _, c := range resp.Cards {
		card, err := toCard(c)
		if err != nil {
			return shoe.Drawn{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		cards = append(cards, card)
	}
	return shoe.Drawn{Cards: cards, Remaining: resp.Remaining}, nil
}

// Reshuffle returns all cards to the shoe and shuffles it
func (s *HTTPSource) Reshuffle(ctx context.Context, shoeID string) (int, error) {
	resp, err := s.get(ctx, "/api/deck/"+url.PathEscape(shoeID)+"/shuffle/", nil)
	if err != nil {
		return 0, err
	}
	return resp.Remaining, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, query url.Values) (apiResponse, error) {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// network errors, timeouts, cancellation
		return apiResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return apiResponse{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	default:
		return apiResponse{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return apiResponse{}, fmt.Errorf("%w: decode error: %v", ErrMalformed, err)
	}

	if !body.Success {
		msg := body.Error
		if msg == "" {
			msg = "success=false"
		}
		return apiResponse{}, fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	return body, nil
}

func toCard(c apiCard) (deck.Card, error) {
	rank, err := deck.ParseRankName(c.Value)
	if err != nil {
		return deck.Card{}, err
	}
	suit, err := deck.ParseSuitName(c.Suit)
	if err != nil {
		return deck.Card{}, err
	}

	card := deck.NewCard(rank, suit)
	if c.Code != "" {
		card.Code = c.Code
	}
	return card, nil
}
