package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a round event type with type safety
type EventType string

const (
	EventTypeRoundStarted   EventType = "round_started"
	EventTypeCardsDealt     EventType = "cards_dealt"
	EventTypeShoeReshuffled EventType = "shoe_reshuffled"
	EventTypeRoundSettled   EventType = "round_settled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// Recipient identifies which hand received cards
type Recipient string

const (
	ToPlayer Recipient = "player"
	ToDealer Recipient = "dealer"
)

// RoundStartedEvent is published when a bet is accepted
type RoundStartedEvent struct {
	RoundID   string
	PlayerID  string
	Bet       float64
	Balance   float64
	timestamp time.Time
}

func (e RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }
func (e RoundStartedEvent) Timestamp() time.Time { return e.timestamp }

// CardsDealtEvent is published whenever cards land in a hand
type CardsDealtEvent struct {
	RoundID   string
	Recipient Recipient
	Cards     []deck.Card
	Total     HandTotal
	timestamp time.Time
}

func (e CardsDealtEvent) EventType() EventType { return EventTypeCardsDealt }
func (e CardsDealtEvent) Timestamp() time.Time { return e.timestamp }

// ShoeReshuffledEvent is published when the shoe passes the cut card and is reshuffled
type ShoeReshuffledEvent struct {
	Remaining int
	CutCard   int
	timestamp time.Time
}

func (e ShoeReshuffledEvent) EventType() EventType { return EventTypeShoeReshuffled }
func (e ShoeReshuffledEvent) Timestamp() time.Time { return e.timestamp }

// RoundSettledEvent is published once the payout is credited
type RoundSettledEvent struct {
	Result    RoundResult
	Balance   float64
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publishing goroutine, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
