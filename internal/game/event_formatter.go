package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	PlayerName     string // Name used for player-side lines, "Player" if empty
	ShowHoleCard   bool   // Reveal the dealer's second card in the initial deal
	ShowRoundIDs   bool   // Prefix round lines with the round ID (for logs)
	CurrencySymbol string // "$" if empty
}

// EventFormatter turns round events into one-line descriptions for the
// message log and the log file
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	if opts.PlayerName == "" {
		opts.PlayerName = "Player"
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}
	return &EventFormatter{opts: opts}
}

// Format describes any round event, or returns "" for unknown events
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundStartedEvent:
		return ef.FormatRoundStarted(e)
	case CardsDealtEvent:
		return ef.FormatCardsDealt(e)
	case ShoeReshuffledEvent:
		return ef.FormatShoeReshuffled(e)
	case RoundSettledEvent:
		return ef.FormatRoundSettled(e)
	default:
		return ""
	}
}

// FormatRoundStarted formats a round start
func (ef *EventFormatter) FormatRoundStarted(event RoundStartedEvent) string {
	return ef.withRound(event.RoundID, fmt.Sprintf("%s bets %s (balance %s)",
		ef.opts.PlayerName, ef.money(event.Bet), ef.money(event.Balance)))
}

// FormatCardsDealt formats cards going to either hand. The dealer's hole
// card stays hidden in the two-card initial deal unless ShowHoleCard is set.
func (ef *EventFormatter) FormatCardsDealt(event CardsDealtEvent) string {
	if event.Recipient == ToDealer {
		if len(event.Cards) == 2 && !ef.opts.ShowHoleCard {
			return ef.withRound(event.RoundID, fmt.Sprintf("Dealer shows [%s ??]", event.Cards[0]))
		}
		return ef.withRound(event.RoundID, fmt.Sprintf("Dealer draws [%s] (%s)", ef.formatCards(event.Cards), event.Total))
	}

	verb := "is dealt"
	if len(event.Cards) == 1 {
		verb = "hits"
	}
	return ef.withRound(event.RoundID, fmt.Sprintf("%s %s [%s] (%s)",
		ef.opts.PlayerName, verb, ef.formatCards(event.Cards), event.Total))
}

// FormatShoeReshuffled formats a reshuffle
func (ef *EventFormatter) FormatShoeReshuffled(event ShoeReshuffledEvent) string {
	return fmt.Sprintf("*** SHUFFLE *** %d cards, cut card at %d", event.Remaining, event.CutCard)
}

// FormatRoundSettled formats a settlement
func (ef *EventFormatter) FormatRoundSettled(event RoundSettledEvent) string {
	r := event.Result

	var b strings.Builder
	b.WriteString(r.Outcome.String())
	fmt.Fprintf(&b, " • %s vs dealer %s", r.PlayerTotal, r.DealerTotal)

	switch net := r.Net(); {
	case net > 0:
		fmt.Fprintf(&b, " • won %s", ef.money(net))
	case net < 0:
		fmt.Fprintf(&b, " • lost %s", ef.money(-net))
	default:
		b.WriteString(" • stake returned")
	}
	fmt.Fprintf(&b, " • balance %s", ef.money(event.Balance))

	return ef.withRound(r.RoundID, b.String())
}

func (ef *EventFormatter) withRound(roundID, line string) string {
	if !ef.opts.ShowRoundIDs || roundID == "" {
		return line
	}
	return fmt.Sprintf("[%s] %s", roundID, line)
}

// money drops the cents when the amount is whole
func (ef *EventFormatter) money(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%s%d", ef.opts.CurrencySymbol, int64(amount))
	}
	return fmt.Sprintf("%s%.2f", ef.opts.CurrencySymbol, amount)
}

// formatCards formats a slice of cards separated by spaces
func (ef *EventFormatter) formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, card.String())
	}
	return strings.Join(formatted, " ")
}
