package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

// stepMsg reports the end of one engine step. Everything the view needs is
// copied out of the engine inside the command, so Update never touches it.
type stepMsg struct {
	snap  game.Snapshot
	stats statistics.Statistics
	lines []string
	err   error
}

// eventLog buffers formatted round events until the running step finishes
type eventLog struct {
	mu        sync.Mutex
	formatter *game.EventFormatter
	lines     []string
}

func (l *eventLog) OnEvent(event game.GameEvent) {
	line := l.formatter.Format(event)
	if line == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

func (l *eventLog) drain() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := l.lines
	l.lines = nil
	return lines
}

// Bridge runs engine calls as Bubble Tea commands, one at a time
type Bridge struct {
	ctx    context.Context
	engine *game.Engine
	events *eventLog
	stats  *statistics.Collector
}

// NewBridge subscribes to the engine's events
func NewBridge(ctx context.Context, engine *game.Engine, formatter *game.EventFormatter) *Bridge {
	b := &Bridge{
		ctx:    ctx,
		engine: engine,
		events: &eventLog{formatter: formatter},
		stats:  statistics.NewCollector(),
	}
	engine.EventBus().Subscribe(b.events)
	engine.EventBus().Subscribe(b.stats)
	return b
}

func (b *Bridge) step(op func(ctx context.Context, e *game.Engine) error) tea.Cmd {
	return func() tea.Msg {
		err := op(b.ctx, b.engine)
		return b.result(err)
	}
}

func (b *Bridge) result(err error) stepMsg {
	return stepMsg{
		snap:  b.engine.Snapshot(),
		stats: b.stats.Snapshot(),
		lines: b.events.drain(),
		err:   err,
	}
}

// settleIfDecided finishes the round once the player can no longer act
func settleIfDecided(ctx context.Context, e *game.Engine) error {
	if e.PlayerStatus() == game.Active {
		return nil
	}
	_, err := e.Settle(ctx)
	return err
}

// Deal starts a round: reshuffle if due, take the bet and deal
func (b *Bridge) Deal(bet float64) tea.Cmd {
	return b.step(func(ctx context.Context, e *game.Engine) error {
		if _, err := e.ShuffleIfNeeded(ctx); err != nil {
			return err
		}
		if err := e.ClearHands(); err != nil {
			return err
		}
		if err := e.PlaceBet(bet); err != nil {
			return err
		}
		if err := e.DealInitial(ctx); err != nil {
			return err
		}
		return settleIfDecided(ctx, e)
	})
}

// RetryDeal repeats a failed initial deal
func (b *Bridge) RetryDeal() tea.Cmd {
	return b.step(func(ctx context.Context, e *game.Engine) error {
		if err := e.DealInitial(ctx); err != nil {
			return err
		}
		return settleIfDecided(ctx, e)
	})
}

// Hit draws a card and settles when the hand is decided
func (b *Bridge) Hit() tea.Cmd {
	return b.step(func(ctx context.Context, e *game.Engine) error {
		if _, err := e.PlayerHit(ctx); err != nil {
			return err
		}
		return settleIfDecided(ctx, e)
	})
}

// Stand ends the player's turn and settles. It also resumes a dealer turn
// interrupted by a failed draw.
func (b *Bridge) Stand() tea.Cmd {
	return b.step(func(ctx context.Context, e *game.Engine) error {
		_, err := e.Settle(ctx)
		return err
	})
}

// NextRound returns the engine to AwaitingBet
func (b *Bridge) NextRound() tea.Cmd {
	return b.step(func(ctx context.Context, e *game.Engine) error {
		return e.ResetRound()
	})
}

// Snapshot reads the engine directly. Only call it while no step is running.
func (b *Bridge) Snapshot() stepMsg {
	return b.result(nil)
}
