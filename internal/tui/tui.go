package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
)

const (
	paneLog = iota
	paneInput
)

// Options configures the table view
type Options struct {
	DefaultBet   float64
	ShowHoleCard bool
	Theme        string
}

// Model is the Bubble Tea model for a single-player blackjack table
type Model struct {
	bridge *Bridge
	logger *log.Logger
	opts   Options

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	// State, refreshed from each finished step
	snap    game.Snapshot
	stats   statistics.Statistics
	gameLog []string
	err     error
	busy    bool

	quitting    bool
	focusedPane int

	// Dimensions
	width       int
	height      int
	initialized bool
}

// New creates the table model. The engine must not be used elsewhere
// while the model is running.
func New(ctx context.Context, engine *game.Engine, logger *log.Logger, opts Options) *Model {
	formatter := game.NewEventFormatter(game.FormattingOptions{
		PlayerName:   engine.Player().Name,
		ShowHoleCard: opts.ShowHoleCard,
	})

	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("Bet amount (enter for %s)", money(opts.DefaultBet))
	ti.Focus()
	ti.CharLimit = 12
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		bridge:      NewBridge(ctx, engine, formatter),
		logger:      logger.WithPrefix("tui"),
		opts:        opts,
		logViewport: vp,
		betInput:    ti,
		focusedPane: paneInput,
	}
	m.apply(m.bridge.Snapshot())
	return m
}

// Run shows the table until the user quits or ctx is cancelled
func Run(ctx context.Context, engine *game.Engine, logger *log.Logger, opts Options) error {
	ApplyTheme(opts.Theme)
	m := New(ctx, engine, logger, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case stepMsg:
		m.busy = false
		m.apply(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.betInput.Focus()
			} else {
				m.focusedPane = paneLog
				m.betInput.Blur()
			}
			return m, nil
		}

		if m.focusedPane == paneLog {
			m.scrollLog(msg.String())
			return m, nil
		}
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	}

	// The bet field only takes input between rounds
	var cmd tea.Cmd
	if m.focusedPane == paneInput && m.snap.State == game.AwaitingBet && !m.busy {
		m.betInput, cmd = m.betInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey maps a key press to an engine step for the current state
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	if m.busy {
		return nil, key == "enter"
	}

	switch m.snap.State {
	case game.AwaitingBet:
		switch key {
		case "enter":
			bet, err := m.parseBet(m.betInput.Value())
			if err != nil {
				m.err = err
				return nil, true
			}
			m.betInput.SetValue("")
			return m.start(m.bridge.Deal(bet)), true
		case "q":
			if m.betInput.Value() == "" {
				m.quitting = true
				return tea.Sequence(tea.ClearScreen, tea.Quit), true
			}
		}

	case game.InitialDeal:
		if key == "r" {
			return m.start(m.bridge.RetryDeal()), true
		}

	case game.PlayerTurn:
		switch key {
		case "h":
			return m.start(m.bridge.Hit()), true
		case "s":
			return m.start(m.bridge.Stand()), true
		}

	case game.DealerTurn:
		if key == "r" {
			return m.start(m.bridge.Stand()), true
		}

	case game.RoundEnd:
		switch key {
		case "enter", "n":
			return m.start(m.bridge.NextRound()), true
		case "q":
			m.quitting = true
			return tea.Sequence(tea.ClearScreen, tea.Quit), true
		}
	}
	return nil, false
}

func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.err = nil
	return cmd
}

func (m *Model) parseBet(input string) (float64, error) {
	input = strings.TrimPrefix(strings.TrimSpace(input), "$")
	if input == "" {
		return m.opts.DefaultBet, nil
	}
	bet, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bet %q", input)
	}
	return bet, nil
}

// apply copies a finished step into the view state
func (m *Model) apply(msg stepMsg) {
	m.snap = msg.snap
	m.stats = msg.stats
	m.err = msg.err
	if msg.err != nil {
		m.logger.Warn("Step failed", "state", msg.snap.State, "error", msg.err)
	}
	for _, line := range msg.lines {
		m.AddLogEntry(line)
	}
}

func (m *Model) scrollLog(key string) {
	switch key {
	case "up", "k":
		m.logViewport.ScrollUp(1)
	case "down", "j":
		m.logViewport.ScrollDown(1)
	case "pgup", "b":
		m.logViewport.HalfPageUp()
	case "pgdown", "f":
		m.logViewport.HalfPageDown()
	case "home", "g":
		m.logViewport.GotoTop()
	case "end", "G":
		m.logViewport.GotoBottom()
	}
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Messages returns a copy of the game log
func (m *Model) Messages() []string {
	return append([]string(nil), m.gameLog...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == paneLog {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, HeaderStyle.Render("Blackjack"), topRow, actionPane)
}

// renderSidebarPane shows the bankroll, shoe and session figures
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(WarningStyle.Render("Balance: " + money(m.snap.Balance)))
	if m.snap.Bet > 0 {
		content.WriteString(" | ")
		content.WriteString(WarningStyle.Render("Bet: " + money(m.snap.Bet)))
	}
	content.WriteString("\n\n")

	fmt.Fprintf(&content, "Shoe: %d cards (cut %d)\n", m.snap.ShoeRemaining, m.snap.CutCard)
	if m.snap.NeedsReshuffle {
		content.WriteString(InfoStyle.Render("Reshuffle before next round"))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(InfoStyle.Render("Session:"))
	content.WriteString("\n")
	fmt.Fprintf(&content, "  Rounds: %d\n", m.stats.Rounds)
	if m.stats.Rounds > 0 {
		fmt.Fprintf(&content, "  W/L/P: %d/%d/%d\n", m.stats.Wins, m.stats.Losses, m.stats.Pushes)
		fmt.Fprintf(&content, "  Blackjacks: %d\n", m.stats.PlayerBlackjacks)
		net := m.stats.SumNet
		style := SuccessStyle
		if net < 0 {
			style = ErrorStyle
		}
		content.WriteString("  Net: " + style.Render(fmt.Sprintf("%+.2f", net)))
		content.WriteString("\n")
	}

	return content.String()
}

// renderActionPane shows both hands, the available keys and any error
func (m *Model) renderActionPane() string {
	var content strings.Builder

	content.WriteString(m.renderHands())

	if m.snap.Result != nil {
		content.WriteString(m.renderResult(*m.snap.Result))
		content.WriteString("\n")
	}

	if m.snap.State == game.AwaitingBet && !m.busy {
		content.WriteString(m.betInput.View())
		content.WriteString("\n")
	}

	if m.err != nil {
		content.WriteString(m.renderError())
		content.WriteString("\n")
	}

	content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Render(m.helpText()))
	return content.String()
}

func (m *Model) renderHands() string {
	if len(m.snap.PlayerCards) == 0 && len(m.snap.DealerCards) == 0 {
		return ""
	}

	var content strings.Builder
	if m.snap.DealerHidden() && len(m.snap.DealerCards) == 2 && !m.opts.ShowHoleCard {
		content.WriteString(HandInfoStyle.Render("Dealer: "))
		content.WriteString("[" + formatCard(m.snap.DealerCards[0]) + " " + HiddenCardStyle.Render("??") + "]")
	} else {
		content.WriteString(HandInfoStyle.Render("Dealer: "))
		content.WriteString(formatCards(m.snap.DealerCards))
		fmt.Fprintf(&content, " (%s)", m.snap.DealerTotal)
	}
	content.WriteString("\n")

	content.WriteString(HandInfoStyle.Render(m.snap.PlayerName + ": "))
	content.WriteString(formatCards(m.snap.PlayerCards))
	fmt.Fprintf(&content, " (%s)", m.snap.PlayerTotal)
	content.WriteString("\n")
	return content.String()
}

func (m *Model) renderResult(r game.RoundResult) string {
	net := r.Net()
	switch {
	case net > 0:
		return SuccessStyle.Render(fmt.Sprintf("%s, you win %s", r.Outcome, money(net)))
	case net < 0:
		return ErrorStyle.Render(fmt.Sprintf("%s, you lose %s", r.Outcome, money(-net)))
	default:
		return WarningStyle.Render(fmt.Sprintf("%s, stake returned", r.Outcome))
	}
}

func (m *Model) renderError() string {
	if kind, ok := game.KindOf(m.err); ok && kind == game.KindPersistence {
		return WarningStyle.Render("Balance not saved: " + m.err.Error())
	}
	return ErrorStyle.Render("Error: " + m.err.Error())
}

func (m *Model) helpText() string {
	if m.focusedPane == paneLog {
		return "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	if m.busy {
		return "Dealing..."
	}

	switch m.snap.State {
	case game.AwaitingBet:
		return "Enter to deal • q to quit • Tab to scroll log"
	case game.InitialDeal:
		return "r to retry the deal • Esc to quit"
	case game.PlayerTurn:
		return "h to hit • s to stand • Tab to scroll log"
	case game.DealerTurn:
		return "r to retry the dealer's draw • Esc to quit"
	case game.RoundEnd:
		return "Enter for next round • q to quit"
	default:
		return "Esc to quit"
	}
}

// formatCards formats cards with colors
func formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

func money(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("$%d", int64(amount))
	}
	return fmt.Sprintf("$%.2f", amount)
}
