package simulator

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	if v < 0 {
		return lossStyle.Render(s)
	}
	return gainStyle.Render(s)
}

// Summary renders a simulation result as a multi-line report
func Summary(r *Result) string {
	stats := r.Stats
	var b strings.Builder

	b.WriteString(sectionStyle.Render(fmt.Sprintf("=== RESULTS: %s strategy ===", r.Strategy)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Rounds played: %d on %d table(s) in %s\n", stats.Rounds, r.Tables, r.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&b, "Seed: %d  Reshuffles: %d  Rebuys: %d\n", r.Seed, r.Reshuffles, r.Rebuys)

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("=== OUTCOMES ==="))
	b.WriteString("\n")
	pct := func(n int) float64 {
		if stats.Rounds == 0 {
			return 0
		}
		return float64(n) / float64(stats.Rounds) * 100
	}
	fmt.Fprintf(&b, "Wins: %d (%.1f%%)  Blackjacks: %d (%.1f%%)\n",
		stats.Wins, pct(stats.Wins), stats.PlayerBlackjacks, pct(stats.PlayerBlackjacks))
	fmt.Fprintf(&b, "Losses: %d (%.1f%%)  Dealer blackjacks: %d (%.1f%%)\n",
		stats.Losses, pct(stats.Losses), stats.DealerBlackjacks, pct(stats.DealerBlackjacks))
	fmt.Fprintf(&b, "Pushes: %d (%.1f%%)\n", stats.Pushes, pct(stats.Pushes))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("=== STATISTICAL RESULTS ==="))
	b.WriteString("\n")
	low, high := stats.ConfidenceInterval95()
	fmt.Fprintf(&b, "Net: %s over %.2f wagered\n", signed(stats.SumNet, "%+.2f"), stats.Wagered)
	fmt.Fprintf(&b, "Return: %s\n", signed(stats.ReturnRate()*100, "%+.3f%%"))
	fmt.Fprintf(&b, "Mean: %.4f per round  Std Dev: %.4f  Std Error: %.4f\n",
		stats.Mean(), stats.StdDev(), stats.StdError())
	fmt.Fprintf(&b, "95%% CI: [%.4f, %.4f] per round\n", low, high)
	fmt.Fprintf(&b, "Biggest win: %.2f  Biggest loss: %.2f\n", stats.BiggestWin, stats.BiggestLoss)

	return b.String()
}
