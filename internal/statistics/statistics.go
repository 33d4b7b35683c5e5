package statistics

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult is the part of a settled round the statistics need
type RoundResult struct {
	Net     float64 // Payout minus bet
	Bet     float64
	Outcome game.Outcome
}

// FromResult converts a settled game round
func FromResult(r game.RoundResult) RoundResult {
	return RoundResult{Net: r.Net(), Bet: r.Bet, Outcome: r.Outcome}
}

// Statistics tracks results over many rounds
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Wagered float64

	// Outcome counts; PlayerWon and DealerWon exclude blackjacks
	Wins             int
	Losses           int
	Pushes           int
	PlayerBlackjacks int
	DealerBlackjacks int

	BiggestWin  float64
	BiggestLoss float64 // Stored as a positive amount
}

// Mean returns the average net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// ReturnRate is net winnings as a fraction of everything wagered; the
// house edge shows up as a negative rate
func (s *Statistics) ReturnRate() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / s.Wagered
}

// WinRate is the share of rounds the player won, blackjacks included
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins+s.PlayerBlackjacks) / float64(s.Rounds)
}

// Add incorporates a settled round
func (s *Statistics) Add(result RoundResult) {
	net := result.Net
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Bet

	switch result.Outcome {
	case game.PlayerWon:
		s.Wins++
	case game.DealerWon:
		s.Losses++
	case game.Push:
		s.Pushes++
	case game.PlayerBlackjack:
		s.PlayerBlackjacks++
	case game.DealerBlackjack:
		s.DealerBlackjacks++
	}

	if net > s.BiggestWin {
		s.BiggestWin = net
	}
	if -net > s.BiggestLoss {
		s.BiggestLoss = -net
	}
}

// Merge folds other into s, e.g. to combine parallel tables
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.PlayerBlackjacks += other.PlayerBlackjacks
	s.DealerBlackjacks += other.DealerBlackjacks
	s.BiggestWin = math.Max(s.BiggestWin, other.BiggestWin)
	s.BiggestLoss = math.Max(s.BiggestLoss, other.BiggestLoss)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	outcomes := s.Wins + s.Losses + s.Pushes + s.PlayerBlackjacks + s.DealerBlackjacks
	if outcomes != s.Rounds {
		return fmt.Errorf("outcome total (%d) does not match rounds count (%d)", outcomes, s.Rounds)
	}

	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-s.SumNet) > 1e-6 {
		return fmt.Errorf("net mismatch: values sum to %.6f, SumNet=%.6f", sum, s.SumNet)
	}

	return nil
}

// Collector accumulates statistics from RoundSettled events
type Collector struct {
	mu    sync.Mutex
	stats Statistics
}

// NewCollector creates an empty collector. Subscribe it to an engine's event bus.
func NewCollector() *Collector {
	return &Collector{}
}

// OnEvent implements game.EventSubscriber
func (c *Collector) OnEvent(event game.GameEvent) {
	settled, ok := event.(game.RoundSettledEvent)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Add(FromResult(settled.Result))
}

// Snapshot returns a copy of the statistics gathered so far
func (c *Collector) Snapshot() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Values = append([]float64(nil), c.stats.Values...)
	return s
}
