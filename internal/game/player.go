package game

// PlayerStatus governs whether the player may keep acting
type PlayerStatus int

const (
	Active PlayerStatus = iota
	Has21
	Busted
)

func (s PlayerStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Has21:
		return "21"
	case Busted:
		return "busted"
	default:
		return "unknown"
	}
}

// StatusOf derives a player status from a hand total
func StatusOf(total HandTotal) PlayerStatus {
	switch {
	case total.Value > Blackjack:
		return Busted
	case total.Value == Blackjack:
		return Has21
	default:
		return Active
	}
}

// Player is the bettor: a hand plus an identity and an in-memory balance
type Player struct {
	Hand
	ID      string
	Name    string
	Balance float64
}

// NewPlayer creates a player with an empty hand
func NewPlayer(id, name string, balance float64) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		Balance: balance,
	}
}

// Status returns the player's status for the current hand
func (p *Player) Status() PlayerStatus {
	return StatusOf(p.Total())
}
