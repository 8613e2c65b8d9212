package game

import "github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"

// SeatStatus is a seat's standing in the current hand.
type SeatStatus string

const (
	SeatActive SeatStatus = "active"
	SeatFolded SeatStatus = "folded"
)

// Seat is one participating agent. Stack persists across hands; the other
// fields are per-hand or per-street.
type Seat struct {
	ID          string
	Name        string
	Personality string

	Stack      int
	CurrentBet int // contribution on the current street
	Committed  int // contribution over the whole hand
	Status     SeatStatus
	HoleCards  []poker.Card
	Acted      bool // took a discretionary action this street
}

// NewSeat returns an active seat with the given stack.
func NewSeat(id, name, personality string, stack int) *Seat {
	return &Seat{
		ID:          id,
		Name:        name,
		Personality: personality,
		Stack:       stack,
		Status:      SeatActive,
	}
}

// Active reports whether the seat has not folded this hand.
func (s *Seat) Active() bool {
	return s.Status == SeatActive
}

// AllIn reports whether an active seat has nothing left to bet.
func (s *Seat) AllIn() bool {
	return s.Active() && s.Stack == 0
}

func (s *Seat) resetForHand() {
	s.CurrentBet = 0
	s.Committed = 0
	s.Status = SeatActive
	s.HoleCards = nil
	s.Acted = false
}

func (s *Seat) resetForStreet() {
	s.CurrentBet = 0
	s.Acted = false
}
