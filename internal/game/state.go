package game

import (
	"errors"
	"fmt"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

var (
	ErrInsufficientSeats = errors.New("game: at least two seats required")
	ErrSeatOutOfRange    = errors.New("game: seat index out of range")
	ErrSeatFolded        = errors.New("game: seat has folded")
	ErrIllegalCheck      = errors.New("game: check facing a bet")
)

// State is the single authoritative aggregate for one hand.
type State struct {
	SessionID  string
	HandNumber int
	Status     Status

	Pot              int
	Board            []poker.Card
	Burned           []poker.Card
	CurrentBetMax    int
	CurrentTurnIndex int

	Dealer         int
	SmallBlindSeat int
	BigBlindSeat   int
	Seats          []*Seat
	Rules          Rules

	deck       *poker.Deck
	startTotal int
}

// Street derives the current street from the board.
func (s *State) Street() Street {
	if s.Status == StatusShowdown {
		return Showdown
	}
	switch len(s.Board) {
	case 0:
		return Preflop
	case 3:
		return Flop
	case 4:
		return Turn
	default:
		return River
	}
}

// Seat returns the seat at index i.
func (s *State) Seat(i int) (*Seat, error) {
	if i < 0 || i >= len(s.Seats) {
		return nil, fmt.Errorf("%w: %d", ErrSeatOutOfRange, i)
	}
	return s.Seats[i], nil
}

// CurrentSeat returns the seat addressed by CurrentTurnIndex.
func (s *State) CurrentSeat() *Seat {
	if len(s.Seats) == 0 {
		return nil
	}
	return s.Seats[s.CurrentTurnIndex]
}

// ActiveSeats returns the indexes of seats that have not folded.
func (s *State) ActiveSeats() []int {
	active := make([]int, 0, len(s.Seats))
	for i, seat := range s.Seats {
		if seat.Active() {
			active = append(active, i)
		}
	}
	return active
}

// TotalChips returns every stack plus the pot.
func (s *State) TotalChips() int {
	total := s.Pot
	for _, seat := range s.Seats {
		total += seat.Stack
	}
	return total
}

// StartingChips is TotalChips as measured when the hand began.
func (s *State) StartingChips() int {
	return s.startTotal
}

// CheckConservation reports an error when chips were created or destroyed
// since the hand began.
func (s *State) CheckConservation() error {
	if got := s.TotalChips(); got != s.startTotal {
		return fmt.Errorf("game: chip total %d, hand started with %d", got, s.startTotal)
	}
	return nil
}

// DealtCards returns every card that left the deck this hand: hole cards,
// board and burns.
func (s *State) DealtCards() []poker.Card {
	var out []poker.Card
	for _, seat := range s.Seats {
		out = append(out, seat.HoleCards...)
	}
	out = append(out, s.Board...)
	out = append(out, s.Burned...)
	return out
}

// RemainingDeck returns the undealt cards.
func (s *State) RemainingDeck() []poker.Card {
	if s.deck == nil {
		return nil
	}
	return s.deck.Undealt()
}

// Abort unwinds the hand: every seat gets back what it committed and the
// pot is emptied. Used when the hand cannot continue consistently.
func (s *State) Abort() {
	for _, seat := range s.Seats {
		seat.Stack += seat.Committed
		seat.CurrentBet = 0
		seat.Committed = 0
	}
	s.Pot = 0
	s.CurrentBetMax = 0
	s.Status = StatusLobby
}
