package game

import (
	"fmt"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// NewHand starts a hand: resets the seats, deals two hole cards each from
// deck, posts blinds and sets the first seat to act (the one after the big
// blind). The returned State is in StatusPlaying.
func NewHand(seats []*Seat, dealer int, rules Rules, deck *poker.Deck) (*State, []Blind, error) {
	n := len(seats)
	if n < 2 {
		return nil, nil, ErrInsufficientSeats
	}
	if dealer < 0 || dealer >= n {
		return nil, nil, fmt.Errorf("%w: dealer %d", ErrSeatOutOfRange, dealer)
	}

	s := &State{
		Status: StatusPlaying,
		Dealer: dealer,
		Seats:  seats,
		Rules:  rules,
		deck:   deck,
		Board:  make([]poker.Card, 0, 5),
	}
	for _, seat := range seats {
		seat.resetForHand()
	}
	s.startTotal = s.TotalChips()

	// Two passes, one card each, starting left of the dealer.
	for range 2 {
		for k := 1; k <= n; k++ {
			c, err := deck.Deal()
			if err != nil {
				return nil, nil, fmt.Errorf("dealing hole cards: %w", err)
			}
			seat := seats[(dealer+k)%n]
			seat.HoleCards = append(seat.HoleCards, c)
		}
	}

	blinds := s.PostBlinds()
	s.CurrentTurnIndex = (s.BigBlindSeat + 1) % n
	return s, blinds, nil
}

// AdvanceStreet closes the current betting round. Before the river it burns
// one card, reveals the next street's board cards, resets every bet and
// hands the turn to the first active seat. At the river it deals nothing and
// returns Showdown; the caller resolves the hand.
func (s *State) AdvanceStreet() (Street, error) {
	var reveal int
	switch len(s.Board) {
	case 0:
		reveal = 3
	case 3, 4:
		reveal = 1
	default:
		return Showdown, nil
	}

	burned, err := s.deck.Burn()
	if err != nil {
		return s.Street(), fmt.Errorf("burning before %s: %w", s.Street()+1, err)
	}
	s.Burned = append(s.Burned, burned)

	cards, err := s.deck.DealN(reveal)
	if err != nil {
		return s.Street(), fmt.Errorf("dealing %s: %w", s.Street()+1, err)
	}
	s.Board = append(s.Board, cards...)

	for _, seat := range s.Seats {
		seat.resetForStreet()
	}
	s.CurrentBetMax = 0
	s.CurrentTurnIndex = 0
	if active := s.ActiveSeats(); len(active) > 0 {
		s.CurrentTurnIndex = active[0]
	}
	return s.Street(), nil
}
