package game

import "github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"

// SeatView is the public part of a seat. Hole cards are only filled in at
// showdown for seats that did not fold.
type SeatView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Personality string     `json:"personality,omitempty"`
	Stack       int        `json:"stack"`
	CurrentBet  int        `json:"current_bet"`
	Status      SeatStatus `json:"status"`
	HoleCards   []string   `json:"hole_cards,omitempty"`
	Dealer      bool       `json:"dealer,omitempty"`
}

// Snapshot is an immutable public copy of the session, safe to hand to
// other goroutines.
type Snapshot struct {
	SessionID         string     `json:"session_id"`
	HandNumber        int        `json:"hand_number"`
	Status            Status     `json:"status"`
	Street            string     `json:"street"`
	Pot               int        `json:"pot"`
	Board             []string   `json:"board"`
	CurrentBetMax     int        `json:"current_bet_max"`
	CurrentTurnSeatID string     `json:"current_turn_seat_id,omitempty"`
	Seats             []SeatView `json:"seats"`
}

// Snapshot copies the public state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:     s.SessionID,
		HandNumber:    s.HandNumber,
		Status:        s.Status,
		Street:        s.Street().String(),
		Pot:           s.Pot,
		Board:         poker.Strings(s.Board),
		CurrentBetMax: s.CurrentBetMax,
		Seats:         make([]SeatView, len(s.Seats)),
	}
	if s.Status == StatusPlaying {
		if seat := s.CurrentSeat(); seat != nil {
			snap.CurrentTurnSeatID = seat.ID
		}
	}
	for i, seat := range s.Seats {
		v := SeatView{
			ID:          seat.ID,
			Name:        seat.Name,
			Personality: seat.Personality,
			Stack:       seat.Stack,
			CurrentBet:  seat.CurrentBet,
			Status:      seat.Status,
			Dealer:      i == s.Dealer,
		}
		if s.Status == StatusShowdown && seat.Active() {
			v.HoleCards = poker.Strings(seat.HoleCards)
		}
		snap.Seats[i] = v
	}
	return snap
}
