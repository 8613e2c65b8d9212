package game

// ToCall returns what seat i must add to match the street maximum.
func (s *State) ToCall(i int) int {
	seat, err := s.Seat(i)
	if err != nil {
		return 0
	}
	return s.CurrentBetMax - seat.CurrentBet
}

// ApplyCheck marks seat i as having acted. It is only legal with nothing
// to call.
func (s *State) ApplyCheck(i int) error {
	seat, err := s.activeSeat(i)
	if err != nil {
		return err
	}
	if s.ToCall(i) != 0 {
		return ErrIllegalCheck
	}
	seat.Acted = true
	return nil
}

// ApplyFold removes seat i from the hand. No chips move.
func (s *State) ApplyFold(i int) error {
	seat, err := s.activeSeat(i)
	if err != nil {
		return err
	}
	seat.Status = SeatFolded
	seat.Acted = true
	return nil
}

// ApplyCallOrRaise moves min(amount, stack) from seat i into the pot and
// returns the chips moved. A contribution that lifts the seat above the
// street maximum is a raise and becomes the new maximum.
func (s *State) ApplyCallOrRaise(i, amount int) (int, error) {
	seat, err := s.activeSeat(i)
	if err != nil {
		return 0, err
	}
	moved := s.contribute(seat, amount)
	seat.Acted = true
	return moved, nil
}

// contribute is the chip movement shared by discretionary bets and blinds.
func (s *State) contribute(seat *Seat, amount int) int {
	moved := max(0, min(amount, seat.Stack))
	seat.Stack -= moved
	seat.CurrentBet += moved
	seat.Committed += moved
	s.Pot += moved
	if seat.CurrentBet > s.CurrentBetMax {
		s.CurrentBetMax = seat.CurrentBet
	}
	return moved
}

// Apply normalises a provider decision against the ledger and applies it.
// A call always moves what is owed; a call with nothing owed is a check;
// a raise moves at least what is owed; a check facing a bet becomes a fold.
func (s *State) Apply(i int, d Decision) (Applied, error) {
	if _, err := s.activeSeat(i); err != nil {
		return Applied{}, err
	}
	toCall := s.ToCall(i)
	out := Applied{Seat: i, Action: d.Action}

	switch d.Action {
	case Check:
		if toCall == 0 {
			return out, s.ApplyCheck(i)
		}
		out.Action, out.Downgraded = Fold, true
		return out, s.ApplyFold(i)

	case Call, Raise:
		amount := toCall
		if d.Action == Raise {
			amount = max(d.Amount, toCall)
		}
		if amount == 0 {
			out.Action = Check
			return out, s.ApplyCheck(i)
		}
		before := s.CurrentBetMax
		moved, err := s.ApplyCallOrRaise(i, amount)
		if err != nil {
			return out, err
		}
		out.Amount = moved
		if s.CurrentBetMax > before {
			out.Action = Raise
		} else {
			out.Action = Call
		}
		return out, nil

	case Fold:
		return out, s.ApplyFold(i)
	}

	out.Action, out.Downgraded = Fold, true
	return out, s.ApplyFold(i)
}

// Blind is a forced contribution posted at hand start.
type Blind struct {
	Seat   int
	Action Action
	Amount int
}

// PostBlinds forces the small and big blind from the two seats following
// the dealer marker.
func (s *State) PostBlinds() []Blind {
	n := len(s.Seats)
	s.SmallBlindSeat = (s.Dealer + 1) % n
	s.BigBlindSeat = (s.Dealer + 2) % n

	sb := s.contribute(s.Seats[s.SmallBlindSeat], s.Rules.SmallBlind)
	bb := s.contribute(s.Seats[s.BigBlindSeat], s.Rules.BigBlind)

	return []Blind{
		{Seat: s.SmallBlindSeat, Action: SmallBlind, Amount: sb},
		{Seat: s.BigBlindSeat, Action: BigBlind, Amount: bb},
	}
}

func (s *State) activeSeat(i int) (*Seat, error) {
	seat, err := s.Seat(i)
	if err != nil {
		return nil, err
	}
	if !seat.Active() {
		return nil, ErrSeatFolded
	}
	return seat, nil
}
