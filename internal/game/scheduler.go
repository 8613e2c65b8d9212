package game

// StepKind is the scheduler's verdict for the current state.
type StepKind int

const (
	// StepAct means Seat must take a discretionary turn.
	StepAct StepKind = iota
	// StepRoundComplete means every active seat is settled for the street.
	StepRoundComplete
	// StepEarlyShowdown means at most one active seat remains.
	StepEarlyShowdown
)

func (k StepKind) String() string {
	return [...]string{"act", "round_complete", "early_showdown"}[k]
}

// Step is the outcome of NextStep.
type Step struct {
	Kind    StepKind
	Seat    int // acting seat for StepAct, survivor for StepEarlyShowdown
	Skipped int // seats passed over to reach Seat
}

// NextStep decides what happens next. Seats that are folded or already
// settled are skipped by advancing CurrentTurnIndex without consuming an
// action.
func (s *State) NextStep() Step {
	active := s.ActiveSeats()
	if len(active) <= 1 {
		survivor := -1
		if len(active) == 1 {
			survivor = active[0]
		}
		return Step{Kind: StepEarlyShowdown, Seat: survivor}
	}

	if s.roundComplete(active) {
		return Step{Kind: StepRoundComplete, Seat: -1}
	}

	skipped := 0
	for range len(s.Seats) {
		i := s.CurrentTurnIndex
		if s.Seats[i].Active() && !s.settled(i) {
			return Step{Kind: StepAct, Seat: i, Skipped: skipped}
		}
		s.AdvanceTurn()
		skipped++
	}

	// roundComplete said someone is unsettled, so this is unreachable.
	return Step{Kind: StepRoundComplete, Seat: -1, Skipped: skipped}
}

// AdvanceTurn moves CurrentTurnIndex one seat to the left, wrapping.
func (s *State) AdvanceTurn() {
	if len(s.Seats) == 0 {
		return
	}
	s.CurrentTurnIndex = (s.CurrentTurnIndex + 1) % len(s.Seats)
}

func (s *State) roundComplete(active []int) bool {
	for _, i := range active {
		if !s.settled(i) {
			return false
		}
	}
	return true
}

// settled reports whether seat i has nothing left to decide this street.
// Parity with the street maximum settles a seat; so does an empty stack,
// which counts as having called with whatever remained. The optional rules
// additionally hold a seat open until it has acted once.
func (s *State) settled(i int) bool {
	seat := s.Seats[i]
	if seat.AllIn() {
		return true
	}
	if seat.CurrentBet != s.CurrentBetMax {
		return false
	}
	if seat.Acted {
		return true
	}
	switch {
	case s.Rules.FullAction:
		return false
	case s.Rules.BigBlindOption:
		return s.Street() != Preflop || i != s.BigBlindSeat
	}
	return true
}
