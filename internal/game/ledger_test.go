package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlindsPostedByTheTwoSeatsAfterDealer(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)

	assert.Equal(t, 150, s.Pot)
	assert.Equal(t, 100, s.CurrentBetMax)
	assert.Equal(t, 9950, s.Seats[0].Stack)
	assert.Equal(t, 9900, s.Seats[1].Stack)
	assert.Equal(t, 0, s.SmallBlindSeat)
	assert.Equal(t, 1, s.BigBlindSeat)
	assert.Equal(t, 50, s.ToCall(0))
	assert.Equal(t, 0, s.ToCall(1))
	assert.Equal(t, StatusPlaying, s.Status)
}

func TestPostBlindsReturnsForcedEntries(t *testing.T) {
	t.Parallel()

	seats := makeSeats(10000, 10000, 10000)
	s, blinds, err := NewHand(seats, 0, testRules, newTestDeck())
	require.NoError(t, err)

	require.Equal(t, []Blind{
		{Seat: 1, Action: SmallBlind, Amount: 50},
		{Seat: 2, Action: BigBlind, Amount: 100},
	}, blinds)
	assert.Equal(t, 0, s.CurrentTurnIndex, "first to act follows the big blind")
	for _, seat := range seats {
		assert.False(t, seat.Acted, "blinds are not discretionary")
	}
}

func TestShortBlindIsClamped(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 60)

	assert.Equal(t, 0, s.Seats[1].Stack)
	assert.Equal(t, 60, s.Seats[1].CurrentBet)
	assert.Equal(t, 60, s.CurrentBetMax)
	assert.Equal(t, 110, s.Pot)
}

func TestCallMatchesTheMaximum(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)

	applied, err := s.Apply(0, Decision{Action: Call, Amount: 9999})
	require.NoError(t, err)

	assert.Equal(t, Applied{Seat: 0, Action: Call, Amount: 50}, applied)
	assert.Equal(t, 9900, s.Seats[0].Stack)
	assert.Equal(t, 100, s.Seats[0].CurrentBet)
	assert.Equal(t, 200, s.Pot)
	assert.NoError(t, s.CheckConservation())
}

func TestRaiseLiftsTheMaximum(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)

	applied, err := s.Apply(0, Decision{Action: Raise, Amount: 350})
	require.NoError(t, err)

	assert.Equal(t, Raise, applied.Action)
	assert.Equal(t, 350, applied.Amount)
	assert.Equal(t, 400, s.CurrentBetMax)
	assert.Equal(t, 300, s.ToCall(1))
}

func TestContributionClampedToStack(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000, 200)
	seat := s.Seats[2]
	before := seat.CurrentBet

	moved, err := s.ApplyCallOrRaise(2, 500)
	require.NoError(t, err)

	assert.Equal(t, 200, moved)
	assert.Equal(t, 0, seat.Stack)
	assert.Equal(t, before+200, seat.CurrentBet)
	assert.Equal(t, 200, s.CurrentBetMax)
}

func TestApplyNormalisesDecisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		seat       int
		decision   Decision
		want       Action
		amount     int
		downgraded bool
	}{
		{"check facing a bet folds", 0, Decision{Action: Check}, Fold, 0, true},
		{"call with nothing owed checks", 1, Decision{Action: Call}, Check, 0, false},
		{"raise below the call is a call", 0, Decision{Action: Raise, Amount: 10}, Call, 50, false},
		{"raise of zero with nothing owed checks", 1, Decision{Action: Raise}, Check, 0, false},
		{"unknown action folds", 0, Decision{Action: Action(42)}, Fold, 0, true},
		{"fold", 0, Decision{Action: Fold}, Fold, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := startHand(t, testRules, 10000, 10000)

			applied, err := s.Apply(tt.seat, tt.decision)
			require.NoError(t, err)

			assert.Equal(t, tt.want, applied.Action)
			assert.Equal(t, tt.amount, applied.Amount)
			assert.Equal(t, tt.downgraded, applied.Downgraded)
			assert.True(t, s.Seats[tt.seat].Acted)
		})
	}
}

func TestApplyRejectsFoldedAndMissingSeats(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000, 10000)
	require.NoError(t, s.ApplyFold(2))

	_, err := s.Apply(2, Decision{Action: Call})
	assert.ErrorIs(t, err, ErrSeatFolded)

	_, err = s.Apply(7, Decision{Action: Call})
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	assert.ErrorIs(t, s.ApplyCheck(0), ErrIllegalCheck)
}

func TestFoldMovesNoChips(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)
	require.NoError(t, s.ApplyFold(0))

	assert.Equal(t, SeatFolded, s.Seats[0].Status)
	assert.Equal(t, 9950, s.Seats[0].Stack)
	assert.Equal(t, 150, s.Pot)
}

func TestAbortRefundsContributions(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000, 10000)
	_, err := s.Apply(2, Decision{Action: Raise, Amount: 400})
	require.NoError(t, err)
	advanceToAfterCalls(t, s)

	s.Abort()

	for _, seat := range s.Seats {
		assert.Equal(t, 10000, seat.Stack)
		assert.Zero(t, seat.Committed)
	}
	assert.Zero(t, s.Pot)
	assert.Equal(t, StatusLobby, s.Status)
}

// advanceToAfterCalls lets everyone call the open bet and deals the flop.
func advanceToAfterCalls(t *testing.T, s *State) {
	t.Helper()
	for {
		step := s.NextStep()
		if step.Kind != StepAct {
			break
		}
		_, err := s.Apply(step.Seat, Decision{Action: Call})
		require.NoError(t, err)
		s.AdvanceTurn()
	}
	_, err := s.AdvanceStreet()
	require.NoError(t, err)
}
