package game

import (
	"errors"
	"testing"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playToRiver calls every open bet and closes each street on parity.
func playToRiver(t *testing.T, s *State) {
	t.Helper()
	for {
		step := s.NextStep()
		require.NotEqual(t, StepEarlyShowdown, step.Kind)
		if step.Kind == StepAct {
			_, err := s.Apply(step.Seat, Decision{Action: Call})
			require.NoError(t, err)
			s.AdvanceTurn()
			continue
		}
		street, err := s.AdvanceStreet()
		require.NoError(t, err)
		if street == Showdown {
			return
		}
	}
}

func TestContestedShowdownAwardsHigherRank(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)
	playToRiver(t, s)
	require.Len(t, s.Board, 5)

	pot := s.Pot
	before := s.Seats[0].Stack
	cmp := rankBySeat(s, map[int]HandRank{
		0: {Score: 900, Name: "Flush"},
		1: {Score: 400, Name: "Two Pair"},
	})

	res, err := s.Resolve(cmp)
	require.NoError(t, err)

	assert.False(t, res.Early)
	assert.Equal(t, 0, res.Winner)
	assert.Equal(t, "Flush", res.HandName)
	assert.Empty(t, res.Tied)
	assert.Equal(t, before+pot, s.Seats[0].Stack)
	assert.Zero(t, s.Pot)
	assert.Equal(t, 20000, s.TotalChips())
}

func TestTieAwardsFirstSeatByDefault(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000, 10000)
	playToRiver(t, s)
	pot := s.Pot

	res, err := s.Resolve(rankBySeat(s, map[int]HandRank{
		0: {Score: 100, Name: "Pair"},
		1: {Score: 500, Name: "Straight"},
		2: {Score: 500, Name: "Straight"},
	}))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, res.Tied)
	assert.Equal(t, []Award{{Seat: 1, Amount: pot}}, res.Awards)
	assert.Equal(t, 9900+pot, s.Seats[1].Stack)
	assert.Equal(t, 9900, s.Seats[2].Stack)
}

func TestSplitTiesGivesOddChipLeftOfDealer(t *testing.T) {
	t.Parallel()

	rules := testRules
	rules.SplitTies = true
	s := startHand(t, rules, 10000, 10000, 10000)
	playToRiver(t, s)
	// Dealer is seat 2; seat 0 is first to its left.
	s.Pot += 1
	s.Seats[2].Stack -= 1

	res, err := s.Resolve(rankBySeat(s, map[int]HandRank{
		0: {Score: 700, Name: "Full House"},
		1: {Score: 100, Name: "High Card"},
		2: {Score: 700, Name: "Full House"},
	}))
	require.NoError(t, err)

	require.Equal(t, []Award{{Seat: 0, Amount: 151}, {Seat: 2, Amount: 150}}, res.Awards)
	assert.Equal(t, 0, res.Winner)
	assert.Equal(t, 10051, s.Seats[0].Stack)
	assert.Equal(t, 9900, s.Seats[1].Stack)
	assert.Equal(t, 10049, s.Seats[2].Stack)
	assert.Zero(t, s.Pot)
}

func TestComparatorErrorLeavesPotUntouched(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000)
	playToRiver(t, s)
	pot := s.Pot

	boom := errors.New("boom")
	_, err := s.Resolve(comparatorFunc(func(_, _ []poker.Card) (HandRank, error) {
		return HandRank{}, boom
	}))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, pot, s.Pot)
	assert.Equal(t, StatusPlaying, s.Status)
}
