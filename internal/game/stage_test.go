package game

import (
	"testing"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandNeedsTwoSeats(t *testing.T) {
	t.Parallel()

	_, _, err := NewHand(makeSeats(10000), 0, testRules, newTestDeck())
	assert.ErrorIs(t, err, ErrInsufficientSeats)

	_, _, err = NewHand(makeSeats(10000, 10000), 5, testRules, newTestDeck())
	assert.ErrorIs(t, err, ErrSeatOutOfRange)
}

func TestNewHandResetsSeats(t *testing.T) {
	t.Parallel()

	seats := makeSeats(10000, 10000)
	seats[0].Status = SeatFolded
	seats[1].CurrentBet = 300
	seats[1].HoleCards = poker.MustParseCards("As Ks")

	s, _, err := NewHand(seats, 1, testRules, newTestDeck())
	require.NoError(t, err)

	for _, seat := range s.Seats {
		assert.Equal(t, SeatActive, seat.Status)
		assert.Len(t, seat.HoleCards, 2)
	}
	assert.Equal(t, 100, seats[1].CurrentBet)
	assert.Equal(t, 20000, s.StartingChips())
}

func TestHoleCardsDealtOneAtATimeFromDealersLeft(t *testing.T) {
	t.Parallel()

	cards := poker.Build()
	seats := makeSeats(10000, 10000, 10000)
	_, _, err := NewHand(seats, 0, testRules, poker.NewStackedDeck(cards))
	require.NoError(t, err)

	assert.Equal(t, []poker.Card{cards[2], cards[5]}, seats[0].HoleCards)
	assert.Equal(t, []poker.Card{cards[0], cards[3]}, seats[1].HoleCards)
	assert.Equal(t, []poker.Card{cards[1], cards[4]}, seats[2].HoleCards)
}

func TestStreetsBurnBeforeRevealing(t *testing.T) {
	t.Parallel()

	cards := poker.Build()
	s, _, err := NewHand(makeSeats(10000, 10000), 1, testRules, poker.NewStackedDeck(cards))
	require.NoError(t, err)
	_, err = s.Apply(0, Decision{Action: Call})
	require.NoError(t, err)

	advanceTo(t, s, River)

	assert.Equal(t, []poker.Card{cards[4], cards[8], cards[10]}, s.Burned)
	assert.Equal(t, []poker.Card{cards[5], cards[6], cards[7], cards[9], cards[11]}, s.Board)
	assert.Equal(t, 0, s.CurrentTurnIndex)
}

func TestAdvanceStreetPointsAtFirstActiveSeat(t *testing.T) {
	t.Parallel()

	s := startHand(t, testRules, 10000, 10000, 10000, 10000)
	for _, i := range []int{2, 3} {
		_, err := s.Apply(i, Decision{Action: Call})
		require.NoError(t, err)
	}
	require.NoError(t, s.ApplyFold(0))
	require.Equal(t, StepRoundComplete, s.NextStep().Kind)

	_, err := s.AdvanceStreet()
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentTurnIndex)
}

func TestDeckExhaustedMidHand(t *testing.T) {
	t.Parallel()

	cards := poker.Build()[:6]
	s, _, err := NewHand(makeSeats(10000, 10000), 1, testRules, poker.NewStackedDeck(cards))
	require.NoError(t, err)
	_, err = s.Apply(0, Decision{Action: Call})
	require.NoError(t, err)

	_, err = s.AdvanceStreet()
	require.ErrorIs(t, err, poker.ErrDeckExhausted)
	assert.Empty(t, s.Board, "a short deal reveals nothing")

	s.Abort()
	assert.Equal(t, 20000, s.TotalChips())
	assert.Equal(t, 10000, s.Seats[0].Stack)
}

func TestDeckIntegrityAcrossManyHands(t *testing.T) {
	t.Parallel()

	rng := randutil.New(99)
	for hand := range 200 {
		n := 2 + hand%9
		stacks := make([]int, n)
		for i := range stacks {
			stacks[i] = 10000
		}
		s, _, err := NewHand(makeSeats(stacks...), hand%n, testRules, poker.NewDeck(rng))
		require.NoError(t, err)
		playToRiver(t, s)

		seen := make(map[poker.Card]bool, poker.DeckSize)
		for _, c := range append(s.DealtCards(), s.RemainingDeck()...) {
			require.False(t, seen[c], "hand %d: %s seen twice", hand, c)
			seen[c] = true
		}
		require.Len(t, seen, poker.DeckSize)
		require.Len(t, s.DealtCards(), 2*n+5+3)
		require.NoError(t, s.CheckConservation())
	}
}
