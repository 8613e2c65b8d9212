package game

import (
	"testing"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{SmallBlind: 50, BigBlind: 100}

func makeSeats(stacks ...int) []*Seat {
	names := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	seats := make([]*Seat, len(stacks))
	for i, stack := range stacks {
		seats[i] = NewSeat(names[i], names[i], "GTO", stack)
	}
	return seats
}

// startHand deals a hand with the dealer on the last seat, so seat 0 posts
// the small blind and seat 1 the big blind.
func startHand(t *testing.T, rules Rules, stacks ...int) *State {
	t.Helper()
	seats := makeSeats(stacks...)
	s, _, err := NewHand(seats, len(seats)-1, rules, poker.NewDeck(randutil.New(42)))
	require.NoError(t, err)
	return s
}

// advanceTo closes streets on parity until the board shows the target street.
func advanceTo(t *testing.T, s *State, target Street) {
	t.Helper()
	for s.Street() < target {
		require.Equal(t, StepRoundComplete, s.NextStep().Kind)
		_, err := s.AdvanceStreet()
		require.NoError(t, err)
	}
}

type comparatorFunc func(hole, board []poker.Card) (HandRank, error)

func (f comparatorFunc) Rank(hole, board []poker.Card) (HandRank, error) { return f(hole, board) }

// rankBySeat ranks hands by the first hole card of each seat.
func rankBySeat(s *State, ranks map[int]HandRank) Comparator {
	byCard := make(map[poker.Card]HandRank, len(ranks))
	for i, r := range ranks {
		byCard[s.Seats[i].HoleCards[0]] = r
	}
	return comparatorFunc(func(hole, _ []poker.Card) (HandRank, error) {
		return byCard[hole[0]], nil
	})
}

func noComparator(t *testing.T) Comparator {
	return comparatorFunc(func(_, _ []poker.Card) (HandRank, error) {
		t.Fatal("comparator must not be consulted")
		return HandRank{}, nil
	})
}

func newTestDeck() *poker.Deck {
	return poker.NewDeck(randutil.New(7))
}
