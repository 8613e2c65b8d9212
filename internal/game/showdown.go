package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// DefaultWin is the hand name reported when the last active seat wins
// without a comparison.
const DefaultWin = "Default Win"

// HandRank is a comparator's verdict on one seat's best hand. Higher Score
// is better; equal scores tie.
type HandRank struct {
	Score int
	Name  string
}

// Comparator ranks two hole cards plus the board.
type Comparator interface {
	Rank(hole, board []poker.Card) (HandRank, error)
}

// Award is chips moved from the pot to one seat.
type Award struct {
	Seat   int
	Amount int
}

// Result describes how a hand was settled.
type Result struct {
	Early    bool
	Pot      int // pot before the award
	Winner   int // first seat in Awards
	HandName string
	Awards   []Award
	Ranks    map[int]HandRank // contested showdowns only
	Tied     []int            // seats sharing the best rank, when more than one
}

var errNoActiveSeats = errors.New("game: no active seat to award")

// Resolve settles the hand and moves the pot into the winning stack(s).
// With one active seat no comparison is made. Otherwise every active seat is
// ranked by cmp; ties go to the first tied seat in seat order unless
// Rules.SplitTies is set.
func (s *State) Resolve(cmp Comparator) (Result, error) {
	active := s.ActiveSeats()
	if len(active) == 0 {
		return Result{}, errNoActiveSeats
	}

	res := Result{Pot: s.Pot, HandName: DefaultWin}
	winners := active[:1]

	if len(active) == 1 {
		res.Early = true
	} else {
		res.Ranks = make(map[int]HandRank, len(active))
		var best HandRank
		winners = nil
		for _, i := range active {
			rank, err := cmp.Rank(s.Seats[i].HoleCards, s.Board)
			if err != nil {
				return Result{}, fmt.Errorf("ranking seat %s: %w", s.Seats[i].ID, err)
			}
			res.Ranks[i] = rank
			switch {
			case len(winners) == 0 || rank.Score > best.Score:
				best = rank
				winners = []int{i}
			case rank.Score == best.Score:
				winners = append(winners, i)
			}
		}
		res.HandName = best.Name
		if len(winners) > 1 {
			res.Tied = slices.Clone(winners)
		}
	}

	s.Status = StatusShowdown
	if len(winners) > 1 && s.Rules.SplitTies {
		res.Awards = s.split(winners)
	} else {
		res.Awards = []Award{{Seat: winners[0], Amount: s.Pot}}
	}
	for _, a := range res.Awards {
		s.Seats[a.Seat].Stack += a.Amount
	}
	res.Winner = res.Awards[0].Seat
	s.Pot = 0
	return res, nil
}

// split divides the pot equally; odd chips go one at a time to the tied
// seats starting left of the dealer.
func (s *State) split(winners []int) []Award {
	n := len(s.Seats)
	order := slices.Clone(winners)
	slices.SortFunc(order, func(a, b int) int {
		return (a-s.Dealer-1+n)%n - (b-s.Dealer-1+n)%n
	})

	share := s.Pot / len(order)
	rem := s.Pot % len(order)
	awards := make([]Award, len(order))
	for k, seat := range order {
		awards[k] = Award{Seat: seat, Amount: share}
		if k < rem {
			awards[k].Amount++
		}
	}
	return awards
}
