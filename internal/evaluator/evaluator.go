// Package evaluator ranks seven-card Hold'em hands for showdown.
package evaluator

import (
	"errors"
	"fmt"

	ph "github.com/paulhankin/poker"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// ErrCardCount is returned when hole plus board is not seven cards.
var ErrCardCount = errors.New("evaluator: need 2 hole cards and 5 board cards")

// Evaluator implements game.Comparator. It is stateless and safe for
// concurrent use.
type Evaluator struct{}

var _ game.Comparator = Evaluator{}

// New returns an Evaluator.
func New() Evaluator { return Evaluator{} }

// Rank scores the best five-card hand out of hole and board. Higher scores
// are stronger; equal scores split.
func (Evaluator) Rank(hole, board []poker.Card) (game.HandRank, error) {
	if len(hole) != 2 || len(board) != 5 {
		return game.HandRank{}, fmt.Errorf("%w: got %d+%d", ErrCardCount, len(hole), len(board))
	}

	var hand [7]ph.Card
	for i, c := range append(append([]poker.Card(nil), board...), hole...) {
		converted, err := Convert(c)
		if err != nil {
			return game.HandRank{}, err
		}
		hand[i] = converted
	}

	name, err := ph.Describe(hand[:])
	if err != nil {
		return game.HandRank{}, fmt.Errorf("describing hand: %w", err)
	}
	return game.HandRank{Score: int(ph.Eval7(&hand)), Name: name}, nil
}

// Convert maps a card onto the evaluator's encoding, where aces are rank 1
// and kings 13.
func Convert(c poker.Card) (ph.Card, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("evaluator: invalid card %d", c)
	}
	rank := ph.Rank(c.Rank().Value())
	if c.Rank() == poker.Ace {
		rank = 1
	}
	card, err := ph.MakeCard(ph.Suit(c.Suit()), rank)
	if err != nil {
		return 0, fmt.Errorf("converting %s: %w", c, err)
	}
	return card, nil
}
