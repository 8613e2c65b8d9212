package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// Heuristic is the house brain: a coin-flip policy that ignores its cards.
//
// With nothing to call it raises 200 one time in five and checks otherwise.
// Facing a bet it folds 20% of the time, calls 60% and raises the call plus
// 300 for the rest.
type Heuristic struct {
	rng    *lockedRand
	logger *log.Logger
}

// NewHeuristic creates a new Heuristic provider
func NewHeuristic(rng *rand.Rand, logger *log.Logger) *Heuristic {
	return &Heuristic{rng: &lockedRand{rng: rng}, logger: logger}
}

func (h *Heuristic) Decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error) {
	if err := ctx.Err(); err != nil {
		return game.Decision{}, err
	}

	d := game.Decision{Confidence: h.rng.confidence()}
	roll := h.rng.Float64()

	if req.ToCall == 0 {
		if roll > 0.8 {
			d.Action, d.Amount = game.Raise, 200
			d.Rationale = "Board is looking decent. Pot odds dictate a value raise. Executing 200 compute credits."
		} else {
			d.Action = game.Check
			d.Rationale = "No bet to call. Checking to see free cards. EV neutral."
		}
	} else {
		switch {
		case roll < 0.2:
			d.Action = game.Fold
			d.Rationale = "Opponent pressure too high relative to hand strength. Folding to preserve stack."
		case roll < 0.8:
			d.Action, d.Amount = game.Call, min(req.ToCall, req.Stack)
			d.Rationale = fmt.Sprintf("Calling %d credits to stick around. Pot odds are acceptable.", d.Amount)
		default:
			d.Action, d.Amount = game.Raise, req.ToCall+300
			d.Rationale = fmt.Sprintf("Detecting weakness. Over-betting %d to apply pressure and steal blinds.", d.Amount)
		}
	}

	logDecision(h.logger, req, d)
	return d, nil
}
