// Package bot contains the decision providers that play the seats.
//
// Every provider answers game.DecisionRequest with a game.Decision. The
// engine normalises whatever comes back, so providers may ask for more than
// a seat owns or check into a bet; the ledger clamps or downgrades.
package bot

import (
	"context"
	"math"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// Provider chooses an action for the seat described by req.
type Provider interface {
	Decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req game.DecisionRequest) (game.Decision, error)

func (f ProviderFunc) Decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error) {
	return f(ctx, req)
}

// lockedRand guards a *rand.Rand. A decision that overran its deadline may
// still be running when the next one starts.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// confidence draws a score in [0,1] rounded to two decimals.
func (r *lockedRand) confidence() float64 {
	return math.Round(r.Float64()*100) / 100
}

func logDecision(logger *log.Logger, req game.DecisionRequest, d game.Decision) {
	logger.Debug("decision",
		"seat", req.Name,
		"street", req.Street,
		"to_call", req.ToCall,
		"stack", req.Stack,
		"action", d.Action,
		"amount", d.Amount)
}
