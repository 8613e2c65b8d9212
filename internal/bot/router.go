package bot

import (
	"context"
	rand "math/rand/v2"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
)

// Personalities the default router knows about. Anything else, including
// "GTO", is played by the Heuristic brain.
const (
	PersonalityAggressive = "aggressive"
	PersonalityTight      = "tight"
	PersonalityLoose      = "loose"
	PersonalityGTO        = "GTO"
)

// Router dispatches each request to a provider chosen by the seat's
// personality, compared case-insensitively.
type Router struct {
	mu       sync.RWMutex
	routes   map[string]Provider
	fallback Provider
}

// NewRouter returns a router that sends unrouted personalities to fallback.
func NewRouter(fallback Provider) *Router {
	return &Router{routes: make(map[string]Provider), fallback: fallback}
}

// NewDefaultRouter wires the standard personalities, each with its own
// random source forked from rng.
func NewDefaultRouter(rng *rand.Rand, logger *log.Logger) *Router {
	logger = logger.WithPrefix("bot")
	r := NewRouter(NewHeuristic(randutil.Fork(rng), logger))
	r.Route(PersonalityAggressive, NewManiacBot(randutil.Fork(rng), logger))
	r.Route(PersonalityTight, NewTAGBot(randutil.Fork(rng), logger))
	r.Route(PersonalityLoose, NewCallBot(logger))
	return r
}

// Route registers p for a personality.
func (r *Router) Route(personality string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[strings.ToLower(personality)] = p
}

// ProviderFor returns the provider that plays personality.
func (r *Router) ProviderFor(personality string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.routes[strings.ToLower(personality)]; ok {
		return p
	}
	return r.fallback
}

func (r *Router) Decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error) {
	return r.ProviderFor(req.Personality).Decide(ctx, req)
}
