package bot

import (
	"context"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    *lockedRand
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: &lockedRand{rng: rng}, logger: logger}
}

func (m *ManiacBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	d := m.decide(req)
	d.Confidence = m.rng.confidence()
	logDecision(m.logger, req, d)
	return d, nil
}

func (m *ManiacBot) decide(req game.DecisionRequest) game.Decision {
	short := req.Stack <= 20*req.BigBlind
	shove := game.Decision{Action: game.Raise, Amount: req.Stack, Rationale: "maniac shove"}

	if req.ToCall == 0 {
		// Maniacs prefer to bet.
		if m.rng.Float64() < 0.85 {
			if short || m.rng.Float64() < 0.3 {
				return shove
			}
			return game.Decision{Action: game.Raise, Amount: 3 * req.BigBlind, Rationale: "maniac big raise"}
		}
		return game.Decision{Action: game.Check, Rationale: "maniac checking"}
	}

	roll := m.rng.Float64()
	switch {
	case roll < 0.4:
		shove.Rationale = "maniac shove over bet"
		if !short {
			return game.Decision{Action: game.Raise, Amount: req.ToCall + req.Pot, Rationale: "maniac pot raise over bet"}
		}
		return shove
	case roll < 0.8:
		return game.Decision{Action: game.Call, Amount: req.ToCall, Rationale: "maniac call"}
	}
	return game.Decision{Action: game.Fold, Rationale: "maniac fold"}
}
