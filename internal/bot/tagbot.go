package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// TAGBot is a Tight Aggressive bot that plays premium hands aggressively
type TAGBot struct {
	rng    *lockedRand
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng *rand.Rand, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: &lockedRand{rng: rng}, logger: logger}
}

func (t *TAGBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	category := poker.CategorizeHoleCards(req.HoleCards)
	d := t.decide(req, category)
	logDecision(t.logger, req, d)
	return d, nil
}

func (t *TAGBot) decide(req game.DecisionRequest, category poker.HoleCardCategory) game.Decision {
	if req.Street == game.Preflop && category == poker.CategoryPremium {
		return game.Decision{
			Action:     game.Raise,
			Amount:     req.ToCall + 3*req.BigBlind,
			Confidence: 0.9,
			Rationale:  fmt.Sprintf("TAG raise with %s hole cards", category),
		}
	}
	if req.ToCall == 0 {
		return game.Decision{Action: game.Check, Confidence: 0.7, Rationale: "TAG check"}
	}
	if category.Playable() && t.rng.Float64() < 0.6 {
		return game.Decision{Action: game.Call, Amount: req.ToCall, Confidence: 0.6, Rationale: fmt.Sprintf("TAG call with %s hole cards", category)}
	}
	if t.rng.Float64() < 0.1 {
		return game.Decision{Action: game.Call, Amount: req.ToCall, Confidence: 0.3, Rationale: "TAG float"}
	}
	return game.Decision{Action: game.Fold, Confidence: 0.8, Rationale: fmt.Sprintf("TAG fold, %s hole cards", category)}
}
