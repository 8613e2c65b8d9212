package bot

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// CallBot is a calling station: it checks when it can and calls everything
// else, folding only a big river bet.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	var d game.Decision
	switch {
	case req.ToCall == 0:
		d = game.Decision{Action: game.Check, Confidence: 0.5, Rationale: "loose check, see the next card"}
	case req.Street == game.River && req.Pot > 0 && float64(req.ToCall) > 0.8*float64(req.Pot):
		d = game.Decision{Action: game.Fold, Confidence: 0.6, Rationale: "folding river to large bet"}
	default:
		d = game.Decision{
			Action:     game.Call,
			Amount:     min(req.ToCall, req.Stack),
			Confidence: 0.5,
			Rationale:  fmt.Sprintf("loose call of %d, pot is %d", min(req.ToCall, req.Stack), req.Pot),
		}
	}
	logDecision(c.logger, req, d)
	return d, nil
}
