package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	d := game.Decision{Action: game.Fold, Confidence: 1, Rationale: "fold-bot folding"}
	if req.ToCall == 0 {
		d = game.Decision{Action: game.Check, Confidence: 1, Rationale: "fold-bot checking"}
	}
	logDecision(f.logger, req, d)
	return d, nil
}
