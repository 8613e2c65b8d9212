package bot

import (
	"context"
	"sync"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// Scripted replays fixed decisions, per seat when a script exists for the
// seat id and from the shared queue otherwise. Once both are exhausted it
// checks when free and folds to a bet.
type Scripted struct {
	mu      sync.Mutex
	shared  []game.Decision
	perSeat map[string][]game.Decision
	asked   []game.DecisionRequest
}

// NewScripted returns a provider that answers with decisions in order.
func NewScripted(decisions ...game.Decision) *Scripted {
	return &Scripted{shared: decisions, perSeat: make(map[string][]game.Decision)}
}

// For queues decisions for one seat.
func (s *Scripted) For(seatID string, decisions ...game.Decision) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.perSeat[seatID] = append(s.perSeat[seatID], decisions...)
	return s
}

func (s *Scripted) Decide(_ context.Context, req game.DecisionRequest) (game.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, req)

	if queue := s.perSeat[req.SeatID]; len(queue) > 0 {
		s.perSeat[req.SeatID] = queue[1:]
		return queue[0], nil
	}
	if len(s.shared) > 0 {
		d := s.shared[0]
		s.shared = s.shared[1:]
		return d, nil
	}
	if req.ToCall == 0 {
		return game.Decision{Action: game.Check, Rationale: "script exhausted"}, nil
	}
	return game.Decision{Action: game.Fold, Rationale: "script exhausted"}, nil
}

// Requests returns every request seen so far.
func (s *Scripted) Requests() []game.DecisionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.DecisionRequest(nil), s.asked...)
}
