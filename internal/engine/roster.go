package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// startHand reseats the table from the catalog and deals the next hand.
func (e *Engine) startHand(ctx context.Context) (time.Duration, error) {
	agents, err := e.listAgents(ctx)
	if err != nil {
		e.pause("catalog_unavailable", err.Error())
		return e.timing.Retry, fmt.Errorf("list agents: %w", err)
	}

	rebought := e.syncRoster(agents)
	var seats []*game.Seat
	for _, seat := range e.roster {
		if seat.Stack > 0 {
			seats = append(seats, seat)
		}
	}
	if need := max(2, e.table.MinSeats); len(seats) < need {
		e.pause("insufficient_agents", fmt.Sprintf("Waiting for players: %d of %d seated", len(seats), need))
		return e.timing.Retry, ErrInsufficientAgents
	}

	dealer := e.nextDealer(seats)
	hand, blinds, err := game.NewHand(seats, dealer, e.table.Rules, poker.NewDeck(e.rng))
	if err != nil {
		return e.timing.Retry, err
	}
	e.dealer, e.dealerID = dealer, seats[dealer].ID
	e.hands++
	hand.HandNumber = e.hands
	hand.SessionID = e.createHandRecord(ctx)
	e.state = hand

	snap := e.publishState()
	e.logger.Info("Hand started",
		"hand", hand.HandNumber,
		"session", hand.SessionID,
		"seats", len(seats),
		"dealer", seats[dealer].Name)
	e.bus.Publish(game.NewHandStartEvent(e.clock.Now(), snap, e.table.Rules.SmallBlind, e.table.Rules.BigBlind))

	for _, seat := range rebought {
		e.record(snap, seat, game.Rebuy, e.table.StartingStack, rebuyRationale, 1.0)
	}
	for _, b := range blinds {
		rationale := forcedSmallBlind
		if b.Action == game.BigBlind {
			rationale = forcedBigBlind
		}
		e.record(snap, hand.Seats[b.Seat], b.Action, b.Amount, rationale, 1.0)
	}
	return 0, nil
}

func (e *Engine) listAgents(ctx context.Context) ([]store.Agent, error) {
	if e.timing.Persist > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timing.Persist)
		defer cancel()
	}
	return e.catalog.ListAgents(ctx, e.table.MaxSeats)
}

// createHandRecord returns the new session id, or "" when the gateway is
// unavailable. A hand without a session id is played but not persisted.
func (e *Engine) createHandRecord(ctx context.Context) string {
	if e.timing.Persist > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timing.Persist)
		defer cancel()
	}
	id, err := e.gw.CreateHandRecord(ctx)
	if err != nil {
		e.logger.Warn("Hand record not created, hand will not be persisted", "error", err)
		return ""
	}
	return id
}

// syncRoster matches the seated agents to the catalog listing. Returning
// agents keep their stacks; new agents sit down with their balance or the
// starting stack. Busted seats are topped up when rebuys are enabled and
// returned.
func (e *Engine) syncRoster(agents []store.Agent) []*game.Seat {
	byID := make(map[string]*game.Seat, len(e.roster))
	for _, seat := range e.roster {
		byID[seat.ID] = seat
	}

	roster := make([]*game.Seat, 0, len(agents))
	var rebought []*game.Seat
	for _, a := range agents {
		seat, ok := byID[a.ID]
		if ok {
			seat.Name, seat.Personality = a.Name, a.Personality
		} else {
			stack := a.Balance
			if stack <= 0 {
				stack = e.table.StartingStack
			}
			seat = game.NewSeat(a.ID, a.Name, a.Personality, stack)
		}
		if seat.Stack == 0 && e.table.Rebuy {
			seat.Stack = e.table.StartingStack
			rebought = append(rebought, seat)
			e.logger.Info("Rebuy", "seat", seat.Name, "stack", seat.Stack)
		}
		roster = append(roster, seat)
	}

	e.mu.Lock()
	e.roster = roster
	e.mu.Unlock()
	return rebought
}

// nextDealer moves the marker one seat on from the previous dealer. The
// first hand puts it on the last seat so the first two seats post blinds.
func (e *Engine) nextDealer(seats []*game.Seat) int {
	n := len(seats)
	if e.dealerID == "" {
		return n - 1
	}
	for i, seat := range seats {
		if seat.ID == e.dealerID {
			return (i + 1) % n
		}
	}
	// The previous dealer left; whoever now holds that position deals.
	return e.dealer % n
}

func (e *Engine) pause(reason, message string) {
	e.logger.Warn("Table paused", "reason", reason, "message", message)
	if e.state != nil {
		e.state.Status = game.StatusLobby
	}
	e.mu.Lock()
	e.last.Status = game.StatusLobby
	e.last.CurrentTurnSeatID = ""
	snap := e.last
	e.mu.Unlock()
	e.bus.Publish(game.NewGamePauseEvent(e.clock.Now(), snap, reason, message))
}
