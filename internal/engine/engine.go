// Package engine drives the table: it seats agents from the catalog, runs
// hands step by step against the game ledger, asks decision providers for
// actions under a deadline, and mirrors every change to persistence and
// event subscribers.
package engine

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/bot"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/evaluator"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// ErrInsufficientAgents is returned when fewer agents than the table minimum
// can be seated.
var ErrInsufficientAgents = errors.New("engine: not enough agents to start a hand")

const (
	// TimeoutRationale is logged for a seat folded by the decision deadline.
	TimeoutRationale = "decision timeout"

	forcedSmallBlind = "[SYSTEM] Forced small blind"
	forcedBigBlind   = "[SYSTEM] Forced big blind"
	rebuyRationale   = "[SYSTEM] Rebuy to starting stack"
)

// Engine owns the table state. Step and Run must not be called
// concurrently. Snapshot is safe from any goroutine; Roster only once Run
// has returned.
type Engine struct {
	gw         store.Gateway
	catalog    store.Catalog
	provider   bot.Provider
	comparator game.Comparator
	bus        *game.EventBus
	clock      quartz.Clock
	rng        *rand.Rand
	logger     *log.Logger
	timing     Timing
	table      Table
	handLimit  int
	rec        *recorder

	roster    []*game.Seat
	state     *game.State
	dealer    int
	dealerID  string
	hands     int // hands started
	completed int // hands awarded

	mu   sync.RWMutex
	last game.Snapshot
}

// New returns an engine writing through gw, seating agents from catalog and
// asking provider for every discretionary action.
func New(gw store.Gateway, catalog store.Catalog, provider bot.Provider, opts ...Option) *Engine {
	e := &Engine{
		gw:       gw,
		catalog:  catalog,
		provider: provider,
		clock:    quartz.NewReal(),
		logger:   log.Default(),
		timing:   DefaultTiming(),
		table:    DefaultTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.comparator == nil {
		e.comparator = evaluator.New()
	}
	if e.bus == nil {
		e.bus = game.NewEventBus()
	}
	e.logger = e.logger.WithPrefix("engine")
	e.rec = newRecorder(gw, e.timing.Persist, e.logger)
	e.last = game.Snapshot{Status: game.StatusLobby, Street: game.Preflop.String()}
	return e
}

// Events returns the bus the engine publishes on.
func (e *Engine) Events() *game.EventBus {
	return e.bus
}

// Snapshot returns the most recent public state.
func (e *Engine) Snapshot() game.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Roster returns a copy of the seated agents and their stacks.
func (e *Engine) Roster() []game.Seat {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]game.Seat, len(e.roster))
	for i, s := range e.roster {
		out[i] = *s
		out[i].HoleCards = slices.Clone(s.HoleCards)
	}
	return out
}

// HandsCompleted returns the number of hands awarded so far.
func (e *Engine) HandsCompleted() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.completed
}

// Done reports whether the hand limit has been reached.
func (e *Engine) Done() bool {
	return e.handLimit > 0 && e.HandsCompleted() >= e.handLimit
}

// Flush writes every queued persistence call on the calling goroutine.
func (e *Engine) Flush(ctx context.Context) {
	e.rec.flush(ctx)
}

// Run steps the table until ctx is cancelled or the hand limit is reached,
// pausing on the clock between steps. Queued writes are flushed before it
// returns.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		return e.rec.run(ctx, done)
	})
	g.Go(func() error {
		defer close(done)
		return e.loop(ctx)
	})
	return g.Wait()
}

func (e *Engine) loop(ctx context.Context) error {
	e.logger.Info("Table running",
		"small_blind", e.table.Rules.SmallBlind,
		"big_blind", e.table.Rules.BigBlind,
		"max_seats", e.table.MaxSeats)

	for !e.Done() {
		delay, err := e.Step(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, ErrInsufficientAgents):
			delay = e.timing.Retry
		default:
			e.logger.Error("Step failed", "error", err)
			delay = e.timing.Retry
		}
		if err := e.sleep(ctx, delay); err != nil {
			return nil
		}
	}
	e.logger.Info("Hand limit reached", "hands", e.HandsCompleted())
	return nil
}

// Step advances the table by one unit of work and returns how long to wait
// before the next step.
func (e *Engine) Step(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if e.state == nil || e.state.Status != game.StatusPlaying {
		return e.startHand(ctx)
	}

	step := e.state.NextStep()
	switch step.Kind {
	case game.StepEarlyShowdown:
		return e.showdown(ctx)

	case game.StepRoundComplete:
		street, err := e.state.AdvanceStreet()
		if err != nil {
			return e.abort(err), nil
		}
		if street == game.Showdown {
			return e.showdown(ctx)
		}
		snap := e.publishState()
		e.logger.Debug("Street dealt", "street", street, "board", snap.Board)
		e.bus.Publish(game.NewStreetChangeEvent(e.clock.Now(), snap, street))
		return e.timing.Street, nil

	default:
		return e.takeTurn(ctx, step.Seat)
	}
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := e.clock.NewTimer(d, "engine", "sleep")
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) takeTurn(ctx context.Context, i int) (time.Duration, error) {
	if err := e.sleep(ctx, e.timing.Think); err != nil {
		return 0, err
	}

	seat := e.state.Seats[i]
	d, err := e.decide(ctx, e.request(i))
	if err != nil {
		return 0, err
	}

	applied, err := e.state.Apply(i, d)
	if err != nil {
		return 0, fmt.Errorf("apply %s for %s: %w", d.Action, seat.Name, err)
	}
	if applied.Downgraded {
		e.logger.Warn("Decision normalised", "seat", seat.Name, "asked", d.Action, "applied", applied.Action)
	}

	e.state.AdvanceTurn()
	snap := e.publishState()
	e.record(snap, seat, applied.Action, applied.Amount, d.Rationale, d.Confidence)
	return 0, nil
}

func (e *Engine) request(i int) game.DecisionRequest {
	s := e.state
	seat := s.Seats[i]
	return game.DecisionRequest{
		SeatID:        seat.ID,
		Name:          seat.Name,
		Personality:   seat.Personality,
		HoleCards:     slices.Clone(seat.HoleCards),
		Board:         slices.Clone(s.Board),
		Street:        s.Street(),
		ToCall:        s.ToCall(i),
		Stack:         seat.Stack,
		Pot:           s.Pot,
		CurrentBetMax: s.CurrentBetMax,
		BigBlind:      s.Rules.BigBlind,
	}
}

// decide asks the provider under the decision deadline. A provider that
// errors or overruns folds the seat. Only cancellation of ctx is returned.
func (e *Engine) decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error) {
	type answer struct {
		d   game.Decision
		err error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	expired := make(chan struct{})
	if e.timing.Decision > 0 {
		timer := e.clock.AfterFunc(e.timing.Decision, func() { close(expired) }, "engine", "decision")
		defer timer.Stop()
	}

	answers := make(chan answer, 1)
	go func() {
		d, err := e.provider.Decide(ctx, req)
		answers <- answer{d, err}
	}()

	select {
	case a := <-answers:
		if a.err != nil {
			if ctx.Err() != nil {
				return game.Decision{}, ctx.Err()
			}
			e.logger.Warn("Decision failed, folding", "seat", req.Name, "error", a.err)
			return game.Decision{Action: game.Fold, Rationale: "decision error: " + a.err.Error()}, nil
		}
		return a.d, nil
	case <-expired:
		e.logger.Warn("Decision timed out, folding", "seat", req.Name, "deadline", e.timing.Decision)
		return game.Decision{Action: game.Fold, Rationale: TimeoutRationale}, nil
	case <-ctx.Done():
		return game.Decision{}, ctx.Err()
	}
}

func (e *Engine) showdown(ctx context.Context) (time.Duration, error) {
	res, err := e.state.Resolve(e.comparator)
	if err != nil {
		return e.abort(err), nil
	}
	e.state.Status = game.StatusShowdown
	snap := e.publishState()

	for _, award := range res.Awards {
		seat := e.state.Seats[award.Seat]
		rationale := fmt.Sprintf("Won the pot of %d with %s", res.Pot, res.HandName)
		if len(res.Awards) > 1 {
			rationale = fmt.Sprintf("Split the pot of %d with %s", res.Pot, res.HandName)
		}
		e.record(snap, seat, game.Win, award.Amount, rationale, 1.0)
	}

	if err := e.state.CheckConservation(); err != nil {
		e.logger.Error("Chip conservation violated", "hand", e.state.HandNumber, "error", err)
	}

	winner := e.state.Seats[res.Winner]
	e.logger.Info("Hand complete",
		"hand", e.state.HandNumber,
		"winner", winner.Name,
		"pot", res.Pot,
		"hand_name", res.HandName)

	e.mu.Lock()
	e.completed++
	e.mu.Unlock()

	e.bus.Publish(game.NewHandEndEvent(e.clock.Now(), snap, res))
	return e.timing.Hand, nil
}

// abort refunds the hand after an internal inconsistency and parks the table
// so the next step deals a fresh hand.
func (e *Engine) abort(cause error) time.Duration {
	e.logger.Error("Hand aborted", "hand", e.state.HandNumber, "error", cause)
	e.state.Abort()
	e.state.Status = game.StatusLobby
	snap := e.publishState()
	e.bus.Publish(game.NewGamePauseEvent(e.clock.Now(), snap, "aborted", cause.Error()))
	if errors.Is(cause, poker.ErrDeckExhausted) {
		return e.timing.Idle
	}
	return e.timing.Retry
}

// publishState stores the current snapshot for readers and queues it for
// persistence.
func (e *Engine) publishState() game.Snapshot {
	snap := e.state.Snapshot()
	e.mu.Lock()
	e.last = snap
	e.mu.Unlock()

	if snap.SessionID != "" {
		e.rec.snapshot(store.SessionUpdate{
			SessionID:         snap.SessionID,
			Pot:               snap.Pot,
			Board:             snap.Board,
			CurrentTurnSeatID: snap.CurrentTurnSeatID,
			Status:            string(snap.Status),
			UpdatedAt:         e.clock.Now(),
		})
	}
	return snap
}

// record logs one action-log entry and publishes it.
func (e *Engine) record(snap game.Snapshot, seat *game.Seat, action game.Action, amount int, rationale string, confidence float64) {
	e.logger.Debug("Action", "seat", seat.Name, "action", action, "amount", amount, "stack", seat.Stack)
	defer e.bus.Publish(game.NewPlayerActionEvent(e.clock.Now(), snap, seat, action, amount, rationale, confidence))
	if e.state.SessionID == "" {
		return
	}
	e.rec.action(store.ActionEntry{
		SessionID:  e.state.SessionID,
		SeatID:     seat.ID,
		Action:     action.String(),
		Amount:     amount,
		Rationale:  rationale,
		Confidence: confidence,
		CreatedAt:  e.clock.Now(),
	})
}
