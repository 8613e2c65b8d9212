package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/bot"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

var agentNames = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// seedAgents puts n agents in the catalog with ids equal to their names.
func seedAgents(t *testing.T, mem *store.Memory, balances ...int) {
	t.Helper()
	agents := make([]store.Agent, len(balances))
	for i, b := range balances {
		agents[i] = store.Agent{ID: agentNames[i], Name: agentNames[i], Personality: "GTO", Balance: b}
	}
	require.NoError(t, mem.SeedAgents(context.Background(), agents))
}

// newTestEngine seats n agents with default stacks, no pacing and a mock
// clock.
func newTestEngine(t *testing.T, provider bot.Provider, n int, opts ...Option) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	seedAgents(t, mem, make([]int, n)...)
	base := []Option{
		WithLogger(quietLogger()),
		WithTiming(Timing{}),
		WithRand(randutil.New(1)),
		WithClock(quartz.NewMock(t)),
	}
	return New(mem, mem, provider, append(base, opts...)...), mem
}

// stepUntil steps the engine until done reports true.
func stepUntil(t *testing.T, e *Engine, done func() bool) {
	t.Helper()
	ctx := testContext(t)
	for range 500 {
		if done() {
			return
		}
		_, err := e.Step(ctx)
		require.NoError(t, err)
	}
	t.Fatal("engine did not reach the expected state")
}

func actionsOf(entries []store.ActionEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.SeatID + ":" + e.Action
	}
	return out
}

type comparatorFunc func(hole, board []poker.Card) (game.HandRank, error)

func (f comparatorFunc) Rank(hole, board []poker.Card) (game.HandRank, error) { return f(hole, board) }

// favour makes the seat with the given id hold the best hand.
func favour(e **Engine, id string) game.Comparator {
	return comparatorFunc(func(hole, _ []poker.Card) (game.HandRank, error) {
		for _, seat := range (*e).state.Seats {
			if seat.ID == id && seat.HoleCards[0] == hole[0] {
				return game.HandRank{Score: 2, Name: "Best Hand"}, nil
			}
		}
		return game.HandRank{Score: 1, Name: "Worse Hand"}, nil
	})
}

// blockingProvider never answers until its context is cancelled.
type blockingProvider struct {
	once   sync.Once
	called chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{called: make(chan struct{})}
}

func (p *blockingProvider) Decide(ctx context.Context, _ game.DecisionRequest) (game.Decision, error) {
	p.once.Do(func() { close(p.called) })
	<-ctx.Done()
	return game.Decision{}, ctx.Err()
}

// brokenGateway fails every write.
type brokenGateway struct{}

var errGatewayDown = errors.New("gateway down")

func (brokenGateway) CreateHandRecord(context.Context) (string, error) { return "", errGatewayDown }

func (brokenGateway) UpdateSnapshot(context.Context, store.SessionUpdate) error {
	return errGatewayDown
}

func (brokenGateway) AppendActionLog(context.Context, store.ActionEntry) error {
	return errGatewayDown
}

// lossyGateway creates hand records but drops every later write.
type lossyGateway struct {
	*store.Memory
}

func (lossyGateway) UpdateSnapshot(context.Context, store.SessionUpdate) error {
	return errGatewayDown
}

func (lossyGateway) AppendActionLog(context.Context, store.ActionEntry) error {
	return errGatewayDown
}

type eventRecorder struct {
	mu     sync.Mutex
	events []game.Event
}

func (r *eventRecorder) OnEvent(ev game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) ofType(et game.EventType) []game.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []game.Event
	for _, ev := range r.events {
		if ev.EventType() == et {
			out = append(out, ev)
		}
	}
	return out
}
