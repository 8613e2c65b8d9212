package engine

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// Timing holds the pauses between steps and the collaborator deadlines.
// A zero pause skips the clock entirely.
type Timing struct {
	Think    time.Duration // before each discretionary turn
	Street   time.Duration // after dealing a street
	Hand     time.Duration // after a hand is awarded
	Idle     time.Duration // after an aborted hand
	Retry    time.Duration // when a hand cannot start
	Decision time.Duration // provider deadline
	Persist  time.Duration // per persistence call
}

// DefaultTiming matches the pacing spectators are used to.
func DefaultTiming() Timing {
	return Timing{
		Think:    2 * time.Second,
		Street:   1500 * time.Millisecond,
		Hand:     4 * time.Second,
		Idle:     time.Second,
		Retry:    5 * time.Second,
		Decision: 5 * time.Second,
		Persist:  3 * time.Second,
	}
}

// Table holds the table parameters.
type Table struct {
	Rules         game.Rules
	StartingStack int
	MinSeats      int
	MaxSeats      int
	Rebuy         bool
}

// DefaultTable is 50/100 blinds, 10,000 stacks, up to six seats.
func DefaultTable() Table {
	return Table{
		Rules:         game.Rules{SmallBlind: 50, BigBlind: 100},
		StartingStack: 10000,
		MinSeats:      2,
		MaxSeats:      6,
		Rebuy:         true,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Engine logs under the "engine" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock injects the clock used for every pause and deadline.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRand sets the random source for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithComparator sets the showdown hand comparator.
func WithComparator(cmp game.Comparator) Option {
	return func(e *Engine) { e.comparator = cmp }
}

// WithTiming replaces the pacing.
func WithTiming(t Timing) Option {
	return func(e *Engine) { e.timing = t }
}

// WithTable replaces the table parameters.
func WithTable(t Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithEventBus publishes engine events on bus.
func WithEventBus(bus *game.EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithHandLimit makes Run return after n completed hands. Zero means no
// limit.
func WithHandLimit(n int) Option {
	return func(e *Engine) { e.handLimit = n }
}
