// Package statistics tracks per-agent results across hands from engine
// events.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// HandResult is one agent's outcome in one hand.
type HandResult struct {
	NetBB          float64 // chips won or lost, in big blinds
	WentToShowdown bool
	PotChips       int
	Street         string // street the hand ended on
}

// MaxValues bounds the per-hand samples kept for percentiles. Once full the
// oldest sample is overwritten, so Median and Percentile describe the most
// recent MaxValues hands while the running sums cover every hand.
const MaxValues = 10000

// Statistics accumulates results for one agent.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64 // sum of squares, for variance
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	MaxPotChips int
}

// Mean returns big blinds won per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of per-hand results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one hand.
func (s *Statistics) Add(r HandResult) {
	s.Hands++
	s.SumBB += r.NetBB
	s.SumBB2 += r.NetBB * r.NetBB
	if len(s.Values) < MaxValues {
		s.Values = append(s.Values, r.NetBB)
	} else {
		s.Values[(s.Hands-1)%MaxValues] = r.NetBB
	}

	if r.NetBB > 0 {
		if r.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if r.WentToShowdown {
		s.ShowdownBB += r.NetBB
	} else {
		s.NonShowdownBB += r.NetBB
	}
	s.AllBB += r.NetBB
	s.MaxPotChips = max(s.MaxPotChips, r.PotChips)
}

// Median returns the median per-hand result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p in [0,1].
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the accumulators agree with each other.
func (s *Statistics) Validate() error {
	if math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if want := min(s.Hands, MaxValues); len(s.Values) != want {
		return fmt.Errorf("values length %d does not match hands %d", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins %d exceed hands %d", wins, s.Hands)
	}
	return nil
}

// AgentSummary is the read-only view of one agent's results.
type AgentSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Personality     string  `json:"personality"`
	Hands           int     `json:"hands"`
	NetChips        int     `json:"net_chips"`
	BBPerHand       float64 `json:"bb_per_hand"`
	StdError        float64 `json:"std_error"`
	ShowdownWins    int     `json:"showdown_wins"`
	NonShowdownWins int     `json:"non_showdown_wins"`
	MaxPot          int     `json:"max_pot"`
}

type agent struct {
	name, personality string
	net               int
	stats             Statistics
}

// Collector is a game.EventSubscriber that attributes every finished hand
// to the agents that played it. Aborted hands are not counted.
type Collector struct {
	mu       sync.RWMutex
	agents   map[string]*agent
	order    []string
	start    map[string]int // stack at hand start, by seat id
	bigBlind int
}

var _ game.EventSubscriber = (*Collector)(nil)

func NewCollector() *Collector {
	return &Collector{agents: make(map[string]*agent), start: make(map[string]int)}
}

// OnEvent implements game.EventSubscriber.
func (c *Collector) OnEvent(ev game.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := ev.(type) {
	case game.HandStartEvent:
		clear(c.start)
		c.bigBlind = e.BigBlind
		for _, seat := range e.State().Seats {
			c.start[seat.ID] = seat.Stack + seat.CurrentBet
			a, ok := c.agents[seat.ID]
			if !ok {
				a = &agent{}
				c.agents[seat.ID] = a
				c.order = append(c.order, seat.ID)
			}
			a.name, a.personality = seat.Name, seat.Personality
		}
	case game.GamePauseEvent:
		clear(c.start)
	case game.HandEndEvent:
		if len(c.start) == 0 {
			return
		}
		snap := e.State()
		for _, seat := range snap.Seats {
			before, ok := c.start[seat.ID]
			if !ok {
				continue
			}
			net := seat.Stack - before
			a := c.agents[seat.ID]
			a.net += net
			a.stats.Add(HandResult{
				NetBB:          float64(net) / float64(max(1, c.bigBlind)),
				WentToShowdown: !e.Result.Early && seat.Status == game.SeatActive,
				PotChips:       e.Result.Pot,
				Street:         snap.Street,
			})
		}
		clear(c.start)
	}
}

// Summary returns every agent seen, in the order they first sat down.
func (c *Collector) Summary() []AgentSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AgentSummary, 0, len(c.order))
	for _, id := range c.order {
		a := c.agents[id]
		out = append(out, AgentSummary{
			ID:              id,
			Name:            a.name,
			Personality:     a.personality,
			Hands:           a.stats.Hands,
			NetChips:        a.net,
			BBPerHand:       a.stats.Mean(),
			StdError:        a.stats.StdError(),
			ShowdownWins:    a.stats.ShowdownWins,
			NonShowdownWins: a.stats.NonShowdownWins,
			MaxPot:          a.stats.MaxPotChips,
		})
	}
	return out
}

// Stats returns a copy of one agent's accumulators.
func (c *Collector) Stats(id string) (Statistics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.agents[id]
	if !ok {
		return Statistics{}, false
	}
	s := a.stats
	s.Values = slices.Clone(s.Values)
	return s, true
}
