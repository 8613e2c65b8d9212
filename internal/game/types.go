package game

import (
	"fmt"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// Status is the session status persisted and shown to spectators.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusShowdown Status = "showdown"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action is a seat action. The first four are discretionary; the rest are
// forced or system entries that only appear in the action log.
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	SmallBlind
	BigBlind
	Win
	Rebuy
)

var actionNames = [...]string{"fold", "check", "call", "raise", "small_blind", "big_blind", "win", "rebuy"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps a log/wire name back to an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return Fold, fmt.Errorf("game: unknown action %q", s)
}

// MarshalText encodes the action name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DecisionRequest is what a decision provider sees on a seat's turn.
type DecisionRequest struct {
	SeatID        string
	Name          string
	Personality   string
	HoleCards     []poker.Card
	Board         []poker.Card
	Street        Street
	ToCall        int
	Stack         int
	Pot           int
	CurrentBetMax int
	BigBlind      int
}

// Decision is a provider's answer. Amount is the chips to put in for call
// and raise and is ignored otherwise.
type Decision struct {
	Action     Action
	Amount     int
	Confidence float64
	Rationale  string
}

// Applied describes what the ledger actually did with a Decision.
type Applied struct {
	Seat       int
	Action     Action
	Amount     int // chips moved
	Downgraded bool
}

// Rules are the fixed table parameters for a hand.
type Rules struct {
	SmallBlind int
	BigBlind   int
	// BigBlindOption gives the big blind a turn preflop when nobody raised,
	// instead of closing the round on bet parity alone.
	BigBlindOption bool
	// FullAction holds every street open until each seat with chips has
	// acted at least once, so post-flop streets are bet instead of checked
	// through on parity.
	FullAction bool
	// SplitTies divides a tied pot instead of awarding it to one seat.
	SplitTies bool
}
