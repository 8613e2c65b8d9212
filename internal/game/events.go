package game

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypeGamePause    EventType = "game_pause"
)

func (et EventType) String() string { return string(et) }

// Event is anything published by the engine. Every event carries the
// public snapshot taken right after the change it describes.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
	State() Snapshot
}

type eventBase struct {
	At       time.Time `json:"at"`
	Snapshot Snapshot  `json:"snapshot"`
}

func (e eventBase) Timestamp() time.Time { return e.At }
func (e eventBase) State() Snapshot      { return e.Snapshot }

// HandStartEvent is published once blinds are posted.
type HandStartEvent struct {
	eventBase
	SmallBlind int `json:"small_blind"`
	BigBlind   int `json:"big_blind"`
}

func (HandStartEvent) EventType() EventType { return EventTypeHandStart }

// NewHandStartEvent creates a new hand start event
func NewHandStartEvent(at time.Time, snap Snapshot, smallBlind, bigBlind int) HandStartEvent {
	return HandStartEvent{eventBase{at, snap}, smallBlind, bigBlind}
}

// PlayerActionEvent is published for every log entry: blinds, decisions,
// rebuys and the win.
type PlayerActionEvent struct {
	eventBase
	SeatID     string  `json:"seat_id"`
	Name       string  `json:"name"`
	Action     Action  `json:"action"`
	Amount     int     `json:"amount"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

func (PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(at time.Time, snap Snapshot, seat *Seat, action Action, amount int, rationale string, confidence float64) PlayerActionEvent {
	return PlayerActionEvent{
		eventBase:  eventBase{at, snap},
		SeatID:     seat.ID,
		Name:       seat.Name,
		Action:     action,
		Amount:     amount,
		Rationale:  rationale,
		Confidence: confidence,
	}
}

// StreetChangeEvent is published after board cards are revealed.
type StreetChangeEvent struct {
	eventBase
	Street Street `json:"-"`
}

func (StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }

// NewStreetChangeEvent creates a new street change event
func NewStreetChangeEvent(at time.Time, snap Snapshot, street Street) StreetChangeEvent {
	return StreetChangeEvent{eventBase{at, snap}, street}
}

// HandEndEvent is published after the pot has been awarded.
type HandEndEvent struct {
	eventBase
	Result Result `json:"-"`
}

func (HandEndEvent) EventType() EventType { return EventTypeHandEnd }

// NewHandEndEvent creates a new hand end event
func NewHandEndEvent(at time.Time, snap Snapshot, res Result) HandEndEvent {
	return HandEndEvent{eventBase{at, snap}, res}
}

// GamePauseEvent is published when a hand cannot start.
type GamePauseEvent struct {
	eventBase
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (GamePauseEvent) EventType() EventType { return EventTypeGamePause }

// NewGamePauseEvent creates a new game pause event
func NewGamePauseEvent(at time.Time, snap Snapshot, reason, message string) GamePauseEvent {
	return GamePauseEvent{eventBase{at, snap}, reason, message}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus delivers events to subscribers synchronously, in publish order.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *EventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *EventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, sub := range subs {
		sub.OnEvent(event)
	}
}

// FormatEvent renders an event as a one-line, human-readable summary.
func FormatEvent(event Event) string {
	switch e := event.(type) {
	case HandStartEvent:
		snap := e.State()
		return fmt.Sprintf("Hand #%d: %d seats, blinds %d/%d", snap.HandNumber, len(snap.Seats), e.SmallBlind, e.BigBlind)
	case PlayerActionEvent:
		pot := e.State().Pot
		switch e.Action {
		case Fold:
			if strings.Contains(strings.ToLower(e.Rationale), "timeout") {
				return fmt.Sprintf("%s: times out and folds", e.Name)
			}
			return fmt.Sprintf("%s: folds", e.Name)
		case Check:
			return fmt.Sprintf("%s: checks", e.Name)
		case Call:
			return fmt.Sprintf("%s: calls %d (pot now: %d)", e.Name, e.Amount, pot)
		case Raise:
			return fmt.Sprintf("%s: raises %d (pot now: %d)", e.Name, e.Amount, pot)
		case SmallBlind:
			return fmt.Sprintf("%s: posts small blind %d", e.Name, e.Amount)
		case BigBlind:
			return fmt.Sprintf("%s: posts big blind %d", e.Name, e.Amount)
		case Win:
			return fmt.Sprintf("%s: %s", e.Name, e.Rationale)
		case Rebuy:
			return fmt.Sprintf("%s: rebuys for %d", e.Name, e.Amount)
		}
		return fmt.Sprintf("%s: %s %d", e.Name, e.Action, e.Amount)
	case StreetChangeEvent:
		return fmt.Sprintf("*** %s *** [%s]", strings.ToUpper(e.Street.String()), strings.Join(e.State().Board, " "))
	case HandEndEvent:
		r := e.Result
		if len(r.Awards) > 1 {
			return fmt.Sprintf("Pot of %d split %d ways (%s)", r.Pot, len(r.Awards), r.HandName)
		}
		return fmt.Sprintf("Pot of %d won with %s", r.Pot, r.HandName)
	case GamePauseEvent:
		return fmt.Sprintf("Paused: %s", e.Message)
	}
	return string(event.EventType())
}
