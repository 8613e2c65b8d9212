package spectator

import (
	"encoding/json"
	"time"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
)

// MessageTypeState is sent once on connect with the current snapshot.
const MessageTypeState = "state"

// Message is one frame on the spectator feed.
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Text      string          `json:"text,omitempty"`
	State     game.Snapshot   `json:"state"`
	Event     json.RawMessage `json:"event,omitempty"`
	Result    *ResultView     `json:"result,omitempty"`
}

// ResultView summarises a settled hand.
type ResultView struct {
	Pot      int            `json:"pot"`
	HandName string         `json:"hand_name"`
	Early    bool           `json:"early"`
	Awards   map[string]int `json:"awards"` // seat id to chips
}

func stateMessage(snap game.Snapshot, at time.Time) Message {
	return Message{Type: MessageTypeState, Timestamp: at, State: snap}
}

func eventMessage(ev game.Event) (Message, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return Message{}, err
	}
	msg := Message{
		Type:      ev.EventType().String(),
		Timestamp: ev.Timestamp(),
		Text:      game.FormatEvent(ev),
		State:     ev.State(),
		Event:     raw,
	}
	if end, ok := ev.(game.HandEndEvent); ok {
		view := &ResultView{
			Pot:      end.Result.Pot,
			HandName: end.Result.HandName,
			Early:    end.Result.Early,
			Awards:   make(map[string]int, len(end.Result.Awards)),
		}
		seats := ev.State().Seats
		for _, a := range end.Result.Awards {
			if a.Seat >= 0 && a.Seat < len(seats) {
				view.Awards[seats[a.Seat].ID] += a.Amount
			}
		}
		msg.Result = view
	}
	return msg, nil
}
