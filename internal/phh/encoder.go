package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

var errNilHand = errors.New("phh: hand history is nil")

// Encode writes the hand history to w in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errNilHand
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeSection encodes one hand as a numbered section of a .phhs file.
func EncodeSection(section int, hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%d]\n", section)
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// Decode parses a single hand. Used to read sections back in tests and
// tooling.
func Decode(data []byte) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.Decode(string(data), &hand); err != nil {
		return nil, fmt.Errorf("phh: decode: %w", err)
	}
	return &hand, nil
}

// DecodeSections parses a .phhs file into its hands, keyed by section number.
func DecodeSections(data []byte) (map[string]*HandHistory, error) {
	var hands map[string]*HandHistory
	if _, err := toml.Decode(string(data), &hands); err != nil {
		return nil, fmt.Errorf("phh: decode sections: %w", err)
	}
	return hands, nil
}

// FormatAction converts an action-log name to a PHH action string. player
// is the zero-based PHH player index and streetTotal the seat's total
// contribution on the current street after the action. It reports false for
// entries PHH carries elsewhere (blinds, rebuys, awards).
func FormatAction(player int, action string, streetTotal int) (string, bool) {
	p := fmt.Sprintf("p%d", player+1)
	switch action {
	case "fold":
		return p + " f", true
	case "check", "call":
		return p + " cc", true
	case "raise":
		if streetTotal <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", p, streetTotal), true
	case "small_blind", "big_blind", "rebuy", "win":
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", p, action, streetTotal), true
	}
}
