package phh

import (
	"strings"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/poker"
)

// Unknown stands in for a card that was never shown.
const Unknown = "??"

// NormalizeCard converts a card string (e.g. 10h, ah) to PHH notation (Th,
// Ah). Anything unparseable becomes Unknown.
func NormalizeCard(card string) string {
	card = strings.TrimSpace(card)
	if card == "" {
		return ""
	}
	c, err := poker.ParseCard(card)
	if err != nil {
		return Unknown
	}
	return c.String()
}

// NormalizeCards normalizes a slice of card strings.
func NormalizeCards(cards []string) []string {
	if len(cards) == 0 {
		return nil
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = NormalizeCard(c)
	}
	return out
}

// JoinCards renders cards the way PHH deal actions expect them: concatenated.
func JoinCards(cards []string) string {
	return strings.Join(NormalizeCards(cards), "")
}
