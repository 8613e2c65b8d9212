package poker

import (
	"fmt"
	"strings"
)

// Suit is one of the four card suits.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Rank is a card rank, Two=0 through Ace=12.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const (
	suitChars = "cdhs"
	rankChars = "23456789TJQKA"
)

func (s Suit) String() string {
	if s > Spades {
		return "?"
	}
	return suitChars[s : s+1]
}

func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return rankChars[r : r+1]
}

// Value returns the rank's face value, 2 through 14.
func (r Rank) Value() int {
	return int(r) + 2
}

// Card is an immutable playing card. The zero value is not a valid card.
type Card uint8

// NewCard returns the card with the given rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(1 + uint8(suit)*13 + uint8(rank))
}

// Valid reports whether c addresses one of the 52 cards.
func (c Card) Valid() bool {
	return c >= 1 && c <= 52
}

// Rank returns the card rank.
func (c Card) Rank() Rank {
	return Rank((uint8(c) - 1) % 13)
}

// Suit returns the card suit.
func (c Card) Suit() Suit {
	return Suit((uint8(c) - 1) / 13)
}

// String returns the two-character form, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// MarshalText encodes the card in its two-character form.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("poker: invalid card %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses the two-character form.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses "As", "td", or "10h".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "10") {
		s = "T" + s[2:]
	}
	if len(s) != 2 {
		return 0, fmt.Errorf("poker: invalid card %q", s)
	}
	r := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if r < 0 {
		return 0, fmt.Errorf("poker: invalid rank in %q", s)
	}
	su := strings.IndexByte(suitChars, strings.ToLower(s[1:])[0])
	if su < 0 {
		return 0, fmt.Errorf("poker: invalid suit in %q", s)
	}
	return NewCard(Rank(r), Suit(su)), nil
}

// MustParseCards parses a space-separated card list and panics on error.
// Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, len(fields))
	for i, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards[i] = c
	}
	return cards
}

// Strings formats cards for logging and persistence.
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
