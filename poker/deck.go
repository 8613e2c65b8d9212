package poker

import (
	"errors"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// ErrDeckExhausted is returned when dealing from an empty deck.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Build returns all 52 cards in canonical order: suits clubs, diamonds,
// hearts, spades, each from Two to Ace.
func Build() []Card {
	cards := make([]Card, 0, DeckSize)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle permutes cards in place using Fisher-Yates, scanning from the end
// and swapping each position with a uniformly chosen earlier-or-equal one.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck is an ordered stack of cards dealt from the top.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck builds and shuffles a fresh deck with the given RNG.
func NewDeck(rng *rand.Rand) *Deck {
	cards := Build()
	Shuffle(cards, rng)
	return &Deck{cards: cards}
}

// NewStackedDeck returns a deck that deals cards in the given order.
// Tests use it to script boards and hole cards.
func NewStackedDeck(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Deal removes and returns the top card.
func (d *Deck) Deal() (Card, error) {
	if d.next >= len(d.cards) {
		return 0, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DealN deals n cards. Nothing is consumed when fewer than n remain.
func (d *Deck) DealN(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Burn draws and discards the top card. The burned card is returned so that
// callers can account for it; it is never exposed to players.
func (d *Deck) Burn() (Card, error) {
	return d.Deal()
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Undealt returns a copy of the undealt cards, top first.
func (d *Deck) Undealt() []Card {
	return append([]Card(nil), d.cards[d.next:]...)
}
