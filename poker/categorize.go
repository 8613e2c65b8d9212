package poker

// HoleCardCategory represents the strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// Playable reports whether a tight player would continue with the category.
func (c HoleCardCategory) Playable() bool {
	switch c {
	case CategoryPremium, CategoryStrong, CategoryMedium:
		return true
	}
	return false
}

// CategorizeHoleCards buckets a starting hand.
// Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium (77-99, suited broadway),
// Weak (22-66, suited connectors), Trash otherwise.
func CategorizeHoleCards(hole []Card) HoleCardCategory {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() {
		return CategoryUnknown
	}

	small, big := hole[0].Rank().Value(), hole[1].Rank().Value()
	if small > big {
		small, big = big, small
	}
	suited := hole[0].Suit() == hole[1].Suit()
	pair := small == big

	switch {
	case pair && small >= 11, small == 13 && big == 14:
		return CategoryPremium
	case pair && small == 10, big == 14 && (small == 12 || small == 11):
		return CategoryStrong
	case pair && small >= 7, suited && small >= 10:
		return CategoryMedium
	case pair, suited && big-small <= 2:
		return CategoryWeak
	}
	return CategoryTrash
}
