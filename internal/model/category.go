package model

// Canonical category names. Every tier (rules, AI, heuristics) must draw
// from this set or validation coercion becomes incorrect.
const (
	CategoryTransportation = "Transportation"
	CategorySubscriptions  = "Subscriptions"
	CategoryFood           = "Food"
	CategoryIncome         = "Income"
	CategoryOnlineShopping = "Online Shopping"
	CategoryOther          = "Other"
)

// Categories returns the closed set of valid categories in display order.
func Categories() []string {
	return []string{
		CategoryTransportation,
		CategorySubscriptions,
		CategoryFood,
		CategoryIncome,
		CategoryOnlineShopping,
		CategoryOther,
	}
}

// ValidCategory reports whether name belongs to the canonical category set.
func ValidCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}
