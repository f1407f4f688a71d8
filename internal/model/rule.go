package model

import (
	"strings"
	"time"
)

// Rule is a user-defined keyword rule. Rules are scanned in Position order
// and the first match wins, so precedence is explicit rather than an
// accident of storage iteration.
type Rule struct {
	CreatedAt time.Time
	Keyword   string
	Category  string
	ID        int64
	UserID    int64
	Position  int
}

// Matches reports whether the rule's keyword appears in the description.
// Matching is a case-insensitive substring test.
func (r *Rule) Matches(description string) bool {
	return strings.Contains(
		strings.ToLower(description),
		strings.ToLower(r.Keyword),
	)
}
