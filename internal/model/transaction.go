// Package model defines the core domain models used throughout the application.
package model

import "time"

// TransactionStatus tracks where a transaction sits in the review lifecycle.
type TransactionStatus string

// Transaction status constants.
const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
)

// Transaction represents a single financial transaction owned by a user.
// Negative amounts are expenses, positive amounts are income.
type Transaction struct {
	Date                time.Time
	CreatedAt           time.Time
	SuggestedCategory   *string
	SuggestedConfidence *int
	ConfirmedCategory   *string
	Description         string
	Status              TransactionStatus
	ID                  int64
	UserID              int64
	Amount              float64
}

// HasSuggestion reports whether any tier has already suggested a category.
func (t *Transaction) HasSuggestion() bool {
	return t.SuggestedCategory != nil && *t.SuggestedCategory != ""
}

// Confirmed reports whether the user has confirmed a category.
func (t *Transaction) Confirmed() bool {
	return t.Status == StatusConfirmed
}
