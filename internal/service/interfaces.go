// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction, origin string) error
	GetTransaction(ctx context.Context, id, userID int64) (*model.Transaction, error)
	GetPendingTransactions(ctx context.Context, userID int64) ([]model.Transaction, error)
	GetUnsuggestedPending(ctx context.Context, userID int64) ([]model.Transaction, error)
	ApplySuggestion(ctx context.Context, suggestion Suggestion) error
	ConfirmTransaction(ctx context.Context, transactionID, userID int64, category string, action model.AuditAction) error
	DeleteTransaction(ctx context.Context, transactionID, userID int64) error

	// Rule operations
	GetRules(ctx context.Context, userID int64) ([]model.Rule, error)
	SaveRule(ctx context.Context, rule *model.Rule) error
	DeleteRule(ctx context.Context, ruleID, userID int64) error

	// Audit trail
	GetAuditLog(ctx context.Context, userID int64, limit int) ([]model.AuditEntry, error)

	// Reporting
	CategorySummary(ctx context.Context, userID int64) ([]CategorySummary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Suggestion carries one tier's category suggestion for a transaction,
// along with the audit metadata recorded beside it.
type Suggestion struct {
	Category      string
	Confidence    int
	Action        model.AuditAction
	Source        model.AuditSource
	TransactionID int64
	UserID        int64
}

// CategorySummary contains aggregated spending for one category.
type CategorySummary struct {
	Category string
	Count    int
	Total    float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
