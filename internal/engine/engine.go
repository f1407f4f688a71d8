// Package engine sequences the classification tiers over a user's pending
// transactions: keyword rules first, then AI classification with heuristic
// fallback, each decision persisted with its provenance.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
)

// ruleConfidence is recorded for rule-tier matches: a user's own keyword
// rule is treated as certain.
const ruleConfidence = 100

// DefaultInterCallDelay is the pause between consecutive AI calls within
// one run, to stay under provider rate limits.
const DefaultInterCallDelay = 3500 * time.Millisecond

// Engine orchestrates classification over a user's pending transactions.
type Engine struct {
	storage    service.Storage
	classifier Classifier
	onProgress func(done, total int)
	delay      time.Duration
}

// Config holds configuration options for the classification engine.
type Config struct {
	// InterCallDelay is the pause between AI calls. Zero means
	// DefaultInterCallDelay; tests set it to a negative value to disable
	// pacing entirely.
	InterCallDelay time.Duration
	// OnProgress, if set, is invoked after each processed transaction.
	OnProgress func(done, total int)
}

// New creates a classification engine with default configuration.
func New(storage service.Storage, classifier Classifier) *Engine {
	return NewWithConfig(storage, classifier, Config{})
}

// NewWithConfig creates a classification engine with custom configuration.
func NewWithConfig(storage service.Storage, classifier Classifier, cfg Config) *Engine {
	delay := cfg.InterCallDelay
	if delay == 0 {
		delay = DefaultInterCallDelay
	}
	return &Engine{
		storage:    storage,
		classifier: classifier,
		delay:      delay,
		onProgress: cfg.OnProgress,
	}
}

// ProcessWithAI classifies every pending transaction the rule tier left
// untouched, committing each result before moving to the next so progress
// survives interruption. Partial completion is the expected steady state:
// a storage failure aborts the remaining loop for this run, is logged, and
// never propagates; unprocessed transactions stay pending for a later run.
// It returns the number of transactions classified.
func (e *Engine) ProcessWithAI(ctx context.Context, userID int64) int {
	transactions, err := e.storage.GetUnsuggestedPending(ctx, userID)
	if err != nil {
		slog.Error("Failed to load transactions for AI classification",
			"user_id", userID,
			"error", err)
		return 0
	}

	if len(transactions) == 0 {
		slog.Info("No transactions left for AI classification", "user_id", userID)
		return 0
	}

	slog.Info("Starting AI classification",
		"user_id", userID,
		"count", len(transactions))

	processed := 0
	for i := range transactions {
		select {
		case <-ctx.Done():
			slog.Info("AI classification canceled",
				"user_id", userID,
				"processed", processed,
				"remaining", len(transactions)-processed)
			return processed
		default:
		}

		txn := &transactions[i]
		result, fromService := e.classifier.Classify(ctx, txn.Description, txn.Amount)

		category := result.Category
		confidence := result.Confidence
		if category == "" {
			category = model.CategoryOther
			confidence = 0
		}

		if err := e.storage.ApplySuggestion(ctx, service.Suggestion{
			TransactionID: txn.ID,
			UserID:        userID,
			Category:      category,
			Confidence:    confidence,
			Action:        model.ActionAISuggested,
			Source:        model.SourceAI,
		}); err != nil {
			// Already-committed suggestions persist; the rest of this
			// batch stays pending until the next run.
			slog.Error("Failed to persist AI suggestion, aborting batch",
				"user_id", userID,
				"transaction_id", txn.ID,
				"processed", processed,
				"error", err)
			return processed
		}

		processed++
		slog.Debug("Transaction classified",
			"transaction_id", txn.ID,
			"category", category,
			"confidence", confidence,
			"from_service", fromService)

		if e.onProgress != nil {
			e.onProgress(processed, len(transactions))
		}

		if i < len(transactions)-1 {
			if err := e.pause(ctx); err != nil {
				slog.Info("AI classification canceled during pacing",
					"user_id", userID,
					"processed", processed)
				return processed
			}
		}
	}

	slog.Info("AI classification complete",
		"user_id", userID,
		"processed", processed)

	return processed
}

// pause waits the configured inter-call delay, honoring cancellation.
func (e *Engine) pause(ctx context.Context) error {
	if e.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.delay):
		return nil
	}
}
