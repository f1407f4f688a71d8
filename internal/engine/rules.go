package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
)

// ApplyRules runs the rule tier over all of a user's pending transactions.
// Rules are scanned in precedence order and the first keyword match wins;
// matched transactions get the rule's category at confidence 100 plus an
// audit entry, and are thereby excluded from the AI tier. Transactions
// matching no rule are left untouched for the next tier.
func (e *Engine) ApplyRules(ctx context.Context, userID int64) error {
	rules, err := e.storage.GetRules(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	if len(rules) == 0 {
		return nil
	}

	transactions, err := e.storage.GetPendingTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load pending transactions: %w", err)
	}

	applied := 0
	for i := range transactions {
		txn := &transactions[i]
		for j := range rules {
			rule := &rules[j]
			if !rule.Matches(txn.Description) {
				continue
			}

			if err := e.storage.ApplySuggestion(ctx, service.Suggestion{
				TransactionID: txn.ID,
				UserID:        userID,
				Category:      rule.Category,
				Confidence:    ruleConfidence,
				Action:        model.ActionRuleApplied,
				Source:        model.SourceRule,
			}); err != nil {
				return fmt.Errorf("failed to apply rule %q to transaction %d: %w", rule.Keyword, txn.ID, err)
			}

			applied++
			// First match wins; stop scanning rules for this transaction.
			break
		}
	}

	slog.Info("Rule tier complete",
		"user_id", userID,
		"rules", len(rules),
		"transactions", len(transactions),
		"applied", applied)

	return nil
}
