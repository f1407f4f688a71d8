package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "List pending transactions and their suggested categories",
		Long: `Show every pending transaction with its suggested category and
confidence. Use "confirm", "edit", "delete" or "batch-confirm" to act on
the suggestions.`,
		RunE: runReview,
	}
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	pending, err := store.GetPendingTransactions(ctx, currentUser())
	if err != nil {
		return fmt.Errorf("failed to load pending transactions: %w", err)
	}

	if len(pending) == 0 {
		cmd.Println("No pending transactions.")
		return nil
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for i := range pending {
		txn := &pending[i]

		suggestion := "(no suggestion yet)"
		if txn.HasSuggestion() {
			confidence := 0
			if txn.SuggestedConfidence != nil {
				confidence = *txn.SuggestedConfidence
			}
			suggestion = fmt.Sprintf("%s (%d%%)",
				colorFor(confidence, green, yellow, red).Sprint(*txn.SuggestedCategory),
				confidence)
		}

		cmd.Printf("[%d] %s  %-40s %10.2f  %s\n",
			txn.ID,
			txn.Date.Format("2006-01-02"),
			truncate(txn.Description, 40),
			txn.Amount,
			suggestion)
	}

	cmd.Printf("\n%d pending. Confirm with \"spendsense confirm <id>\".\n", len(pending))
	return nil
}

// colorFor picks a color by confidence band: high is trustworthy, low
// deserves a closer look.
func colorFor(confidence int, green, yellow, red *color.Color) *color.Color {
	switch {
	case confidence >= 85:
		return green
	case confidence >= 50:
		return yellow
	default:
		return red
	}
}

// truncate shortens s to max characters. Descriptions are free text with
// accented characters, so it counts runes rather than bytes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func categoriesHint() string {
	return fmt.Sprintf("valid categories: %v", model.Categories())
}
