package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit trail",
		Long: `List recent audit entries, newest first. Every category change records
who made it (a rule, the AI provider or you) and what it changed.`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 50, "maximum number of entries to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	entries, err := store.GetAuditLog(ctx, currentUser(), limit)
	if err != nil {
		return fmt.Errorf("failed to load audit log: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No audit entries yet.")
		return nil
	}

	for i := range entries {
		entry := &entries[i]

		change := entry.NewCategory
		if entry.PreviousCategory != nil && *entry.PreviousCategory != "" {
			change = fmt.Sprintf("%s -> %s", *entry.PreviousCategory, entry.NewCategory)
		}

		cmd.Printf("%s  txn %-5d %-15s %-6s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.TransactionID,
			entry.Action,
			entry.Source,
			change)
	}

	return nil
}
