package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/common"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
	"github.com/Guilherme-Lopesz/spendsense/internal/service"
)

func confirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm <transaction-id>",
		Short: "Confirm a transaction's suggested category",
		Long: `Accept the suggested category for a transaction. Pass --category to
confirm with a different one, and --rule to also create a keyword rule
so similar transactions skip the AI tier next time.`,
		Args: cobra.ExactArgs(1),
		RunE: runConfirm,
	}

	cmd.Flags().String("category", "", "confirm with this category instead of the suggestion")
	cmd.Flags().String("rule", "", "also create a keyword rule mapping this keyword to the category")

	return cmd
}

func runConfirm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID := currentUser()

	txnID, err := parseTransactionID(args[0])
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	category, _ := cmd.Flags().GetString("category")
	if category == "" {
		txn, getErr := store.GetTransaction(ctx, txnID, userID)
		if getErr != nil {
			return describeNotFound(getErr, txnID)
		}
		if !txn.HasSuggestion() {
			return fmt.Errorf("transaction %d has no suggestion; pass --category (%s)",
				txnID, categoriesHint())
		}
		category = *txn.SuggestedCategory
	}

	if err := store.ConfirmTransaction(ctx, txnID, userID, category, model.ActionUserConfirmed); err != nil {
		return describeNotFound(err, txnID)
	}
	cmd.Printf("Transaction %d confirmed as %s.\n", txnID, category)

	return maybeCreateRule(cmd, store, category)
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <transaction-id> <category>",
		Short: "Confirm a transaction with a corrected category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID := currentUser()

			txnID, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			category := args[1]
			if err := store.ConfirmTransaction(ctx, txnID, userID, category, model.ActionUserEdited); err != nil {
				return describeNotFound(err, txnID)
			}
			cmd.Printf("Transaction %d set to %s.\n", txnID, category)

			return maybeCreateRule(cmd, store, category)
		},
	}

	cmd.Flags().String("rule", "", "also create a keyword rule mapping this keyword to the category")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			txnID, err := parseTransactionID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteTransaction(ctx, txnID, currentUser()); err != nil {
				return describeNotFound(err, txnID)
			}
			cmd.Printf("Transaction %d deleted.\n", txnID)
			return nil
		},
	}
}

func batchConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch-confirm [transaction-id...]",
		Short: "Confirm suggested categories for several transactions at once",
		Long: `Confirm each listed transaction with its suggested category, falling
back to Other when a transaction has none. With --all, every pending
transaction that already has a suggestion is confirmed.`,
		RunE: runBatchConfirm,
	}

	cmd.Flags().Bool("all", false, "confirm every pending transaction that has a suggestion")

	return cmd
}

func runBatchConfirm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID := currentUser()
	all, _ := cmd.Flags().GetBool("all")

	if !all && len(args) == 0 {
		return fmt.Errorf("pass transaction IDs or --all")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	var ids []int64
	if all {
		pending, err := store.GetPendingTransactions(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load pending transactions: %w", err)
		}
		for i := range pending {
			if pending[i].HasSuggestion() {
				ids = append(ids, pending[i].ID)
			}
		}
	} else {
		for _, arg := range args {
			id, err := parseTransactionID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}

	confirmed := 0
	for _, id := range ids {
		txn, err := store.GetTransaction(ctx, id, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				cmd.Printf("Transaction %d not found, skipping.\n", id)
				continue
			}
			return err
		}

		category := model.CategoryOther
		if txn.HasSuggestion() {
			category = *txn.SuggestedCategory
		}

		if err := store.ConfirmTransaction(ctx, id, userID, category, model.ActionBatchConfirmed); err != nil {
			return describeNotFound(err, id)
		}
		confirmed++
	}

	cmd.Printf("Confirmed %d transactions.\n", confirmed)
	return nil
}

func maybeCreateRule(cmd *cobra.Command, store service.Storage, category string) error {
	keyword, _ := cmd.Flags().GetString("rule")
	if keyword == "" {
		return nil
	}

	rule := model.Rule{
		UserID:   currentUser(),
		Keyword:  keyword,
		Category: category,
	}
	if err := store.SaveRule(cmd.Context(), &rule); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			cmd.Printf("Rule for %q already exists, skipping.\n", keyword)
			return nil
		}
		return fmt.Errorf("failed to create rule: %w", err)
	}
	cmd.Printf("Rule added: %q -> %s\n", keyword, category)
	return nil
}

func parseTransactionID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction ID %q: %w", arg, err)
	}
	return id, nil
}

func describeNotFound(err error, txnID int64) error {
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("transaction %d not found", txnID)
	}
	return err
}
