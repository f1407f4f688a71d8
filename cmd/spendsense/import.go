package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/engine"
	"github.com/Guilherme-Lopesz/spendsense/internal/ingest"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file",
		Long: `Import bank transactions from a CSV export. The file needs date,
description and amount columns (Portuguese headers are accepted), comma,
semicolon or tab separated, with amounts in Brazilian or plain format.

Keyword rules are applied immediately. The remaining transactions are
classified by the AI provider in the background; run "spendsense review"
afterwards to confirm the suggestions.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("no-classify", false, "Skip AI classification after import")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	userID := currentUser()
	noClassify, _ := cmd.Flags().GetBool("no-classify")

	transactions, err := ingest.ReadFile(args[0], userID)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if err := store.SaveTransactions(ctx, transactions, model.OriginUpload); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	cmd.Printf("Imported %d transactions.\n", len(transactions))

	classifier, err := initClassifier()
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	defer classifier.Close()

	e := engine.NewWithConfig(store, classifier, engine.Config{
		InterCallDelay: interCallDelay(),
	})

	if err := e.ApplyRules(ctx, userID); err != nil {
		return fmt.Errorf("failed to apply rules: %w", err)
	}

	if noClassify {
		return nil
	}

	// Classification runs on a background queue; the command waits for it
	// on exit but keyboard interrupt cancels cleanly mid-batch.
	queue := engine.NewQueue(e, 1, 1)
	queue.Start(ctx)
	if err := queue.Enqueue(ctx, engine.ClassifyJob{UserID: userID}); err != nil {
		queue.Close()
		return err
	}
	cmd.Println("Classifying remaining transactions...")
	queue.Close()

	cmd.Println("Done. Run \"spendsense review\" to confirm the suggestions.")
	return nil
}
