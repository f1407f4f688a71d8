package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/engine"
	"github.com/Guilherme-Lopesz/spendsense/internal/ingest"
	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single transaction manually",
		Long: `Add one transaction without a CSV file. The amount accepts Brazilian
formatting ("R$ -45,90") or a plain number; negative amounts are
expenses, positive amounts are income.`,
		RunE: runAdd,
	}

	cmd.Flags().String("date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().String("description", "", "transaction description (required)")
	cmd.Flags().String("amount", "", "transaction amount (required)")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUser()

	dateStr, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")
	amountStr, _ := cmd.Flags().GetString("amount")

	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateStr, err)
		}
		date = parsed
	}

	amount, err := ingest.ParseAmount(amountStr)
	if err != nil {
		return err
	}

	txn := model.Transaction{
		UserID:      userID,
		Date:        date,
		Description: ingest.SanitizeDescription(description),
		Amount:      amount,
		Status:      model.StatusPending,
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

	if err := store.SaveTransactions(ctx, []model.Transaction{txn}, model.OriginManual); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

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
	e.ProcessWithAI(ctx, userID)

	cmd.Println("Transaction added. Run \"spendsense review\" to confirm its category.")
	return nil
}
