package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/engine"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify pending transactions",
		Long: `Run the classification pipeline over all pending transactions that do
not have a suggestion yet: keyword rules first, then the AI provider.
When the provider is unavailable a local heuristic fills in, so every
transaction ends up with a suggested category.`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID := currentUser()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	classifier, err := initClassifier()
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}
	defer classifier.Close()

	if err := engine.New(store, classifier).ApplyRules(ctx, userID); err != nil {
		return fmt.Errorf("failed to apply rules: %w", err)
	}

	pending, err := store.GetUnsuggestedPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load pending transactions: %w", err)
	}
	if len(pending) == 0 {
		cmd.Println("Nothing to classify.")
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetDescription("Classifying"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	e := engine.NewWithConfig(store, classifier, engine.Config{
		InterCallDelay: interCallDelay(),
		OnProgress: func(done, total int) {
			_ = bar.Set(done)
		},
	})

	processed := e.ProcessWithAI(ctx, userID)
	_ = bar.Finish()

	if processed < len(pending) {
		cmd.Printf("Classified %d of %d transactions; the rest stay pending for the next run.\n",
			processed, len(pending))
	} else {
		cmd.Printf("Classified %d transactions.\n", processed)
	}
	cmd.Println("Run \"spendsense review\" to confirm the suggestions.")
	return nil
}
