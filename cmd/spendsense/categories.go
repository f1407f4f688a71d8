package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show spending totals per category",
		Long: `Aggregate expenses by category, using the confirmed category where one
exists and the suggestion otherwise. Income is excluded from the totals.`,
		RunE: runCategories,
	}
}

func runCategories(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	summaries, err := store.CategorySummary(ctx, currentUser())
	if err != nil {
		return fmt.Errorf("failed to load category summary: %w", err)
	}

	if len(summaries) == 0 {
		cmd.Println("No categorized transactions yet.")
		return nil
	}

	bold := color.New(color.Bold)
	var total float64
	for _, s := range summaries {
		cmd.Printf("%-20s %4d transactions  R$ %10.2f\n",
			bold.Sprint(s.Category), s.Count, s.Total)
		total += s.Total
	}
	cmd.Printf("%-20s %20s R$ %10.2f\n", "Total", "", total)

	return nil
}
