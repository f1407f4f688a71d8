package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Guilherme-Lopesz/spendsense/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage keyword classification rules",
		Long: `Keyword rules are the first classification tier: a pending transaction
whose description contains a rule's keyword gets that rule's category at
full confidence, and the AI provider never sees it. Rules are checked in
the order they were created; the first match wins.`,
	}

	cmd.AddCommand(rulesAddCmd())
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesDeleteCmd())

	return cmd
}

func rulesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword> <category>",
		Short: "Add a keyword rule",
		Long: fmt.Sprintf(`Add a rule mapping a keyword to a category. Matching is a
case-insensitive substring test. Valid categories: %s.`,
			strings.Join(model.Categories(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			rule := model.Rule{
				UserID:   currentUser(),
				Keyword:  args[0],
				Category: args[1],
			}
			if err := store.SaveRule(ctx, &rule); err != nil {
				return fmt.Errorf("failed to save rule: %w", err)
			}

			cmd.Printf("Rule %d added: %q -> %s\n", rule.ID, rule.Keyword, rule.Category)
			return nil
		},
	}
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keyword rules in precedence order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			rules, err := store.GetRules(ctx, currentUser())
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			if len(rules) == 0 {
				cmd.Println("No rules yet. Add one with \"spendsense rules add <keyword> <category>\".")
				return nil
			}

			bold := color.New(color.Bold)
			for _, rule := range rules {
				cmd.Printf("%3d. [%d] %s -> %s\n",
					rule.Position, rule.ID, bold.Sprint(rule.Keyword), rule.Category)
			}
			return nil
		},
	}
}

func rulesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a keyword rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ruleID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteRule(ctx, ruleID, currentUser()); err != nil {
				return fmt.Errorf("failed to delete rule: %w", err)
			}

			cmd.Printf("Rule %d deleted.\n", ruleID)
			return nil
		},
	}
}

func closeStorage(store interface{ Close() error }) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}
