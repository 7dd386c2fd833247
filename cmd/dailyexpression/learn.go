package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

func newLearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <expression-id>...",
		Short: "Mark expressions as learned and schedule their first review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := buildDependencies(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = deps.Close()
			}()

			out := cmd.OutOrStdout()
			today := deps.Clock.Today()
			for _, id := range args {
				record, err := deps.Tracker.MarkLearned(ctx, id)
				if err != nil {
					return fmt.Errorf("tracker.MarkLearned(%s) > %w", id, err)
				}
				fmt.Fprintf(out, "Learned %s. Next review on %s (in %d days).\n",
					id, record.NextReviewDate, srs.DaysUntilReview(record, today))
			}
			return nil
		},
	}
}

func newUnlearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlearn <expression-id>...",
		Short: "Remove expressions from the learned set and forget their review schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := buildDependencies(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = deps.Close()
			}()

			for _, id := range args {
				if _, ok := deps.Catalog.Find(id); !ok {
					return fmt.Errorf("unknown expression: %s", id)
				}
				if err := deps.Tracker.Unmark(ctx, id); err != nil {
					return fmt.Errorf("tracker.Unmark(%s) > %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unlearned %s.\n", id)
			}
			return nil
		},
	}
}

func newListCommand() *cobra.Command {
	var (
		categories  []string
		learnedOnly bool
	)
	command := &cobra.Command{
		Use:   "list",
		Short: "List the expressions of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter, err := parseCategories(categories)
			if err != nil {
				return err
			}
			deps, err := buildDependencies(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = deps.Close()
			}()

			learnedIDs, err := deps.Tracker.LearnedIDs(ctx)
			if err != nil {
				return fmt.Errorf("tracker.LearnedIDs() > %w", err)
			}
			learned := make(map[string]bool, len(learnedIDs))
			for _, id := range learnedIDs {
				learned[id] = true
			}

			out := cmd.OutOrStdout()
			count := 0
			for _, item := range expression.FilterByCategories(deps.Catalog.Items(), filter) {
				if learnedOnly && !learned[item.ID] {
					continue
				}
				mark := " "
				if learned[item.ID] {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-40s %-14s %s\n", mark, item.ID, item.Category, item.Expression)
				count++
			}
			fmt.Fprintf(out, "\n%d expressions, %d learned\n", count, len(learnedIDs))
			return nil
		},
	}
	command.Flags().StringSliceVar(&categories, "category", nil, "Only list these categories")
	command.Flags().BoolVar(&learnedOnly, "learned", false, "Only list learned expressions")
	return command
}
