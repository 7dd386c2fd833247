package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dailyexpression/internal/cli"
	"github.com/at-ishikawa/dailyexpression/internal/daily"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

func newTodayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the expression of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := buildDependencies(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = deps.Close()
			}()

			today := deps.Clock.Today()
			featured, err := daily.Featured(deps.Catalog.Items(), today)
			if err != nil {
				return fmt.Errorf("daily.Featured() > %w", err)
			}
			learned, err := deps.Tracker.IsLearned(ctx, featured.ID)
			if err != nil {
				return fmt.Errorf("tracker.IsLearned(%s) > %w", featured.ID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Expression of the day for %s\n\n", today)
			printExpression(out, featured, learned)
			if !learned {
				fmt.Fprintf(out, "\nRun `dailyexpression learn %s` once you have learned it.\n", featured.ID)
			}
			return nil
		},
	}
}

func newChallengeCommand() *cobra.Command {
	var (
		size int
		list bool
	)
	command := &cobra.Command{
		Use:   "challenge",
		Short: "Take today's challenge, a multiple-choice quiz starting at the expression of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := buildDependencies(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = deps.Close()
			}()

			if size <= 0 {
				size = deps.Config.Daily.ChallengeSize
			}
			today := deps.Clock.Today()
			challenge, err := daily.Challenge(deps.Catalog.Items(), today, size)
			if err != nil {
				return fmt.Errorf("daily.Challenge() > %w", err)
			}

			out := cmd.OutOrStdout()
			if list {
				fmt.Fprintf(out, "Challenge for %s\n\n", today)
				for i, item := range challenge {
					learned, err := deps.Tracker.IsLearned(ctx, item.ID)
					if err != nil {
						return fmt.Errorf("tracker.IsLearned(%s) > %w", item.ID, err)
					}
					fmt.Fprintf(out, "%d. ", i+1)
					printExpression(out, item, learned)
				}
				return nil
			}

			done, err := deps.Tracker.ChallengeResult(ctx)
			if err != nil {
				return fmt.Errorf("tracker.ChallengeResult() > %w", err)
			}
			if done != nil {
				fmt.Fprintf(out, "Today's challenge is done: %d/%d. Come back tomorrow.\n", done.Score, done.Total)
				return nil
			}

			fmt.Fprintf(out, "Challenge for %s\n", today)
			questions := quiz.NewGenerator().GenerateChallenge(challenge, deps.Catalog.Items())
			quizCLI, err := cli.NewQuizCLI(questions, cmd.InOrStdin(), out)
			if err != nil {
				return err
			}
			if err := quizCLI.Run(ctx, quizCLI); err != nil {
				return err
			}
			if !quizCLI.Completed() {
				fmt.Fprintln(out, "The challenge is not finished. Run it again to save a score.")
				return nil
			}

			results := quizCLI.Results()
			record, err := deps.Tracker.CompleteChallenge(ctx, results.Correct, results.Total)
			if err != nil {
				return fmt.Errorf("tracker.CompleteChallenge() > %w", err)
			}
			fmt.Fprintf(out, "Saved today's challenge: %d/%d.\n", record.Score, record.Total)
			return nil
		},
	}
	command.Flags().IntVar(&size, "size", 0, "Number of questions, daily.challenge_size by default")
	command.Flags().BoolVar(&list, "list", false, "Only list today's challenge expressions")
	return command
}
