package main

import (
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dailyexpression/internal/cli"
	"github.com/at-ishikawa/dailyexpression/internal/review"
)

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Review the learned expressions that are due today",
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

			session := review.NewSession(deps.Engine, deps.Catalog, deps.Tracker,
				review.WithRecorder(deps.Tracker),
			)
			reviewCLI := cli.NewReviewCLI(session, cmd.InOrStdin(), cmd.OutOrStdout())
			total, err := reviewCLI.Start(ctx)
			if err != nil {
				return err
			}
			if total == 0 {
				return nil
			}
			return reviewCLI.Run(ctx, reviewCLI)
		},
	}
}
