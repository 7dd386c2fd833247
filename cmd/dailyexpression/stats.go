package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dailyexpression/internal/bootstrap"
	"github.com/at-ishikawa/dailyexpression/internal/report"
	"github.com/at-ishikawa/dailyexpression/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
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

			data, err := reportData(ctx, deps)
			if err != nil {
				return err
			}
			tmpl, err := report.ParseTemplate("")
			if err != nil {
				return fmt.Errorf("report.ParseTemplate() > %w", err)
			}
			return report.Render(cmd.OutOrStdout(), tmpl, data)
		},
	}
}

func newReportCommand() *cobra.Command {
	var (
		templatePath string
		pdf          bool
		dark         bool
	)
	command := &cobra.Command{
		Use:   "report",
		Short: "Write a progress report into outputs.report_directory",
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

			data, err := reportData(ctx, deps)
			if err != nil {
				return err
			}
			var opts []report.WriterOption
			if dark {
				opts = append(opts, report.WithDarkTheme())
			}
			writer, err := report.NewWriter(deps.Config.Outputs.ReportDirectory, templatePath, opts...)
			if err != nil {
				return fmt.Errorf("report.NewWriter() > %w", err)
			}

			path, err := writer.WriteMarkdown(data)
			if err != nil {
				return fmt.Errorf("writer.WriteMarkdown() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			if pdf {
				pdfPath, err := writer.WritePDF(path)
				if err != nil {
					return fmt.Errorf("writer.WritePDF() > %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
			}
			return nil
		},
	}
	command.Flags().StringVar(&templatePath, "template", "", "Markdown template file, the bundled template by default")
	command.Flags().BoolVar(&pdf, "pdf", false, "Also convert the report into PDF")
	command.Flags().BoolVar(&dark, "dark", false, "Use the dark PDF theme")
	return command
}

func reportData(ctx context.Context, deps *bootstrap.Dependencies) (report.Data, error) {
	learned, err := deps.Tracker.Learned(ctx)
	if err != nil {
		return report.Data{}, fmt.Errorf("tracker.Learned() > %w", err)
	}
	records, err := deps.Engine.Records(ctx)
	if err != nil {
		return report.Data{}, fmt.Errorf("engine.Records() > %w", err)
	}
	learnedIDs := make([]string, 0, len(learned))
	for _, p := range learned {
		learnedIDs = append(learnedIDs, p.ExpressionID)
	}
	dueIDs, err := deps.Engine.DueItems(ctx, learnedIDs)
	if err != nil {
		return report.Data{}, fmt.Errorf("engine.DueItems() > %w", err)
	}

	return report.Data{
		Summary: statistics.Calculate(deps.Catalog, learned, records, deps.Clock.Today()),
		Due:     deps.Catalog.Lookup(dueIDs),
	}, nil
}
