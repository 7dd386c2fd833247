package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/dailyexpression/internal/bootstrap"
	"github.com/at-ishikawa/dailyexpression/internal/config"
	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// buildDependencies loads the configuration and opens the storage.
// The caller must Close the returned Dependencies.
func buildDependencies(ctx context.Context) (*bootstrap.Dependencies, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var opts []bootstrap.Option
	if todayFlag != "" {
		today, err := date.Parse(todayFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --today %q: %w", todayFlag, err)
		}
		opts = append(opts, bootstrap.WithClock(date.FixedClock(today)))
	}
	deps, err := bootstrap.Build(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.Build() > %w", err)
	}
	return deps, nil
}

// printExpression writes an expression with its meaning and examples
func printExpression(w io.Writer, item expression.Expression, learned bool) {
	bold := color.New(color.Bold)
	status := color.New(color.FgYellow).Sprint("new")
	if learned {
		status = color.New(color.FgGreen).Sprint("learned")
	}
	fmt.Fprintf(w, "%s [%s] (%s)\n", bold.Sprint(item.Expression), item.Category, status)
	fmt.Fprintf(w, "  %s\n", item.Meaning)
	for _, example := range item.Examples {
		fmt.Fprintf(w, "  - %s\n", color.New(color.Italic).Sprint(example))
	}
}

// parseCategories accepts category names separated by commas
func parseCategories(values []string) ([]expression.Category, error) {
	var categories []expression.Category
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			category, err := expression.ParseCategory(name)
			if err != nil {
				return nil, err
			}
			categories = append(categories, category)
		}
	}
	return categories, nil
}
