package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/dailyexpression/internal/cli"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

// quizTypesValue is a pflag.Value of comma separated quiz types
type quizTypesValue []quiz.Type

var _ pflag.Value = (*quizTypesValue)(nil)

func (v *quizTypesValue) String() string {
	values := make([]string, 0, len(*v))
	for _, t := range *v {
		values = append(values, string(t))
	}
	return strings.Join(values, ",")
}

func (v *quizTypesValue) Set(value string) error {
	for _, name := range strings.Split(value, ",") {
		t, err := quiz.ParseType(name)
		if err != nil {
			return err
		}
		*v = append(*v, t)
	}
	return nil
}

func (v *quizTypesValue) Type() string {
	return "types"
}

// categoriesValue is a pflag.Value of comma separated expression categories
type categoriesValue []expression.Category

var _ pflag.Value = (*categoriesValue)(nil)

func (v *categoriesValue) String() string {
	values := make([]string, 0, len(*v))
	for _, c := range *v {
		values = append(values, string(c))
	}
	return strings.Join(values, ",")
}

func (v *categoriesValue) Set(value string) error {
	categories, err := parseCategories([]string{value})
	if err != nil {
		return err
	}
	*v = append(*v, categories...)
	return nil
}

func (v *categoriesValue) Type() string {
	return "categories"
}

func newQuizCommand() *cobra.Command {
	var (
		count       int
		types       quizTypesValue
		categories  categoriesValue
		learnedOnly bool
	)
	command := &cobra.Command{
		Use:   "quiz",
		Short: "Take a quiz on the expressions",
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

			settings, err := deps.Config.Quiz.QuizSettings()
			if err != nil {
				return fmt.Errorf("QuizSettings() > %w", err)
			}
			if count > 0 {
				settings.QuestionCount = count
			}
			if len(types) > 0 {
				settings.Types = types
			}
			if len(categories) > 0 {
				settings.Categories = categories
			}
			settings.IncludeOnlyLearned = learnedOnly

			pool := deps.Catalog.Items()
			if settings.IncludeOnlyLearned {
				learnedIDs, err := deps.Tracker.LearnedIDs(ctx)
				if err != nil {
					return fmt.Errorf("tracker.LearnedIDs() > %w", err)
				}
				pool = quiz.FilterLearned(pool, learnedIDs)
			}

			questions, err := quiz.NewGenerator().Generate(pool, settings)
			if err != nil {
				return fmt.Errorf("generator.Generate() > %w", err)
			}
			quizCLI, err := cli.NewQuizCLI(questions, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, quiz.ErrNoQuestions) {
				fmt.Fprintln(cmd.OutOrStdout(), "No expression matches the quiz settings.")
				return nil
			}
			if err != nil {
				return err
			}
			return quizCLI.Run(ctx, quizCLI)
		},
	}
	command.Flags().IntVar(&count, "count", 0, "Number of questions, quiz.question_count by default")
	command.Flags().Var(&types, "type", "Quiz types: multiple-choice, fill-in-blank")
	command.Flags().Var(&categories, "category", "Only ask about these categories")
	command.Flags().BoolVar(&learnedOnly, "learned", false, "Only ask about learned expressions")
	return command
}
