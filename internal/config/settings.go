package config

import (
	"fmt"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

// QuizSettings converts the quiz section into generator settings.
// Values are expected to be validated already by Load.
func (c QuizConfig) QuizSettings() (quiz.Settings, error) {
	settings := quiz.Settings{
		QuestionCount: c.QuestionCount,
	}
	for _, value := range c.Types {
		t, err := quiz.ParseType(value)
		if err != nil {
			return quiz.Settings{}, fmt.Errorf("quiz.ParseType(%s) > %w", value, err)
		}
		settings.Types = append(settings.Types, t)
	}
	for _, value := range c.Categories {
		category, err := expression.ParseCategory(value)
		if err != nil {
			return quiz.Settings{}, fmt.Errorf("expression.ParseCategory(%s) > %w", value, err)
		}
		settings.Categories = append(settings.Categories, category)
	}
	return settings, nil
}

func (c ExpressionsConfig) SourceOptions() expression.Options {
	return expression.Options{
		File:             c.File,
		SourceURL:        c.SourceURL,
		MaxRetryAttempts: c.RetryAttempts,
		CacheDirectory:   c.CacheDirectory,
	}
}
