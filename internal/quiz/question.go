// Package quiz generates and grades expression quizzes.
package quiz

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrUnknownType          = errors.New("unknown quiz type")
	ErrNoQuizTypes          = errors.New("at least one quiz type is required")
	ErrInvalidQuestionCount = errors.New("question count must be positive")
)

type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeFillInBlank    Type = "fill-in-blank"
)

var Types = []Type{TypeMultipleChoice, TypeFillInBlank}

func ParseType(value string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(value)))
	switch t {
	case TypeMultipleChoice, TypeFillInBlank:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, value)
}

// Blank replaces the expression in a fill-in-the-blank sentence
const Blank = "_____"

type Question struct {
	ID              string   `json:"id"`
	Type            Type     `json:"type"`
	ExpressionID    string   `json:"expressionId"`
	Prompt          string   `json:"prompt"`
	CorrectAnswer   string   `json:"correctAnswer"`
	Options         []string `json:"options,omitempty"`
	BlankedSentence string   `json:"blankedSentence,omitempty"`

	Answered   bool   `json:"answered"`
	UserAnswer string `json:"userAnswer,omitempty"`
	IsCorrect  bool   `json:"isCorrect"`
}

var leadingArticle = regexp.MustCompile(`^(the|a|an)\s+`)

// CheckAnswer grades answer against the question without recording it.
// Multiple choice needs the exact meaning. Fill in the blank ignores case,
// surrounding spaces, and a leading "the", "a" or "an" on either side.
func CheckAnswer(question Question, answer string) (bool, error) {
	switch question.Type {
	case TypeMultipleChoice:
		return answer == question.CorrectAnswer, nil
	case TypeFillInBlank:
		got := strings.ToLower(strings.TrimSpace(answer))
		want := strings.ToLower(strings.TrimSpace(question.CorrectAnswer))
		if got == want {
			return true, nil
		}
		return stripArticle(got) == stripArticle(want), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownType, question.Type)
	}
}

func stripArticle(s string) string {
	return leadingArticle.ReplaceAllString(s, "")
}
