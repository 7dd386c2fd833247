package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
)

const (
	DefaultQuestionCount = 10
	distractorCount      = 3
)

var ErrNoExample = errors.New("expression has no example sentence")

type Settings struct {
	QuestionCount int                   `json:"questionCount"`
	Types         []Type                `json:"types"`
	Categories    []expression.Category `json:"categories,omitempty"`
	// IncludeOnlyLearned is applied by callers with FilterLearned
	IncludeOnlyLearned bool `json:"includeOnlyLearned"`
}

func DefaultSettings() Settings {
	return Settings{
		QuestionCount: DefaultQuestionCount,
		Types:         slices.Clone(Types),
	}
}

func (s Settings) Validate() error {
	if s.QuestionCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuestionCount, s.QuestionCount)
	}
	if len(s.Types) == 0 {
		return ErrNoQuizTypes
	}
	for _, t := range s.Types {
		if _, err := ParseType(string(t)); err != nil {
			return err
		}
	}
	return nil
}

// Generator builds quizzes. It is not safe for concurrent use because it
// owns its random source.
type Generator struct {
	rand  *rand.Rand
	newID func() string
}

type GeneratorOption func(*Generator)

// WithRandSource makes shuffling deterministic for a seeded source
func WithRandSource(source rand.Source) GeneratorOption {
	return func(g *Generator) {
		g.rand = rand.New(source)
	}
}

func WithIDFunc(newID func() string) GeneratorOption {
	return func(g *Generator) {
		g.newID = newID
	}
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate picks up to settings.QuestionCount items of the requested
// categories in random order and cycles through settings.Types by position.
// Distractors come from the whole pool, not only the selected categories.
func (g *Generator) Generate(pool []expression.Expression, settings Settings) ([]Question, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	candidates := expression.FilterByCategories(pool, settings.Categories)
	shuffle(g.rand, candidates)
	if len(candidates) > settings.QuestionCount {
		candidates = candidates[:settings.QuestionCount]
	}

	questions := make([]Question, 0, len(candidates))
	for i, item := range candidates {
		var (
			question Question
			err      error
		)
		switch t := settings.Types[i%len(settings.Types)]; t {
		case TypeMultipleChoice:
			question = g.multipleChoice(item, pool)
		case TypeFillInBlank:
			question, err = g.fillInBlank(item)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// GenerateChallenge asks one multiple-choice question per item, in the order
// of items. Distractors come from pool.
func (g *Generator) GenerateChallenge(items, pool []expression.Expression) []Question {
	questions := make([]Question, 0, len(items))
	for _, item := range items {
		questions = append(questions, g.multipleChoice(item, pool))
	}
	return questions
}

func (g *Generator) multipleChoice(item expression.Expression, pool []expression.Expression) Question {
	distractors := g.selectDistractors(pool, item, distractorCount)
	options := make([]string, 0, len(distractors)+1)
	options = append(options, item.Meaning)
	for _, d := range distractors {
		options = append(options, d.Meaning)
	}
	shuffle(g.rand, options)

	return Question{
		ID:            g.newID(),
		Type:          TypeMultipleChoice,
		ExpressionID:  item.ID,
		Prompt:        fmt.Sprintf("What does %q mean?", item.Expression),
		CorrectAnswer: item.Meaning,
		Options:       options,
	}
}

// selectDistractors returns up to count other items, same category first.
// Items whose meaning repeats one already chosen, or the source meaning, are skipped.
func (g *Generator) selectDistractors(pool []expression.Expression, source expression.Expression, count int) []expression.Expression {
	var sameCategory, otherCategory []expression.Expression
	for _, item := range pool {
		if item.ID == source.ID {
			continue
		}
		if item.Category == source.Category {
			sameCategory = append(sameCategory, item)
		} else {
			otherCategory = append(otherCategory, item)
		}
	}
	shuffle(g.rand, sameCategory)
	shuffle(g.rand, otherCategory)

	seen := map[string]bool{source.Meaning: true}
	result := make([]expression.Expression, 0, count)
	for _, item := range append(sameCategory, otherCategory...) {
		if len(result) == count {
			break
		}
		if seen[item.Meaning] {
			continue
		}
		seen[item.Meaning] = true
		result = append(result, item)
	}
	return result
}

// fillInBlank blanks literal case-insensitive matches only. Inflected forms
// such as "breaking the ice" for "Break the ice" stay visible.
func (g *Generator) fillInBlank(item expression.Expression) (Question, error) {
	if len(item.Examples) == 0 {
		return Question{}, fmt.Errorf("%w: %s", ErrNoExample, item.ID)
	}
	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(item.Expression))
	if err != nil {
		return Question{}, fmt.Errorf("regexp.Compile(%s) > %w", item.Expression, err)
	}

	return Question{
		ID:              g.newID(),
		Type:            TypeFillInBlank,
		ExpressionID:    item.ID,
		Prompt:          "Complete the sentence with the correct expression:",
		CorrectAnswer:   strings.ToLower(item.Expression),
		BlankedSentence: pattern.ReplaceAllLiteralString(item.Examples[0], Blank),
	}, nil
}

func shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// FilterLearned keeps the items whose id is in learnedIDs
func FilterLearned(pool []expression.Expression, learnedIDs []string) []expression.Expression {
	learned := make(map[string]bool, len(learnedIDs))
	for _, id := range learnedIDs {
		learned[id] = true
	}
	result := make([]expression.Expression, 0, len(learnedIDs))
	for _, item := range pool {
		if learned[item.ID] {
			result = append(result, item)
		}
	}
	return result
}
