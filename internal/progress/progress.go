// Package progress tracks which expressions the user has learned.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

var ErrUnknownExpression = errors.New("unknown expression")

// Progress is the learning state of one expression
type Progress struct {
	ExpressionID string     `yaml:"expression_id" json:"expressionId" db:"expression_id"`
	IsLearned    bool       `yaml:"is_learned" json:"isLearned" db:"is_learned"`
	LearnedDate  *date.Date `yaml:"learned_date,omitempty" json:"learnedDate,omitempty" db:"learned_date"`
	ReviewCount  int        `yaml:"review_count" json:"reviewCount" db:"review_count"`
}

// Repository persists Progress keyed by expression id.
// Find returns nil without an error when nothing is stored.
type Repository interface {
	FindAll(ctx context.Context) ([]Progress, error)
	Find(ctx context.Context, expressionID string) (*Progress, error)
	Save(ctx context.Context, progress Progress) error

	// FindChallenge returns nil without an error when the day has no record.
	FindChallenge(ctx context.Context, day date.Date) (*ChallengeRecord, error)
	// FindChallenges returns every challenge record, oldest first.
	FindChallenges(ctx context.Context) ([]ChallengeRecord, error)
	SaveChallenge(ctx context.Context, record ChallengeRecord) error
}

// Tracker keeps the learned set and the scheduling records in step:
// learning an expression starts its schedule and unlearning drops it.
type Tracker struct {
	repository Repository
	engine     *srs.Engine
	catalog    *expression.Catalog
	logger     *slog.Logger
}

func NewTracker(repository Repository, engine *srs.Engine, catalog *expression.Catalog) *Tracker {
	return &Tracker{
		repository: repository,
		engine:     engine,
		catalog:    catalog,
		logger:     slog.Default(),
	}
}

// MarkLearned adds the expression to the learned set and initializes its
// schedule. Marking an already learned expression keeps its schedule.
func (t *Tracker) MarkLearned(ctx context.Context, expressionID string) (srs.Record, error) {
	if _, ok := t.catalog.Find(expressionID); !ok {
		return srs.Record{}, fmt.Errorf("%w: %s", ErrUnknownExpression, expressionID)
	}

	current, err := t.load(ctx, expressionID)
	if err != nil {
		return srs.Record{}, err
	}
	if !current.IsLearned {
		today := t.engine.Today()
		current.IsLearned = true
		current.LearnedDate = &today
		if err := t.repository.Save(ctx, current); err != nil {
			return srs.Record{}, fmt.Errorf("repository.Save(%s) > %w", expressionID, err)
		}
		t.logger.Info("marked expression as learned", slog.String("expressionID", expressionID))
	}

	record, err := t.engine.Initialize(ctx, expressionID)
	if err != nil {
		return srs.Record{}, fmt.Errorf("engine.Initialize(%s) > %w", expressionID, err)
	}
	return record, nil
}

// Unmark removes the expression from the learned set and forgets its schedule.
func (t *Tracker) Unmark(ctx context.Context, expressionID string) error {
	current, err := t.load(ctx, expressionID)
	if err != nil {
		return err
	}
	if current.IsLearned {
		current.IsLearned = false
		current.LearnedDate = nil
		if err := t.repository.Save(ctx, current); err != nil {
			return fmt.Errorf("repository.Save(%s) > %w", expressionID, err)
		}
		t.logger.Info("unmarked expression", slog.String("expressionID", expressionID))
	}

	if err := t.engine.Reset(ctx, expressionID); err != nil {
		return fmt.Errorf("engine.Reset(%s) > %w", expressionID, err)
	}
	return nil
}

// RecordReview counts one completed review of the expression
func (t *Tracker) RecordReview(ctx context.Context, expressionID string) error {
	current, err := t.load(ctx, expressionID)
	if err != nil {
		return err
	}
	current.ReviewCount++
	if err := t.repository.Save(ctx, current); err != nil {
		return fmt.Errorf("repository.Save(%s) > %w", expressionID, err)
	}
	return nil
}

// Progress returns the stored progress of the expression, or a zero progress
// when nothing is stored yet.
func (t *Tracker) Progress(ctx context.Context, expressionID string) (Progress, error) {
	return t.load(ctx, expressionID)
}

func (t *Tracker) IsLearned(ctx context.Context, expressionID string) (bool, error) {
	current, err := t.load(ctx, expressionID)
	if err != nil {
		return false, err
	}
	return current.IsLearned, nil
}

// Learned returns the learned entries, oldest first
func (t *Tracker) Learned(ctx context.Context) ([]Progress, error) {
	all, err := t.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.FindAll() > %w", err)
	}

	learned := make([]Progress, 0, len(all))
	for _, p := range all {
		if p.IsLearned {
			learned = append(learned, p)
		}
	}
	sort.SliceStable(learned, func(i, j int) bool {
		a, b := learnedDate(learned[i]), learnedDate(learned[j])
		if !a.Equal(b) {
			return a.Before(b)
		}
		return learned[i].ExpressionID < learned[j].ExpressionID
	})
	return learned, nil
}

// LearnedIDs returns the ids of Learned
func (t *Tracker) LearnedIDs(ctx context.Context) ([]string, error) {
	learned, err := t.Learned(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(learned))
	for _, p := range learned {
		ids = append(ids, p.ExpressionID)
	}
	return ids, nil
}

func learnedDate(p Progress) date.Date {
	if p.LearnedDate == nil {
		return date.Date{}
	}
	return *p.LearnedDate
}

func (t *Tracker) load(ctx context.Context, expressionID string) (Progress, error) {
	current, err := t.repository.Find(ctx, expressionID)
	if err != nil {
		return Progress{}, fmt.Errorf("repository.Find(%s) > %w", expressionID, err)
	}
	if current == nil {
		return Progress{ExpressionID: expressionID}, nil
	}
	return *current, nil
}
