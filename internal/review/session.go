// Package review runs a review session over the learned expressions that are due.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

var (
	ErrNotStarted = errors.New("review session is not started")
	ErrFinished   = errors.New("no expression left to review")
)

// LearnedSet is the set of expressions the user has marked as learned
type LearnedSet interface {
	LearnedIDs(ctx context.Context) ([]string, error)
}

// Recorder is told about each rated expression
type Recorder interface {
	RecordReview(ctx context.Context, expressionID string) error
}

type Summary struct {
	Reviewed int                 `json:"reviewed"`
	Counts   map[srs.Quality]int `json:"counts"`
}

type Session struct {
	engine   *srs.Engine
	catalog  *expression.Catalog
	learned  LearnedSet
	recorder Recorder
	logger   *slog.Logger

	started bool
	queue   []expression.Expression
	index   int
	summary Summary
}

type Option func(*Session)

func WithRecorder(recorder Recorder) Option {
	return func(s *Session) {
		s.recorder = recorder
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func NewSession(engine *srs.Engine, catalog *expression.Catalog, learned LearnedSet, opts ...Option) *Session {
	s := &Session{
		engine:  engine,
		catalog: catalog,
		learned: learned,
		logger:  slog.Default(),
		summary: Summary{Counts: make(map[srs.Quality]int, len(srs.Qualities))},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start queues every due learned expression and returns how many there are.
// Ids the catalog does not know are skipped.
func (s *Session) Start(ctx context.Context) (int, error) {
	ids, err := s.learned.LearnedIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("learned.LearnedIDs() > %w", err)
	}
	due, err := s.engine.DueItems(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("engine.DueItems() > %w", err)
	}

	s.queue = s.catalog.Lookup(due)
	if len(s.queue) != len(due) {
		s.logger.Warn("skipped due items missing from the catalog",
			slog.Int("due", len(due)),
			slog.Int("known", len(s.queue)),
		)
	}
	s.index = 0
	s.started = true
	return len(s.queue), nil
}

// Current returns the expression under review, or false when the session is done.
func (s *Session) Current() (expression.Expression, bool) {
	if !s.started || s.index >= len(s.queue) {
		return expression.Expression{}, false
	}
	return s.queue[s.index], true
}

// Rate reviews the current expression and moves to the next one.
func (s *Session) Rate(ctx context.Context, quality srs.Quality) (srs.Record, error) {
	if !s.started {
		return srs.Record{}, ErrNotStarted
	}
	current, ok := s.Current()
	if !ok {
		return srs.Record{}, ErrFinished
	}

	record, err := s.engine.Review(ctx, current.ID, quality)
	if err != nil {
		return srs.Record{}, fmt.Errorf("engine.Review(%s) > %w", current.ID, err)
	}
	if s.recorder != nil {
		if err := s.recorder.RecordReview(ctx, current.ID); err != nil {
			return srs.Record{}, fmt.Errorf("recorder.RecordReview(%s) > %w", current.ID, err)
		}
	}

	s.index++
	s.summary.Reviewed++
	s.summary.Counts[quality]++
	return record, nil
}

func (s *Session) Remaining() int {
	return len(s.queue) - s.index
}

func (s *Session) Done() bool {
	return s.started && s.index >= len(s.queue)
}

func (s *Session) Summary() Summary {
	counts := make(map[srs.Quality]int, len(s.summary.Counts))
	for quality, count := range s.summary.Counts {
		counts[quality] = count
	}
	return Summary{Reviewed: s.summary.Reviewed, Counts: counts}
}
