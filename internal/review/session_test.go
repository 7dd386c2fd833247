package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

type staticLearnedSet []string

func (s staticLearnedSet) LearnedIDs(context.Context) ([]string, error) {
	return s, nil
}

type failingLearnedSet struct{}

func (failingLearnedSet) LearnedIDs(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

type countingRecorder map[string]int

func (r countingRecorder) RecordReview(_ context.Context, id string) error {
	r[id]++
	return nil
}

func testCatalog(t *testing.T) *expression.Catalog {
	t.Helper()
	catalog, err := expression.NewCatalog([]expression.Expression{
		{ID: "break-the-ice", Expression: "Break the ice", Meaning: "To start a conversation", Category: expression.CategoryCasual, Examples: []string{"A joke can break the ice."}},
		{ID: "piece-of-cake", Expression: "Piece of cake", Meaning: "Something very easy", Category: expression.CategoryIdioms, Examples: []string{"The exam was a piece of cake."}},
		{ID: "touch-base", Expression: "Touch base", Meaning: "To briefly make contact", Category: expression.CategoryBusiness, Examples: []string{"Let's touch base next week."}},
	})
	require.NoError(t, err)
	return catalog
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	today := date.New(2025, 9, 1)
	store := srs.NewMemoryStore(
		srs.NewRecord("touch-base", today.AddDays(-3)),
		srs.NewRecord("break-the-ice", today),
		srs.Record{ItemID: "piece-of-cake", EaseFactor: 2.5, Interval: 6, Repetitions: 2, NextReviewDate: today.AddDays(4)},
		srs.NewRecord("removed-from-catalog", today),
	)
	engine := srs.NewEngine(store, date.FixedClock(today))
	recorder := countingRecorder{}
	session := NewSession(engine, testCatalog(t),
		staticLearnedSet{"touch-base", "piece-of-cake", "removed-from-catalog", "break-the-ice"},
		WithRecorder(recorder),
	)

	_, err := session.Rate(ctx, srs.QualityGood)
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.False(t, session.Done())

	count, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, session.Remaining())

	current, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, "touch-base", current.ID)

	record, err := session.Rate(ctx, srs.QualityGood)
	require.NoError(t, err)
	assert.Equal(t, today.AddDays(1), record.NextReviewDate)

	current, ok = session.Current()
	require.True(t, ok)
	assert.Equal(t, "break-the-ice", current.ID)

	_, err = session.Rate(ctx, srs.Quality("perfect"))
	assert.ErrorIs(t, err, srs.ErrInvalidQuality)
	assert.Equal(t, 1, session.Remaining(), "a failed rating does not advance")

	_, err = session.Rate(ctx, srs.QualityAgain)
	require.NoError(t, err)

	assert.True(t, session.Done())
	assert.Equal(t, 0, session.Remaining())
	_, ok = session.Current()
	assert.False(t, ok)
	_, err = session.Rate(ctx, srs.QualityGood)
	assert.ErrorIs(t, err, ErrFinished)

	summary := session.Summary()
	assert.Equal(t, 2, summary.Reviewed)
	assert.Equal(t, 1, summary.Counts[srs.QualityGood])
	assert.Equal(t, 1, summary.Counts[srs.QualityAgain])
	assert.Equal(t, countingRecorder{"touch-base": 1, "break-the-ice": 1}, recorder)

	due, err := engine.IsDue(ctx, "touch-base")
	require.NoError(t, err)
	assert.False(t, due)
}

func TestSession_NothingDue(t *testing.T) {
	today := date.New(2025, 9, 1)
	engine := srs.NewEngine(srs.NewMemoryStore(), date.FixedClock(today))
	session := NewSession(engine, testCatalog(t), staticLearnedSet{"touch-base"})

	count, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, session.Done())
}

func TestSession_LearnedSetFailure(t *testing.T) {
	engine := srs.NewEngine(srs.NewMemoryStore(), date.FixedClock(date.New(2025, 9, 1)))
	session := NewSession(engine, testCatalog(t), failingLearnedSet{})

	_, err := session.Start(context.Background())
	assert.Error(t, err)
}
