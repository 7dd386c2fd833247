package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

func TestBucketOf(t *testing.T) {
	tests := []struct {
		name   string
		record *srs.Record
		want   Bucket
	}{
		{name: "no record", record: nil, want: BucketNew},
		{name: "interval 0", record: &srs.Record{Interval: 0}, want: BucketNew},
		{name: "interval 1", record: &srs.Record{Interval: 1}, want: BucketLearning},
		{name: "interval 5", record: &srs.Record{Interval: 5}, want: BucketLearning},
		{name: "interval 6", record: &srs.Record{Interval: 6}, want: BucketYoung},
		{name: "interval 20", record: &srs.Record{Interval: 20}, want: BucketYoung},
		{name: "interval 21", record: &srs.Record{Interval: 21}, want: BucketMature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketOf(tt.record))
		})
	}
}

func TestCalculate(t *testing.T) {
	today := date.New(2025, 6, 10)
	catalog, err := expression.NewCatalog([]expression.Expression{
		{ID: "a", Expression: "A", Meaning: "a", Category: expression.CategoryIdioms, Examples: []string{"A."}},
		{ID: "b", Expression: "B", Meaning: "b", Category: expression.CategoryIdioms, Examples: []string{"B."}},
		{ID: "c", Expression: "C", Meaning: "c", Category: expression.CategoryBusiness, Examples: []string{"C."}},
		{ID: "d", Expression: "D", Meaning: "d", Category: expression.CategoryCasual, Examples: []string{"D."}},
		{ID: "e", Expression: "E", Meaning: "e", Category: expression.CategoryCasual, Examples: []string{"E."}},
	})
	require.NoError(t, err)

	d := func(month time.Month, day int) *date.Date {
		v := date.New(2025, month, day)
		return &v
	}
	learned := []progress.Progress{
		{ExpressionID: "a", IsLearned: true, LearnedDate: d(5, 1), ReviewCount: 4},
		{ExpressionID: "b", IsLearned: true, LearnedDate: d(6, 9), ReviewCount: 1},
		{ExpressionID: "c", IsLearned: true, LearnedDate: d(4, 20), ReviewCount: 7},
		{ExpressionID: "d", IsLearned: true, LearnedDate: d(6, 10)},
		{ExpressionID: "e", IsLearned: false, ReviewCount: 9},
	}
	records := map[string]srs.Record{
		"a": {ItemID: "a", EaseFactor: 2.5, Interval: 6, Repetitions: 2, NextReviewDate: today.AddDays(2)},
		"b": {ItemID: "b", EaseFactor: 2.5, Interval: 1, Repetitions: 1, NextReviewDate: today.AddDays(-1)},
		"c": {ItemID: "c", EaseFactor: 2.5, Interval: 30, Repetitions: 5, NextReviewDate: today},
		"e": {ItemID: "e", EaseFactor: 2.5, Interval: 30, Repetitions: 5, NextReviewDate: today},
	}

	got := Calculate(catalog, learned, records, today)

	assert.Equal(t, 4, got.TotalLearned)
	assert.Equal(t, 12, got.TotalReviews)
	assert.Equal(t, 2, got.DueCount)
	assert.Equal(t, []BucketCount{
		{Bucket: BucketNew, Count: 1},
		{Bucket: BucketLearning, Count: 1},
		{Bucket: BucketYoung, Count: 1},
		{Bucket: BucketMature, Count: 1},
	}, got.Buckets)
	assert.Equal(t, 1, got.Count(BucketMature))
	assert.Equal(t, []CategoryProgress{
		{Category: expression.CategoryIdioms, Learned: 2, Total: 2},
		{Category: expression.CategoryBusiness, Learned: 1, Total: 1},
		{Category: expression.CategoryCasual, Learned: 1, Total: 2},
		{Category: expression.CategoryPhrasalVerbs, Learned: 0, Total: 0},
	}, got.Categories)
	assert.Equal(t, d(4, 20), got.FirstLearned)
	assert.Equal(t, d(6, 10), got.LatestLearned)

	require.Len(t, got.Upcoming, 3)
	assert.Equal(t, "b", got.Upcoming[0].ExpressionID)
	assert.Equal(t, -1, got.Upcoming[0].DaysUntil)
	assert.Equal(t, "c", got.Upcoming[1].ExpressionID)
	assert.Equal(t, "C", got.Upcoming[1].Expression)
	assert.Equal(t, "a", got.Upcoming[2].ExpressionID)
	assert.Equal(t, 2, got.Upcoming[2].DaysUntil)
}

func TestCalculate_Empty(t *testing.T) {
	catalog, err := expression.LoadDefault()
	require.NoError(t, err)

	got := Calculate(catalog, nil, nil, date.New(2025, 1, 1))
	assert.Equal(t, 0, got.TotalLearned)
	assert.Nil(t, got.FirstLearned)
	assert.Empty(t, got.Upcoming)
	require.Len(t, got.Buckets, 4)
	for _, b := range got.Buckets {
		assert.Zero(t, b.Count)
	}
}
