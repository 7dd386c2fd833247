package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

func TestReview(t *testing.T) {
	today := date.New(2025, 3, 10)
	lastReview := date.New(2025, 3, 4)

	tests := []struct {
		name    string
		record  Record
		quality Quality
		want    Record
		wantErr error
	}{
		{
			name:    "first good review of a new record",
			record:  NewRecord("break-the-ice", today),
			quality: QualityGood,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.36,
				Interval:       1,
				Repetitions:    1,
				NextReviewDate: today.AddDays(1),
				LastReviewDate: &today,
			},
		},
		{
			name: "second pass gives six days",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.5,
				Interval:       1,
				Repetitions:    1,
				NextReviewDate: today,
				LastReviewDate: &lastReview,
			},
			quality: QualityEasy,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.6,
				Interval:       6,
				Repetitions:    2,
				NextReviewDate: today.AddDays(6),
				LastReviewDate: &today,
			},
		},
		{
			name: "later passes multiply by the previous ease factor",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.22,
				Interval:       6,
				Repetitions:    2,
				NextReviewDate: today,
				LastReviewDate: &lastReview,
			},
			quality: QualityGood,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.08,
				Interval:       13,
				Repetitions:    3,
				NextReviewDate: today.AddDays(13),
				LastReviewDate: &today,
			},
		},
		{
			name: "hard still counts as a pass",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.5,
				Interval:       6,
				Repetitions:    2,
				NextReviewDate: today,
				LastReviewDate: &lastReview,
			},
			quality: QualityHard,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.18,
				Interval:       15,
				Repetitions:    3,
				NextReviewDate: today.AddDays(15),
				LastReviewDate: &today,
			},
		},
		{
			name: "again resets a mature record",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.5,
				Interval:       40,
				Repetitions:    6,
				NextReviewDate: today,
				LastReviewDate: &lastReview,
			},
			quality: QualityAgain,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     1.7,
				Interval:       1,
				Repetitions:    0,
				NextReviewDate: today.AddDays(1),
				LastReviewDate: &today,
			},
		},
		{
			name: "ease factor does not fall below the floor",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     MinEaseFactor,
				Interval:       1,
				Repetitions:    0,
				NextReviewDate: today,
			},
			quality: QualityAgain,
			want: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     MinEaseFactor,
				Interval:       1,
				Repetitions:    0,
				NextReviewDate: today.AddDays(1),
				LastReviewDate: &today,
			},
		},
		{
			name:    "unknown quality",
			record:  NewRecord("break-the-ice", today),
			quality: Quality("perfect"),
			wantErr: ErrInvalidQuality,
		},
		{
			name: "ease factor below the floor is rejected",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     1.1,
				NextReviewDate: today,
			},
			quality: QualityGood,
			wantErr: ErrInvalidRecord,
		},
		{
			name: "negative interval is rejected",
			record: Record{
				ItemID:         "break-the-ice",
				EaseFactor:     2.5,
				Interval:       -1,
				NextReviewDate: today,
			},
			quality: QualityGood,
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Review(tt.record, tt.quality, today)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ItemID, got.ItemID)
			assert.InDelta(t, tt.want.EaseFactor, got.EaseFactor, 1e-9)
			assert.Equal(t, tt.want.Interval, got.Interval)
			assert.Equal(t, tt.want.Repetitions, got.Repetitions)
			assert.Equal(t, tt.want.NextReviewDate, got.NextReviewDate)
			assert.Equal(t, tt.want.LastReviewDate, got.LastReviewDate)
		})
	}
}

func TestReview_DoesNotMutateInput(t *testing.T) {
	today := date.New(2025, 3, 10)
	record := NewRecord("spill-the-beans", today)
	before := record

	_, err := Review(record, QualityEasy, today.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, before, record)
}

func TestReview_EaseFactorFloor(t *testing.T) {
	today := date.New(2025, 1, 1)
	for _, quality := range Qualities {
		t.Run(string(quality), func(t *testing.T) {
			record := NewRecord("hit-the-sack", today)
			for i := 0; i < 20; i++ {
				next, err := Review(record, quality, today.AddDays(i))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, next.EaseFactor, MinEaseFactor)
				record = next
			}
		})
	}
}

func TestReview_PassingIntervals(t *testing.T) {
	today := date.New(2025, 1, 1)
	for _, quality := range []Quality{QualityHard, QualityGood, QualityEasy} {
		t.Run(string(quality), func(t *testing.T) {
			for _, interval := range []int{0, 1, 10, 100} {
				first, err := Review(Record{ItemID: "x", EaseFactor: 2.5, Interval: interval, Repetitions: 0, NextReviewDate: today}, quality, today)
				require.NoError(t, err)
				assert.Equal(t, 1, first.Interval)

				second, err := Review(Record{ItemID: "x", EaseFactor: 2.5, Interval: interval, Repetitions: 1, NextReviewDate: today}, quality, today)
				require.NoError(t, err)
				assert.Equal(t, 6, second.Interval)
			}
		})
	}
}

func TestReview_AgainAlwaysResets(t *testing.T) {
	today := date.New(2025, 1, 1)
	for _, record := range []Record{
		{ItemID: "x", EaseFactor: 2.5, Interval: 0, Repetitions: 0, NextReviewDate: today},
		{ItemID: "x", EaseFactor: 1.9, Interval: 6, Repetitions: 2, NextReviewDate: today},
		{ItemID: "x", EaseFactor: 3.1, Interval: 250, Repetitions: 12, NextReviewDate: today},
	} {
		got, err := Review(record, QualityAgain, today)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Interval)
		assert.Equal(t, 0, got.Repetitions)
	}
}

func TestReview_Scenario(t *testing.T) {
	d0 := date.New(2025, 6, 1)

	record := NewRecord("under-the-weather", d0)
	assert.Equal(t, 0, record.Interval)
	assert.True(t, IsDue(record, d0))

	record, err := Review(record, QualityGood, d0)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Interval)
	assert.Equal(t, d0.AddDays(1), record.NextReviewDate)
	assert.InDelta(t, 2.36, record.EaseFactor, 1e-9)

	d1 := d0.AddDays(1)
	record, err = Review(record, QualityGood, d1)
	require.NoError(t, err)
	assert.Equal(t, 6, record.Interval)
	assert.Equal(t, d1.AddDays(6), record.NextReviewDate)
	assert.False(t, IsDue(record, d1.AddDays(5)))
	assert.True(t, IsDue(record, d1.AddDays(6)))

	record, err = Review(record, QualityAgain, d1.AddDays(6))
	require.NoError(t, err)
	assert.Equal(t, 1, record.Interval)
	assert.Equal(t, 0, record.Repetitions)
}

func TestUpdateEaseFactor(t *testing.T) {
	tests := []struct {
		name string
		ef   float64
		q    int
		want float64
	}{
		{name: "good", ef: 2.5, q: 3, want: 2.36},
		{name: "easy", ef: 2.5, q: 5, want: 2.6},
		{name: "hard", ef: 2.5, q: 2, want: 2.18},
		{name: "again", ef: 2.5, q: 0, want: 1.7},
		{name: "floor", ef: 1.4, q: 0, want: 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, UpdateEaseFactor(tt.ef, tt.q), 1e-9)
		})
	}
}

func TestIsDueAndDaysUntilReview(t *testing.T) {
	today := date.New(2025, 2, 10)
	tests := []struct {
		name     string
		next     date.Date
		wantDue  bool
		wantDays int
	}{
		{name: "overdue", next: today.AddDays(-3), wantDue: true, wantDays: -3},
		{name: "due today", next: today, wantDue: true, wantDays: 0},
		{name: "tomorrow", next: today.AddDays(1), wantDue: false, wantDays: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Record{ItemID: "x", EaseFactor: 2.5, NextReviewDate: tt.next}
			assert.Equal(t, tt.wantDue, IsDue(record, today))
			assert.Equal(t, tt.wantDays, DaysUntilReview(record, today))
		})
	}
}
