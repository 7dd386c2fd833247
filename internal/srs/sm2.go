package srs

import (
	"math"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// grades below this are lapses
	passingScore = 2
)

// NewRecord returns the state of an item that has just been learned. It is due today.
func NewRecord(itemID string, today date.Date) Record {
	return Record{
		ItemID:         itemID,
		EaseFactor:     DefaultEaseFactor,
		Interval:       0,
		Repetitions:    0,
		NextReviewDate: today,
	}
}

// Review computes the record that follows a review of quality on today.
// The given record is not modified.
func Review(record Record, quality Quality, today date.Date) (Record, error) {
	q, err := quality.Score()
	if err != nil {
		return Record{}, err
	}
	if err := record.Validate(); err != nil {
		return Record{}, err
	}

	interval, repetitions := nextInterval(record, q)
	easeFactor := UpdateEaseFactor(record.EaseFactor, q)

	lastReviewDate := today
	next := record
	next.EaseFactor = easeFactor
	next.Interval = interval
	next.Repetitions = repetitions
	next.NextReviewDate = today.AddDays(interval)
	next.LastReviewDate = &lastReviewDate
	return next, nil
}

// nextInterval uses the ease factor from before this review
func nextInterval(record Record, q int) (interval int, repetitions int) {
	if q < passingScore {
		return 1, 0
	}

	switch record.Repetitions {
	case 0:
		interval = 1
	case 1:
		interval = 6
	default:
		interval = int(math.Round(float64(record.Interval) * record.EaseFactor))
	}
	return interval, record.Repetitions + 1
}

// UpdateEaseFactor applies EF' = EF + (0.1 - (5-q)*(0.08+(5-q)*0.02)),
// floored at MinEaseFactor and rounded to two decimals.
func UpdateEaseFactor(ef float64, q int) float64 {
	grade := float64(q)
	delta := 0.1 - (5-grade)*(0.08+(5-grade)*0.02)
	newEF := math.Max(MinEaseFactor, ef+delta)
	return math.Round(newEF*100) / 100
}

// IsDue reports whether the record should be reviewed on today
func IsDue(record Record, today date.Date) bool {
	return !record.NextReviewDate.After(today)
}

// DaysUntilReview is negative when overdue and zero when due today
func DaysUntilReview(record Record, today date.Date) int {
	return today.DaysUntil(record.NextReviewDate)
}
