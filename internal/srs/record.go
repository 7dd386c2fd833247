// Package srs schedules reviews of learned expressions with the SM-2 algorithm.
package srs

import (
	"errors"
	"fmt"
	"math"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

var (
	ErrInvalidQuality = errors.New("invalid review quality")
	ErrInvalidRecord  = errors.New("invalid scheduling record")
	ErrNotInitialized = errors.New("scheduling record is not initialized")
)

// Record is the scheduling state of one learned item
type Record struct {
	ItemID         string     `yaml:"item_id" json:"itemId" db:"item_id"`
	EaseFactor     float64    `yaml:"ease_factor" json:"easeFactor" db:"ease_factor"`
	Interval       int        `yaml:"interval" json:"interval" db:"interval_days"`
	Repetitions    int        `yaml:"repetitions" json:"repetitions" db:"repetitions"`
	NextReviewDate date.Date  `yaml:"next_review_date" json:"nextReviewDate" db:"next_review_date"`
	LastReviewDate *date.Date `yaml:"last_review_date,omitempty" json:"lastReviewDate,omitempty" db:"last_review_date"`
}

// Validate checks the invariants every stored record must hold
func (r Record) Validate() error {
	if r.ItemID == "" {
		return fmt.Errorf("%w: empty item id", ErrInvalidRecord)
	}
	if math.IsNaN(r.EaseFactor) || r.EaseFactor < MinEaseFactor {
		return fmt.Errorf("%w: %s: ease factor %v is below %v", ErrInvalidRecord, r.ItemID, r.EaseFactor, MinEaseFactor)
	}
	if r.Interval < 0 {
		return fmt.Errorf("%w: %s: negative interval %d", ErrInvalidRecord, r.ItemID, r.Interval)
	}
	if r.Repetitions < 0 {
		return fmt.Errorf("%w: %s: negative repetitions %d", ErrInvalidRecord, r.ItemID, r.Repetitions)
	}
	if r.NextReviewDate.IsZero() {
		return fmt.Errorf("%w: %s: missing next review date", ErrInvalidRecord, r.ItemID)
	}
	return nil
}

// IsNew reports whether the record has never been reviewed successfully
func (r Record) IsNew() bool {
	return r.Interval == 0
}
