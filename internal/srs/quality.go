package srs

import (
	"fmt"
	"strings"
)

// Quality is how well an item was recalled during a review.
type Quality string

const (
	QualityAgain Quality = "again"
	QualityHard  Quality = "hard"
	QualityGood  Quality = "good"
	QualityEasy  Quality = "easy"
)

// Qualities lists every level from worst to best.
var Qualities = []Quality{QualityAgain, QualityHard, QualityGood, QualityEasy}

// SM-2 grades on the 0-5 scale. "hard" is 2 because it still counts as a pass.
var qualityScores = map[Quality]int{
	QualityAgain: 0,
	QualityHard:  2,
	QualityGood:  3,
	QualityEasy:  5,
}

// Score returns the SM-2 grade for q
func (q Quality) Score() (int, error) {
	score, ok := qualityScores[q]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, string(q))
	}
	return score, nil
}

// ParseQuality accepts a level name or its 1-4 shorthand.
func ParseQuality(value string) (Quality, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "1":
		return QualityAgain, nil
	case "2":
		return QualityHard, nil
	case "3":
		return QualityGood, nil
	case "4":
		return QualityEasy, nil
	}

	q := Quality(normalized)
	if _, err := q.Score(); err != nil {
		return "", err
	}
	return q, nil
}
