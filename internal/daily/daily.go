// Package daily picks the expression of the day.
package daily

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

const DefaultChallengeSize = 5

var ErrInvalidPoolSize = errors.New("pool size must be positive")

// Index rotates through [0, poolSize) by one slot per day since date.DailyEpoch.
// Days before the epoch wrap around instead of going negative.
func Index(poolSize int, today date.Date) (int, error) {
	if poolSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPoolSize, poolSize)
	}
	days := date.DailyEpoch.DaysUntil(today)
	index := days % poolSize
	if index < 0 {
		index += poolSize
	}
	return index, nil
}

// Featured returns the item of the day
func Featured[T any](items []T, today date.Date) (T, error) {
	var zero T
	index, err := Index(len(items), today)
	if err != nil {
		return zero, err
	}
	return items[index], nil
}

// Challenge returns size consecutive items starting at the item of the day,
// wrapping at the end of items. It never repeats an item, so a pool smaller
// than size gives every item once.
func Challenge[T any](items []T, today date.Date, size int) ([]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("challenge size must be positive: %d", size)
	}
	start, err := Index(len(items), today)
	if err != nil {
		return nil, err
	}
	size = min(size, len(items))

	result := make([]T, 0, size)
	for i := 0; i < size; i++ {
		result = append(result, items[(start+i)%len(items)])
	}
	return result, nil
}
