package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

func TestTracker_CompleteChallenge(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{today: date.New(2025, 3, 1)}
	tracker := NewTracker(NewMemoryRepository(), srs.NewEngine(srs.NewMemoryStore(), clock), testCatalog(t))

	got, err := tracker.ChallengeResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	record, err := tracker.CompleteChallenge(ctx, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, ChallengeRecord{Date: clock.today, Score: 4, Total: 5}, record)

	// the challenge is done once a day
	existing, err := tracker.CompleteChallenge(ctx, 5, 5)
	assert.ErrorIs(t, err, ErrChallengeCompleted)
	assert.Equal(t, record, existing)

	got, err = tracker.ChallengeResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record, *got)

	clock.today = date.New(2025, 3, 2)
	got, err = tracker.ChallengeResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	_, err = tracker.CompleteChallenge(ctx, 5, 5)
	assert.NoError(t, err)
}

func TestTracker_CompleteChallenge_InvalidScore(t *testing.T) {
	tests := []struct {
		name         string
		score, total int
	}{
		{name: "negative score", score: -1, total: 5},
		{name: "no questions", score: 0, total: 0},
		{name: "score above total", score: 6, total: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(NewMemoryRepository(), srs.NewEngine(srs.NewMemoryStore(), date.FixedClock(date.New(2025, 3, 1))), testCatalog(t))
			_, err := tracker.CompleteChallenge(context.Background(), tt.score, tt.total)
			assert.Error(t, err)
		})
	}
}
