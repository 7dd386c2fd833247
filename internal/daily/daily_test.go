package daily

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name     string
		poolSize int
		today    date.Date
		want     int
		wantErr  bool
	}{
		{name: "epoch", poolSize: 100, today: date.New(2024, 1, 1), want: 0},
		{name: "one day later", poolSize: 100, today: date.New(2024, 1, 2), want: 1},
		{name: "leap year end", poolSize: 100, today: date.New(2024, 12, 31), want: 65},
		{name: "wraps around", poolSize: 7, today: date.New(2024, 1, 15), want: 0},
		{name: "before the epoch", poolSize: 10, today: date.New(2023, 12, 31), want: 9},
		{name: "single item", poolSize: 1, today: date.New(2031, 5, 17), want: 0},
		{name: "zero pool", poolSize: 0, today: date.New(2024, 1, 1), wantErr: true},
		{name: "negative pool", poolSize: -3, today: date.New(2024, 1, 1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Index(tt.poolSize, tt.today)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPoolSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex_AdvancesOncePerDay(t *testing.T) {
	for _, poolSize := range []int{1, 3, 50, 100} {
		today := date.New(2023, 11, 1)
		for i := 0; i < 400; i++ {
			first, err := Index(poolSize, today)
			require.NoError(t, err)
			again, err := Index(poolSize, today)
			require.NoError(t, err)
			assert.Equal(t, first, again)

			next, err := Index(poolSize, today.AddDays(1))
			require.NoError(t, err)
			assert.Equal(t, (first+1)%poolSize, next)
			assert.True(t, next >= 0 && next < poolSize)

			today = today.AddDays(1)
		}
	}
}

func TestFeaturedAndChallenge(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f"}
	today := date.New(2024, 1, 5) // index 4

	featured, err := Featured(items, today)
	require.NoError(t, err)
	assert.Equal(t, "e", featured)

	challenge, err := Challenge(items, today, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "f", "a"}, challenge)

	challenge, err = Challenge(items[:2], today, DefaultChallengeSize)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, challenge)

	_, err = Featured([]string{}, today)
	assert.ErrorIs(t, err, ErrInvalidPoolSize)

	_, err = Challenge(items, today, 0)
	assert.Error(t, err)
}
