package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_MarshalUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name        string
		yamlInput   string
		expectError bool
		expectedDay string
	}{
		{
			name:        "YYYY-MM-DD format",
			yamlInput:   `next_review_date: "2025-06-13"`,
			expectedDay: "2025-06-13",
		},
		{
			name:        "RFC3339 format keeps the calendar day",
			yamlInput:   `next_review_date: 2025-05-02T00:00:00Z`,
			expectedDay: "2025-05-02",
		},
		{
			name:        "RFC3339Nano format with timezone",
			yamlInput:   `next_review_date: 2025-06-04T20:05:49.744339678-07:00`,
			expectedDay: "2025-06-04",
		},
		{
			name:        "invalid format",
			yamlInput:   `next_review_date: "invalid-date"`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record struct {
				NextReviewDate Date `yaml:"next_review_date"`
			}

			err := yaml.Unmarshal([]byte(tt.yamlInput), &record)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDay, record.NextReviewDate.String())

			data, err := yaml.Marshal(record)
			require.NoError(t, err)
			assert.Contains(t, string(data), "next_review_date:")
			assert.Contains(t, string(data), tt.expectedDay)
			assert.NotContains(t, string(data), "T00:00:00")
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var got struct {
		Day  Date  `json:"day"`
		Last *Date `json:"last,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-02-29"}`), &got))
	assert.Equal(t, New(2024, time.February, 29), got.Day)
	assert.Nil(t, got.Last)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-02-29"}`, string(data))
}

func TestDate_Arithmetic(t *testing.T) {
	tests := []struct {
		name  string
		from  Date
		days  int
		want  Date
		until int
	}{
		{name: "same day", from: New(2025, 1, 1), days: 0, want: New(2025, 1, 1), until: 0},
		{name: "month boundary", from: New(2025, 1, 31), days: 1, want: New(2025, 2, 1), until: 1},
		{name: "leap day", from: New(2024, 2, 28), days: 2, want: New(2024, 3, 1), until: 2},
		{name: "negative", from: New(2025, 3, 1), days: -6, want: New(2025, 2, 23), until: -6},
		{name: "year boundary", from: New(2024, 12, 31), days: 6, want: New(2025, 1, 6), until: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.AddDays(tt.days)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.until, tt.from.DaysUntil(got))
		})
	}
}

func TestDate_Compare(t *testing.T) {
	a := MustParse("2025-01-01")
	b := MustParse("2025-01-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParse("2025-01-01")))
	assert.Equal(t, 0, a.Compare(a))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Date
		wantErr bool
	}{
		{name: "time", src: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), want: New(2025, 3, 4)},
		{name: "bytes", src: []byte("2025-03-04"), want: New(2025, 3, 4)},
		{name: "string", src: "2025-03-04", want: New(2025, 3, 4)},
		{name: "nil", src: nil, want: Date{}},
		{name: "unsupported", src: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Date
			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromTime_UsesLocalCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, New(2025, 1, 1), FromTime(instant))
	assert.Equal(t, New(2025, 1, 2), FromTime(instant.In(tokyo)))
}

func TestClocks(t *testing.T) {
	fixed := FixedClock(New(2025, 5, 5))
	assert.Equal(t, New(2025, 5, 5), fixed.Today())

	clock, err := NewSystemClock("")
	require.NoError(t, err)
	assert.Equal(t, FromTime(time.Now().UTC()), clock.Today())

	_, err = NewSystemClock("Not/AZone")
	assert.Error(t, err)
}
