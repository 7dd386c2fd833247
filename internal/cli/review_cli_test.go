package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/expression"
	"github.com/at-ishikawa/dailyexpression/internal/review"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

type staticLearnedSet []string

func (s staticLearnedSet) LearnedIDs(context.Context) ([]string, error) {
	return s, nil
}

func testCatalog(t *testing.T) *expression.Catalog {
	t.Helper()
	catalog, err := expression.NewCatalog([]expression.Expression{
		{ID: "break-the-ice", Expression: "Break the ice", Meaning: "To start a conversation", Category: expression.CategoryCasual, Examples: []string{"A joke can break the ice."}},
		{ID: "touch-base", Expression: "Touch base", Meaning: "To briefly make contact", Category: expression.CategoryBusiness, Examples: []string{"Let's touch base next week."}},
	})
	require.NoError(t, err)
	return catalog
}

func TestReviewCLI(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	today := date.New(2025, 9, 1)
	tests := []struct {
		name           string
		input          string
		wantOutputs    []string
		wantIntervals  map[string]int
		wantRepetition map[string]int
	}{
		{
			name:  "rate every due expression",
			input: "\n3\n\nbad\n1\n",
			wantOutputs: []string{
				"2 expressions are due for review.",
				"[1/2] Break the ice",
				"Meaning: To start a conversation",
				"  - A joke can break the ice.",
				"Next review on 2025-09-02 (in 1 days)",
				"[2/2] Touch base",
				"Unknown rating \"bad\".",
				"Reviewed 2 expressions (again: 1, hard: 0, good: 1, easy: 0)",
			},
			wantIntervals:  map[string]int{"break-the-ice": 1, "touch-base": 1},
			wantRepetition: map[string]int{"break-the-ice": 1, "touch-base": 0},
		},
		{
			name:  "quit before the first rating",
			input: "q\n",
			wantOutputs: []string{
				"[1/2] Break the ice",
				"Reviewed 0 expressions",
			},
			wantIntervals:  map[string]int{"break-the-ice": 0, "touch-base": 0},
			wantRepetition: map[string]int{"break-the-ice": 0, "touch-base": 0},
		},
		{
			name:  "closed input ends the session",
			input: "\n",
			wantOutputs: []string{
				"Meaning: To start a conversation",
			},
			wantIntervals:  map[string]int{"break-the-ice": 0, "touch-base": 0},
			wantRepetition: map[string]int{"break-the-ice": 0, "touch-base": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := srs.NewMemoryStore(
				srs.NewRecord("break-the-ice", today),
				srs.NewRecord("touch-base", today),
			)
			engine := srs.NewEngine(store, date.FixedClock(today))
			session := review.NewSession(engine, testCatalog(t), staticLearnedSet{"break-the-ice", "touch-base"})

			var stdout bytes.Buffer
			reviewCLI := NewReviewCLI(session, strings.NewReader(tt.input), &stdout)
			total, err := reviewCLI.Start(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, total)

			require.NoError(t, reviewCLI.Run(ctx, reviewCLI))
			for _, want := range tt.wantOutputs {
				assert.Contains(t, stdout.String(), want)
			}
			for id, interval := range tt.wantIntervals {
				record, err := store.Get(ctx, id)
				require.NoError(t, err)
				require.NotNil(t, record)
				assert.Equal(t, interval, record.Interval, id)
				assert.Equal(t, tt.wantRepetition[id], record.Repetitions, id)
			}
		})
	}
}

func TestReviewCLI_NothingDue(t *testing.T) {
	today := date.New(2025, 9, 1)
	engine := srs.NewEngine(srs.NewMemoryStore(), date.FixedClock(today))
	session := review.NewSession(engine, testCatalog(t), staticLearnedSet{})

	var stdout bytes.Buffer
	reviewCLI := NewReviewCLI(session, strings.NewReader(""), &stdout)
	total, err := reviewCLI.Start(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
	require.NoError(t, reviewCLI.Run(context.Background(), reviewCLI))
	assert.Contains(t, stdout.String(), "No expressions are due for review today.")
}
