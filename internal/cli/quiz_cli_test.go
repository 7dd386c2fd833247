package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{
			ID:            "q1",
			Type:          quiz.TypeMultipleChoice,
			ExpressionID:  "piece-of-cake",
			Prompt:        `What does "Piece of cake" mean?`,
			CorrectAnswer: "Something very easy",
			Options:       []string{"To start a conversation", "Something very easy", "To briefly make contact", "To give up"},
		},
		{
			ID:              "q2",
			Type:            quiz.TypeFillInBlank,
			ExpressionID:    "break-the-ice",
			Prompt:          "Complete the sentence with the correct expression:",
			CorrectAnswer:   "break the ice",
			BlankedSentence: "A joke can _____.",
		},
	}
}

func TestQuizCLI(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name        string
		input       string
		wantResults   quiz.Results
		wantCompleted bool
		wantOutputs   []string
	}{
		{
			name:          "all correct by number and text",
			input:         "2\nThe break the ice\n",
			wantResults:   quiz.Results{Total: 2, Correct: 2, Percentage: 100, Perfect: true},
			wantCompleted: true,
			wantOutputs: []string{
				"Question 1/2",
				"  2. Something very easy",
				"Correct!",
				"Question 2/2",
				"A joke can _____.",
				"Score: 2/2 (100%)",
				"Perfect score!",
			},
		},
		{
			name:          "out of range choice is asked again",
			input:         "9\n1\nbreak a leg\n",
			wantResults:   quiz.Results{Total: 2, Correct: 0, Percentage: 0},
			wantCompleted: true,
			wantOutputs: []string{
				"Choose a number between 1 and 4.",
				`Incorrect. The answer is "Something very easy".`,
				`Incorrect. The answer is "break the ice".`,
				"Score: 0/2 (0%)",
			},
		},
		{
			name:        "typed option text",
			input:       "Something very easy\nq\n",
			wantResults: quiz.Results{Total: 2, Correct: 1, Percentage: 50},
			wantOutputs: []string{
				"Correct!",
				"Score: 1/2 (50%)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			quizCLI, err := NewQuizCLI(testQuestions(), strings.NewReader(tt.input), &stdout)
			require.NoError(t, err)

			require.NoError(t, quizCLI.Run(context.Background(), quizCLI))
			assert.Equal(t, tt.wantResults, quizCLI.Results())
			assert.Equal(t, tt.wantCompleted, quizCLI.Completed())
			for _, want := range tt.wantOutputs {
				assert.Contains(t, stdout.String(), want)
			}
		})
	}
}

func TestNewQuizCLI_NoQuestions(t *testing.T) {
	_, err := NewQuizCLI(nil, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}
