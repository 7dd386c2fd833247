package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/dailyexpression/internal/quiz"
)

// QuizCLI asks the questions of one quiz session in order
type QuizCLI struct {
	*InteractiveQuizCLI
	session *quiz.Session
	now     func() time.Time
}

func NewQuizCLI(questions []quiz.Question, stdin io.Reader, stdout io.Writer) (*QuizCLI, error) {
	now := time.Now
	session := quiz.NewSession(uuid.NewString())
	if err := session.Start(questions, now()); err != nil {
		return nil, fmt.Errorf("session.Start() > %w", err)
	}
	return &QuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
		now:                now,
	}, nil
}

func (q *QuizCLI) Results() quiz.Results {
	return q.session.Results()
}

// Completed reports whether every question was answered
func (q *QuizCLI) Completed() bool {
	return q.session.State == quiz.StateComplete
}

func (q *QuizCLI) Session(ctx context.Context) error {
	if q.session.State == quiz.StateComplete {
		q.printResults()
		return errEnd
	}
	question, err := q.session.Current()
	if err != nil {
		return fmt.Errorf("session.Current() > %w", err)
	}

	q.printf("\nQuestion %d/%d\n", q.session.CurrentIndex+1, len(q.session.Questions))
	_, _ = q.bold.Fprintln(q.stdoutWriter, question.Prompt)

	var answer string
	switch question.Type {
	case quiz.TypeMultipleChoice:
		answer, err = q.askMultipleChoice(question)
	case quiz.TypeFillInBlank:
		answer, err = q.askFillInBlank(question)
	default:
		err = fmt.Errorf("%w: %q", quiz.ErrUnknownType, question.Type)
	}
	if err != nil {
		return err
	}

	correct, err := q.session.Submit(answer)
	if err != nil {
		return fmt.Errorf("session.Submit(%s) > %w", question.ID, err)
	}
	if correct {
		_, _ = q.correct.Fprintln(q.stdoutWriter, "Correct!")
	} else {
		_, _ = q.incorrect.Fprintf(q.stdoutWriter, "Incorrect. The answer is %q.\n", question.CorrectAnswer)
	}

	if err := q.session.Next(q.now()); err != nil {
		return fmt.Errorf("session.Next() > %w", err)
	}
	return nil
}

// askMultipleChoice accepts the option number or the option text
func (q *QuizCLI) askMultipleChoice(question quiz.Question) (string, error) {
	for i, option := range question.Options {
		q.printf("  %d. %s\n", i+1, option)
	}
	for {
		q.printf("Your answer: ")
		input, err := q.readLine()
		if err != nil {
			return "", err
		}
		if isQuit(input) {
			q.printResults()
			return "", errEnd
		}
		if n, err := strconv.Atoi(input); err == nil {
			if n >= 1 && n <= len(question.Options) {
				return question.Options[n-1], nil
			}
			_, _ = q.incorrect.Fprintf(q.stdoutWriter, "Choose a number between 1 and %d.\n", len(question.Options))
			continue
		}
		return input, nil
	}
}

func (q *QuizCLI) askFillInBlank(question quiz.Question) (string, error) {
	_, _ = q.italic.Fprintln(q.stdoutWriter, question.BlankedSentence)
	q.printf("Your answer: ")
	input, err := q.readLine()
	if err != nil {
		return "", err
	}
	if isQuit(input) {
		q.printResults()
		return "", errEnd
	}
	return input, nil
}

func (q *QuizCLI) printResults() {
	results := q.session.Results()
	q.printf("\nScore: %d/%d (%d%%)\n", results.Correct, results.Total, results.Percentage)
	if results.Perfect {
		_, _ = q.correct.Fprintln(q.stdoutWriter, "Perfect score!")
	}
}
