package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/at-ishikawa/dailyexpression/internal/review"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

// ReviewCLI walks through the due expressions one card at a time
type ReviewCLI struct {
	*InteractiveQuizCLI
	session  *review.Session
	total    int
	position int
}

func NewReviewCLI(session *review.Session, stdin io.Reader, stdout io.Writer) *ReviewCLI {
	return &ReviewCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		session:            session,
	}
}

// Start loads the due expressions and returns how many there are
func (r *ReviewCLI) Start(ctx context.Context) (int, error) {
	total, err := r.session.Start(ctx)
	if err != nil {
		return 0, fmt.Errorf("session.Start() > %w", err)
	}
	r.total = total
	r.position = 0
	if total == 0 {
		r.println("No expressions are due for review today.")
	} else {
		r.printf("%d expressions are due for review.\n", total)
	}
	return total, nil
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	current, ok := r.session.Current()
	if !ok {
		r.printSummary()
		return errEnd
	}
	r.position++

	r.printf("\n[%d/%d] ", r.position, r.total)
	_, _ = r.bold.Fprintln(r.stdoutWriter, current.Expression)
	r.printf("Press Enter to show the meaning (q to quit): ")
	input, err := r.readLine()
	if err != nil {
		return err
	}
	if isQuit(input) {
		r.printSummary()
		return errEnd
	}

	r.printf("Meaning: %s\n", current.Meaning)
	for _, example := range current.Examples {
		_, _ = r.italic.Fprintf(r.stdoutWriter, "  - %s\n", example)
	}

	for {
		r.printf("How well did you remember it? [1] again [2] hard [3] good [4] easy: ")
		input, err := r.readLine()
		if err != nil {
			return err
		}
		if isQuit(input) {
			r.printSummary()
			return errEnd
		}

		quality, err := srs.ParseQuality(input)
		if errors.Is(err, srs.ErrInvalidQuality) {
			_, _ = r.incorrect.Fprintf(r.stdoutWriter, "Unknown rating %q.\n", input)
			continue
		}
		if err != nil {
			return fmt.Errorf("srs.ParseQuality(%s) > %w", input, err)
		}

		record, err := r.session.Rate(ctx, quality)
		if err != nil {
			return fmt.Errorf("session.Rate(%s) > %w", current.ID, err)
		}
		r.printf("Next review on %s (in %d days)\n", record.NextReviewDate, record.Interval)
		return nil
	}
}

func (r *ReviewCLI) printSummary() {
	summary := r.session.Summary()
	r.printf("\nReviewed %d expressions", summary.Reviewed)
	if summary.Reviewed > 0 {
		r.printf(" (again: %d, hard: %d, good: %d, easy: %d)",
			summary.Counts[srs.QualityAgain],
			summary.Counts[srs.QualityHard],
			summary.Counts[srs.QualityGood],
			summary.Counts[srs.QualityEasy],
		)
	}
	r.println()
}
