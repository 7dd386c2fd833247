package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

var ErrChallengeCompleted = errors.New("daily challenge is already completed")

// ChallengeRecord is the result of the daily challenge of one day.
// A day has at most one record.
type ChallengeRecord struct {
	Date  date.Date `yaml:"date" json:"date" db:"challenge_date"`
	Score int       `yaml:"score" json:"score" db:"score"`
	Total int       `yaml:"total" json:"total" db:"total"`
}

// ChallengeResult returns today's challenge record, or nil when today's
// challenge is not done yet.
func (t *Tracker) ChallengeResult(ctx context.Context) (*ChallengeRecord, error) {
	today := t.engine.Today()
	record, err := t.repository.FindChallenge(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("repository.FindChallenge(%s) > %w", today, err)
	}
	return record, nil
}

// CompleteChallenge saves the score of today's challenge.
// It returns ErrChallengeCompleted when today already has a record.
func (t *Tracker) CompleteChallenge(ctx context.Context, score, total int) (ChallengeRecord, error) {
	if score < 0 || total <= 0 || score > total {
		return ChallengeRecord{}, fmt.Errorf("invalid challenge score %d/%d", score, total)
	}
	existing, err := t.ChallengeResult(ctx)
	if err != nil {
		return ChallengeRecord{}, err
	}
	if existing != nil {
		return *existing, fmt.Errorf("%w: %s", ErrChallengeCompleted, existing.Date)
	}

	record := ChallengeRecord{
		Date:  t.engine.Today(),
		Score: score,
		Total: total,
	}
	if err := t.repository.SaveChallenge(ctx, record); err != nil {
		return ChallengeRecord{}, fmt.Errorf("repository.SaveChallenge(%s) > %w", record.Date, err)
	}
	t.logger.Info("completed daily challenge",
		slog.String("date", record.Date.String()),
		slog.Int("score", score),
		slog.Int("total", total),
	)
	return record, nil
}
