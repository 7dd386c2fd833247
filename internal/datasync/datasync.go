// Package datasync copies learning progress, review schedules, and the daily
// challenge history between two storages, e.g. from the YAML files into a database.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/at-ishikawa/dailyexpression/internal/date"
	"github.com/at-ishikawa/dailyexpression/internal/progress"
	"github.com/at-ishikawa/dailyexpression/internal/srs"
)

// Storage is one side of a copy
type Storage struct {
	Store      srs.Store
	Repository progress.Repository
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	ProgressNew     int
	ProgressSkipped int
	ProgressUpdated int
	RecordsNew      int
	RecordsSkipped  int
	RecordsUpdated  int

	ChallengesNew     int
	ChallengesSkipped int
	ChallengesUpdated int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer reads every entry of source and writes it to destination.
type Importer struct {
	source      Storage
	destination Storage
	writer      io.Writer
}

func NewImporter(source, destination Storage, writer io.Writer) *Importer {
	return &Importer{
		source:      source,
		destination: destination,
		writer:      writer,
	}
}

// Import copies progress first, then scheduling records, then the daily
// challenge history. Entries equal to the destination's are always skipped.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult
	if err := imp.importProgress(ctx, opts, &result); err != nil {
		return nil, err
	}
	if err := imp.importRecords(ctx, opts, &result); err != nil {
		return nil, err
	}
	if err := imp.importChallenges(ctx, opts, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (imp *Importer) importProgress(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	items, err := imp.source.Repository.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("source.FindAll() > %w", err)
	}

	for _, item := range items {
		existing, err := imp.destination.Repository.Find(ctx, item.ExpressionID)
		if err != nil {
			return fmt.Errorf("destination.Find(%s) > %w", item.ExpressionID, err)
		}

		switch {
		case existing == nil:
			fmt.Fprintf(imp.writer, "  [NEW]  progress %s\n", item.ExpressionID)
			result.ProgressNew++
		case equalProgress(*existing, item) || !opts.UpdateExisting:
			fmt.Fprintf(imp.writer, "  [SKIP]  progress %s\n", item.ExpressionID)
			result.ProgressSkipped++
			continue
		default:
			fmt.Fprintf(imp.writer, "  [UPDATE]  progress %s\n", item.ExpressionID)
			result.ProgressUpdated++
		}
		if opts.DryRun {
			continue
		}
		if err := imp.destination.Repository.Save(ctx, item); err != nil {
			return fmt.Errorf("destination.Save(%s) > %w", item.ExpressionID, err)
		}
	}
	return nil
}

func (imp *Importer) importRecords(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	records, err := imp.source.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("source.List() > %w", err)
	}

	for _, record := range records {
		existing, err := imp.destination.Store.Get(ctx, record.ItemID)
		if err != nil {
			return fmt.Errorf("destination.Get(%s) > %w", record.ItemID, err)
		}

		switch {
		case existing == nil:
			fmt.Fprintf(imp.writer, "  [NEW]  schedule %s\n", record.ItemID)
			result.RecordsNew++
		case equalRecord(*existing, record) || !opts.UpdateExisting:
			fmt.Fprintf(imp.writer, "  [SKIP]  schedule %s\n", record.ItemID)
			result.RecordsSkipped++
			continue
		default:
			fmt.Fprintf(imp.writer, "  [UPDATE]  schedule %s\n", record.ItemID)
			result.RecordsUpdated++
		}
		if opts.DryRun {
			continue
		}
		if err := imp.destination.Store.Set(ctx, record); err != nil {
			return fmt.Errorf("destination.Set(%s) > %w", record.ItemID, err)
		}
	}
	return nil
}

func (imp *Importer) importChallenges(ctx context.Context, opts ImportOptions, result *ImportResult) error {
	records, err := imp.source.Repository.FindChallenges(ctx)
	if err != nil {
		return fmt.Errorf("source.FindChallenges() > %w", err)
	}

	for _, record := range records {
		existing, err := imp.destination.Repository.FindChallenge(ctx, record.Date)
		if err != nil {
			return fmt.Errorf("destination.FindChallenge(%s) > %w", record.Date, err)
		}

		switch {
		case existing == nil:
			fmt.Fprintf(imp.writer, "  [NEW]  challenge %s\n", record.Date)
			result.ChallengesNew++
		case equalChallenge(*existing, record) || !opts.UpdateExisting:
			fmt.Fprintf(imp.writer, "  [SKIP]  challenge %s\n", record.Date)
			result.ChallengesSkipped++
			continue
		default:
			fmt.Fprintf(imp.writer, "  [UPDATE]  challenge %s\n", record.Date)
			result.ChallengesUpdated++
		}
		if opts.DryRun {
			continue
		}
		if err := imp.destination.Repository.SaveChallenge(ctx, record); err != nil {
			return fmt.Errorf("destination.SaveChallenge(%s) > %w", record.Date, err)
		}
	}
	return nil
}

func equalProgress(a, b progress.Progress) bool {
	return a.ExpressionID == b.ExpressionID &&
		a.IsLearned == b.IsLearned &&
		a.ReviewCount == b.ReviewCount &&
		equalDate(a.LearnedDate, b.LearnedDate)
}

func equalRecord(a, b srs.Record) bool {
	return a.ItemID == b.ItemID &&
		a.EaseFactor == b.EaseFactor &&
		a.Interval == b.Interval &&
		a.Repetitions == b.Repetitions &&
		a.NextReviewDate.Equal(b.NextReviewDate) &&
		equalDate(a.LastReviewDate, b.LastReviewDate)
}

func equalChallenge(a, b progress.ChallengeRecord) bool {
	return a.Date.Equal(b.Date) && a.Score == b.Score && a.Total == b.Total
}

func equalDate(a, b *date.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
