package srs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/dailyexpression/internal/date"
)

// Engine owns every scheduling record transition. State lives in the Store
// and "today" comes from the Clock, so the engine holds nothing mutable.
type Engine struct {
	store  Store
	clock  date.Clock
	logger *slog.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(store Store, clock date.Clock, opts ...EngineOption) *Engine {
	engine := &Engine{
		store:  store,
		clock:  clock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Today returns the day the engine schedules against
func (e *Engine) Today() date.Date {
	return e.clock.Today()
}

// Initialize creates a record for itemID unless one already exists.
// An existing record is returned unchanged.
func (e *Engine) Initialize(ctx context.Context, itemID string) (Record, error) {
	if itemID == "" {
		return Record{}, fmt.Errorf("%w: empty item id", ErrInvalidRecord)
	}

	existing, err := e.store.Get(ctx, itemID)
	if err != nil {
		return Record{}, fmt.Errorf("store.Get(%s) > %w", itemID, err)
	}
	if existing != nil {
		return *existing, nil
	}

	record := NewRecord(itemID, e.clock.Today())
	if err := e.store.Set(ctx, record); err != nil {
		return Record{}, fmt.Errorf("store.Set(%s) > %w", itemID, err)
	}
	e.logger.Debug("initialized scheduling record",
		slog.String("itemID", itemID),
		slog.String("nextReviewDate", record.NextReviewDate.String()),
	)
	return record, nil
}

// Review applies quality to the stored record of itemID and persists the result.
func (e *Engine) Review(ctx context.Context, itemID string, quality Quality) (Record, error) {
	if _, err := quality.Score(); err != nil {
		return Record{}, err
	}

	current, err := e.store.Get(ctx, itemID)
	if err != nil {
		return Record{}, fmt.Errorf("store.Get(%s) > %w", itemID, err)
	}
	if current == nil {
		return Record{}, fmt.Errorf("%w: %s", ErrNotInitialized, itemID)
	}

	next, err := Review(*current, quality, e.clock.Today())
	if err != nil {
		return Record{}, fmt.Errorf("Review(%s, %s) > %w", itemID, quality, err)
	}
	if err := e.store.Set(ctx, next); err != nil {
		return Record{}, fmt.Errorf("store.Set(%s) > %w", itemID, err)
	}

	e.logger.Debug("reviewed item",
		slog.String("itemID", itemID),
		slog.String("quality", string(quality)),
		slog.Float64("easeFactor", next.EaseFactor),
		slog.Int("interval", next.Interval),
		slog.String("nextReviewDate", next.NextReviewDate.String()),
	)
	return next, nil
}

// Get returns the record of itemID, or nil when the item was never initialized
func (e *Engine) Get(ctx context.Context, itemID string) (*Record, error) {
	record, err := e.store.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", itemID, err)
	}
	return record, nil
}

// IsDue treats an item without a record as not due.
func (e *Engine) IsDue(ctx context.Context, itemID string) (bool, error) {
	record, err := e.Get(ctx, itemID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	return IsDue(*record, e.clock.Today()), nil
}

// DaysUntilReview returns found=false when the item has no record.
func (e *Engine) DaysUntilReview(ctx context.Context, itemID string) (days int, found bool, err error) {
	record, err := e.Get(ctx, itemID)
	if err != nil {
		return 0, false, err
	}
	if record == nil {
		return 0, false, nil
	}
	return DaysUntilReview(*record, e.clock.Today()), true, nil
}

// DueItems returns the learned ids that are due today, in the given order.
func (e *Engine) DueItems(ctx context.Context, learnedIDs []string) ([]string, error) {
	records, err := e.Records(ctx)
	if err != nil {
		return nil, err
	}

	today := e.clock.Today()
	var due []string
	for _, id := range learnedIDs {
		record, ok := records[id]
		if !ok {
			continue
		}
		if IsDue(record, today) {
			due = append(due, id)
		}
	}
	return due, nil
}

// Records returns every stored record keyed by item id
func (e *Engine) Records(ctx context.Context) (map[string]Record, error) {
	list, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.List() > %w", err)
	}
	records := make(map[string]Record, len(list))
	for _, record := range list {
		records[record.ItemID] = record
	}
	return records, nil
}

// Reset forgets the scheduling state of itemID
func (e *Engine) Reset(ctx context.Context, itemID string) error {
	if err := e.store.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("store.Delete(%s) > %w", itemID, err)
	}
	e.logger.Debug("reset scheduling record", slog.String("itemID", itemID))
	return nil
}
