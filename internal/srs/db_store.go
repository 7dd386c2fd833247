package srs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	selectRecordColumns = "SELECT item_id, ease_factor, interval_days, repetitions, next_review_date, last_review_date FROM scheduling_records"

	insertRecord = `INSERT INTO scheduling_records (item_id, ease_factor, interval_days, repetitions, next_review_date, last_review_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	mysqlUpsertSuffix = ` ON DUPLICATE KEY UPDATE ease_factor = VALUES(ease_factor), interval_days = VALUES(interval_days),
		repetitions = VALUES(repetitions), next_review_date = VALUES(next_review_date), last_review_date = VALUES(last_review_date)`

	sqliteUpsertSuffix = ` ON CONFLICT(item_id) DO UPDATE SET ease_factor = excluded.ease_factor, interval_days = excluded.interval_days,
		repetitions = excluded.repetitions, next_review_date = excluded.next_review_date, last_review_date = excluded.last_review_date`
)

// DBStore implements Store on the scheduling_records table of MySQL or SQLite.
type DBStore struct {
	db     *sqlx.DB
	upsert string
}

// NewDBStore picks the upsert dialect from the driver name of db.
func NewDBStore(db *sqlx.DB) (*DBStore, error) {
	var suffix string
	switch db.DriverName() {
	case "mysql":
		suffix = mysqlUpsertSuffix
	case "sqlite":
		suffix = sqliteUpsertSuffix
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.DriverName())
	}
	return &DBStore{
		db:     db,
		upsert: insertRecord + suffix,
	}, nil
}

// Get returns the record for itemID, or nil if not found.
func (s *DBStore) Get(ctx context.Context, itemID string) (*Record, error) {
	var record Record
	err := s.db.GetContext(ctx, &record, selectRecordColumns+" WHERE item_id = ?", itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(scheduling_record %s) > %w", itemID, err)
	}
	return &record, nil
}

// Set inserts the record or replaces the existing one.
func (s *DBStore) Set(ctx context.Context, record Record) error {
	if _, err := s.db.ExecContext(ctx, s.upsert,
		record.ItemID, record.EaseFactor, record.Interval, record.Repetitions,
		record.NextReviewDate, record.LastReviewDate,
	); err != nil {
		return fmt.Errorf("db.ExecContext(upsert scheduling_record %s) > %w", record.ItemID, err)
	}
	return nil
}

// Delete removes the record for itemID. Deleting a missing record is not an error.
func (s *DBStore) Delete(ctx context.Context, itemID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scheduling_records WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("db.ExecContext(delete scheduling_record %s) > %w", itemID, err)
	}
	return nil
}

// List returns all records ordered by item id.
func (s *DBStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := s.db.SelectContext(ctx, &records, selectRecordColumns+" ORDER BY item_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(scheduling_records) > %w", err)
	}
	return records, nil
}
