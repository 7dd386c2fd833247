package srs

import (
	"context"
	"sort"
	"sync"
)

//go:generate mockgen -source=store.go -destination=../mocks/srs/mock_store.go -package=mock_srs

// Store persists scheduling records keyed by item id.
// Get returns nil without an error when no record exists.
type Store interface {
	Get(ctx context.Context, itemID string) (*Record, error)
	Set(ctx context.Context, record Record) error
	Delete(ctx context.Context, itemID string) error
	List(ctx context.Context) ([]Record, error)
}

// MemoryStore keeps records in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore(records ...Record) *MemoryStore {
	store := &MemoryStore{records: make(map[string]Record, len(records))}
	for _, record := range records {
		store.records[record.ItemID] = record
	}
	return store
}

func (s *MemoryStore) Get(_ context.Context, itemID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[itemID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

func (s *MemoryStore) Set(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ItemID] = *cloneRecord(record)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, itemID)
	return nil
}

// List returns the records sorted by item id
func (s *MemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedRecords(s.records), nil
}

func sortedRecords(records map[string]Record) []Record {
	result := make([]Record, 0, len(records))
	for _, record := range records {
		result = append(result, *cloneRecord(record))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ItemID < result[j].ItemID
	})
	return result
}

// cloneRecord copies the LastReviewDate pointer so callers cannot alias stored state
func cloneRecord(record Record) *Record {
	clone := record
	if record.LastReviewDate != nil {
		lastReviewDate := *record.LastReviewDate
		clone.LastReviewDate = &lastReviewDate
	}
	return &clone
}
