package srs

import (
	"context"
	"fmt"
	"sync"

	"github.com/at-ishikawa/dailyexpression/internal/yamlfile"
)

// yamlDocument is the on-disk layout of a YAMLStore file
type yamlDocument struct {
	Records []Record `yaml:"records"`
}

// YAMLStore keeps every record in one YAML file. The file is loaded when the
// store is opened and rewritten after each change.
type YAMLStore struct {
	path string

	mu      sync.RWMutex
	records map[string]Record
}

// OpenYAMLStore loads path. A missing file is an empty store.
func OpenYAMLStore(path string) (*YAMLStore, error) {
	doc, err := yamlfile.ReadOrZero[yamlDocument](path)
	if err != nil {
		return nil, fmt.Errorf("yamlfile.ReadOrZero(%s) > %w", path, err)
	}

	records := make(map[string]Record, len(doc.Records))
	for _, record := range doc.Records {
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("%s > %w", path, err)
		}
		if _, ok := records[record.ItemID]; ok {
			return nil, fmt.Errorf("%s > %w: duplicated item id %s", path, ErrInvalidRecord, record.ItemID)
		}
		records[record.ItemID] = record
	}
	return &YAMLStore{
		path:    path,
		records: records,
	}, nil
}

func (s *YAMLStore) Get(_ context.Context, itemID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[itemID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

func (s *YAMLStore) Set(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.records[record.ItemID]
	s.records[record.ItemID] = *cloneRecord(record)
	if err := s.flush(); err != nil {
		if existed {
			s.records[record.ItemID] = previous
		} else {
			delete(s.records, record.ItemID)
		}
		return err
	}
	return nil
}

func (s *YAMLStore) Delete(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.records[itemID]
	if !existed {
		return nil
	}
	delete(s.records, itemID)
	if err := s.flush(); err != nil {
		s.records[itemID] = previous
		return err
	}
	return nil
}

func (s *YAMLStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedRecords(s.records), nil
}

// flush must be called with mu held
func (s *YAMLStore) flush() error {
	doc := yamlDocument{Records: sortedRecords(s.records)}
	if err := yamlfile.Write(s.path, doc); err != nil {
		return fmt.Errorf("yamlfile.Write(%s) > %w", s.path, err)
	}
	return nil
}
