package store

import (
	"fmt"
	"time"

	"github.com/devparana/vagasbot/internal/model"
)

var _ model.RecordStore = (*MemoryStore)(nil)

// MemoryStore keeps records in memory only. It backs dry runs and tests.
type MemoryStore struct {
	records []model.JobRecord
	index   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

// NewMemoryStoreFrom returns a MemoryStore holding copies of records.
func NewMemoryStoreFrom(records []model.JobRecord) (*MemoryStore, error) {
	s := NewMemoryStore()
	for _, r := range records {
		if err := s.Insert(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) ListIDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		ids[r.ID] = struct{}{}
	}
	return ids, nil
}

func (s *MemoryStore) Insert(rec model.JobRecord) error {
	if _, ok := s.index[rec.ID]; ok {
		return fmt.Errorf("inserting job %s: %w", rec.ID, model.ErrDuplicateRecord)
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, cloneRecord(rec))
	return nil
}

func (s *MemoryStore) FindPending() ([]model.JobRecord, error) {
	return pendingNewestFirst(s.records), nil
}

func (s *MemoryStore) MarkProcessed(id string, at time.Time) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("marking job %s as processed: %w", id, model.ErrRecordNotFound)
	}
	markProcessed(&s.records[i], at)
	return nil
}

func (s *MemoryStore) All() ([]model.JobRecord, error) {
	out := make([]model.JobRecord, len(s.records))
	for i, r := range s.records {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
