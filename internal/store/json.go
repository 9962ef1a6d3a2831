package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/devparana/vagasbot/internal/model"
)

var _ model.RecordStore = (*JSONStore)(nil)

// jsonState is the on-disk layout: {"jobs": [...], "settings": {}}.
type jsonState struct {
	Jobs     []model.JobRecord          `json:"jobs"`
	Settings map[string]json.RawMessage `json:"settings"`
}

// JSONStore keeps every record in a single JSON document. Each mutation
// rewrites the file through a temp file and rename.
type JSONStore struct {
	path  string
	state jsonState
	index map[string]int
}

// NewJSONStore opens the document at path, creating it with empty defaults
// if it does not exist. The parent directory must already exist.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path:  path,
		index: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("creating json store: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading json store: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parsing json store %s: %w", path, err)
	}
	for i, r := range s.state.Jobs {
		s.index[r.ID] = i
	}
	return s, nil
}

func (s *JSONStore) ListIDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(s.state.Jobs))
	for _, r := range s.state.Jobs {
		ids[r.ID] = struct{}{}
	}
	return ids, nil
}

func (s *JSONStore) Insert(rec model.JobRecord) error {
	if _, ok := s.index[rec.ID]; ok {
		return fmt.Errorf("inserting job %s: %w", rec.ID, model.ErrDuplicateRecord)
	}
	s.state.Jobs = append(s.state.Jobs, cloneRecord(rec))
	if err := s.flush(); err != nil {
		s.state.Jobs = s.state.Jobs[:len(s.state.Jobs)-1]
		return fmt.Errorf("inserting job %s: %w", rec.ID, err)
	}
	s.index[rec.ID] = len(s.state.Jobs) - 1
	return nil
}

func (s *JSONStore) FindPending() ([]model.JobRecord, error) {
	return pendingNewestFirst(s.state.Jobs), nil
}

func (s *JSONStore) MarkProcessed(id string, at time.Time) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("marking job %s as processed: %w", id, model.ErrRecordNotFound)
	}
	before := s.state.Jobs[i]
	if !markProcessed(&s.state.Jobs[i], at) {
		return nil
	}
	if err := s.flush(); err != nil {
		s.state.Jobs[i] = before
		return fmt.Errorf("marking job %s as processed: %w", id, err)
	}
	return nil
}

func (s *JSONStore) All() ([]model.JobRecord, error) {
	out := make([]model.JobRecord, len(s.state.Jobs))
	for i, r := range s.state.Jobs {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) flush() error {
	state := s.state
	if state.Jobs == nil {
		state.Jobs = []model.JobRecord{}
	}
	if state.Settings == nil {
		state.Settings = map[string]json.RawMessage{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing json store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing json store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing json store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing json store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing json store: %w", err)
	}
	return nil
}
