package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/devparana/vagasbot/internal/model"
)

type storeFactory func(t *testing.T) model.RecordStore

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) model.RecordStore { return NewMemoryStore() },
		"json": func(t *testing.T) model.RecordStore {
			s, err := NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
			if err != nil {
				t.Fatalf("NewJSONStore: %v", err)
			}
			return s
		},
		"sqlite": func(t *testing.T) model.RecordStore {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "jobs.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore: %v", err)
			}
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func record(id string, date int64) model.JobRecord {
	return model.JobRecord{
		ID:            id,
		Title:         "Desenvolvedor " + id,
		Labels:        []string{"TI", "Web"},
		Date:          date,
		DateProcessed: 1_700_000_000,
		City:          "Curitiba - PR",
		Company:       "Acme",
		Description:   "desc",
		URL:           "https://example.com/" + id,
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s model.RecordStore)) {
	for name, newStore := range factories() {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

func TestInsertThenListIDs(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		for _, id := range []string{"a", "b"} {
			if err := s.Insert(record(id, 100)); err != nil {
				t.Fatalf("Insert(%s): %v", id, err)
			}
		}
		ids, err := s.ListIDs()
		if err != nil {
			t.Fatalf("ListIDs: %v", err)
		}
		want := map[string]struct{}{"a": {}, "b": {}}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("ListIDs() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestInsertDuplicate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		if err := s.Insert(record("a", 100)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		changed := record("a", 999)
		changed.Title = "overwritten"
		if err := s.Insert(changed); !errors.Is(err, model.ErrDuplicateRecord) {
			t.Fatalf("second Insert error = %v, want ErrDuplicateRecord", err)
		}
		all, _ := s.All()
		if len(all) != 1 || all[0].Title != "Desenvolvedor a" {
			t.Errorf("existing record was modified: %+v", all)
		}
	})
}

func TestFindPending_NewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		for _, r := range []model.JobRecord{record("d2", 200), record("d1", 100), record("d3", 300)} {
			if err := s.Insert(r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
		pending, err := s.FindPending()
		if err != nil {
			t.Fatalf("FindPending: %v", err)
		}
		got := ids(pending)
		want := []string{"d3", "d2", "d1"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("FindPending() order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestFindPending_TiesInReverseInsertionOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		for _, r := range []model.JobRecord{record("first", 100), record("second", 100), record("newer", 200)} {
			if err := s.Insert(r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
		pending, _ := s.FindPending()
		want := []string{"newer", "second", "first"}
		if diff := cmp.Diff(want, ids(pending)); diff != "" {
			t.Errorf("FindPending() order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMarkProcessed(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		s.Insert(record("a", 100))
		s.Insert(record("b", 200))

		at := time.Unix(1_717_000_000, 0)
		if err := s.MarkProcessed("b", at); err != nil {
			t.Fatalf("MarkProcessed: %v", err)
		}

		pending, _ := s.FindPending()
		if diff := cmp.Diff([]string{"a"}, ids(pending)); diff != "" {
			t.Errorf("pending after MarkProcessed (-want +got):\n%s", diff)
		}

		all, _ := s.All()
		for _, r := range all {
			if r.BotProcessed != (r.BotProcessedDate != nil) {
				t.Errorf("record %s: BotProcessed=%v but BotProcessedDate=%v", r.ID, r.BotProcessed, r.BotProcessedDate)
			}
			if r.ID == "b" && *r.BotProcessedDate != at.Unix() {
				t.Errorf("BotProcessedDate = %d, want %d", *r.BotProcessedDate, at.Unix())
			}
		}
	})
}

func TestMarkProcessed_Monotonic(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		s.Insert(record("a", 100))

		first := time.Unix(1_717_000_000, 0)
		if err := s.MarkProcessed("a", first); err != nil {
			t.Fatalf("MarkProcessed: %v", err)
		}
		if err := s.MarkProcessed("a", first.Add(time.Hour)); err != nil {
			t.Fatalf("second MarkProcessed: %v", err)
		}

		all, _ := s.All()
		if !all[0].BotProcessed || *all[0].BotProcessedDate != first.Unix() {
			t.Errorf("record = %+v, want processed at first timestamp", all[0])
		}
	})
}

func TestMarkProcessed_Unknown(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		err := s.MarkProcessed("missing", time.Now())
		if !errors.Is(err, model.ErrRecordNotFound) {
			t.Errorf("MarkProcessed() error = %v, want ErrRecordNotFound", err)
		}
	})
}

func TestAll_InsertionOrderAndFields(t *testing.T) {
	forEachStore(t, func(t *testing.T, s model.RecordStore) {
		want := []model.JobRecord{record("z", 300), record("a", 100)}
		for _, r := range want {
			s.Insert(r)
		}
		got, err := s.All()
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("All() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestJSONStore_CreatesDefaultLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if _, err := NewJSONStore(path); err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("store file is not JSON: %v", err)
	}
	if string(raw["jobs"]) != "[]" {
		t.Errorf("jobs = %s, want []", raw["jobs"])
	}
	if string(raw["settings"]) != "{}" {
		t.Errorf("settings = %s, want {}", raw["settings"])
	}
}

func TestJSONStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	s.Insert(record("a", 100))
	s.Insert(record("b", 200))
	s.MarkProcessed("a", time.Unix(1_717_000_000, 0))

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	pending, _ := reopened.FindPending()
	if diff := cmp.Diff([]string{"b"}, ids(pending)); diff != "" {
		t.Errorf("pending after reopen (-want +got):\n%s", diff)
	}
	if err := reopened.Insert(record("a", 100)); !errors.Is(err, model.ErrDuplicateRecord) {
		t.Errorf("Insert after reopen error = %v, want ErrDuplicateRecord", err)
	}
}

func TestJSONStore_KeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte(`{"jobs":[],"settings":{"channel":"#vagas"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if err := s.Insert(record("a", 100)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	data, _ := os.ReadFile(path)
	var state jsonState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(state.Settings["channel"]) != `"#vagas"` {
		t.Errorf("settings = %v, want channel preserved", state.Settings)
	}
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := NewJSONStore(path); err == nil {
		t.Fatal("expected error for corrupt store file")
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	s.Insert(record("a", 100))
	s.MarkProcessed("a", time.Unix(1_717_000_000, 0))
	s.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	all, _ := reopened.All()
	if len(all) != 1 || !all[0].BotProcessed || all[0].BotProcessedDate == nil {
		t.Fatalf("All() after reopen = %+v", all)
	}
}

func TestSQLiteStore_ReadOnlyLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Insert(record("a", 100)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	s.Close()

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read db: %v", err)
	}

	ro, err := OpenSQLiteStoreReadOnly(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStoreReadOnly: %v", err)
	}
	all, err := ro.All()
	if err != nil || len(all) != 1 || all[0].ID != "a" {
		t.Fatalf("All() = %+v, %v", all, err)
	}
	if err := ro.Insert(record("b", 200)); err == nil {
		t.Error("Insert on a read-only store should fail")
	}
	ro.Close()

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read db: %v", err)
	}
	if string(before) != string(after) {
		t.Error("read-only open changed the database file")
	}
}

func TestSQLiteStore_ReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenSQLiteStoreReadOnly(path); err == nil {
		t.Fatal("expected an error for a missing database")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("read-only open created %s", path)
	}
}

func TestMemoryStoreFrom_Copies(t *testing.T) {
	src := []model.JobRecord{record("a", 100)}
	s, err := NewMemoryStoreFrom(src)
	if err != nil {
		t.Fatalf("NewMemoryStoreFrom: %v", err)
	}
	s.MarkProcessed("a", time.Now())
	if src[0].BotProcessed {
		t.Error("MemoryStore mutated the source slice")
	}
}

func ids(records []model.JobRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
