package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/devparana/vagasbot/internal/config"
	"github.com/devparana/vagasbot/internal/model"
	"github.com/devparana/vagasbot/internal/store"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("VAGASBOT_CONFIG", "")

	path, optional := resolveConfigPath("")
	if path != defaultConfigPath || !optional {
		t.Errorf("default: got (%q, %v), want (%q, true)", path, optional, defaultConfigPath)
	}

	path, optional = resolveConfigPath("custom.yaml")
	if path != "custom.yaml" || optional {
		t.Errorf("explicit: got (%q, %v), want (custom.yaml, false)", path, optional)
	}

	t.Setenv("VAGASBOT_CONFIG", "/etc/vagasbot.yaml")
	path, optional = resolveConfigPath("")
	if path != "/etc/vagasbot.yaml" || optional {
		t.Errorf("env: got (%q, %v), want (/etc/vagasbot.yaml, false)", path, optional)
	}
}

func TestNewLogger_TimeFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)

	logger.Info("searching for new job offers")
	logger.Debug("hidden")

	out := buf.String()
	if !regexp.MustCompile(`^time="\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}" level=INFO msg="searching for new job offers"`).MatchString(out) {
		t.Errorf("unexpected log line: %q", out)
	}
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Error("debug line should be filtered at info level")
	}
}

func TestLoadStoredRecords_MissingStoreCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir: dir,
		Store:   config.StoreConfig{Type: "json", Path: filepath.Join(dir, "db.json")},
	}

	records, err := loadStoredRecords(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if _, err := os.Stat(cfg.Store.Path); !os.IsNotExist(err) {
		t.Errorf("store file should not be created, stat err = %v", err)
	}
}

func TestLoadStoredRecords_ReadsExistingStore(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir: dir,
		Store:   config.StoreConfig{Type: "json", Path: filepath.Join(dir, "db.json")},
	}

	st, err := store.NewJSONStore(cfg.Store.Path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if err := st.Insert(model.JobRecord{ID: "vaga-1", Title: "Go Developer"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := st.MarkProcessed("vaga-1", time.Now()); err != nil {
		t.Fatalf("MarkProcessed: %v", err)
	}

	records, err := loadStoredRecords(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || !records[0].BotProcessed {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestLoadStoredRecords_SQLiteLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir: dir,
		Store:   config.StoreConfig{Type: "sqlite", Path: filepath.Join(dir, "jobs.db")},
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := st.Insert(model.JobRecord{ID: "vaga-1", Title: "Go Developer", Labels: []string{"TI"}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	st.Close()

	before, err := os.ReadFile(cfg.Store.Path)
	if err != nil {
		t.Fatalf("read db: %v", err)
	}

	records, err := loadStoredRecords(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "vaga-1" {
		t.Errorf("unexpected records: %+v", records)
	}

	after, err := os.ReadFile(cfg.Store.Path)
	if err != nil {
		t.Fatalf("read db: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("reading the store changed the database file")
	}
}

func TestStoredIDs(t *testing.T) {
	ids := storedIDs([]model.JobRecord{{ID: "a"}, {ID: "b"}})
	if _, ok := ids["a"]; !ok {
		t.Error("expected id a")
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %d", len(ids))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Curitiba", 20); got != "Curitiba" {
		t.Errorf("got %q", got)
	}
	if got := truncate("São José dos Pinhais", 10); got != "São José …" {
		t.Errorf("got %q", got)
	}
}
