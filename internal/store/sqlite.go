package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devparana/vagasbot/internal/model"
)

var _ model.RecordStore = (*SQLiteStore)(nil)

// SQLiteStore keeps job records in a SQLite database. The seq column
// preserves insertion order; settings mirrors the empty settings object of
// the JSON layout.
type SQLiteStore struct {
	db *sql.DB
}

const createTables = `
CREATE TABLE IF NOT EXISTS jobs (
	seq                INTEGER PRIMARY KEY AUTOINCREMENT,
	id                 TEXT NOT NULL UNIQUE,
	title              TEXT NOT NULL,
	labels             TEXT NOT NULL,
	date               INTEGER NOT NULL,
	date_processed     INTEGER NOT NULL,
	city               TEXT NOT NULL,
	company            TEXT NOT NULL,
	description        TEXT NOT NULL,
	url                TEXT NOT NULL,
	bot_processed      INTEGER NOT NULL DEFAULT 0,
	bot_processed_date INTEGER
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const selectColumns = `id, title, labels, date, date_processed, city, company, description, url, bot_processed, bot_processed_date`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs and settings tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenSQLiteStoreReadOnly opens an existing database without creating or
// altering anything on disk. Mutating calls fail.
func OpenSQLiteStoreReadOnly(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ListIDs returns every stored job id.
func (s *SQLiteStore) ListIDs() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT id FROM jobs")
	if err != nil {
		return nil, fmt.Errorf("listing job ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing job ids: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing job ids: %w", err)
	}
	return ids, nil
}

// Insert appends a record. A known id yields model.ErrDuplicateRecord.
func (s *SQLiteStore) Insert(rec model.JobRecord) error {
	labels, err := json.Marshal(rec.Labels)
	if err != nil {
		return fmt.Errorf("encoding labels for %s: %w", rec.ID, err)
	}

	res, err := s.db.Exec(`INSERT OR IGNORE INTO jobs
		(id, title, labels, date, date_processed, city, company, description, url, bot_processed, bot_processed_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, string(labels), rec.Date, rec.DateProcessed,
		rec.City, rec.Company, rec.Description, rec.URL,
		rec.BotProcessed, nullableUnix(rec.BotProcessedDate),
	)
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting job %s: %w", rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("inserting job %s: %w", rec.ID, model.ErrDuplicateRecord)
	}
	return nil
}

// FindPending returns unprocessed records, newest first. Ties keep reverse
// insertion order.
func (s *SQLiteStore) FindPending() ([]model.JobRecord, error) {
	records, err := s.query("SELECT " + selectColumns + " FROM jobs WHERE bot_processed = 0 ORDER BY date DESC, seq DESC")
	if err != nil {
		return nil, fmt.Errorf("finding pending jobs: %w", err)
	}
	return records, nil
}

// MarkProcessed records a confirmed delivery. Already processed jobs are left
// untouched.
func (s *SQLiteStore) MarkProcessed(id string, at time.Time) error {
	var processed bool
	err := s.db.QueryRow("SELECT bot_processed FROM jobs WHERE id = ?", id).Scan(&processed)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("marking job %s as processed: %w", id, model.ErrRecordNotFound)
	}
	if err != nil {
		return fmt.Errorf("marking job %s as processed: %w", id, err)
	}
	if processed {
		return nil
	}

	_, err = s.db.Exec(
		"UPDATE jobs SET bot_processed = 1, bot_processed_date = ? WHERE id = ? AND bot_processed = 0",
		at.Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("marking job %s as processed: %w", id, err)
	}
	return nil
}

// All returns every record in insertion order.
func (s *SQLiteStore) All() ([]model.JobRecord, error) {
	records, err := s.query("SELECT " + selectColumns + " FROM jobs ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(q string) ([]model.JobRecord, error) {
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.JobRecord
	for rows.Next() {
		var (
			r         model.JobRecord
			labels    string
			processed sql.NullInt64
		)
		err := rows.Scan(&r.ID, &r.Title, &labels, &r.Date, &r.DateProcessed,
			&r.City, &r.Company, &r.Description, &r.URL, &r.BotProcessed, &processed)
		if err != nil {
			return nil, err
		}
		if err := json.NewDecoder(strings.NewReader(labels)).Decode(&r.Labels); err != nil {
			return nil, fmt.Errorf("decoding labels for %s: %w", r.ID, err)
		}
		if processed.Valid {
			ts := processed.Int64
			r.BotProcessedDate = &ts
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func nullableUnix(ts *int64) any {
	if ts == nil {
		return nil
	}
	return *ts
}
