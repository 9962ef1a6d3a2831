package model

import "time"

// JobRecord is the persisted form of one posting scraped from the listing page.
type JobRecord struct {
	ID               string   `json:"id"` // assigned by the listing site, stable across runs
	Title            string   `json:"title"`
	Labels           []string `json:"labels"`
	Date             int64    `json:"date"`          // unix seconds, resolved publish moment
	DateProcessed    int64    `json:"dateProcessed"` // unix seconds, extraction time
	City             string   `json:"city"`
	Company          string   `json:"company"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`
	BotProcessed     bool     `json:"botProcessed"`
	BotProcessedDate *int64   `json:"botProcessedDate"` // non-nil iff BotProcessed
}

// PostedAt returns Date as a local time.
func (r JobRecord) PostedAt() time.Time {
	return time.Unix(r.Date, 0)
}

// RecordStore is the durable, ordered collection of job records. Every call
// is durable before it returns.
type RecordStore interface {
	// ListIDs returns the ids of every stored record.
	ListIDs() (map[string]struct{}, error)
	// Insert appends rec. It returns ErrDuplicateRecord if rec.ID is stored.
	Insert(rec JobRecord) error
	// FindPending returns records with BotProcessed == false, newest first.
	FindPending() ([]JobRecord, error)
	// MarkProcessed flips BotProcessed for id. Already processed records
	// keep their original BotProcessedDate.
	MarkProcessed(id string, at time.Time) error
	// All returns every record in insertion order.
	All() ([]JobRecord, error)
	Close() error
}
