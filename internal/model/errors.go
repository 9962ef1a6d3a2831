package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoListingsFound is returned when the page holds no qualifying postings.
	ErrNoListingsFound = errors.New("no job listings found")
	// ErrDuplicateRecord is returned by RecordStore.Insert for a known id.
	ErrDuplicateRecord = errors.New("record already stored")
	// ErrRecordNotFound is returned by RecordStore.MarkProcessed for an unknown id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrMissingWebhook is a startup error: the slack sink has no endpoint.
	ErrMissingWebhook = errors.New("slack webhook url not configured")
)

// HTTPError wraps a non-200 response from the listing page or the sink.
type HTTPError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	if e.Status != "" {
		return fmt.Sprintf("HTTP %s", e.Status)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// DeliveryError reports the record whose notification failed. Dispatch stops
// at the first one; the record and everything after it stay pending.
type DeliveryError struct {
	Index int // 1-based position in the pending list
	ID    string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("error processing item %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
