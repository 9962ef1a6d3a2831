package poller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/devparana/vagasbot/internal/dedup"
	"github.com/devparana/vagasbot/internal/model"
)

// PageFetcher retrieves the raw listing page.
type PageFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// RecordExtractor turns a listing page into unprocessed job records.
type RecordExtractor interface {
	Extract(r io.Reader) ([]model.JobRecord, error)
}

// Dispatcher announces pending records and reports how many were delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, records []model.JobRecord) (int, error)
}

// Summary counts what a single run did.
type Summary struct {
	Extracted int
	Inserted  int
	Pending   int
	Sent      int
}

// Poller owns one full pipeline run:
// fetch → extract → merge into store → notify pending → mark processed.
type Poller struct {
	fetcher    PageFetcher
	extractor  RecordExtractor
	store      model.RecordStore
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewPoller creates a poller wired with all its dependencies.
func NewPoller(
	fetcher PageFetcher,
	extractor RecordExtractor,
	store model.RecordStore,
	dispatcher Dispatcher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		fetcher:    fetcher,
		extractor:  extractor,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run executes one pass of the pipeline. The first error ends the run; what
// was already stored or marked processed stays durable, so the next run
// resumes from there.
func (p *Poller) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	p.logger.Info("searching for new job offers")

	page, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return sum, fmt.Errorf("fetching: %w", err)
	}

	records, err := p.extractor.Extract(bytes.NewReader(page))
	if err != nil {
		return sum, fmt.Errorf("extracting: %w", err)
	}
	sum.Extracted = len(records)

	sum.Inserted, err = dedup.Merge(p.store, records)
	if err != nil {
		return sum, fmt.Errorf("storing: %w", err)
	}

	pending, err := p.store.FindPending()
	if err != nil {
		return sum, fmt.Errorf("loading pending jobs: %w", err)
	}
	sum.Pending = len(pending)

	p.logger.Info("found job offers",
		"pending", sum.Pending,
		"extracted", sum.Extracted,
		"new", sum.Inserted,
	)
	if len(pending) == 0 {
		p.logger.Info("no new jobs to send")
		return sum, nil
	}
	p.logger.Info("processing items to send")

	sum.Sent, err = p.dispatcher.Dispatch(ctx, pending)
	if err != nil {
		return sum, fmt.Errorf("notifying: %w", err)
	}

	p.logger.Info("run complete",
		"extracted", sum.Extracted,
		"new", sum.Inserted,
		"sent", sum.Sent,
	)
	return sum, nil
}
