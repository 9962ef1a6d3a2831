// Package extract fetches the listing page and turns its postings into
// unprocessed job records.
package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/devparana/vagasbot/internal/model"
	"github.com/devparana/vagasbot/internal/normalize"
)

const (
	postingSelector     = `ol[itemtype="http://schema.org/JobPosting"]`
	limitedSelector     = `.limited`
	titleSelector       = `[itemprop="title"]`
	dateSelector        = `[itemprop="datePosted"]`
	citySelector        = `[itemprop="jobLocation"]`
	companySelector     = `[itemprop="hiringOrganization"]`
	descriptionSelector = `[itemprop="description"]`
	linkSelector        = `[itemprop="description"] a`
	labelsSelector      = `.area`
)

var (
	errMissingID          = errors.New("posting has no id attribute")
	errMissingDate        = errors.New("date element has no leading text")
	errMissingLabels      = errors.New("category element has no title attribute")
	errMissingDescription = errors.New("description element has no leading text")
	errMissingLink        = errors.New("description has no link")
)

// PostingError reports a single posting that could not be turned into a record.
type PostingError struct {
	Index int // 0-based position among qualifying postings
	ID    string
	Err   error
}

func (e *PostingError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("posting %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("posting %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *PostingError) Unwrap() error { return e.Err }

// Extractor parses listing pages into job records.
type Extractor struct {
	dates         normalize.DateResolver
	now           func() time.Time
	skipMalformed bool
	logger        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the extraction clock used for DateProcessed and for
// resolving relative dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
		e.dates.Now = now
	}
}

// WithSkipMalformed makes a malformed posting get logged and dropped instead
// of failing the whole page.
func WithSkipMalformed(skip bool) Option {
	return func(e *Extractor) { e.skipMalformed = skip }
}

// NewExtractor returns an Extractor resolving dates with dates.
func NewExtractor(dates normalize.DateResolver, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		dates:  dates,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the qualifying postings of the page in document order.
// It fails with model.ErrNoListingsFound when there are none.
func (e *Extractor) Extract(r io.Reader) ([]model.JobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	postings := doc.Find(postingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(limitedSelector).Length() == 0
	})
	if postings.Length() == 0 {
		return nil, model.ErrNoListingsFound
	}

	processed := e.now().Unix()
	records := make([]model.JobRecord, 0, postings.Length())

	var firstErr error
	postings.EachWithBreak(func(i int, s *goquery.Selection) bool {
		rec, err := e.extractPosting(s, processed)
		if err != nil {
			perr := &PostingError{Index: i, ID: normalize.Text(s.AttrOr("id", "")), Err: err}
			if !e.skipMalformed {
				firstErr = perr
				return false
			}
			e.logger.Warn("skipping malformed posting", "index", i, "id", perr.ID, "error", err)
			return true
		}
		records = append(records, rec)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if len(records) == 0 {
		return nil, model.ErrNoListingsFound
	}

	return records, nil
}

func (e *Extractor) extractPosting(s *goquery.Selection, processed int64) (model.JobRecord, error) {
	id, ok := s.Attr("id")
	if !ok || normalize.Text(id) == "" {
		return model.JobRecord{}, errMissingID
	}

	rawDate, ok := leadingText(s.Find(dateSelector))
	if !ok {
		return model.JobRecord{}, errMissingDate
	}
	posted, err := e.dates.Resolve(rawDate)
	if err != nil {
		return model.JobRecord{}, err
	}

	rawLabels, ok := s.Find(labelsSelector).Attr("title")
	if !ok {
		return model.JobRecord{}, errMissingLabels
	}

	description, ok := leadingText(s.Find(descriptionSelector))
	if !ok {
		return model.JobRecord{}, errMissingDescription
	}
	url, ok := s.Find(linkSelector).Attr("href")
	if !ok {
		return model.JobRecord{}, errMissingLink
	}

	return model.JobRecord{
		ID:            normalize.Text(id),
		Title:         normalize.Text(s.Find(titleSelector).Text()),
		Labels:        normalize.Labels(rawLabels),
		Date:          posted.Unix(),
		DateProcessed: processed,
		City:          normalize.Text(s.Find(citySelector).Text()),
		Company:       normalize.Text(s.Find(companySelector).Text()),
		Description:   normalize.Text(description),
		URL:           normalize.Text(url),
	}, nil
}

// leadingText returns the first child node of the first matched element when
// it is a text node.
func leadingText(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	first := s.Get(0).FirstChild
	if first == nil || first.Type != html.TextNode {
		return "", false
	}
	return first.Data, true
}
