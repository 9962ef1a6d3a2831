package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Words the listing site uses for relative dates.
const (
	DefaultToday     = "Hoje"
	DefaultYesterday = "Ontem"
)

const (
	dayMonthYearLayout = "02/01/2006"
	resolvedLayout     = "2006-1-2 15:04:05"
)

var dayMonthRegex = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// DateError reports a date token that could not be resolved.
type DateError struct {
	Raw string
	Err error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("resolve date %q: %v", e.Raw, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// DateResolver resolves the listing site's "<date> <hh:mm>" text, where date
// is "dd/mm", "dd/mm/yyyy", or the words for today and yesterday.
type DateResolver struct {
	Now       func() time.Time // defaults to time.Now
	Location  *time.Location   // defaults to time.Local
	Today     string           // defaults to DefaultToday
	Yesterday string           // defaults to DefaultYesterday
}

// Resolve returns the moment described by raw. A missing time part resolves
// to midnight.
func (r DateResolver) Resolve(raw string) (time.Time, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return time.Time{}, &DateError{Raw: raw, Err: fmt.Errorf("empty date")}
	}

	now := r.now()
	datePart := fields[0]
	switch {
	case dayMonthRegex.MatchString(datePart):
		datePart += "/" + now.Format("2006")
	case datePart == r.todayWord():
		datePart = now.Format(dayMonthYearLayout)
	case datePart == r.yesterdayWord():
		datePart = now.AddDate(0, 0, -1).Format(dayMonthYearLayout)
	}

	// dd/mm/yyyy -> yyyy-mm-dd
	segments := strings.Split(datePart, "/")
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	datePart = strings.Join(segments, "-")

	timePart := "00:00"
	if len(fields) > 1 {
		timePart = strings.Join(fields[1:], " ")
	}

	t, err := time.ParseInLocation(resolvedLayout, datePart+" "+timePart+":00", r.location())
	if err != nil {
		return time.Time{}, &DateError{Raw: raw, Err: err}
	}
	return t, nil
}

func (r DateResolver) now() time.Time {
	if r.Now != nil {
		return r.Now().In(r.location())
	}
	return time.Now().In(r.location())
}

func (r DateResolver) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

func (r DateResolver) todayWord() string {
	if r.Today != "" {
		return r.Today
	}
	return DefaultToday
}

func (r DateResolver) yesterdayWord() string {
	if r.Yesterday != "" {
		return r.Yesterday
	}
	return DefaultYesterday
}
