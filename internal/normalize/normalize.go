// Package normalize turns raw text scraped from the listing page into the
// canonical field values stored on a model.JobRecord.
package normalize

import "strings"

// Text trims leading and trailing whitespace.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// Labels splits a comma-separated category attribute, trimming each part.
// Order is kept and empty segments stay as empty strings.
func Labels(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = Text(p)
	}
	return parts
}
