package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Reading is a single normalized observation: a naive local timestamp and an
// instantaneous power value. Readings are transient; they only live long
// enough to be aggregated.
type Reading struct {
	Timestamp time.Time
	PowerKW   float64
}

// timestampLayouts covers the datetime spellings seen in utility exports.
// Month-first slash dates match the source systems these files come from.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01-02-2006 15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseTimestamp parses a combined date-time string. It reports false for
// anything it cannot parse; callers drop such rows rather than failing.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	// Some exports put a date in the timestamp column with no time part.
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseDate parses a date-only string.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseNumeric coerces a cell to a float. Thousands separators and
// surrounding whitespace are tolerated; anything else is a drop.
func parseNumeric(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// normalizeLabels lower-cases and trims column labels for semantic matching.
func normalizeLabels(labels []string) []string {
	normalized := make([]string, len(labels))
	for i, label := range labels {
		normalized[i] = strings.ToLower(strings.TrimSpace(label))
	}
	return normalized
}

// indexOf returns the position of the first label equal to want, or -1.
func indexOf(labels []string, want string) int {
	for i, label := range labels {
		if label == want {
			return i
		}
	}
	return -1
}
