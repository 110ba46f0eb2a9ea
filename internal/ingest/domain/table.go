package ingest

import "strings"

// headerScanLimit bounds how many leading data rows are inspected when the
// real header is buried below title or banner rows.
const headerScanLimit = 5

// wideTimeColumnThreshold is the minimum number of time-of-day columns that,
// together with a date column, marks a table as wide. Tables with fewer time
// columns are routed to the tall normalizer and fail there; partial wide
// tables are not auto-repaired.
const wideTimeColumnThreshold = 20

// Shape is the detected layout of a raw table.
type Shape string

const (
	// ShapeTall is one row per reading: a timestamp plus a power column.
	ShapeTall Shape = "TALL"
	// ShapeWide is one row per day: one column per intraday time slot, or a
	// single daily-total column.
	ShapeWide Shape = "WIDE"
)

// RawTable is a rectangular table as decoded from a CSV or spreadsheet file.
// Rows may be ragged; missing cells read as empty strings. The core never
// reads files itself, it only receives already-decoded tables.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the cell at (row, col), or "" when the row is shorter.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// FindHeaderRow scans the first few data rows for a row that looks like the
// semantic header: some cell containing "date" (case-insensitive) together
// with some cell containing ":". It returns the index of the first match.
func FindHeaderRow(t RawTable) (int, bool) {
	limit := len(t.Rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		hasDate := false
		hasTime := false
		for _, cell := range t.Rows[i] {
			lower := strings.ToLower(cell)
			if strings.Contains(lower, "date") {
				hasDate = true
			}
			if strings.Contains(lower, ":") {
				hasTime = true
			}
		}
		if hasDate && hasTime {
			return i, true
		}
	}
	return 0, false
}

// PromoteHeader re-slices the table below a header row buried among the data
// rows. When no such row is found the table is returned unchanged.
func PromoteHeader(t RawTable) RawTable {
	idx, ok := FindHeaderRow(t)
	if !ok {
		return t
	}
	columns := make([]string, len(t.Rows[idx]))
	copy(columns, t.Rows[idx])
	return RawTable{Columns: columns, Rows: t.Rows[idx+1:]}
}

// Classify promotes a buried header row if present and routes the table to a
// layout. A table is wide when a date column exists and at least
// wideTimeColumnThreshold column labels carry a time-of-day token; everything
// else is tall. Classification never fails: a misrouted table surfaces a
// structural error from its normalizer instead.
func Classify(t RawTable) (RawTable, Shape) {
	t = PromoteHeader(t)

	timeColumns := 0
	hasDate := false
	for _, label := range t.Columns {
		if strings.Contains(label, ":") {
			timeColumns++
		}
		if strings.Contains(strings.ToLower(label), "date") {
			hasDate = true
		}
	}
	if hasDate && timeColumns >= wideTimeColumnThreshold {
		return t, ShapeWide
	}
	return t, ShapeTall
}

// Normalize classifies a raw table and converts it into readings in one step.
func Normalize(t RawTable) ([]Reading, Shape, []Warning, error) {
	promoted, shape := Classify(t)
	if shape == ShapeWide {
		readings, warnings, err := NormalizeWide(promoted)
		return readings, shape, warnings, err
	}
	readings, err := NormalizeTall(promoted)
	return readings, shape, nil, err
}
