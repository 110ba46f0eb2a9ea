package ingest

import (
	"fmt"
	"testing"
)

func TestFindHeaderRowBuried(t *testing.T) {
	table := RawTable{
		Columns: []string{"Unnamed: 0", "Unnamed: 1", "Unnamed: 2"},
		Rows: [][]string{
			{"Acme Logistics", "", ""},
			{"Monthly usage export", "", ""},
			{"Date", "0:15", "0:30"},
			{"1/1/2024", "1.0", "2.0"},
		},
	}
	idx, ok := FindHeaderRow(table)
	if !ok {
		t.Fatalf("expected header row to be found")
	}
	if idx != 2 {
		t.Fatalf("expected header at row 2, got %d", idx)
	}
}

func TestFindHeaderRowAbsent(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "kW"},
		Rows: [][]string{
			{"2024-01-01 05:00", "3.0"},
		},
	}
	if _, ok := FindHeaderRow(table); ok {
		t.Fatalf("expected no buried header row")
	}
}

func TestFindHeaderRowScanBounded(t *testing.T) {
	rows := [][]string{
		{"banner"}, {"banner"}, {"banner"}, {"banner"}, {"banner"},
		{"Date", "0:15"},
	}
	if _, ok := FindHeaderRow(RawTable{Columns: []string{"a", "b"}, Rows: rows}); ok {
		t.Fatalf("expected header beyond scan limit to be ignored")
	}
}

func TestPromoteHeaderReslices(t *testing.T) {
	table := RawTable{
		Columns: []string{"Unnamed: 0", "Unnamed: 1"},
		Rows: [][]string{
			{"Site report", ""},
			{"Date", "12:00"},
			{"1/1/2024", "5.0"},
		},
	}
	promoted := PromoteHeader(table)
	if promoted.Columns[0] != "Date" || promoted.Columns[1] != "12:00" {
		t.Fatalf("expected promoted header, got %v", promoted.Columns)
	}
	if len(promoted.Rows) != 1 {
		t.Fatalf("expected 1 data row after promotion, got %d", len(promoted.Rows))
	}
}

func TestClassifyWide(t *testing.T) {
	columns := []string{"Date"}
	for _, label := range timeLabels(24, 60) {
		columns = append(columns, label)
	}
	_, shape := Classify(RawTable{Columns: columns})
	if shape != ShapeWide {
		t.Fatalf("expected WIDE, got %s", shape)
	}
}

func TestClassifyTallDefault(t *testing.T) {
	_, shape := Classify(RawTable{Columns: []string{"timestamp", "kW"}})
	if shape != ShapeTall {
		t.Fatalf("expected TALL, got %s", shape)
	}
}

// A table with a handful of time-of-day columns is still routed to tall;
// partial wide tables are not auto-repaired.
func TestClassifyPartialWideRoutesTall(t *testing.T) {
	columns := []string{"Date", "0:15", "0:30", "0:45", "1:00", "1:15"}
	promoted, shape := Classify(RawTable{Columns: columns})
	if shape != ShapeTall {
		t.Fatalf("expected TALL for partial wide table, got %s", shape)
	}
	if _, err := NormalizeTall(promoted); err == nil {
		t.Fatalf("expected structural error from tall normalizer")
	}
}

func TestClassifyWideNeedsDateColumn(t *testing.T) {
	columns := timeLabels(24, 60)
	_, shape := Classify(RawTable{Columns: columns})
	if shape != ShapeTall {
		t.Fatalf("expected TALL without a date column, got %s", shape)
	}
}

// timeLabels builds n time-of-day labels stepping by stepMinutes.
func timeLabels(n, stepMinutes int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		total := i * stepMinutes
		labels = append(labels, fmt.Sprintf("%d:%02d", total/60, total%60))
	}
	return labels
}
