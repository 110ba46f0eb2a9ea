package ingest

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeTallTimestampColumn(t *testing.T) {
	table := RawTable{
		Columns: []string{"Timestamp", "Demand kW"},
		Rows: [][]string{
			{"2024-01-01 05:00", "3.0"},
			{"2024-01-02 05:15", "7.5"},
		},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("normalize tall: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[1].Timestamp.Hour() != 5 || readings[1].PowerKW != 7.5 {
		t.Fatalf("expected hour 5 at 7.5 kW, got hour %d at %v", readings[1].Timestamp.Hour(), readings[1].PowerKW)
	}
}

func TestNormalizeTallDateTimePair(t *testing.T) {
	table := RawTable{
		Columns: []string{"Date", "Time", "kW"},
		Rows: [][]string{
			{"1/2/2024", "13:15", "4.25"},
		},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("normalize tall: %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(readings))
	}
	if readings[0].Timestamp.Hour() != 13 {
		t.Fatalf("expected hour 13, got %d", readings[0].Timestamp.Hour())
	}
}

func TestNormalizeTallMissingTimestamp(t *testing.T) {
	table := RawTable{
		Columns: []string{"Date", "kW"},
		Rows:    [][]string{{"1/2/2024", "4.0"}},
	}
	_, err := NormalizeTall(table)
	if !errors.Is(err, ErrMissingTimestamp) {
		t.Fatalf("expected ErrMissingTimestamp, got %v", err)
	}
	if !IsStructural(err) {
		t.Fatalf("expected a structural error")
	}
}

func TestNormalizeTallMissingPowerColumn(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "volts"},
		Rows:    [][]string{{"2024-01-01 05:00", "480"}},
	}
	_, err := NormalizeTall(table)
	if !errors.Is(err, ErrMissingPowerColumn) {
		t.Fatalf("expected ErrMissingPowerColumn, got %v", err)
	}
}

// The leftmost label containing "kw" wins, even when a later column is the
// better semantic match. That tie-break is by column order only.
func TestNormalizeTallFirstKWColumnWins(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "Energy kWh", "Demand kW"},
		Rows: [][]string{
			{"2024-01-01 05:00", "5.0", "9.0"},
		},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("normalize tall: %v", err)
	}
	if math.Abs(readings[0].PowerKW-5.0) > 1e-9 {
		t.Fatalf("expected leftmost kw column value 5.0, got %v", readings[0].PowerKW)
	}
}

func TestNormalizeTallDropsBadRows(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "kW"},
		Rows: [][]string{
			{"2024-01-01 05:00", "3.0"},
			{"not a date", "4.0"},
			{"2024-01-01 06:00", "n/a"},
			{"2024-01-01 07:00", ""},
			{"2024-01-01 08:00", "2.5"},
		},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("normalize tall: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 surviving readings, got %d", len(readings))
	}
}

func TestNormalizeTallAllRowsInvalidIsEmptyNotError(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "kW"},
		Rows: [][]string{
			{"not a date", "4.0"},
			{"also bad", "x"},
		},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if len(readings) != 0 {
		t.Fatalf("expected empty result, got %d readings", len(readings))
	}
}

func TestNormalizeTallThousandsSeparators(t *testing.T) {
	table := RawTable{
		Columns: []string{"timestamp", "kW"},
		Rows:    [][]string{{"2024-01-01 05:00", "1,250.5"}},
	}
	readings, err := NormalizeTall(table)
	if err != nil {
		t.Fatalf("normalize tall: %v", err)
	}
	if readings[0].PowerKW != 1250.5 {
		t.Fatalf("expected 1250.5, got %v", readings[0].PowerKW)
	}
}
