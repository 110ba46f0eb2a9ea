package decode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCSV(t *testing.T) {
	input := "timestamp,kW\n2024-01-01 05:00,3.0\n2024-01-01 06:00,4.5\n"
	table, err := CSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode csv: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "timestamp" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	if len(table.Rows) != 2 || table.Rows[1][1] != "4.5" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
}

func TestCSVRaggedRecordsSurvive(t *testing.T) {
	input := "Site Export\n\ntimestamp,kW\n2024-01-01 05:00,3.0\n"
	table, err := CSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode csv: %v", err)
	}
	// Preamble rows stay in place so the header scan can find the real
	// header. The CSV reader drops the blank line, leaving the header row
	// and the data row.
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows under the preamble header, got %d", len(table.Rows))
	}
	if table.Rows[0][0] != "timestamp" {
		t.Fatalf("expected the buried header row to survive, got %v", table.Rows[0])
	}
}

func TestCSVEmpty(t *testing.T) {
	if _, err := CSV(strings.NewReader("")); !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestXLSX(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "timestamp")
	_ = f.SetCellValue("Sheet1", "B1", "kW")
	_ = f.SetCellValue("Sheet1", "A2", "2024-01-01 05:00")
	_ = f.SetCellValue("Sheet1", "B2", 3.5)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	table, err := XLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode xlsx: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[1] != "kW" {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "3.5" {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
}

func TestTableDispatchByExtension(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "timestamp")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	if _, err := Table("export.XLSX", bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("expected spreadsheet dispatch for .XLSX, got %v", err)
	}

	if _, err := Table("export.txt", strings.NewReader("timestamp,kW\n")); err != nil {
		t.Fatalf("expected CSV dispatch for unknown extensions, got %v", err)
	}
}
