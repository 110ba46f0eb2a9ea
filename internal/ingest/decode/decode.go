// Package decode turns uploaded CSV and spreadsheet streams into raw tables.
// It is the only ingest code that touches file contents; the domain packages
// receive already-decoded tables.
package decode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	ingest "chargefit/internal/ingest/domain"
)

// ErrEmptyTable is returned when a file decodes to zero rows.
var ErrEmptyTable = errors.New("decode: empty table")

// Table picks a decoder from the file extension. Anything that is not a
// spreadsheet is treated as CSV.
func Table(name string, r io.Reader) (ingest.RawTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return XLSX(r)
	default:
		return CSV(r)
	}
}

// CSV reads a CSV stream into a raw table. The first record becomes the
// column labels; ragged records are kept as-is so the header scan downstream
// can still find a buried header row.
func CSV(r io.Reader) (ingest.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) == 0 {
		return ingest.RawTable{}, ErrEmptyTable
	}
	return ingest.RawTable{Columns: records[0], Rows: records[1:]}, nil
}

// XLSX reads the first sheet of a workbook into a raw table.
func XLSX(r io.Reader) (ingest.RawTable, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("decode xlsx: %w", err)
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	if sheet == "" {
		return ingest.RawTable{}, ErrEmptyTable
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return ingest.RawTable{}, fmt.Errorf("decode xlsx: %w", err)
	}
	if len(rows) == 0 {
		return ingest.RawTable{}, ErrEmptyTable
	}
	return ingest.RawTable{Columns: rows[0], Rows: rows[1:]}, nil
}
