package ingest

import "strings"

// NormalizeTall converts a tall table (one row per reading) into readings.
//
// The timestamp comes from a "timestamp" column, or from "date" and "time"
// columns joined with a single space. The power source is the first column
// whose label contains "kw"; ties between e.g. a kWh and a kW column are
// resolved by column order, not header semantics. Rows that fail timestamp
// or numeric parsing are dropped silently; an input where every row fails
// yields an empty result, not an error.
func NormalizeTall(t RawTable) ([]Reading, error) {
	labels := normalizeLabels(t.Columns)

	tsIdx := indexOf(labels, "timestamp")
	dateIdx := indexOf(labels, "date")
	timeIdx := indexOf(labels, "time")
	if tsIdx < 0 && (dateIdx < 0 || timeIdx < 0) {
		return nil, ErrMissingTimestamp
	}

	powerIdx := -1
	for i, label := range labels {
		if strings.Contains(label, "kw") {
			powerIdx = i
			break
		}
	}
	if powerIdx < 0 {
		return nil, ErrMissingPowerColumn
	}

	var readings []Reading
	for row := range t.Rows {
		var raw string
		if tsIdx >= 0 {
			raw = t.Cell(row, tsIdx)
		} else {
			raw = strings.TrimSpace(t.Cell(row, dateIdx)) + " " + strings.TrimSpace(t.Cell(row, timeIdx))
		}
		ts, ok := parseTimestamp(raw)
		if !ok {
			continue
		}
		power, ok := parseNumeric(t.Cell(row, powerIdx))
		if !ok {
			continue
		}
		readings = append(readings, Reading{Timestamp: ts, PowerKW: power})
	}
	return readings, nil
}
