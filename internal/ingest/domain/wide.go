package ingest

import (
	"strings"
	"time"
)

const (
	// quarterHourColumnCount marks a 15-minute cadence; anything fewer is
	// treated as hourly samples.
	quarterHourColumnCount = 96

	hoursPerDay = 24
)

// NormalizeWide converts a wide table (one row per day) into readings. The
// leading column is the date axis regardless of what the export called it.
//
// Time-of-day columns (labels containing ":") are intraday energy samples in
// kWh; the sampling interval is inferred from the column count and each cell
// becomes power via kWh / interval_hours. Without time columns, the first
// column labeled "total" or "kwh" is a daily energy total, spread uniformly
// over 24 hours with a data-quality warning: the worst day's average is
// reported for every hour slot. A table with neither axis is structural.
func NormalizeWide(t RawTable) ([]Reading, []Warning, error) {
	var timeColumns []int
	totalIdx := -1
	for i, label := range t.Columns {
		if i == 0 {
			continue
		}
		if strings.Contains(label, ":") {
			timeColumns = append(timeColumns, i)
		}
		lower := strings.ToLower(strings.TrimSpace(label))
		if totalIdx < 0 && (strings.Contains(lower, "total") || strings.Contains(lower, "kwh")) {
			totalIdx = i
		}
	}

	if len(timeColumns) > 0 {
		intervalHours := 1.0
		if len(timeColumns) >= quarterHourColumnCount {
			intervalHours = 0.25
		}
		var readings []Reading
		for row := range t.Rows {
			date := strings.TrimSpace(t.Cell(row, 0))
			for _, col := range timeColumns {
				ts, ok := parseTimestamp(date + " " + strings.TrimSpace(t.Columns[col]))
				if !ok {
					continue
				}
				kwh, ok := parseNumeric(t.Cell(row, col))
				if !ok {
					continue
				}
				readings = append(readings, Reading{Timestamp: ts, PowerKW: kwh / intervalHours})
			}
		}
		return readings, nil, nil
	}

	if totalIdx >= 0 {
		return normalizeDailyTotals(t, totalIdx)
	}

	return nil, nil, ErrNoTimeAxis
}

// normalizeDailyTotals applies the uniform 24-hour approximation to a
// daily-total file: kWh_total / 24 per day, with the maximum daily average
// emitted once for every hour slot.
func normalizeDailyTotals(t RawTable, totalIdx int) ([]Reading, []Warning, error) {
	warnings := []Warning{dailyTotalWarning()}

	var maxAvgKW float64
	var anchor time.Time
	found := false
	for row := range t.Rows {
		day, ok := parseDate(t.Cell(row, 0))
		if !ok {
			continue
		}
		kwh, ok := parseNumeric(t.Cell(row, totalIdx))
		if !ok {
			continue
		}
		avg := kwh / hoursPerDay
		if !found {
			anchor = day
			maxAvgKW = avg
			found = true
			continue
		}
		if avg > maxAvgKW {
			maxAvgKW = avg
		}
	}
	if !found {
		// Every row failed to parse: empty result, caller treats it as a
		// data gap rather than an error.
		return nil, warnings, nil
	}

	readings := make([]Reading, 0, hoursPerDay)
	for hour := 0; hour < hoursPerDay; hour++ {
		readings = append(readings, Reading{
			Timestamp: anchor.Add(time.Duration(hour) * time.Hour),
			PowerKW:   maxAvgKW,
		})
	}
	return readings, warnings, nil
}
