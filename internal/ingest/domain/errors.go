package ingest

import "errors"

var (
	// ErrMissingTimestamp is returned when a tall table has neither a
	// timestamp column nor a date+time column pair.
	ErrMissingTimestamp = errors.New("ingest: missing 'timestamp' or 'date' + 'time' columns")
	// ErrMissingPowerColumn is returned when a tall table has no kW-named column.
	ErrMissingPowerColumn = errors.New("ingest: no 'kW' column found")
	// ErrNoTimeAxis is returned when a wide table has neither time-of-day
	// columns nor a daily total column.
	ErrNoTimeAxis = errors.New("ingest: no time-of-day or total kWh column found")
)

// IsStructural reports whether err describes a table whose required columns
// or time axis are missing. Structural errors are recoverable at the call
// site: the file is skipped and the rest of the batch continues.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMissingTimestamp) ||
		errors.Is(err, ErrMissingPowerColumn) ||
		errors.Is(err, ErrNoTimeAxis)
}

// Warning codes surfaced alongside a successful normalization.
const (
	// WarnDailyTotalApprox marks the uniform 24-hour spread applied to
	// daily-total files.
	WarnDailyTotalApprox = "daily_total_approx"
)

// Warning is a non-fatal data-quality notice. It is advisory and never
// blocks computation.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func dailyTotalWarning() Warning {
	return Warning{
		Code:    WarnDailyTotalApprox,
		Message: "daily kWh totals detected: assuming uniform 24-hour usage",
	}
}
