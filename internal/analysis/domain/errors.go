package analysis

import "errors"

var (
	// ErrNoData is returned when aggregation receives zero valid readings.
	ErrNoData = errors.New("analysis: no valid readings")
	// ErrNegativeCapacity is returned when the supply capacity is negative.
	ErrNegativeCapacity = errors.New("analysis: capacity must be >= 0")
	// ErrInvalidChargerSize is returned when a fixed charger size is not positive.
	ErrInvalidChargerSize = errors.New("analysis: charger size must be > 0")
	// ErrInvalidStrategy is returned when the allocation strategy is unknown.
	ErrInvalidStrategy = errors.New("analysis: unknown allocation strategy")
	// ErrNegativeFixedCount is returned when the fixed charger count is negative.
	ErrNegativeFixedCount = errors.New("analysis: fixed count must be >= 0")
	// ErrInvalidChargerSpec is returned when a custom charger entry has a
	// non-positive power or a negative quantity.
	ErrInvalidChargerSpec = errors.New("analysis: charger spec must have positive power and non-negative quantity")
	// ErrNoRatings is returned when a mix is requested with no positive ratings.
	ErrNoRatings = errors.New("analysis: no positive charger ratings")
)
