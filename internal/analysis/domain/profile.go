package analysis

import (
	ingest "chargefit/internal/ingest/domain"
)

// HoursPerDay is the number of slots in an hour-of-day profile.
const HoursPerDay = 24

// HourlyProfile is the per-hour-of-day maximum demand observed across every
// day in a dataset. Hours with no readings stay undefined: they are data
// gaps and must never be read as zero load.
type HourlyProfile struct {
	maxKW   [HoursPerDay]float64
	defined [HoursPerDay]bool
}

// BuildProfile reduces readings to an hour-of-day maximum profile. Grouping
// uses the naive local hour of each timestamp; no timezone conversion is
// applied. An empty input returns ErrNoData rather than a profile of zeros.
func BuildProfile(readings []ingest.Reading) (HourlyProfile, error) {
	var profile HourlyProfile
	if len(readings) == 0 {
		return profile, ErrNoData
	}
	for _, reading := range readings {
		hour := reading.Timestamp.Hour()
		if !profile.defined[hour] || reading.PowerKW > profile.maxKW[hour] {
			profile.maxKW[hour] = reading.PowerKW
			profile.defined[hour] = true
		}
	}
	return profile, nil
}

// Max returns the maximum demand for an hour and whether that hour is defined.
func (p HourlyProfile) Max(hour int) (float64, bool) {
	if hour < 0 || hour >= HoursPerDay {
		return 0, false
	}
	return p.maxKW[hour], p.defined[hour]
}

// Hours lists the defined hours in ascending order.
func (p HourlyProfile) Hours() []int {
	hours := make([]int, 0, HoursPerDay)
	for hour := 0; hour < HoursPerDay; hour++ {
		if p.defined[hour] {
			hours = append(hours, hour)
		}
	}
	return hours
}

// Peak returns the highest defined hourly maximum.
func (p HourlyProfile) Peak() (float64, bool) {
	var peak float64
	found := false
	for hour := 0; hour < HoursPerDay; hour++ {
		if !p.defined[hour] {
			continue
		}
		if !found || p.maxKW[hour] > peak {
			peak = p.maxKW[hour]
		}
		found = true
	}
	return peak, found
}
