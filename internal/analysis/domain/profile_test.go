package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	ingest "chargefit/internal/ingest/domain"
)

func reading(day, hour int, kw float64) ingest.Reading {
	return ingest.Reading{
		Timestamp: time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC),
		PowerKW:   kw,
	}
}

func TestBuildProfileMaxAcrossDays(t *testing.T) {
	readings := []ingest.Reading{
		reading(1, 5, 3.0),
		reading(2, 5, 7.5),
		reading(3, 5, 2.0),
		reading(1, 9, 1.0),
	}
	profile, err := BuildProfile(readings)
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	max5, ok := profile.Max(5)
	if !ok {
		t.Fatalf("expected hour 5 to be defined")
	}
	if math.Abs(max5-7.5) > 1e-9 {
		t.Fatalf("expected max 7.5 at hour 5, got %v", max5)
	}
}

func TestBuildProfileMissingHoursStayUndefined(t *testing.T) {
	profile, err := BuildProfile([]ingest.Reading{reading(1, 5, 3.0)})
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	if _, ok := profile.Max(6); ok {
		t.Fatalf("expected hour 6 to be undefined, not zero")
	}
	hours := profile.Hours()
	if len(hours) != 1 || hours[0] != 5 {
		t.Fatalf("expected defined hours [5], got %v", hours)
	}
}

func TestBuildProfileEmptyInput(t *testing.T) {
	if _, err := BuildProfile(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestProfilePeak(t *testing.T) {
	profile, err := BuildProfile([]ingest.Reading{
		reading(1, 5, 3.0),
		reading(1, 18, 11.5),
	})
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	peak, ok := profile.Peak()
	if !ok || math.Abs(peak-11.5) > 1e-9 {
		t.Fatalf("expected peak 11.5, got %v (defined=%v)", peak, ok)
	}
}

func TestProfileNegativePowerStillAggregates(t *testing.T) {
	// Net-metered sites can report negative demand; the maximum is still a
	// maximum, not a magnitude.
	profile, err := BuildProfile([]ingest.Reading{
		reading(1, 5, -3.0),
		reading(2, 5, -1.0),
	})
	if err != nil {
		t.Fatalf("build profile: %v", err)
	}
	max5, _ := profile.Max(5)
	if math.Abs(max5-(-1.0)) > 1e-9 {
		t.Fatalf("expected -1.0, got %v", max5)
	}
}
