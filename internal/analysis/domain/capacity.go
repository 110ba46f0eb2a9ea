package analysis

import "math"

// Strategy selects how fixed-size charger counts are allocated against the
// hourly excess. The strategies are mutually exclusive.
type Strategy string

const (
	// StrategyAuto divides the full excess by each charger size
	// independently. The two counts are not jointly constrained: each
	// answers "how many of this size alone would fit", so a caller cannot
	// assume both quantities deploy simultaneously.
	StrategyAuto Strategy = "auto"
	// StrategyFixedL3 deploys a caller-supplied number of level 3 chargers
	// first and fills the remaining excess with level 2 units.
	StrategyFixedL3 Strategy = "fixed_l3"
	// StrategyFixedL2 deploys a caller-supplied number of level 2 chargers
	// first and fills the remaining excess with level 3 units.
	StrategyFixedL2 Strategy = "fixed_l2"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAuto, StrategyFixedL3, StrategyFixedL2:
		return true
	default:
		return false
	}
}

// ChargerSpec is one candidate charger model in a custom load test.
// Entries with Quantity zero are discarded before allocation.
type ChargerSpec struct {
	PowerKW  float64 `json:"power_kw"`
	Quantity int     `json:"quantity"`
}

// EvalParams configures a capacity evaluation. It is passed by value into
// each run; there is no ambient or global configuration.
type EvalParams struct {
	CapacityKW float64
	Level2KW   float64
	Level3KW   float64
	Strategy   Strategy
	// FixedCount is the pre-committed charger count for the fixed
	// strategies: level 3 units under StrategyFixedL3, level 2 units under
	// StrategyFixedL2. Ignored under StrategyAuto.
	FixedCount int
	// Chargers is an optional custom load added on top of the observed
	// demand before the post-load overload check.
	Chargers []ChargerSpec
}

func (p EvalParams) validate() error {
	if p.CapacityKW < 0 {
		return ErrNegativeCapacity
	}
	if p.Level2KW <= 0 || p.Level3KW <= 0 {
		return ErrInvalidChargerSize
	}
	if !p.Strategy.IsValid() {
		return ErrInvalidStrategy
	}
	if p.FixedCount < 0 {
		return ErrNegativeFixedCount
	}
	for _, spec := range p.Chargers {
		if spec.Quantity < 0 {
			return ErrInvalidChargerSpec
		}
		if spec.Quantity > 0 && spec.PowerKW <= 0 {
			return ErrInvalidChargerSpec
		}
	}
	return nil
}

// HourEvaluation is one row of the capacity evaluation record set.
type HourEvaluation struct {
	Hour            int     `json:"hour"`
	MaxPowerKW      float64 `json:"max_power_kw"`
	CapacityKW      float64 `json:"capacity_kw"`
	ExcessKW        float64 `json:"excess_power_kw"`
	Level2Count     int     `json:"level2_count"`
	Level3Count     int     `json:"level3_count"`
	CustomLoadKW    float64 `json:"custom_load_kw"`
	TotalLoadKW     float64 `json:"total_load_kw"`
	ExceedsCapacity bool    `json:"exceeds_capacity"`
}

// TotalChargerLoad sums the custom charger load, discarding zero-quantity
// entries.
func TotalChargerLoad(specs []ChargerSpec) float64 {
	var total float64
	for _, spec := range specs {
		if spec.Quantity == 0 {
			continue
		}
		total += spec.PowerKW * float64(spec.Quantity)
	}
	return total
}

// Evaluate combines an hourly profile with a declared supply capacity into
// per-hour excess headroom and charger counts under the selected strategy.
// Undefined hours are omitted from the record set; they stay data gaps.
// An hour with negative excess keeps all counts at zero and raises the
// overload flag.
func Evaluate(profile HourlyProfile, params EvalParams) ([]HourEvaluation, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	customLoad := TotalChargerLoad(params.Chargers)
	evaluations := make([]HourEvaluation, 0, HoursPerDay)
	for _, hour := range profile.Hours() {
		maxKW, _ := profile.Max(hour)
		excess := params.CapacityKW - maxKW
		row := HourEvaluation{
			Hour:         hour,
			MaxPowerKW:   maxKW,
			CapacityKW:   params.CapacityKW,
			ExcessKW:     excess,
			CustomLoadKW: customLoad,
			TotalLoadKW:  maxKW + customLoad,
		}
		row.ExceedsCapacity = excess < 0 || row.TotalLoadKW > params.CapacityKW
		if excess >= 0 {
			row.Level2Count, row.Level3Count = allocate(excess, params)
		}
		evaluations = append(evaluations, row)
	}
	return evaluations, nil
}

func allocate(excess float64, params EvalParams) (level2, level3 int) {
	switch params.Strategy {
	case StrategyFixedL3:
		level3 = params.FixedCount
		remaining := excess - float64(level3)*params.Level3KW
		if remaining < 0 {
			remaining = 0
		}
		level2 = floorDiv(remaining, params.Level2KW)
	case StrategyFixedL2:
		level2 = params.FixedCount
		remaining := excess - float64(level2)*params.Level2KW
		if remaining < 0 {
			remaining = 0
		}
		level3 = floorDiv(remaining, params.Level3KW)
	default:
		// Auto: each count is computed against the full excess on its own.
		level2 = floorDiv(excess, params.Level2KW)
		level3 = floorDiv(excess, params.Level3KW)
	}
	return level2, level3
}

func floorDiv(amount, size float64) int {
	return int(math.Floor(amount / size))
}
