package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	analysis "chargefit/internal/analysis/domain"
)

// Defaults are site-independent parameter defaults, optionally overlaid from
// a YAML file. Requests may override any of them per call.
type Defaults struct {
	CapacityKW   float64   `yaml:"capacity_kw"`
	Level2KW     float64   `yaml:"level2_kw"`
	Level3KW     float64   `yaml:"level3_kw"`
	Strategy     string    `yaml:"strategy"`
	MixRatingsKW []float64 `yaml:"mix_ratings_kw"`
}

// LoadDefaults returns the built-in defaults overlaid with the YAML file at
// path, when given.
func LoadDefaults(path string) (Defaults, error) {
	cfg := Defaults{
		CapacityKW: 100,
		Level2KW:   7.2,
		Level3KW:   50,
		Strategy:   string(analysis.StrategyAuto),
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if cfg.CapacityKW < 0 {
		return cfg, fmt.Errorf("defaults: %w", analysis.ErrNegativeCapacity)
	}
	if cfg.Level2KW <= 0 || cfg.Level3KW <= 0 {
		return cfg, fmt.Errorf("defaults: %w", analysis.ErrInvalidChargerSize)
	}
	if !analysis.Strategy(cfg.Strategy).IsValid() {
		return cfg, fmt.Errorf("defaults: %w", analysis.ErrInvalidStrategy)
	}
	return cfg, nil
}

// Params expands the defaults into run parameters.
func (d Defaults) Params() Params {
	ratings := make([]float64, len(d.MixRatingsKW))
	copy(ratings, d.MixRatingsKW)
	return Params{
		CapacityKW:   d.CapacityKW,
		Level2KW:     d.Level2KW,
		Level3KW:     d.Level3KW,
		Strategy:     analysis.Strategy(d.Strategy),
		MixRatingsKW: ratings,
	}
}
