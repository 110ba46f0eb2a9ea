package pipeline

import (
	"log"

	analysis "chargefit/internal/analysis/domain"
	ingest "chargefit/internal/ingest/domain"
)

// Params is the full configuration for one pipeline run. It is passed by
// value into every invocation; runs share no mutable state, so results are a
// pure function of the input table and these parameters.
type Params struct {
	CapacityKW   float64
	Level2KW     float64
	Level3KW     float64
	Strategy     analysis.Strategy
	FixedCount   int
	Chargers     []analysis.ChargerSpec
	MixRatingsKW []float64
}

// File pairs a decoded table with the name it was uploaded under.
type File struct {
	Name  string
	Table ingest.RawTable
}

// FileResult is the outcome for a single file. A failure fills Err and
// leaves the derived fields empty; the rest of the batch continues.
type FileResult struct {
	Name        string
	Shape       ingest.Shape
	Readings    int
	Warnings    []ingest.Warning
	Profile     analysis.HourlyProfile
	Evaluations []analysis.HourEvaluation
	Mix         *analysis.MixResult
	Err         error
}

// Runner executes the classify-normalize-aggregate-evaluate pipeline.
type Runner struct {
	logger *log.Logger
}

// NewRunner constructs a Runner.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run processes one table: classify its shape, normalize it into readings,
// aggregate the hour-of-day maximum profile, evaluate capacity, and, when
// mix ratings are configured, fit the greedy charger mix. The steps are
// strictly sequential; each consumes the full output of the previous one.
func (r *Runner) Run(name string, table ingest.RawTable, params Params) FileResult {
	result := FileResult{Name: name}

	readings, shape, warnings, err := ingest.Normalize(table)
	result.Shape = shape
	result.Warnings = warnings
	if err != nil {
		result.Err = err
		return result
	}
	result.Readings = len(readings)

	profile, err := analysis.BuildProfile(readings)
	if err != nil {
		result.Err = err
		return result
	}
	result.Profile = profile

	evaluations, err := analysis.Evaluate(profile, analysis.EvalParams{
		CapacityKW: params.CapacityKW,
		Level2KW:   params.Level2KW,
		Level3KW:   params.Level3KW,
		Strategy:   params.Strategy,
		FixedCount: params.FixedCount,
		Chargers:   params.Chargers,
	})
	if err != nil {
		result.Err = err
		return result
	}
	result.Evaluations = evaluations

	if len(params.MixRatingsKW) > 0 {
		mix, err := analysis.OptimizeMix(evaluations, params.MixRatingsKW)
		if err != nil {
			result.Err = err
			return result
		}
		result.Mix = &mix
	}
	return result
}

// RunBatch processes files strictly sequentially and independently. A
// failure on one file never aborts the rest of the batch.
func (r *Runner) RunBatch(files []File, params Params) []FileResult {
	results := make([]FileResult, 0, len(files))
	for _, file := range files {
		result := r.Run(file.Name, file.Table, params)
		if result.Err != nil && r.logger != nil {
			r.logger.Printf("file %s: %v", file.Name, result.Err)
		}
		results = append(results, result)
	}
	return results
}
