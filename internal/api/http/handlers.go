package apihttp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	analysis "chargefit/internal/analysis/domain"
	"chargefit/internal/history"
	"chargefit/internal/ingest/decode"
	ingest "chargefit/internal/ingest/domain"
	"chargefit/internal/observability/metrics"
	"chargefit/internal/pipeline"
	"chargefit/internal/report"
)

const defaultMaxUploadBytes = 16 << 20

// AnalyzeHandler serves POST /api/v1/analyses: multipart upload of one or
// more load-profile files plus evaluation parameters.
type AnalyzeHandler struct {
	runner         *pipeline.Runner
	runs           *history.Repository
	defaults       pipeline.Defaults
	maxUploadBytes int64
	logger         *log.Logger
}

// NewAnalyzeHandler constructs an AnalyzeHandler.
func NewAnalyzeHandler(runner *pipeline.Runner, runs *history.Repository, defaults pipeline.Defaults, maxUploadBytes int64, logger *log.Logger) *AnalyzeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &AnalyzeHandler{
		runner:         runner,
		runs:           runs,
		defaults:       defaults,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type fileReport struct {
	Name        string                    `json:"name"`
	Shape       string                    `json:"shape,omitempty"`
	Readings    int                       `json:"readings"`
	Error       string                    `json:"error,omitempty"`
	Warnings    []ingest.Warning          `json:"warnings,omitempty"`
	Evaluation  []analysis.HourEvaluation `json:"evaluation,omitempty"`
	Mix         *analysis.MixResult       `json:"mix,omitempty"`
	Overloaded  bool                      `json:"overloaded"`
	MixEstimate string                    `json:"mix_note,omitempty"`
}

type analyzeResponse struct {
	Files []fileReport `json:"files"`
}

// ServeHTTP runs the pipeline over each uploaded file, isolating failures
// per file, and returns the record sets as JSON or, with format=csv|xlsx|pdf
// and a single file, as a download.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.runner == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		http.Error(w, "multipart form required", http.StatusBadRequest)
		return
	}

	params, err := h.parseParams(r)
	if err != nil {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		http.Error(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var files []pipeline.File
	var decodeFailures []fileReport
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			decodeFailures = append(decodeFailures, fileReport{Name: header.Filename, Error: err.Error()})
			continue
		}
		table, err := decode.Table(header.Filename, part)
		_ = part.Close()
		if err != nil {
			decodeFailures = append(decodeFailures, fileReport{Name: header.Filename, Error: err.Error()})
			continue
		}
		files = append(files, pipeline.File{Name: header.Filename, Table: table})
	}
	if h.logger != nil {
		for _, failure := range decodeFailures {
			h.logger.Printf("file %s: %s", failure.Name, failure.Error)
		}
	}

	results := h.runner.RunBatch(files, params)
	response := analyzeResponse{Files: make([]fileReport, 0, len(results)+len(decodeFailures))}
	for _, result := range results {
		response.Files = append(response.Files, h.report(r, result, params))
	}
	response.Files = append(response.Files, decodeFailures...)

	if format := r.FormValue("format"); format != "" && format != "json" {
		h.export(w, format, results, decodeFailures, start)
		return
	}

	metrics.ObserveAnalyze(metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// report converts one pipeline result into its JSON form and records the
// run summary and metrics.
func (h *AnalyzeHandler) report(r *http.Request, result pipeline.FileResult, params pipeline.Params) fileReport {
	entry := fileReport{
		Name:       result.Name,
		Shape:      string(result.Shape),
		Readings:   result.Readings,
		Warnings:   result.Warnings,
		Evaluation: result.Evaluations,
		Mix:        result.Mix,
	}
	for _, row := range result.Evaluations {
		if row.ExceedsCapacity {
			entry.Overloaded = true
		}
	}
	if result.Mix != nil {
		entry.MixEstimate = "greedy largest-first estimate, not an optimal packing"
	}

	run := history.Run{
		FileName:   result.Name,
		Shape:      string(result.Shape),
		Readings:   result.Readings,
		CapacityKW: params.CapacityKW,
		Strategy:   string(params.Strategy),
		Overloaded: entry.Overloaded,
		Warnings:   len(result.Warnings),
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
		run.Error = entry.Error
		metrics.ObserveFile(string(result.Shape), metrics.ResultError)
		if ingest.IsStructural(result.Err) {
			metrics.ObserveStructuralError(result.Err.Error())
		}
	} else {
		run.HoursDefined = len(result.Profile.Hours())
		if peak, ok := result.Profile.Peak(); ok {
			run.PeakKW = peak
		}
		metrics.ObserveFile(string(result.Shape), metrics.ResultSuccess)
		metrics.ObserveReadings(result.Readings)
	}
	if err := h.runs.Record(r.Context(), run); err != nil && h.logger != nil {
		h.logger.Printf("run history error: %v", err)
	}
	return entry
}

// export writes a single file's evaluation in the requested download format.
func (h *AnalyzeHandler) export(w http.ResponseWriter, format string, results []pipeline.FileResult, decodeFailures []fileReport, start time.Time) {
	var ok []pipeline.FileResult
	for _, result := range results {
		if result.Err == nil {
			ok = append(ok, result)
		}
	}
	if len(ok) != 1 {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		msg := "export requires exactly one successfully analyzed file"
		for _, result := range results {
			if result.Err != nil {
				msg += "; " + result.Name + ": " + result.Err.Error()
			}
		}
		for _, failure := range decodeFailures {
			msg += "; " + failure.Name + ": " + failure.Error
		}
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	result := ok[0]

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Name+"_analysis.csv\"")
		_, _ = w.Write(report.EvaluationCSV(result.Evaluations))
	case "xlsx":
		data, err := report.BuildWorkbook(result.Name, result.Evaluations, result.Mix)
		if err != nil {
			metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Name+"_analysis.xlsx\"")
		_, _ = w.Write(data)
	case "pdf":
		data, err := report.BuildFeasibilityPDF(result.Name, result.Evaluations)
		if err != nil {
			metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Name+"_analysis.pdf\"")
		_, _ = w.Write(data)
	default:
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		http.Error(w, "unknown format: "+format, http.StatusBadRequest)
		return
	}
	metrics.ObserveAnalyze(metrics.ResultSuccess, time.Since(start))
}

// parseParams merges request form values over the configured defaults.
func (h *AnalyzeHandler) parseParams(r *http.Request) (pipeline.Params, error) {
	params := h.defaults.Params()

	var err error
	if params.CapacityKW, err = floatField(r, "capacity_kw", params.CapacityKW); err != nil {
		return params, err
	}
	if params.Level2KW, err = floatField(r, "level2_kw", params.Level2KW); err != nil {
		return params, err
	}
	if params.Level3KW, err = floatField(r, "level3_kw", params.Level3KW); err != nil {
		return params, err
	}
	if raw := r.FormValue("strategy"); raw != "" {
		strategy := analysis.Strategy(raw)
		if !strategy.IsValid() {
			return params, errors.New("strategy must be auto, fixed_l3 or fixed_l2")
		}
		params.Strategy = strategy
	}
	if raw := r.FormValue("fixed_count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return params, errors.New("fixed_count must be a non-negative integer")
		}
		params.FixedCount = count
	}
	if raw := r.FormValue("mix_kw"); raw != "" {
		ratings, err := parseFloatList(raw)
		if err != nil {
			return params, errors.New("mix_kw must be a comma-separated list of kW ratings")
		}
		params.MixRatingsKW = ratings
	}
	if raw := r.FormValue("chargers"); raw != "" {
		specs, err := parseChargerSpecs(raw)
		if err != nil {
			return params, err
		}
		params.Chargers = specs
	}
	return params, nil
}

func floatField(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(key + " must be numeric")
	}
	return value, nil
}

func parseFloatList(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// parseChargerSpecs reads entries like "7.2x4,50x2" (power kW x quantity).
func parseChargerSpecs(raw string) ([]analysis.ChargerSpec, error) {
	parts := strings.Split(raw, ",")
	specs := make([]analysis.ChargerSpec, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, "x", 2)
		if len(fields) != 2 {
			return nil, errors.New("chargers entries must look like <power_kw>x<quantity>")
		}
		power, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, errors.New("chargers entries must look like <power_kw>x<quantity>")
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, errors.New("chargers entries must look like <power_kw>x<quantity>")
		}
		specs = append(specs, analysis.ChargerSpec{PowerKW: power, Quantity: quantity})
	}
	return specs, nil
}

// RunsHandler serves GET /api/v1/runs: recent analysis run summaries.
type RunsHandler struct {
	runs *history.Repository
}

// NewRunsHandler constructs a RunsHandler.
func NewRunsHandler(runs *history.Repository) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// ServeHTTP handles GET /api/v1/runs.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.runs == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	runs, err := h.runs.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "query runs error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(runs)
}
