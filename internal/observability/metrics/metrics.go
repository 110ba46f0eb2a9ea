package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "chargefit_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	analyzeRequests *prometheus.CounterVec
	analyzeLatency  *prometheus.HistogramVec

	filesProcessed   *prometheus.CounterVec
	structuralErrors *prometheus.CounterVec
	readingsPerFile  prometheus.Histogram
)

// Init registers service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		analyzeRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analyze_requests_total",
				Help: "Total analyze requests by result",
			},
			[]string{"result"},
		)
		analyzeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "analyze_latency_seconds",
				Help:    "Analyze request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		filesProcessed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "files_processed_total",
				Help: "Files processed by detected shape and result",
			},
			[]string{"shape", "result"},
		)
		structuralErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "structural_errors_total",
				Help: "Files rejected for missing columns or time axis",
			},
			[]string{"reason"},
		)
		readingsPerFile = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "readings_per_file",
				Help:    "Valid readings extracted per file",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		)

		prometheus.MustRegister(
			analyzeRequests,
			analyzeLatency,
			filesProcessed,
			structuralErrors,
			readingsPerFile,
		)
	})
}

// ObserveAnalyze records one analyze request.
func ObserveAnalyze(result string, elapsed time.Duration) {
	if analyzeRequests == nil {
		return
	}
	analyzeRequests.WithLabelValues(result).Inc()
	analyzeLatency.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ObserveFile records one processed file.
func ObserveFile(shape, result string) {
	if filesProcessed == nil {
		return
	}
	filesProcessed.WithLabelValues(shape, result).Inc()
}

// ObserveStructuralError records a structural rejection by reason.
func ObserveStructuralError(reason string) {
	if structuralErrors == nil {
		return
	}
	structuralErrors.WithLabelValues(reason).Inc()
}

// ObserveReadings records how many valid readings a file produced.
func ObserveReadings(count int) {
	if readingsPerFile == nil {
		return
	}
	readingsPerFile.Observe(float64(count))
}
