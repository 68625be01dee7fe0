package batch

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus metrics for batch processing.
type Metrics struct {
	FilesParsedTotal  prometheus.Counter
	FilesFailedTotal  prometheus.Counter
	RecordErrorsTotal prometheus.Counter
	RowsMergedTotal   prometheus.Counter
	ParseDuration     prometheus.Histogram
}

// NewMetrics creates and registers the batch metrics.
//
// Registration happens once per process, guarded by sync.Once, so every
// Processor shares the same collectors and repeated construction cannot
// panic with a duplicate registration.
//
// Metrics:
//   - ags_batch_files_parsed_total - files parsed successfully
//   - ags_batch_files_failed_total - files rejected by a structural error
//   - ags_batch_record_errors_total - record-level defects tolerated
//   - ags_batch_rows_merged_total - data rows written into merged tables
//   - ags_batch_parse_duration_seconds - per-file parse latency
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			FilesParsedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ags_batch_files_parsed_total",
				Help: "Total number of exchange files parsed successfully",
			}),
			FilesFailedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ags_batch_files_failed_total",
				Help: "Total number of exchange files rejected by a structural error",
			}),
			RecordErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ags_batch_record_errors_total",
				Help: "Total number of record-level defects tolerated while parsing",
			}),
			RowsMergedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "ags_batch_rows_merged_total",
				Help: "Total number of data rows written into merged tables",
			}),
			ParseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "ags_batch_parse_duration_seconds",
				Help:    "Per-file parse latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			}),
		}
	})
	return globalMetrics
}

// RecordFileParsed counts one successfully parsed file.
func (m *Metrics) RecordFileParsed() {
	m.FilesParsedTotal.Inc()
}

// RecordFileFailed counts one file rejected by a structural error.
func (m *Metrics) RecordFileFailed() {
	m.FilesFailedTotal.Inc()
}

// RecordRecordErrors counts tolerated record-level defects.
func (m *Metrics) RecordRecordErrors(n int) {
	if n > 0 {
		m.RecordErrorsTotal.Add(float64(n))
	}
}

// RecordRowsMerged counts rows written into merged tables.
func (m *Metrics) RecordRowsMerged(n int) {
	if n > 0 {
		m.RowsMergedTotal.Add(float64(n))
	}
}

// ObserveParse records one file's parse latency.
func (m *Metrics) ObserveParse(seconds float64) {
	m.ParseDuration.Observe(seconds)
}
