package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/student-marks-report/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for a report run.
// A batch run has no scrape endpoint, so the registry is dumped in the
// node_exporter textfile format instead.
type MetricsService struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	records       prometheus.Counter
	filesWritten  *prometheus.CounterVec
	bytesWritten  *prometheus.CounterVec
	gradeCount    *prometheus.GaugeVec
	lastSuccess   prometheus.Gauge
}

// NewMetricsService registers the run collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marks_report_stage_duration_seconds",
		Help:    "Duration of each report pipeline stage in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marks_report_records_processed_total",
		Help: "Total number of student records derived",
	})

	filesWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marks_report_files_written_total",
		Help: "Total number of report files written",
	}, []string{"view", "format"})

	bytesWritten := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marks_report_bytes_written_total",
		Help: "Total bytes of report files written",
	}, []string{"view", "format"})

	gradeCount := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "marks_report_grade_students",
		Help: "Number of students per grade in the latest run",
	}, []string{"grade"})

	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "marks_report_last_success_timestamp_seconds",
		Help: "Unix time of the last successful report run",
	})

	registry.MustRegister(stageDuration, records, filesWritten, bytesWritten, gradeCount, lastSuccess)

	return &MetricsService{
		registry:      registry,
		stageDuration: stageDuration,
		records:       records,
		filesWritten:  filesWritten,
		bytesWritten:  bytesWritten,
		gradeCount:    gradeCount,
		lastSuccess:   lastSuccess,
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *MetricsService) ObserveStage(stage string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// AddRecords counts derived records.
func (m *MetricsService) AddRecords(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.records.Add(float64(n))
}

// RecordFile counts a written report file and its size.
func (m *MetricsService) RecordFile(file models.ReportFile) {
	if m == nil {
		return
	}
	m.filesWritten.WithLabelValues(string(file.View), string(file.Format)).Inc()
	m.bytesWritten.WithLabelValues(string(file.View), string(file.Format)).Add(float64(file.Size))
}

// SetGradeDistribution publishes the latest grade histogram.
func (m *MetricsService) SetGradeDistribution(grades []models.GradeCount) {
	if m == nil {
		return
	}
	m.gradeCount.Reset()
	for _, g := range grades {
		m.gradeCount.WithLabelValues(string(g.Grade)).Set(float64(g.Count))
	}
}

// MarkSuccess stamps the completion time of a successful run.
func (m *MetricsService) MarkSuccess(at time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry to path in the Prometheus text format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
