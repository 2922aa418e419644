package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/student-marks-report/internal/models"
	"github.com/noah-isme/student-marks-report/internal/repository"
	appErrors "github.com/noah-isme/student-marks-report/pkg/errors"
)

type printerStub struct {
	views     *models.ReportViews
	files     []models.ReportFile
	outputDir string
	err       error
}

func (p *printerStub) PrintViews(views models.ReportViews) error {
	p.views = &views
	return p.err
}

func (p *printerStub) PrintCompletion(outputDir string, files []models.ReportFile) error {
	p.outputDir = outputDir
	p.files = files
	return nil
}

type exporterStub struct {
	calls int
	err   error
}

func (e *exporterStub) Export(ctx context.Context, runID string, views models.ReportViews) ([]models.ReportFile, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []models.ReportFile{{View: models.ReportViewComplete, Format: models.ReportFormatCSV, RelativePath: "complete_report/part-00000-" + runID + "-c000.csv"}}, nil
}

func newReportServiceForTest(repo StudentRepository, printer reportPrinter, exporter viewExporter, metrics *MetricsService, cfg ReportServiceConfig) *ReportService {
	svc := NewReportService(
		NewStudentService(repo, nil, zap.NewNop()),
		newGradeServiceForTest(),
		NewAnalyticsService(DefaultAnalyticsConfig(), zap.NewNop()),
		printer,
		exporter,
		metrics,
		zap.NewNop(),
		cfg,
	)
	svc.newID = func() string { return "run-42" }
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportServiceRun(t *testing.T) {
	printer := &printerStub{}
	exporter := &exporterStub{}
	metrics := NewMetricsService()
	textfile := filepath.Join(t.TempDir(), "run.prom")
	svc := newReportServiceForTest(repository.NewStaticStudentRepository(), printer, exporter, metrics, ReportServiceConfig{
		OutputDir:       "student_analysis_output",
		MetricsTextfile: textfile,
	})

	run, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-42", run.ID)
	assert.Len(t, run.Views.Records, 15)
	assert.Len(t, run.Views.TopStudents, 5)
	require.NotNil(t, printer.views)
	assert.Equal(t, run.Views.Classes, printer.views.Classes)
	assert.Equal(t, "student_analysis_output", printer.outputDir)
	assert.Equal(t, "complete_report/part-00000-run-42-c000.csv", printer.files[0].RelativePath)
	assert.Equal(t, 1, exporter.calls)

	assert.Equal(t, 15.0, testutil.ToFloat64(metrics.records))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.gradeCount.WithLabelValues("A+")))
	assert.Equal(t, float64(run.FinishedAt.Unix()), testutil.ToFloat64(metrics.lastSuccess))
	_, err = os.Stat(textfile)
	assert.NoError(t, err)
}

func TestReportServiceRosterFailureStopsRun(t *testing.T) {
	printer := &printerStub{}
	exporter := &exporterStub{}
	svc := newReportServiceForTest(studentRepoStub{err: errors.New("db down")}, printer, exporter, nil, ReportServiceConfig{})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrRoster))
	assert.Nil(t, printer.views)
	assert.Zero(t, exporter.calls)
}

func TestReportServiceExportFailure(t *testing.T) {
	printer := &printerStub{}
	exporter := &exporterStub{err: appErrors.Clone(appErrors.ErrStorage, "permission denied")}
	metrics := NewMetricsService()
	svc := newReportServiceForTest(repository.NewStaticStudentRepository(), printer, exporter, metrics, ReportServiceConfig{})

	run, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStorage))
	assert.NotNil(t, printer.views)
	assert.Empty(t, printer.outputDir)
	assert.Empty(t, run.Files)
	assert.Zero(t, testutil.ToFloat64(metrics.lastSuccess))
}

func TestReportServicePrintFailure(t *testing.T) {
	printer := &printerStub{err: errors.New("broken pipe")}
	exporter := &exporterStub{}
	svc := newReportServiceForTest(repository.NewStaticStudentRepository(), printer, exporter, nil, ReportServiceConfig{})

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrRender))
	assert.Zero(t, exporter.calls)
}

func TestReportServiceShortRoster(t *testing.T) {
	roster := repository.NewStaticStudentRepositoryFrom([]models.StudentRecord{
		student(1, "10A", 90, 90, 90, 90, 90),
		student(2, "10B", 60, 60, 60, 60, 60),
		student(3, "10A", 75, 75, 75, 75, 75),
	})
	printer := &printerStub{}
	svc := newReportServiceForTest(roster, printer, &exporterStub{}, nil, ReportServiceConfig{})

	run, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, run.Views.TopStudents, 3)
	assert.Equal(t, 1, run.Views.TopStudents[0].StudentID)
	assert.Len(t, run.Views.NeedsImprovement, 1)
}

func TestReportServiceLogsErrorCode(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	exporter := &exporterStub{err: errors.New("disk full")}
	svc := newReportServiceForTest(repository.NewStaticStudentRepository(), &printerStub{}, exporter, nil, ReportServiceConfig{})
	svc.logger = zap.New(core)

	_, err := svc.Run(context.Background())
	require.Error(t, err)

	failed := logs.FilterMessage("report run failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "INTERNAL_ERROR", failed[0].ContextMap()["code"])
	assert.Equal(t, "run-42", failed[0].ContextMap()["run_id"])
}
