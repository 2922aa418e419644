package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
	appErrors "github.com/noah-isme/student-marks-report/pkg/errors"
)

type rosterLoader interface {
	LoadRoster(ctx context.Context) ([]models.StudentRecord, error)
}

type recordDeriver interface {
	Derive(records []models.StudentRecord) []models.DerivedRecord
}

type viewBuilder interface {
	Build(students []models.StudentRecord, records []models.DerivedRecord) models.ReportViews
}

type viewExporter interface {
	Export(ctx context.Context, runID string, views models.ReportViews) ([]models.ReportFile, error)
}

type reportPrinter interface {
	PrintViews(views models.ReportViews) error
	PrintCompletion(outputDir string, files []models.ReportFile) error
}

// Pipeline stage names used in logs and metrics.
const (
	StageLoad      = "load"
	StageDerive    = "derive"
	StageAggregate = "aggregate"
	StagePrint     = "print"
	StageExport    = "export"
)

// ReportServiceConfig carries run level settings.
type ReportServiceConfig struct {
	OutputDir       string
	MetricsTextfile string
}

// ReportService runs the whole pipeline once: load, derive, aggregate, print
// and export.
type ReportService struct {
	roster   rosterLoader
	grades   recordDeriver
	views    viewBuilder
	printer  reportPrinter
	exporter viewExporter
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ReportServiceConfig

	now   func() time.Time
	newID func() string
}

// NewReportService constructs the report service.
func NewReportService(roster rosterLoader, grades recordDeriver, views viewBuilder, printer reportPrinter, exporter viewExporter, metrics *MetricsService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		roster:   roster,
		grades:   grades,
		views:    views,
		printer:  printer,
		exporter: exporter,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Run executes a single report generation. Any failure aborts the run; files
// written before the failure are left in place.
func (s *ReportService) Run(ctx context.Context) (*models.ReportRun, error) {
	run := &models.ReportRun{
		ID:        s.newID(),
		OutputDir: s.cfg.OutputDir,
		StartedAt: s.now(),
	}
	logger := s.logger.With(zap.String("run_id", run.ID))
	logger.Info("report run started", zap.String("output_dir", run.OutputDir))

	err := s.execute(ctx, run, logger)
	run.FinishedAt = s.now()
	if err != nil {
		logger.Error("report run failed", zap.String("code", appErrors.FromError(err).Code), zap.Error(err))
	} else {
		s.metrics.MarkSuccess(run.FinishedAt)
		logger.Info("report run finished",
			zap.Int("records", len(run.Views.Records)),
			zap.Int("files", len(run.Files)),
			zap.Duration("duration", run.FinishedAt.Sub(run.StartedAt)),
		)
	}

	if werr := s.metrics.WriteTextfile(s.cfg.MetricsTextfile); werr != nil {
		logger.Warn("failed to write metrics textfile", zap.String("path", s.cfg.MetricsTextfile), zap.Error(werr))
	}
	return run, err
}

func (s *ReportService) execute(ctx context.Context, run *models.ReportRun, logger *zap.Logger) error {
	var (
		students []models.StudentRecord
		records  []models.DerivedRecord
	)

	if err := s.stage(logger, StageLoad, func() error {
		var err error
		students, err = s.roster.LoadRoster(ctx)
		return err
	}); err != nil {
		return err
	}

	_ = s.stage(logger, StageDerive, func() error {
		records = s.grades.Derive(students)
		s.metrics.AddRecords(len(records))
		return nil
	})

	_ = s.stage(logger, StageAggregate, func() error {
		run.Views = s.views.Build(students, records)
		s.metrics.SetGradeDistribution(run.Views.Grades)
		return nil
	})

	if err := s.stage(logger, StagePrint, func() error {
		if err := s.printer.PrintViews(run.Views); err != nil {
			return appErrors.WrapKind(err, appErrors.ErrRender, "failed to print report")
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.stage(logger, StageExport, func() error {
		files, err := s.exporter.Export(ctx, run.ID, run.Views)
		run.Files = files
		return err
	}); err != nil {
		return err
	}

	if err := s.printer.PrintCompletion(run.OutputDir, run.Files); err != nil {
		return appErrors.WrapKind(err, appErrors.ErrRender, "failed to print report")
	}
	return nil
}

func (s *ReportService) stage(logger *zap.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	s.metrics.ObserveStage(name, elapsed)
	logger.Debug("stage finished", zap.String("stage", name), zap.Duration("duration", elapsed), zap.Bool("ok", err == nil))
	return err
}
