package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/handler"
	"github.com/noah-isme/student-marks-report/internal/models"
	"github.com/noah-isme/student-marks-report/internal/repository"
	"github.com/noah-isme/student-marks-report/internal/service"
	"github.com/noah-isme/student-marks-report/pkg/config"
	"github.com/noah-isme/student-marks-report/pkg/database"
	appErrors "github.com/noah-isme/student-marks-report/pkg/errors"
	"github.com/noah-isme/student-marks-report/pkg/export"
	"github.com/noah-isme/student-marks-report/pkg/logger"
	"github.com/noah-isme/student-marks-report/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logr)
	stop()
	_ = logr.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	roster, closeRoster, err := newRoster(ctx, cfg, logr)
	if err != nil {
		logr.Error("failed to open roster source", zap.String("source", cfg.Roster.Source), zap.Error(err))
		return err
	}
	defer closeRoster()

	store, err := storage.NewLocalStorage(cfg.Output.Dir)
	if err != nil {
		wrapped := appErrors.WrapKind(err, appErrors.ErrStorage, "failed to prepare output directory")
		logr.Error("report run failed", zap.Error(wrapped))
		return wrapped
	}

	analyticsCfg := service.DefaultAnalyticsConfig()
	metrics := service.NewMetricsService()
	exporter := service.NewExportService(
		store,
		service.ExportConfig{Formats: reportFormats(cfg.Output)},
		metrics,
		logr,
		export.NewDelimitedExporter(cfg.Output.Delimiter),
		export.NewPDFExporter(),
		export.NewXLSXExporter(),
	)

	reports := service.NewReportService(
		service.NewStudentService(roster, validator.New(), logr),
		service.NewGradeService(service.DefaultGradePolicy(), logr),
		service.NewAnalyticsService(analyticsCfg, logr),
		handler.NewConsoleHandler(os.Stdout, export.NewTextTable(), analyticsCfg),
		exporter,
		metrics,
		logr,
		service.ReportServiceConfig{
			OutputDir:       store.BaseDir(),
			MetricsTextfile: cfg.Metrics.TextfilePath,
		},
	)

	_, err = reports.Run(ctx)
	return err
}

func newRoster(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.StudentRepository, func(), error) {
	if cfg.Roster.Source != config.RosterSourcePostgres {
		return repository.NewStaticStudentRepository(), func() {}, nil
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, appErrors.WrapKind(err, appErrors.ErrRoster, "failed to connect to roster database")
	}
	logr.Info("reading roster from postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	return repository.NewStudentRepository(db), func() { _ = db.Close() }, nil
}

func reportFormats(output config.OutputConfig) []models.ReportFormat {
	out := make([]models.ReportFormat, 0, 3)
	for _, f := range []models.ReportFormat{models.ReportFormatCSV, models.ReportFormatPDF, models.ReportFormatXLSX} {
		if output.HasFormat(string(f)) {
			out = append(out, f)
		}
	}
	return out
}
