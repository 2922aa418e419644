package service

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
	appErrors "github.com/noah-isme/student-marks-report/pkg/errors"
	"github.com/noah-isme/student-marks-report/pkg/export"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	ResetDir(dir string) error
	MarkSuccess(dir string) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	Extension() string
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Formats []models.ReportFormat
}

// ExportService serialises the exported views and persists them.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// package defaults.
func NewExportService(storage fileStorage, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = []models.ReportFormat{models.ReportFormatCSV}
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		xlsx:    xlsx,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// Export writes every exported view in every configured format and returns
// the files in write order.
func (s *ExportService) Export(ctx context.Context, runID string, views models.ReportViews) ([]models.ReportFile, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "run id required")
	}
	files := make([]models.ReportFile, 0, len(models.ExportedViews)*len(s.cfg.Formats))
	for _, view := range models.ExportedViews {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		dataset, _ := ExportTable(view, views)
		for _, format := range s.cfg.Formats {
			file, err := s.write(view, format, runID, dataset)
			if err != nil {
				return files, err
			}
			s.metrics.RecordFile(file)
			s.logger.Info("report view saved",
				zap.String("view", string(view)),
				zap.String("format", string(format)),
				zap.String("path", file.RelativePath),
				zap.Int("rows", len(dataset.Rows)),
			)
			files = append(files, file)
		}
	}
	return files, nil
}

func (s *ExportService) write(view models.ReportView, format models.ReportFormat, runID string, dataset export.Dataset) (models.ReportFile, error) {
	var (
		payload  []byte
		filename string
		err      error
	)
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
		filename = path.Join(string(view), PartFileName(runID, s.csv.Extension()))
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, view.Title())
		filename = path.Join(string(format), string(view)+".pdf")
	case models.ReportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, string(view))
		filename = path.Join(string(format), string(view)+".xlsx")
	default:
		return models.ReportFile{}, appErrors.Clone(appErrors.ErrRender, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		return models.ReportFile{}, appErrors.WrapKind(err, appErrors.ErrRender, fmt.Sprintf("render %s as %s", view, format))
	}

	if format == models.ReportFormatCSV {
		// The view directory holds exactly one part file per run.
		if err := s.storage.ResetDir(string(view)); err != nil {
			return models.ReportFile{}, appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("reset %s", view))
		}
	}
	rel, err := s.storage.Save(filename, payload)
	if err != nil {
		return models.ReportFile{}, appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("save %s", filename))
	}
	if format == models.ReportFormatCSV {
		if err := s.storage.MarkSuccess(string(view)); err != nil {
			return models.ReportFile{}, appErrors.WrapKind(err, appErrors.ErrStorage, fmt.Sprintf("mark %s complete", view))
		}
	}
	return models.ReportFile{View: view, Format: format, RelativePath: rel, Size: len(payload)}, nil
}

// PartFileName names the single data file inside a view directory.
func PartFileName(runID, ext string) string {
	return fmt.Sprintf("part-00000-%s-c000.%s", runID, ext)
}
