package models

import "time"

// ReportView names a view that is serialised to disk.
type ReportView string

const (
	ReportViewComplete          ReportView = "complete_report"
	ReportViewClassAnalysis     ReportView = "class_analysis"
	ReportViewGradeDistribution ReportView = "grade_distribution"
)

// ExportedViews lists the serialised views in write order.
var ExportedViews = []ReportView{ReportViewComplete, ReportViewClassAnalysis, ReportViewGradeDistribution}

// Title is the human label used in console output and document titles.
func (v ReportView) Title() string {
	switch v {
	case ReportViewComplete:
		return "Complete report"
	case ReportViewClassAnalysis:
		return "Class analysis"
	case ReportViewGradeDistribution:
		return "Grade distribution"
	default:
		return string(v)
	}
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// ReportFile describes one file written by a run.
type ReportFile struct {
	View         ReportView   `json:"view"`
	Format       ReportFormat `json:"format"`
	RelativePath string       `json:"relative_path"`
	Size         int          `json:"size"`
}

// ReportRun captures the outcome of a single report generation.
type ReportRun struct {
	ID         string       `json:"id"`
	OutputDir  string       `json:"output_dir"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Views      ReportViews  `json:"-"`
	Files      []ReportFile `json:"files"`
}
