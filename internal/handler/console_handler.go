package handler

import (
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/student-marks-report/internal/models"
	"github.com/noah-isme/student-marks-report/internal/service"
	"github.com/noah-isme/student-marks-report/pkg/export"
)

const ruleWidth = 60

// ConsoleHandler prints the report sections as text tables.
type ConsoleHandler struct {
	out   io.Writer
	table *export.TextTable
	cfg   service.AnalyticsConfig
	err   error
}

// NewConsoleHandler constructs a handler writing to out. The analytics config
// only feeds the section titles.
func NewConsoleHandler(out io.Writer, table *export.TextTable, cfg service.AnalyticsConfig) *ConsoleHandler {
	if table == nil {
		table = export.NewTextTable()
	}
	defaults := service.DefaultAnalyticsConfig()
	if cfg.TopN <= 0 {
		cfg.TopN = defaults.TopN
	}
	if cfg.ImprovementBelow <= 0 {
		cfg.ImprovementBelow = defaults.ImprovementBelow
	}
	if cfg.SubjectFailBelow <= 0 {
		cfg.SubjectFailBelow = defaults.SubjectFailBelow
	}
	return &ConsoleHandler{out: out, table: table, cfg: cfg}
}

// PrintViews writes the banner and sections 1 to 11.
func (h *ConsoleHandler) PrintViews(views models.ReportViews) error {
	h.err = nil
	h.banner("STUDENT MARKS ANALYSIS")

	h.section(1, "ORIGINAL STUDENT DATA")
	h.render(service.StudentsTable(views.Students))

	h.section(2, "STUDENT MARKS WITH TOTAL, PERCENTAGE & GRADE")
	h.render(service.DerivedSummaryTable(views.Records))

	h.section(3, "OVERALL STATISTICS")
	h.render(service.OverallTable(views.Overall))

	h.section(4, "SUBJECT-WISE HIGHEST & LOWEST MARKS")
	h.render(service.ExtremesTable(views.Extremes))

	h.section(5, "CLASS-WISE PERFORMANCE ANALYSIS")
	h.render(service.ClassAnalysisTable(views.Classes))

	h.section(6, "GRADE DISTRIBUTION")
	h.render(service.GradeDistributionTable(views.Grades))

	h.section(7, "PASS/FAIL ANALYSIS")
	h.render(service.PassFailTable(views.Statuses))

	h.section(8, fmt.Sprintf("TOP %d STUDENTS", h.cfg.TopN))
	h.render(service.RankingTable(views.TopStudents))

	h.section(9, fmt.Sprintf("STUDENTS NEEDING IMPROVEMENT (Below %g%%)", h.cfg.ImprovementBelow))
	h.render(service.RankingTable(views.NeedsImprovement))

	h.section(10, "SUBJECT-WISE TOPPERS")
	for _, topper := range views.Toppers {
		h.printf("%s Topper:\n", topper.Subject.Label())
		h.render(service.TopperTable(topper))
	}

	h.section(11, fmt.Sprintf("STUDENTS WHO FAILED IN ANY SUBJECT (Marks < %d)", h.cfg.SubjectFailBelow))
	if len(views.FailedAnySubject) > 0 {
		h.render(service.SubjectScoresTable(views.FailedAnySubject))
	} else {
		h.printf("No students failed in any subject!\n")
	}
	return h.err
}

// PrintCompletion writes section 12 with the saved locations and the closing
// banner.
func (h *ConsoleHandler) PrintCompletion(outputDir string, files []models.ReportFile) error {
	h.err = nil
	h.section(12, "SAVING RESULTS")
	for _, f := range files {
		if f.Format == models.ReportFormatCSV {
			h.printf("✓ %s saved to: %s/%s\n", f.View.Title(), outputDir, f.View)
			continue
		}
		h.printf("✓ %s (%s) saved to: %s/%s\n", f.View.Title(), f.Format, outputDir, f.RelativePath)
	}
	h.printf("\n")
	h.banner("ANALYSIS COMPLETED SUCCESSFULLY!")
	return h.err
}

func (h *ConsoleHandler) banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	h.printf("%s\n%s\n%s\n", rule, title, rule)
}

func (h *ConsoleHandler) section(n int, title string) {
	h.printf("\n%d. %s\n%s\n", n, title, strings.Repeat("-", ruleWidth))
}

func (h *ConsoleHandler) render(data export.Dataset) {
	if h.err != nil {
		return
	}
	h.err = h.table.Render(h.out, data)
}

func (h *ConsoleHandler) printf(format string, args ...interface{}) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.out, format, args...)
}
