package service

import (
	"github.com/noah-isme/student-marks-report/internal/models"
	"github.com/noah-isme/student-marks-report/pkg/export"
)

var (
	studentHeaders  = []string{"student_id", "name", "class", "math", "science", "english", "social", "computer"}
	derivedHeaders  = []string{"total_marks", "percentage", "grade", "status"}
	summaryHeaders  = []string{"student_id", "name", "class", "total_marks", "percentage", "grade", "status"}
	rankingHeaders  = []string{"student_id", "name", "class", "percentage", "grade"}
	classHeaders    = []string{"class", "Total_Students", "Avg_Percentage", "Highest_Percentage", "Lowest_Percentage"}
	gradeHeaders    = []string{"grade", "Number_of_Students"}
	statusHeaders   = []string{"status", "Count"}
	subjectsHeaders = []string{"student_id", "name", "math", "science", "english", "social", "computer"}
)

func studentRow(r models.StudentRecord) map[string]string {
	row := map[string]string{
		"student_id": export.FormatInt(r.StudentID),
		"name":       r.Name,
		"class":      r.ClassLabel,
	}
	for _, subject := range models.Subjects {
		row[string(subject)] = export.FormatInt(r.Score(subject))
	}
	return row
}

func derivedRow(r models.DerivedRecord) map[string]string {
	row := studentRow(r.StudentRecord)
	row["total_marks"] = export.FormatInt(r.TotalMarks)
	row["percentage"] = export.FormatFloat(r.Percentage)
	row["grade"] = string(r.Grade)
	row["status"] = string(r.Status)
	return row
}

func derivedTable(headers []string, records []models.DerivedRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, derivedRow(r))
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// StudentsTable lists the roster as loaded.
func StudentsTable(students []models.StudentRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, studentRow(s))
	}
	return export.Dataset{Headers: studentHeaders, Rows: rows}
}

// CompleteReportTable lists every roster and derived column.
func CompleteReportTable(records []models.DerivedRecord) export.Dataset {
	headers := append(append([]string{}, studentHeaders...), derivedHeaders...)
	return derivedTable(headers, records)
}

// DerivedSummaryTable lists identity and derived columns only.
func DerivedSummaryTable(records []models.DerivedRecord) export.Dataset {
	return derivedTable(summaryHeaders, records)
}

// RankingTable lists identity, percentage and grade.
func RankingTable(records []models.DerivedRecord) export.Dataset {
	return derivedTable(rankingHeaders, records)
}

// SubjectScoresTable lists every subject mark per student.
func SubjectScoresTable(records []models.DerivedRecord) export.Dataset {
	return derivedTable(subjectsHeaders, records)
}

// OverallTable renders roster averages as a single row.
func OverallTable(stats models.OverallStats) export.Dataset {
	headers := make([]string, 0, len(stats.SubjectAverages)+1)
	row := make(map[string]string, len(stats.SubjectAverages)+1)
	for _, a := range stats.SubjectAverages {
		h := "Avg_" + a.Subject.Label()
		headers = append(headers, h)
		row[h] = export.FormatFloat(a.Average)
	}
	headers = append(headers, "Avg_Percentage")
	row["Avg_Percentage"] = export.FormatFloat(stats.AvgPercentage)
	return export.Dataset{Headers: headers, Rows: []map[string]string{row}}
}

// ExtremesTable renders subject maxima and minima as a single row.
func ExtremesTable(extremes []models.SubjectExtreme) export.Dataset {
	headers := make([]string, 0, 2*len(extremes))
	row := make(map[string]string, 2*len(extremes))
	for _, e := range extremes {
		maxH, minH := "Max_"+e.Subject.Label(), "Min_"+e.Subject.Label()
		headers = append(headers, maxH, minH)
		row[maxH] = export.FormatInt(e.Max)
		row[minH] = export.FormatInt(e.Min)
	}
	if len(headers) == 0 {
		for _, s := range models.Subjects {
			headers = append(headers, "Max_"+s.Label(), "Min_"+s.Label())
		}
		return export.Dataset{Headers: headers}
	}
	return export.Dataset{Headers: headers, Rows: []map[string]string{row}}
}

// ClassAnalysisTable renders the per-class aggregate.
func ClassAnalysisTable(classes []models.ClassSummary) export.Dataset {
	rows := make([]map[string]string, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, map[string]string{
			"class":              c.ClassLabel,
			"Total_Students":     export.FormatInt(c.TotalStudents),
			"Avg_Percentage":     export.FormatFloat(c.AvgPercentage),
			"Highest_Percentage": export.FormatFloat(c.HighestPercentage),
			"Lowest_Percentage":  export.FormatFloat(c.LowestPercentage),
		})
	}
	return export.Dataset{Headers: classHeaders, Rows: rows}
}

// GradeDistributionTable renders the grade histogram.
func GradeDistributionTable(grades []models.GradeCount) export.Dataset {
	rows := make([]map[string]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, map[string]string{
			"grade":              string(g.Grade),
			"Number_of_Students": export.FormatInt(g.Count),
		})
	}
	return export.Dataset{Headers: gradeHeaders, Rows: rows}
}

// PassFailTable renders the status breakdown.
func PassFailTable(statuses []models.StatusCount) export.Dataset {
	rows := make([]map[string]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, map[string]string{
			"status": string(s.Status),
			"Count":  export.FormatInt(s.Count),
		})
	}
	return export.Dataset{Headers: statusHeaders, Rows: rows}
}

// TopperTable renders a single subject topper.
func TopperTable(topper models.SubjectTopper) export.Dataset {
	subject := string(topper.Subject)
	return export.Dataset{
		Headers: []string{"name", "class", subject},
		Rows: []map[string]string{{
			"name":  topper.Record.Name,
			"class": topper.Record.ClassLabel,
			subject: export.FormatInt(topper.Record.Score(topper.Subject)),
		}},
	}
}

// ExportTable returns the dataset serialised for an exported view.
func ExportTable(view models.ReportView, views models.ReportViews) (export.Dataset, bool) {
	switch view {
	case models.ReportViewComplete:
		return CompleteReportTable(views.Records), true
	case models.ReportViewClassAnalysis:
		return ClassAnalysisTable(views.Classes), true
	case models.ReportViewGradeDistribution:
		return GradeDistributionTable(views.Grades), true
	default:
		return export.Dataset{}, false
	}
}
