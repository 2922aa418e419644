package models

// SubjectAverage is the mean mark of one subject across the roster.
type SubjectAverage struct {
	Subject Subject `json:"subject"`
	Average float64 `json:"average"`
}

// OverallStats holds roster-wide averages.
type OverallStats struct {
	SubjectAverages []SubjectAverage `json:"subject_averages"`
	AvgPercentage   float64          `json:"avg_percentage"`
}

// SubjectExtreme holds the highest and lowest mark of a subject.
type SubjectExtreme struct {
	Subject Subject `json:"subject"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
}

// ClassSummary aggregates percentages for one class.
type ClassSummary struct {
	ClassLabel        string  `json:"class"`
	TotalStudents     int     `json:"total_students"`
	AvgPercentage     float64 `json:"avg_percentage"`
	HighestPercentage float64 `json:"highest_percentage"`
	LowestPercentage  float64 `json:"lowest_percentage"`
}

// GradeCount is one bucket of the grade histogram.
type GradeCount struct {
	Grade Grade `json:"grade"`
	Count int   `json:"count"`
}

// StatusCount is one bucket of the pass/fail breakdown.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// SubjectTopper is the record holding the highest mark in a subject.
type SubjectTopper struct {
	Subject Subject       `json:"subject"`
	Record  DerivedRecord `json:"record"`
}

// ReportViews bundles every aggregate computed in a run.
type ReportViews struct {
	Students         []StudentRecord  `json:"students"`
	Records          []DerivedRecord  `json:"records"`
	Overall          OverallStats     `json:"overall"`
	Extremes         []SubjectExtreme `json:"extremes"`
	Classes          []ClassSummary   `json:"classes"`
	Grades           []GradeCount     `json:"grades"`
	Statuses         []StatusCount    `json:"statuses"`
	TopStudents      []DerivedRecord  `json:"top_students"`
	NeedsImprovement []DerivedRecord  `json:"needs_improvement"`
	FailedAnySubject []DerivedRecord  `json:"failed_any_subject"`
	Toppers          []SubjectTopper  `json:"toppers"`
}
