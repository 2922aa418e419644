package models

// Grade is the letter grade derived from a percentage.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// Status is the overall pass/fail outcome of a student.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// GradeBand maps a lower percentage bound to a grade.
type GradeBand struct {
	MinPercentage float64
	Grade         Grade
}

// DerivedRecord is a StudentRecord with its computed columns.
type DerivedRecord struct {
	StudentRecord
	TotalMarks int     `json:"total_marks"`
	Percentage float64 `json:"percentage"`
	Grade      Grade   `json:"grade"`
	Status     Status  `json:"status"`
}
