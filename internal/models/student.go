package models

// Subject names one of the five graded subjects.
type Subject string

const (
	SubjectMath     Subject = "math"
	SubjectScience  Subject = "science"
	SubjectEnglish  Subject = "english"
	SubjectSocial   Subject = "social"
	SubjectComputer Subject = "computer"
)

// Subjects lists every graded subject in report column order.
var Subjects = []Subject{SubjectMath, SubjectScience, SubjectEnglish, SubjectSocial, SubjectComputer}

// Label returns the capitalised subject name used in column headers.
func (s Subject) Label() string {
	switch s {
	case SubjectMath:
		return "Math"
	case SubjectScience:
		return "Science"
	case SubjectEnglish:
		return "English"
	case SubjectSocial:
		return "Social"
	case SubjectComputer:
		return "Computer"
	default:
		return string(s)
	}
}

// StudentRecord is one roster entry. Records are never mutated after load.
type StudentRecord struct {
	StudentID  int    `db:"student_id" json:"student_id" validate:"required,gt=0"`
	Name       string `db:"name" json:"name" validate:"required"`
	ClassLabel string `db:"class_label" json:"class" validate:"required"`
	Math       int    `db:"math" json:"math" validate:"gte=0,lte=100"`
	Science    int    `db:"science" json:"science" validate:"gte=0,lte=100"`
	English    int    `db:"english" json:"english" validate:"gte=0,lte=100"`
	Social     int    `db:"social" json:"social" validate:"gte=0,lte=100"`
	Computer   int    `db:"computer" json:"computer" validate:"gte=0,lte=100"`
}

// Score returns the mark for a subject, or 0 for an unknown subject.
func (r StudentRecord) Score(subject Subject) int {
	switch subject {
	case SubjectMath:
		return r.Math
	case SubjectScience:
		return r.Science
	case SubjectEnglish:
		return r.English
	case SubjectSocial:
		return r.Social
	case SubjectComputer:
		return r.Computer
	default:
		return 0
	}
}

// Scores returns the five marks in Subjects order.
func (r StudentRecord) Scores() []int {
	return []int{r.Math, r.Science, r.English, r.Social, r.Computer}
}

// MinScore returns the lowest of the five marks.
func (r StudentRecord) MinScore() int {
	lowest := r.Math
	for _, s := range r.Scores()[1:] {
		if s < lowest {
			lowest = s
		}
	}
	return lowest
}
