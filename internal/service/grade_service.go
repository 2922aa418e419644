package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
)

// DefaultGradeScale is evaluated top-down; the first band whose lower bound
// the percentage reaches wins.
var DefaultGradeScale = []models.GradeBand{
	{MinPercentage: 90, Grade: models.GradeAPlus},
	{MinPercentage: 80, Grade: models.GradeA},
	{MinPercentage: 70, Grade: models.GradeB},
	{MinPercentage: 60, Grade: models.GradeC},
	{MinPercentage: 50, Grade: models.GradeD},
}

// GradePolicy holds the thresholds used to derive grade and status.
type GradePolicy struct {
	Scale          []models.GradeBand
	FallbackGrade  models.Grade
	SubjectPass    int
	PercentagePass float64
}

// DefaultGradePolicy returns the school's standard thresholds.
func DefaultGradePolicy() GradePolicy {
	return GradePolicy{
		Scale:          DefaultGradeScale,
		FallbackGrade:  models.GradeF,
		SubjectPass:    40,
		PercentagePass: 50,
	}
}

// GradeService derives totals, percentages, grades and pass status.
type GradeService struct {
	policy GradePolicy
	logger *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(policy GradePolicy, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(policy.Scale) == 0 {
		policy = DefaultGradePolicy()
	}
	if policy.FallbackGrade == "" {
		policy.FallbackGrade = models.GradeF
	}
	return &GradeService{policy: policy, logger: logger}
}

// Derive computes the derived columns for every record, preserving order.
func (s *GradeService) Derive(records []models.StudentRecord) []models.DerivedRecord {
	derived := make([]models.DerivedRecord, 0, len(records))
	for _, record := range records {
		derived = append(derived, s.DeriveOne(record))
	}
	s.logger.Debug("derived student records", zap.Int("records", len(derived)))
	return derived
}

// DeriveOne computes the derived columns of a single record.
func (s *GradeService) DeriveOne(record models.StudentRecord) models.DerivedRecord {
	total := 0
	for _, score := range record.Scores() {
		total += score
	}
	percentage := mean2(decimal.NewFromInt(int64(total)), len(models.Subjects))
	return models.DerivedRecord{
		StudentRecord: record,
		TotalMarks:    total,
		Percentage:    percentage,
		Grade:         s.GradeFor(percentage),
		Status:        s.StatusFor(record, percentage),
	}
}

// GradeFor maps a percentage onto the grade scale.
func (s *GradeService) GradeFor(percentage float64) models.Grade {
	for _, band := range s.policy.Scale {
		if percentage >= band.MinPercentage {
			return band.Grade
		}
	}
	return s.policy.FallbackGrade
}

// StatusFor passes a student only when every subject clears the subject pass
// mark and the percentage clears the overall pass mark.
func (s *GradeService) StatusFor(record models.StudentRecord, percentage float64) models.Status {
	if record.MinScore() >= s.policy.SubjectPass && percentage >= s.policy.PercentagePass {
		return models.StatusPass
	}
	return models.StatusFail
}

// mean2 divides an exact decimal sum by n and rounds half up to two places,
// so a mean of 64.225 becomes 64.23.
func mean2(sum decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	v, _ := sum.Div(decimal.NewFromInt(int64(n))).Round(2).Float64()
	return v
}
