package service

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
)

// AnalyticsConfig tunes the ranking and filter views.
type AnalyticsConfig struct {
	TopN             int
	ImprovementBelow float64
	SubjectFailBelow int
	TopperSubjects   []models.Subject
}

// DefaultAnalyticsConfig mirrors the published report layout.
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		TopN:             5,
		ImprovementBelow: 70,
		SubjectFailBelow: 40,
		TopperSubjects:   []models.Subject{models.SubjectMath, models.SubjectScience, models.SubjectComputer},
	}
}

// AnalyticsService computes the aggregate views of a run. Every method is a
// pure function of its input and never mutates it.
type AnalyticsService struct {
	cfg    AnalyticsConfig
	logger *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(cfg AnalyticsConfig, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultAnalyticsConfig()
	if cfg.TopN <= 0 {
		cfg.TopN = defaults.TopN
	}
	if cfg.ImprovementBelow <= 0 {
		cfg.ImprovementBelow = defaults.ImprovementBelow
	}
	if cfg.SubjectFailBelow <= 0 {
		cfg.SubjectFailBelow = defaults.SubjectFailBelow
	}
	if cfg.TopperSubjects == nil {
		cfg.TopperSubjects = defaults.TopperSubjects
	}
	return &AnalyticsService{cfg: cfg, logger: logger}
}

// Build computes every view over the derived records.
func (s *AnalyticsService) Build(students []models.StudentRecord, records []models.DerivedRecord) models.ReportViews {
	views := models.ReportViews{
		Students:         students,
		Records:          records,
		Overall:          s.Overall(records),
		Extremes:         s.SubjectExtremes(records),
		Classes:          s.ClassAnalysis(records),
		Grades:           s.GradeDistribution(records),
		Statuses:         s.PassFail(records),
		TopStudents:      s.TopStudents(records, s.cfg.TopN),
		NeedsImprovement: s.NeedsImprovement(records),
		FailedAnySubject: s.FailedAnySubject(records),
		Toppers:          s.Toppers(records, s.cfg.TopperSubjects),
	}
	s.logger.Debug("aggregate views computed",
		zap.Int("classes", len(views.Classes)),
		zap.Int("grades", len(views.Grades)),
		zap.Int("needs_improvement", len(views.NeedsImprovement)),
		zap.Int("failed_any_subject", len(views.FailedAnySubject)),
	)
	return views
}

// Overall averages each subject and the percentage over all records.
func (s *AnalyticsService) Overall(records []models.DerivedRecord) models.OverallStats {
	stats := models.OverallStats{SubjectAverages: make([]models.SubjectAverage, 0, len(models.Subjects))}
	for _, subject := range models.Subjects {
		var avg float64
		if len(records) > 0 {
			total := 0
			for _, r := range records {
				total += r.Score(subject)
			}
			avg = mean2(decimal.NewFromInt(int64(total)), len(records))
		}
		stats.SubjectAverages = append(stats.SubjectAverages, models.SubjectAverage{Subject: subject, Average: avg})
	}
	stats.AvgPercentage = averagePercentage(records)
	return stats
}

// SubjectExtremes returns the highest and lowest mark of every subject.
func (s *AnalyticsService) SubjectExtremes(records []models.DerivedRecord) []models.SubjectExtreme {
	if len(records) == 0 {
		return nil
	}
	extremes := make([]models.SubjectExtreme, 0, len(models.Subjects))
	for _, subject := range models.Subjects {
		e := models.SubjectExtreme{Subject: subject, Max: records[0].Score(subject), Min: records[0].Score(subject)}
		for _, r := range records[1:] {
			score := r.Score(subject)
			e.Max = max(e.Max, score)
			e.Min = min(e.Min, score)
		}
		extremes = append(extremes, e)
	}
	return extremes
}

// ClassAnalysis groups records by class label, ordered ascending.
func (s *AnalyticsService) ClassAnalysis(records []models.DerivedRecord) []models.ClassSummary {
	groups, order := groupBy(records, func(r models.DerivedRecord) string { return r.ClassLabel })
	sort.Strings(order)

	summaries := make([]models.ClassSummary, 0, len(order))
	for _, label := range order {
		members := groups[label]
		summary := models.ClassSummary{
			ClassLabel:        label,
			TotalStudents:     len(members),
			AvgPercentage:     averagePercentage(members),
			HighestPercentage: members[0].Percentage,
			LowestPercentage:  members[0].Percentage,
		}
		for _, m := range members[1:] {
			summary.HighestPercentage = max(summary.HighestPercentage, m.Percentage)
			summary.LowestPercentage = min(summary.LowestPercentage, m.Percentage)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// GradeDistribution counts records per grade present, ordered by grade label.
// Labels sort as plain strings, so "A" precedes "A+".
func (s *AnalyticsService) GradeDistribution(records []models.DerivedRecord) []models.GradeCount {
	groups, order := groupBy(records, func(r models.DerivedRecord) string { return string(r.Grade) })
	sort.Strings(order)

	counts := make([]models.GradeCount, 0, len(order))
	for _, label := range order {
		counts = append(counts, models.GradeCount{Grade: models.Grade(label), Count: len(groups[label])})
	}
	return counts
}

// PassFail counts records per status present, ordered by status label.
func (s *AnalyticsService) PassFail(records []models.DerivedRecord) []models.StatusCount {
	groups, order := groupBy(records, func(r models.DerivedRecord) string { return string(r.Status) })
	sort.Strings(order)

	counts := make([]models.StatusCount, 0, len(order))
	for _, label := range order {
		counts = append(counts, models.StatusCount{Status: models.Status(label), Count: len(groups[label])})
	}
	return counts
}

// TopStudents returns the first n records by percentage, highest first.
// Equal percentages keep their roster order.
func (s *AnalyticsService) TopStudents(records []models.DerivedRecord, n int) []models.DerivedRecord {
	ranked := make([]models.DerivedRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	if n < len(ranked) {
		ranked = ranked[:max(n, 0)]
	}
	return ranked
}

// NeedsImprovement returns records whose percentage is below the improvement
// threshold, in roster order.
func (s *AnalyticsService) NeedsImprovement(records []models.DerivedRecord) []models.DerivedRecord {
	return filter(records, func(r models.DerivedRecord) bool {
		return r.Percentage < s.cfg.ImprovementBelow
	})
}

// FailedAnySubject returns records with at least one subject under the
// subject pass mark, in roster order.
func (s *AnalyticsService) FailedAnySubject(records []models.DerivedRecord) []models.DerivedRecord {
	return filter(records, func(r models.DerivedRecord) bool {
		return r.MinScore() < s.cfg.SubjectFailBelow
	})
}

// Toppers returns, per subject, the first record holding the maximum mark.
func (s *AnalyticsService) Toppers(records []models.DerivedRecord, subjects []models.Subject) []models.SubjectTopper {
	if len(records) == 0 {
		return nil
	}
	toppers := make([]models.SubjectTopper, 0, len(subjects))
	for _, subject := range subjects {
		best := records[0]
		for _, r := range records[1:] {
			if r.Score(subject) > best.Score(subject) {
				best = r
			}
		}
		toppers = append(toppers, models.SubjectTopper{Subject: subject, Record: best})
	}
	return toppers
}

func groupBy(records []models.DerivedRecord, key func(models.DerivedRecord) string) (map[string][]models.DerivedRecord, []string) {
	grouped := make(map[string][]models.DerivedRecord)
	order := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], r)
	}
	return grouped, order
}

func filter(records []models.DerivedRecord, keep func(models.DerivedRecord) bool) []models.DerivedRecord {
	out := make([]models.DerivedRecord, 0)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func averagePercentage(records []models.DerivedRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Percentage))
	}
	return mean2(total, len(records))
}
