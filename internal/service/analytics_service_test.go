package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
	"github.com/noah-isme/student-marks-report/internal/repository"
)

func rosterViews(t *testing.T) models.ReportViews {
	t.Helper()
	students, err := repository.NewStaticStudentRepository().List(context.Background())
	require.NoError(t, err)
	records := newGradeServiceForTest().Derive(students)
	return NewAnalyticsService(DefaultAnalyticsConfig(), zap.NewNop()).Build(students, records)
}

func derive(records ...models.StudentRecord) []models.DerivedRecord {
	return newGradeServiceForTest().Derive(records)
}

func TestAnalyticsOverall(t *testing.T) {
	views := rosterViews(t)

	averages := map[models.Subject]float64{}
	for _, a := range views.Overall.SubjectAverages {
		averages[a.Subject] = a.Average
	}
	assert.Equal(t, map[models.Subject]float64{
		models.SubjectMath:     85.2,
		models.SubjectScience:  87.87,
		models.SubjectEnglish:  82.2,
		models.SubjectSocial:   85.8,
		models.SubjectComputer: 89.4,
	}, averages)
	assert.Equal(t, 86.09, views.Overall.AvgPercentage)
}

func TestAnalyticsSubjectExtremes(t *testing.T) {
	views := rosterViews(t)
	require.Len(t, views.Extremes, 5)
	assert.Equal(t, models.SubjectExtreme{Subject: models.SubjectMath, Max: 95, Min: 75}, views.Extremes[0])
	assert.Equal(t, models.SubjectExtreme{Subject: models.SubjectScience, Max: 98, Min: 78}, views.Extremes[1])
	assert.Equal(t, models.SubjectExtreme{Subject: models.SubjectEnglish, Max: 92, Min: 72}, views.Extremes[2])
	assert.Equal(t, models.SubjectExtreme{Subject: models.SubjectComputer, Max: 97, Min: 80}, views.Extremes[4])
}

func TestAnalyticsClassAnalysis(t *testing.T) {
	views := rosterViews(t)
	require.Equal(t, []models.ClassSummary{
		{ClassLabel: "10A", TotalStudents: 8, AvgPercentage: 89.65, HighestPercentage: 95, LowestPercentage: 84.2},
		{ClassLabel: "10B", TotalStudents: 7, AvgPercentage: 82.03, HighestPercentage: 93.2, LowestPercentage: 76.2},
	}, views.Classes)

	total := 0
	for _, c := range views.Classes {
		total += c.TotalStudents
	}
	assert.Equal(t, len(views.Records), total)
}

func TestAnalyticsClassOrderingIsByLabel(t *testing.T) {
	svc := NewAnalyticsService(DefaultAnalyticsConfig(), nil)
	classes := svc.ClassAnalysis(derive(
		student(1, "11C", 50, 50, 50, 50, 50),
		student(2, "10B", 60, 60, 60, 60, 60),
		student(3, "11A", 70, 70, 70, 70, 70),
	))
	labels := []string{}
	for _, c := range classes {
		labels = append(labels, c.ClassLabel)
	}
	assert.Equal(t, []string{"10B", "11A", "11C"}, labels)
}

func TestAnalyticsGradeDistribution(t *testing.T) {
	views := rosterViews(t)
	assert.Equal(t, []models.GradeCount{
		{Grade: models.GradeA, Count: 8},
		{Grade: models.GradeAPlus, Count: 5},
		{Grade: models.GradeB, Count: 2},
	}, views.Grades)

	total := 0
	for _, g := range views.Grades {
		total += g.Count
	}
	assert.Equal(t, len(views.Records), total)
}

func TestAnalyticsPassFail(t *testing.T) {
	views := rosterViews(t)
	assert.Equal(t, []models.StatusCount{{Status: models.StatusPass, Count: 15}}, views.Statuses)

	svc := NewAnalyticsService(DefaultAnalyticsConfig(), nil)
	mixed := svc.PassFail(derive(
		student(1, "A", 90, 90, 90, 90, 90),
		student(2, "A", 30, 90, 90, 90, 90),
	))
	assert.Equal(t, []models.StatusCount{{Status: models.StatusFail, Count: 1}, {Status: models.StatusPass, Count: 1}}, mixed)
}

func TestAnalyticsTopStudents(t *testing.T) {
	views := rosterViews(t)
	require.Len(t, views.TopStudents, 5)
	ids := []int{}
	for _, r := range views.TopStudents {
		ids = append(ids, r.StudentID)
	}
	assert.Equal(t, []int{104, 114, 111, 108, 102}, ids)
}

func TestAnalyticsTopStudentsStableAndShort(t *testing.T) {
	svc := NewAnalyticsService(DefaultAnalyticsConfig(), nil)
	records := derive(
		student(1, "A", 80, 80, 80, 80, 80),
		student(2, "A", 90, 90, 90, 90, 90),
		student(3, "A", 80, 80, 80, 80, 80),
	)
	top := svc.TopStudents(records, 5)
	require.Len(t, top, 3)
	assert.Equal(t, []int{2, 1, 3}, []int{top[0].StudentID, top[1].StudentID, top[2].StudentID})
	assert.Equal(t, 1, records[0].StudentID, "input must not be reordered")

	assert.Empty(t, svc.TopStudents(nil, 5))
	assert.Empty(t, svc.TopStudents(records, 0))
}

func TestAnalyticsFilters(t *testing.T) {
	views := rosterViews(t)
	assert.Empty(t, views.NeedsImprovement)
	assert.Empty(t, views.FailedAnySubject)

	svc := NewAnalyticsService(DefaultAnalyticsConfig(), nil)
	records := derive(
		student(1, "A", 60, 60, 60, 60, 60),
		student(2, "A", 95, 35, 95, 95, 95),
		student(3, "A", 70, 70, 70, 70, 70),
		student(4, "A", 39, 39, 39, 39, 39),
	)
	improve := svc.NeedsImprovement(records)
	require.Len(t, improve, 2)
	assert.Equal(t, 1, improve[0].StudentID)
	assert.Equal(t, 4, improve[1].StudentID)

	failed := svc.FailedAnySubject(records)
	require.Len(t, failed, 2)
	assert.Equal(t, 2, failed[0].StudentID)
	assert.Equal(t, 4, failed[1].StudentID)
}

func TestAnalyticsToppers(t *testing.T) {
	views := rosterViews(t)
	require.Len(t, views.Toppers, 3)
	assert.Equal(t, models.SubjectMath, views.Toppers[0].Subject)
	assert.Equal(t, "Sophia Davis", views.Toppers[0].Record.Name)
	assert.Equal(t, "Sophia Davis", views.Toppers[1].Record.Name)
	assert.Equal(t, models.SubjectComputer, views.Toppers[2].Subject)
	assert.Equal(t, "Amelia Clark", views.Toppers[2].Record.Name)
}

func TestAnalyticsToppersFirstSeenWins(t *testing.T) {
	svc := NewAnalyticsService(DefaultAnalyticsConfig(), nil)
	toppers := svc.Toppers(derive(
		student(1, "A", 80, 50, 50, 50, 50),
		student(2, "A", 99, 50, 50, 50, 50),
		student(3, "A", 99, 50, 50, 50, 50),
	), []models.Subject{models.SubjectMath})
	require.Len(t, toppers, 1)
	assert.Equal(t, 2, toppers[0].Record.StudentID)
}

func TestAnalyticsEmptyInput(t *testing.T) {
	views := NewAnalyticsService(DefaultAnalyticsConfig(), nil).Build(nil, nil)
	assert.Zero(t, views.Overall.AvgPercentage)
	assert.Len(t, views.Overall.SubjectAverages, 5)
	assert.Empty(t, views.Extremes)
	assert.Empty(t, views.Classes)
	assert.Empty(t, views.Grades)
	assert.Empty(t, views.TopStudents)
	assert.Empty(t, views.Toppers)
}

func TestAnalyticsAveragesRoundHalfUp(t *testing.T) {
	svc := NewAnalyticsService(DefaultAnalyticsConfig(), zap.NewNop())

	subjectRecords := make([]models.StudentRecord, 0, 40)
	for i := 0; i < 39; i++ {
		subjectRecords = append(subjectRecords, student(i+1, "10A", 64, 50, 50, 50, 50))
	}
	subjectRecords = append(subjectRecords, student(40, "10A", 73, 50, 50, 50, 50))

	classRecords := make([]models.StudentRecord, 0, 8)
	for i := 0; i < 7; i++ {
		classRecords = append(classRecords, student(i+1, "10C", 80, 80, 80, 80, 80))
	}
	classRecords = append(classRecords, student(8, "10C", 81, 80, 80, 80, 80))

	cases := []struct {
		name string
		got  func() float64
		want float64
	}{
		{
			name: "subject average of 40 records at 64.225",
			got:  func() float64 { return svc.Overall(derive(subjectRecords...)).SubjectAverages[0].Average },
			want: 64.23,
		},
		{
			name: "class average of 8 records at 80.025",
			got:  func() float64 { return svc.ClassAnalysis(derive(classRecords...))[0].AvgPercentage },
			want: 80.03,
		},
		{
			name: "overall percentage of 8 records at 80.025",
			got:  func() float64 { return svc.Overall(derive(classRecords...)).AvgPercentage },
			want: 80.03,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got())
		})
	}
}
