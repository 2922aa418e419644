package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-marks-report/internal/models"
)

func TestOverallTable(t *testing.T) {
	ds := OverallTable(rosterViews(t).Overall)
	assert.Equal(t, []string{"Avg_Math", "Avg_Science", "Avg_English", "Avg_Social", "Avg_Computer", "Avg_Percentage"}, ds.Headers)
	assert.Equal(t, [][]string{{"85.2", "87.87", "82.2", "85.8", "89.4", "86.09"}}, ds.Records())
}

func TestExtremesTable(t *testing.T) {
	ds := ExtremesTable(rosterViews(t).Extremes)
	require.Len(t, ds.Headers, 10)
	assert.Equal(t, "Max_Math", ds.Headers[0])
	assert.Equal(t, "Min_Computer", ds.Headers[9])
	assert.Equal(t, "95", ds.Records()[0][0])

	empty := ExtremesTable(nil)
	assert.Len(t, empty.Headers, 10)
	assert.Empty(t, empty.Rows)
}

func TestRankingAndTopperTables(t *testing.T) {
	views := rosterViews(t)

	top := RankingTable(views.TopStudents).Records()
	require.Len(t, top, 5)
	assert.Equal(t, []string{"104", "Sophia Davis", "10A", "95.0", "A+"}, top[0])

	toppers := views.Toppers
	require.NotEmpty(t, toppers)
	ds := TopperTable(toppers[0])
	assert.Equal(t, []string{"name", "class", "math"}, ds.Headers)
	assert.Equal(t, [][]string{{"Sophia Davis", "10A", "95"}}, ds.Records())
}

func TestExportTableUnknownView(t *testing.T) {
	_, ok := ExportTable(models.ReportView("bogus"), models.ReportViews{})
	assert.False(t, ok)
}
