package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"class", "Total_Students", "Avg_Percentage"},
		Rows: []map[string]string{
			{"class": "10A", "Total_Students": "8", "Avg_Percentage": "89.65"},
			{"class": "10B", "Total_Students": "7", "Avg_Percentage": "82.03"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "class,Total_Students,Avg_Percentage\n10A,8,89.65\n10B,7,82.03\n", string(out))
}

func TestCSVExporterQuotesAndDelimiter(t *testing.T) {
	data := Dataset{
		Headers: []string{"name", "class"},
		Rows:    []map[string]string{{"name": "Smith; John", "class": "10A"}},
	}
	exporter := NewDelimitedExporter(';')
	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "name;class\n\"Smith; John\";10A\n", string(out))
	assert.Equal(t, "csv", exporter.Extension())
	assert.Equal(t, "tsv", NewDelimitedExporter('\t').Extension())
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestDatasetRecordsMissingCells(t *testing.T) {
	data := Dataset{Headers: []string{"a", "b"}, Rows: []map[string]string{{"b": "2"}}}
	assert.Equal(t, [][]string{{"", "2"}}, data.Records())
}
