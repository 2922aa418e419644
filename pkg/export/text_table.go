package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TextTable renders datasets as bordered, right-aligned console tables.
type TextTable struct {
	// MaxRows caps the printed rows; 0 prints all of them.
	MaxRows int
	// Truncate shortens cells wider than this many runes; 0 disables it.
	Truncate int
}

// NewTextTable returns a renderer showing at most 20 rows of 20-rune cells.
func NewTextTable() *TextTable {
	return &TextTable{MaxRows: 20, Truncate: 20}
}

// Render writes the table for data to w.
func (t *TextTable) Render(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("table requires at least one header")
	}
	records := data.Records()
	shown := records
	if t.MaxRows > 0 && len(shown) > t.MaxRows {
		shown = shown[:t.MaxRows]
	}

	header := make([]string, len(data.Headers))
	for i, h := range data.Headers {
		header[i] = t.cell(h)
	}
	rows := make([][]string, len(shown))
	for i, record := range shown {
		rows[i] = make([]string, len(record))
		for j, value := range record {
			rows[i][j] = t.cell(value)
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = max(3, utf8.RuneCountInString(h))
	}
	for _, row := range rows {
		for i, value := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(value))
		}
	}

	var sb strings.Builder
	sep := separator(widths)
	sb.WriteString(sep)
	writeRow(&sb, header, widths)
	sb.WriteString(sep)
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}
	sb.WriteString(sep)
	if len(shown) < len(records) {
		noun := "rows"
		if len(shown) == 1 {
			noun = "row"
		}
		fmt.Fprintf(&sb, "only showing top %d %s\n", len(shown), noun)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *TextTable) cell(value string) string {
	if t.Truncate <= 0 || utf8.RuneCountInString(value) <= t.Truncate {
		return value
	}
	if t.Truncate < 4 {
		return string([]rune(value)[:t.Truncate])
	}
	return string([]rune(value)[:t.Truncate-3]) + "..."
}

func separator(widths []int) string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteByte('+')
	}
	sb.WriteByte('\n')
	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteByte('|')
	for i, value := range row {
		sb.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(value)))
		sb.WriteString(value)
		sb.WriteByte('|')
	}
	sb.WriteByte('\n')
}
