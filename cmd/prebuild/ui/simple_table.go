package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows with aligned columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewSimpleTable creates a table with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table. An empty table renders as "".
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	// lipgloss widths include padding
	for i := range widths {
		widths[i] += 2
	}

	header := styles.Bold.Padding(0, 1)
	cell := styles.Body.Padding(0, 1)
	sep := styles.Muted

	writeRow := func(style lipgloss.Style, row []string) {
		for i := range widths {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			sb.WriteString(style.Width(widths[i]).Render(v))
			if i < len(widths)-1 {
				sb.WriteString(sep.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(header, t.Headers)

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(sep.Render(strings.Repeat("-", total)) + "\n")

	for _, row := range t.Rows {
		writeRow(cell, row)
	}

	return sb.String()
}
