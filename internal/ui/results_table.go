package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ColumnDef describes one column of a ResultsTable. Columns size to their
// widest cell, clamped to [MinWidth, MaxWidth]. When the terminal is too
// narrow, Flex columns give up width first.
type ColumnDef struct {
	Name     string
	MinWidth int
	MaxWidth int
	Flex     bool
	Right    bool
	Style    lipgloss.Style
}

// ResultRow is one numbered row. Num is 1-based.
type ResultRow struct {
	Num   int
	Cells []string
}

// ResultsTable renders numbered resource listings.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
}

const (
	tableIndent = 2
	columnGap   = 2
)

var (
	ColNum   = ColumnDef{Name: "num", MinWidth: 2, MaxWidth: 6, Right: true, Style: Muted}
	ColName  = ColumnDef{Name: "name", MinWidth: 12, MaxWidth: 48, Flex: true, Style: Accent}
	ColKind  = ColumnDef{Name: "kind", MinWidth: 6, MaxWidth: 16, Style: Muted}
	ColID    = ColumnDef{Name: "id", MinWidth: 8, MaxWidth: 36, Style: Muted}
	ColFile  = ColumnDef{Name: "file", MinWidth: 16, MaxWidth: 80, Flex: true, Style: Muted}
	ColField = ColumnDef{Name: "field", MinWidth: 8, MaxWidth: 28}
)

var (
	// ResourceLayout is num, name, kind, file.
	ResourceLayout = []ColumnDef{ColNum, ColName, ColKind, ColFile}
	// ResourceIDLayout is num, name, kind, id.
	ResourceIDLayout = []ColumnDef{ColNum, ColName, ColKind, ColID}
	// BacklinksLayout is num, source, field, file.
	BacklinksLayout = []ColumnDef{ColNum, ColName, ColField, ColFile}
)

// NewResultsTable creates an empty table with the given layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{display: display, columns: columns}
}

// AddRow appends a row. Missing cells render empty.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// widths sizes each column to its content, then shrinks flex columns until
// the table fits the terminal or they reach MinWidth.
func (t *ResultsTable) widths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		w := col.MinWidth
		for _, row := range t.rows {
			if i < len(row.Cells) {
				w = max(w, lipgloss.Width(row.Cells[i]))
			}
		}
		if col.MaxWidth > 0 {
			w = min(w, col.MaxWidth)
		}
		widths[i] = w
	}

	total := tableIndent + columnGap*(len(widths)-1)
	for _, w := range widths {
		total += w
	}
	for over := total - t.display.TermWidth; over > 0; {
		shrunk := false
		for i, col := range t.columns {
			if over == 0 {
				break
			}
			if col.Flex && widths[i] > col.MinWidth {
				widths[i]--
				over--
				shrunk = true
			}
		}
		if !shrunk {
			break
		}
	}
	return widths
}

// Render returns the table, or "" when there are no rows.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}
	widths := t.widths()

	cells := make([][]string, len(t.rows))
	for i, row := range t.rows {
		cells[i] = make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				cells[i][j] = Truncate(row.Cells[j], widths[j])
			}
		}
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			def := t.columns[col]
			style := def.Style.Width(widths[col])
			if def.Right {
				style = style.Align(lipgloss.Right)
			}
			if col == 0 {
				style = style.MarginLeft(tableIndent)
			}
			if col < len(t.columns)-1 {
				style = style.PaddingRight(columnGap)
			}
			return style
		}).
		Rows(cells...)
	return tbl.Render() + "\n"
}

// Truncate shortens s to width columns, ending it with "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// FormatRowNum right-aligns num to the width of maxNum (at least two digits).
func FormatRowNum(num, maxNum int) string {
	width := max(2, len(strconv.Itoa(maxNum)))
	s := strconv.Itoa(num)
	return strings.Repeat(" ", max(0, width-len(s))) + s
}
