package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table lines up key/value style output (show, stats, events) without the
// numbering and truncation of ResultsTable.
type Table struct {
	rows      [][]string
	colWidths []int
}

// NewTable creates a table with cols columns.
func NewTable(cols int) *Table {
	return &Table{colWidths: make([]int, cols)}
}

// AddRow adds a row to the table. Widths are measured without ANSI styling.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := lipgloss.Width(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// String renders the table. The last column is not padded.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", columnGap)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(cell)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// TreeNode is one line of a Tree.
type TreeNode struct {
	Label    string
	Children []*TreeNode
}

// Tree renders nested nodes with box-drawing guides, the way the folder view
// is shown by `gme tree`.
type Tree struct {
	Roots []*TreeNode
}

// String renders the tree.
func (t *Tree) String() string {
	var sb strings.Builder
	for _, root := range t.Roots {
		sb.WriteString(root.Label)
		sb.WriteString("\n")
		writeChildren(&sb, root.Children, "")
	}
	return sb.String()
}

func writeChildren(sb *strings.Builder, nodes []*TreeNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(Muted.Render(branch))
		sb.WriteString(n.Label)
		sb.WriteString("\n")
		writeChildren(sb, n.Children, prefix+Muted.Render(next))
	}
}
