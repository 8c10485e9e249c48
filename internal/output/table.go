package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	// Border is the border style.
	Border lipgloss.Border

	// BorderColor is the color for borders.
	BorderColor lipgloss.Color

	// HeaderStyle is the style for header cells.
	HeaderStyle lipgloss.Style

	// CellStyle is the style for regular cells.
	CellStyle lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(ColorBlue),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// PlainTableStyle returns a borderless, unstyled table style for non-TTY output.
func PlainTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.HiddenBorder(),
		HeaderStyle: lipgloss.NewStyle(),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// SetStyle sets the table style.
func (t *Table) SetStyle(style TableStyle) *Table {
	t.style = style
	return t
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// CoverageRow is one bundle line in the coverage summary table.
type CoverageRow struct {
	Bundle        string
	Classes       int
	StmtMissed    int
	StmtCovered   int
	LineMissed    int
	LineCovered   int
	MethodMissed  int
	MethodCovered int
}

// RenderCoverageTable renders a per-bundle coverage summary.
func RenderCoverageTable(rows []CoverageRow, style TableStyle) string {
	t := NewTable("BUNDLE", "FILES", "STATEMENTS", "LINES", "FUNCTIONS").SetStyle(style)
	for _, r := range rows {
		t.Row(
			r.Bundle,
			strconv.Itoa(r.Classes),
			FormatRatio(r.StmtCovered, r.StmtMissed+r.StmtCovered),
			FormatRatio(r.LineCovered, r.LineMissed+r.LineCovered),
			FormatRatio(r.MethodCovered, r.MethodMissed+r.MethodCovered),
		)
	}
	return t.String()
}

// ModuleRow is one module line in the graph table.
type ModuleRow struct {
	Key        string
	ImportPath string
	Dir        string
}

// RenderModuleTable renders a resolved module list.
func RenderModuleTable(rows []ModuleRow, style TableStyle) string {
	t := NewTable("MODULE", "IMPORT PATH", "DIR").SetStyle(style)
	for _, r := range rows {
		t.Row(r.Key, r.ImportPath, r.Dir)
	}
	return t.String()
}
