// Package format renders projection output as terminal, Markdown or CSV
// tables.
package format

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode selects how a table is rendered.
type Mode int

const (
	ASCII    Mode = iota // box-drawn terminal table
	Markdown             // pipe table for reports
	CSV                  // for spreadsheet import of demand rows
)

// ParseMode resolves a --format flag value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascii", "table", "text":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	}
	return ASCII, fmt.Errorf("unknown output format %q (want ascii, markdown or csv)", s)
}

// ColumnAlign is the horizontal alignment of one column. Numeric columns
// of demand and coefficient tables are right-aligned.
type ColumnAlign int

const (
	AlignDefault ColumnAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ColumnConfig formats one column.
type ColumnConfig struct {
	Number   int         // 1-based
	Align    ColumnAlign
	MaxWidth int // 0 = unlimited; long error messages wrap beyond it
}

// TableBuilder collects the cells of one output table and renders it in
// the Mode chosen by NewTable.
type TableBuilder interface {
	Header(cols ...string)
	// Row appends cells; values are printed with fmt.Sprint.
	Row(vals ...any)
	Footer(vals ...any)
	Columns(cfgs ...ColumnConfig)
	String() string
}

// NewTable returns an empty table for mode m.
func NewTable(m Mode) TableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		style := table.StyleLight
		// Headers carry units such as "(t)" and "R²"; keep them as written.
		style.Format.Header = text.FormatDefault
		style.Format.Footer = text.FormatDefault
		w.SetStyle(style)
	}
	return &prettyTable{w: w, mode: m}
}

type prettyTable struct {
	w    table.Writer
	mode Mode
}

func cells(vals []any) table.Row {
	row := make(table.Row, len(vals))
	copy(row, vals)
	return row
}

func (t *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.w.AppendHeader(row)
}

func (t *prettyTable) Row(vals ...any)    { t.w.AppendRow(cells(vals)) }
func (t *prettyTable) Footer(vals ...any) { t.w.AppendFooter(cells(vals)) }

func (t *prettyTable) Columns(cfgs ...ColumnConfig) {
	out := make([]table.ColumnConfig, 0, len(cfgs))
	for _, c := range cfgs {
		out = append(out, table.ColumnConfig{Number: c.Number, Align: c.Align.align(), WidthMax: c.MaxWidth})
	}
	t.w.SetColumnConfigs(out)
}

func (t *prettyTable) String() string {
	switch t.mode {
	case Markdown:
		return t.w.RenderMarkdown()
	case CSV:
		return t.w.RenderCSV()
	}
	return t.w.Render()
}

func (a ColumnAlign) align() text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	case AlignCenter:
		return text.AlignCenter
	}
	return text.AlignDefault
}
