package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// pathWidth is the wrap width of path columns.
const pathWidth = 48

// column describes one report column.
type column struct {
	title   string
	numeric bool // right aligned
	path    bool // soft wrapped at pathWidth
}

func textCol(title string) column   { return column{title: title} }
func numberCol(title string) column { return column{title: title, numeric: true} }
func pathCol(title string) column   { return column{title: title, path: true} }

// reportTable collects rows for a rounded go-pretty table. A caption such as
// "Operations: 3" is printed under the last border.
type reportTable struct {
	columns []column
	rows    [][]string
	caption string
}

func newReportTable(columns ...column) *reportTable {
	return &reportTable{columns: columns}
}

// add appends a row, padding missing cells and dropping extra ones.
func (t *reportTable) add(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *reportTable) addAll(rows [][]string) {
	for _, row := range rows {
		t.add(row...)
	}
}

func (t *reportTable) render() string {
	if len(t.columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(t.columns))
	configs := make([]table.ColumnConfig, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.title
		cfg := table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.numeric {
			cfg.Align = text.AlignRight
		}
		if col.path {
			cfg.WidthMax = pathWidth
			cfg.WidthMaxEnforcer = text.WrapSoft
		}
		configs[i] = cfg
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range t.rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	if t.caption != "" {
		tw.SetCaption("%s", t.caption)
	}
	return tw.Render()
}
