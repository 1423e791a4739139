package chart

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/vorn-digital/adlens/internal/model"
)

// ErrIncompleteConfig is returned by Render when the configuration is
// missing a chart kind, x-axis or left value axis. Callers treat it as a
// warning and show the empty placeholder figure it accompanies.
var ErrIncompleteConfig = eris.New("chart: kind, x-axis and left y-axis must be set")

// ErrComboWithoutSecondary is returned for combo configurations with no
// right-hand value axis: a combo pairs bars against a second series, so
// there is nothing meaningful to draw without one.
var ErrComboWithoutSecondary = eris.New("chart: combo requires a right-hand value axis")

// Trace is one plotted series in a figure.
type Trace struct {
	Type string `json:"type"` // "bar", "scatter", "pie"
	Name string `json:"name,omitempty"`

	X []string  `json:"x,omitempty"`
	Y []float64 `json:"y,omitempty"`

	// Mode applies to scatter traces: "markers" or "lines+markers".
	Mode string `json:"mode,omitempty"`
	// Fill is "tozeroy" for area charts.
	Fill string `json:"fill,omitempty"`
	// YAxis is "y2" for the secondary axis of a combo chart.
	YAxis string `json:"yaxis,omitempty"`

	// Pie-only fields.
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Hole   float64   `json:"hole,omitempty"`
}

// Layout carries figure-level presentation hints.
type Layout struct {
	BarMode     string `json:"barmode,omitempty"`
	YAxisTitle  string `json:"yaxis_title,omitempty"`
	YAxis2Title string `json:"yaxis2_title,omitempty"`
}

// Figure is a renderer-agnostic chart description, JSON-serializable for
// whatever front end draws it.
type Figure struct {
	Traces []Trace `json:"traces"`
	Layout Layout  `json:"layout"`
}

// Render builds a figure from a table and a chart configuration. An
// incomplete configuration yields an empty placeholder figure together
// with ErrIncompleteConfig; rendering never fails hard.
func Render(table *model.Table, cfg model.ChartConfig) (*Figure, error) {
	if !cfg.Complete() {
		return &Figure{}, ErrIncompleteConfig
	}

	if cfg.Kind == model.ChartCombo {
		if !cfg.HasSecondaryAxis() {
			return &Figure{}, ErrComboWithoutSecondary
		}
		return renderCombo(table, cfg), nil
	}
	if cfg.Kind == model.ChartPie {
		return renderPie(table, cfg), nil
	}
	return renderSingle(table, cfg), nil
}

// renderCombo emits a bar series on the left axis and a line-with-markers
// series on the right axis. With a grouping column set, one bar/line
// pair is emitted per distinct group value; bars render side by side.
func renderCombo(table *model.Table, cfg model.ChartConfig) *Figure {
	fig := &Figure{
		Layout: Layout{
			BarMode:     "group",
			YAxisTitle:  cfg.YLeft,
			YAxis2Title: cfg.YRight,
		},
	}

	appendPair := func(name string, rows []model.Row) {
		x, left := seriesOf(table, rows, cfg.XAxis, cfg.YLeft)
		_, right := seriesOf(table, rows, cfg.XAxis, cfg.YRight)

		leftName, rightName := cfg.YLeft, cfg.YRight
		if name != "" {
			leftName = fmt.Sprintf("%s (%s)", name, cfg.YLeft)
			rightName = fmt.Sprintf("%s (%s)", name, cfg.YRight)
		}
		fig.Traces = append(fig.Traces,
			Trace{Type: "bar", Name: leftName, X: x, Y: left},
			Trace{Type: "scatter", Name: rightName, X: x, Y: right, Mode: "lines+markers", YAxis: "y2"},
		)
	}

	if cfg.HasLegend() {
		for _, g := range groupRows(table, cfg.Legend) {
			appendPair(g.value, g.rows)
		}
	} else {
		appendPair("", table.Rows)
	}

	return fig
}

// renderPie uses the x-axis column for slice labels and the left value
// axis for slice values, donut style.
func renderPie(table *model.Table, cfg model.ChartConfig) *Figure {
	labels, values := seriesOf(table, table.Rows, cfg.XAxis, cfg.YLeft)
	return &Figure{
		Traces: []Trace{{
			Type:   "pie",
			Labels: labels,
			Values: values,
			Hole:   0.3,
		}},
	}
}

// renderSingle covers bar, line, area and scatter: one trace, or one per
// legend value when a grouping column is set.
func renderSingle(table *model.Table, cfg model.ChartConfig) *Figure {
	fig := &Figure{}

	appendTrace := func(name string, rows []model.Row) {
		x, y := seriesOf(table, rows, cfg.XAxis, cfg.YLeft)
		tr := Trace{Name: name, X: x, Y: y}
		switch cfg.Kind {
		case model.ChartBar:
			tr.Type = "bar"
		case model.ChartLine:
			tr.Type = "scatter"
			tr.Mode = "lines+markers"
		case model.ChartArea:
			tr.Type = "scatter"
			tr.Mode = "lines+markers"
			tr.Fill = "tozeroy"
		case model.ChartScatter:
			tr.Type = "scatter"
			tr.Mode = "markers"
		default:
			tr.Type = "bar"
		}
		fig.Traces = append(fig.Traces, tr)
	}

	if cfg.HasLegend() {
		for _, g := range groupRows(table, cfg.Legend) {
			appendTrace(g.value, g.rows)
		}
	} else {
		appendTrace(cfg.YLeft, table.Rows)
	}

	return fig
}

// seriesOf projects rows onto an x/y column pair. Non-numeric y cells
// contribute 0 so the series stays aligned with its labels.
func seriesOf(table *model.Table, rows []model.Row, xCol, yCol string) ([]string, []float64) {
	xi := table.ColumnIndex(xCol)
	yi := table.ColumnIndex(yCol)

	x := make([]string, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for _, row := range rows {
		var xs string
		if xi >= 0 && xi < len(row) {
			xs = model.CellString(row[xi])
		}
		var yv float64
		if yi >= 0 && yi < len(row) {
			yv, _ = model.CellFloat(row[yi])
		}
		x = append(x, xs)
		y = append(y, yv)
	}
	return x, y
}

type rowGroup struct {
	value string
	rows  []model.Row
}

// groupRows partitions rows by a column's rendered value, preserving
// first-seen order.
func groupRows(table *model.Table, column string) []rowGroup {
	idx := table.ColumnIndex(column)
	if idx < 0 {
		return []rowGroup{{value: "", rows: table.Rows}}
	}

	order := make(map[string]int)
	var groups []rowGroup
	for _, row := range table.Rows {
		var v string
		if idx < len(row) {
			v = model.CellString(row[idx])
		}
		gi, seen := order[v]
		if !seen {
			gi = len(groups)
			order[v] = gi
			groups = append(groups, rowGroup{value: v})
		}
		groups[gi].rows = append(groups[gi].rows, row)
	}
	return groups
}
