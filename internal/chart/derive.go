// Package chart maps result tables to chart configurations and
// declarative figures, and derives AI commentary for them.
package chart

import (
	"github.com/vorn-digital/adlens/internal/model"
)

// DeriveDefault picks a sensible default chart for a freshly generated
// result: first column on the x-axis, first numeric column on the value
// axis, bar kind, no grouping. When the table has no numeric column the
// second column is used as a fallback; with fewer than two columns no
// chart can be derived and ok is false.
func DeriveDefault(table *model.Table) (model.ChartConfig, bool) {
	if table == nil || len(table.Columns) == 0 {
		return model.ChartConfig{}, false
	}

	yAxis, ok := table.FirstNumericColumn()
	if !ok {
		if len(table.Columns) < 2 {
			return model.ChartConfig{}, false
		}
		yAxis = table.Columns[1].Name
	}

	return model.ChartConfig{
		Kind:   model.ChartBar,
		XAxis:  table.Columns[0].Name,
		YLeft:  yAxis,
		YRight: model.AxisNone,
		Legend: model.AxisNone,
	}, true
}
