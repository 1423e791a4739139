package model

// ChartKind identifies how a result table is visualized.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartArea    ChartKind = "area"
	ChartScatter ChartKind = "scatter"
	ChartPie     ChartKind = "pie"
	ChartCombo   ChartKind = "combo"
)

// AxisNone is the sentinel for an unset optional axis or legend column.
const AxisNone = "none"

// ChartConfig describes how to visualize a result table. YRight is only
// meaningful for combo charts; Legend and YRight use AxisNone when unset.
type ChartConfig struct {
	Kind   ChartKind `json:"kind"`
	XAxis  string    `json:"x_axis"`
	YLeft  string    `json:"y_left"`
	YRight string    `json:"y_right"`
	Legend string    `json:"legend"`
}

// HasLegend reports whether a grouping column is configured.
func (c ChartConfig) HasLegend() bool {
	return c.Legend != "" && c.Legend != AxisNone
}

// HasSecondaryAxis reports whether a right-hand value axis is configured.
func (c ChartConfig) HasSecondaryAxis() bool {
	return c.YRight != "" && c.YRight != AxisNone
}

// Complete reports whether the required fields for rendering are set.
func (c ChartConfig) Complete() bool {
	return c.Kind != "" && c.XAxis != "" && c.YLeft != "" && c.YLeft != AxisNone
}
