package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChartConfig_Complete(t *testing.T) {
	assert.False(t, ChartConfig{}.Complete())
	assert.False(t, ChartConfig{Kind: ChartBar, XAxis: "Date"}.Complete())
	assert.False(t, ChartConfig{Kind: ChartBar, XAxis: "Date", YLeft: AxisNone}.Complete())
	assert.True(t, ChartConfig{Kind: ChartBar, XAxis: "Date", YLeft: "Cost"}.Complete())
}

func TestChartConfig_OptionalAxes(t *testing.T) {
	cfg := ChartConfig{Kind: ChartCombo, XAxis: "Date", YLeft: "Cost", YRight: AxisNone, Legend: AxisNone}
	assert.False(t, cfg.HasLegend())
	assert.False(t, cfg.HasSecondaryAxis())

	cfg.YRight = "CVR"
	cfg.Legend = "Media"
	assert.True(t, cfg.HasLegend())
	assert.True(t, cfg.HasSecondaryAxis())
}

func TestFilterSet_HasDateRange(t *testing.T) {
	assert.False(t, FilterSet{}.HasDateRange())
}

func TestAllFilters(t *testing.T) {
	f := AllFilters()
	assert.True(t, f.Date)
	assert.True(t, f.Media)
	assert.True(t, f.Campaign)
}
