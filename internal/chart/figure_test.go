package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorn-digital/adlens/internal/model"
)

func dailyTable() *model.Table {
	return &model.Table{
		Columns: []model.Column{
			{Name: "Date", Kind: model.KindString},
			{Name: "Media", Kind: model.KindString},
			{Name: "Cost", Kind: model.KindFloat},
			{Name: "CVR", Kind: model.KindFloat},
		},
		Rows: []model.Row{
			{"2025-07-01", "Google", 100.0, 0.02},
			{"2025-07-01", "Yahoo", 80.0, 0.01},
			{"2025-07-02", "Google", 120.0, 0.03},
			{"2025-07-02", "Yahoo", 90.0, 0.02},
		},
	}
}

func TestRender_IncompleteConfig(t *testing.T) {
	fig, err := Render(dailyTable(), model.ChartConfig{Kind: model.ChartBar})
	require.ErrorIs(t, err, ErrIncompleteConfig)
	require.NotNil(t, fig)
	assert.Empty(t, fig.Traces)
}

func TestRender_Bar(t *testing.T) {
	cfg := model.ChartConfig{Kind: model.ChartBar, XAxis: "Date", YLeft: "Cost", Legend: model.AxisNone}

	fig, err := Render(dailyTable(), cfg)
	require.NoError(t, err)
	require.Len(t, fig.Traces, 1)
	assert.Equal(t, "bar", fig.Traces[0].Type)
	assert.Equal(t, []float64{100, 80, 120, 90}, fig.Traces[0].Y)
}

func TestRender_LineWithLegendSplitsTraces(t *testing.T) {
	cfg := model.ChartConfig{Kind: model.ChartLine, XAxis: "Date", YLeft: "Cost", Legend: "Media"}

	fig, err := Render(dailyTable(), cfg)
	require.NoError(t, err)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, "Google", fig.Traces[0].Name)
	assert.Equal(t, "lines+markers", fig.Traces[0].Mode)
	assert.Equal(t, []float64{100, 120}, fig.Traces[0].Y)
	assert.Equal(t, "Yahoo", fig.Traces[1].Name)
}

func TestRender_AreaAndScatterModes(t *testing.T) {
	area, err := Render(dailyTable(), model.ChartConfig{Kind: model.ChartArea, XAxis: "Date", YLeft: "Cost"})
	require.NoError(t, err)
	assert.Equal(t, "tozeroy", area.Traces[0].Fill)
	assert.Equal(t, "lines+markers", area.Traces[0].Mode)

	scatter, err := Render(dailyTable(), model.ChartConfig{Kind: model.ChartScatter, XAxis: "Date", YLeft: "Cost"})
	require.NoError(t, err)
	assert.Equal(t, "markers", scatter.Traces[0].Mode)
}

func TestRender_PieIsDonut(t *testing.T) {
	cfg := model.ChartConfig{Kind: model.ChartPie, XAxis: "Media", YLeft: "Cost"}

	fig, err := Render(dailyTable(), cfg)
	require.NoError(t, err)
	require.Len(t, fig.Traces, 1)
	tr := fig.Traces[0]
	assert.Equal(t, "pie", tr.Type)
	assert.Equal(t, 0.3, tr.Hole)
	assert.Equal(t, []string{"Google", "Yahoo", "Google", "Yahoo"}, tr.Labels)
}

func TestRender_ComboDualAxis(t *testing.T) {
	cfg := model.ChartConfig{
		Kind: model.ChartCombo, XAxis: "Date",
		YLeft: "Cost", YRight: "CVR", Legend: model.AxisNone,
	}

	fig, err := Render(dailyTable(), cfg)
	require.NoError(t, err)
	require.Len(t, fig.Traces, 2)
	assert.Equal(t, "bar", fig.Traces[0].Type)
	assert.Equal(t, "", fig.Traces[0].YAxis)
	assert.Equal(t, "scatter", fig.Traces[1].Type)
	assert.Equal(t, "y2", fig.Traces[1].YAxis)
	assert.Equal(t, "lines+markers", fig.Traces[1].Mode)
	assert.Equal(t, "group", fig.Layout.BarMode)
}

func TestRender_ComboWithLegendPairsPerGroup(t *testing.T) {
	cfg := model.ChartConfig{
		Kind: model.ChartCombo, XAxis: "Date",
		YLeft: "Cost", YRight: "CVR", Legend: "Media",
	}

	fig, err := Render(dailyTable(), cfg)
	require.NoError(t, err)
	// One bar/line pair per distinct media value.
	require.Len(t, fig.Traces, 4)
	assert.Equal(t, "Google (Cost)", fig.Traces[0].Name)
	assert.Equal(t, "Google (CVR)", fig.Traces[1].Name)
	assert.Equal(t, "Yahoo (Cost)", fig.Traces[2].Name)
	assert.Equal(t, "Yahoo (CVR)", fig.Traces[3].Name)
}

func TestRender_ComboWithoutSecondaryAxisIsEmpty(t *testing.T) {
	cfg := model.ChartConfig{Kind: model.ChartCombo, XAxis: "Date", YLeft: "Cost", YRight: model.AxisNone}

	fig, err := Render(dailyTable(), cfg)
	require.ErrorIs(t, err, ErrComboWithoutSecondary)
	require.NotNil(t, fig)
	assert.Empty(t, fig.Traces)
}
