package viz

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/compare"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
)

func records() [][]string {
	return [][]string{
		{"group", "x", "y", "z", "label"},
		{"a", "1", "2.1", "5", "p"},
		{"a", "2", "3.9", "4", "q"},
		{"b", "3", "6.2", "3", "p"},
		{"b", "4", "8.1", "", "q"},
		{"c", "5", "9.8", "1", "p"},
		{"c", "100", "12", "0", "r"},
		{"a", "6", "", "2", "p"},
		{"b", "7", "14.2", "1", ""},
	}
}

func testOptions() Options {
	opt := DefaultOptions()
	opt.Render = render.DefaultConfig().WithSize(4, 3)
	opt.Render.DPI = 40
	return opt
}

func newVisualizer(t *testing.T) *Visualizer {
	t.Helper()
	v, err := New(records(), testOptions())
	require.NoError(t, err)
	return v
}

func encodePNG(t *testing.T, fig *render.Figure) {
	t.Helper()
	var buf bytes.Buffer
	_, err := fig.WriteTo(&buf, "png", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestNewResolvesThemeAndData(t *testing.T) {
	v := newVisualizer(t)
	assert.Equal(t, 8, v.Len())
	assert.Equal(t, "default", v.Theme().Name)
	assert.Equal(t, `Visualizer(rows=8, theme="default")`, v.String())

	_, err := New(records(), Options{Theme: "neon"})
	assert.ErrorIs(t, err, errs.ErrThemeNotFound)

	_, err = New(records(), Options{Palette: "sepia"})
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	var nilDS *dataset.Dataset
	_, err = New(nilDS, Options{})
	assert.ErrorIs(t, err, errs.ErrInvalidDataType)

	_, err = New(42, Options{})
	assert.ErrorIs(t, err, errs.ErrInvalidDataType)
}

func TestNewAcceptsDataset(t *testing.T) {
	ds, err := dataset.New(records())
	require.NoError(t, err)
	v, err := New(ds, Options{})
	require.NoError(t, err)
	assert.Same(t, ds, v.Dataset())
}

func TestEqualityAndOrdering(t *testing.T) {
	a, b := newVisualizer(t), newVisualizer(t)
	assert.True(t, EqualsByContent(a, b))

	require.NoError(t, b.SetTheme("dark"))
	assert.False(t, EqualsByContent(a, b))
	assert.ErrorIs(t, b.SetTheme("nope"), errs.ErrThemeNotFound)
	assert.Equal(t, "dark", b.Theme().Name)

	short, err := New(records()[:4], testOptions())
	require.NoError(t, err)
	assert.Equal(t, -1, CompareByRowCount(short, a))
	assert.Equal(t, 1, CompareByRowCount(a, short))
	assert.Equal(t, 0, CompareByRowCount(a, b))
	assert.False(t, EqualsByContent(a, short))
}

func TestSingleCharts(t *testing.T) {
	v := newVisualizer(t)
	charts := map[string]func() (*render.Figure, error){
		"scatter":   func() (*render.Figure, error) { return v.Scatter("x", "y", "group") },
		"line":      func() (*render.Figure, error) { return v.Line("", "y", "z") },
		"bar mean":  func() (*render.Figure, error) { return v.Bar("group", "y", false) },
		"bar count": func() (*render.Figure, error) { return v.Bar("label", "", true) },
		"histogram": func() (*render.Figure, error) { return v.Histogram("x", 5) },
		"box":       func() (*render.Figure, error) { return v.Box() },
		"box by":    func() (*render.Figure, error) { return v.BoxBy("y", "group") },
		"violin":    func() (*render.Figure, error) { return v.Violin("group", "x") },
		"heatmap":   func() (*render.Figure, error) { return v.Heatmap() },
		"pie":       func() (*render.Figure, error) { return v.Pie("group") },
		"missing":   func() (*render.Figure, error) { return v.MissingData() },
		"outliers":  func() (*render.Figure, error) { return v.OutlierPlot("x", "") },
		"summary":   func() (*render.Figure, error) { return v.SummaryHeatmap() },
		"table":     func() (*render.Figure, error) { return v.SummaryTable() },
		"corr":      func() (*render.Figure, error) { return v.CorrelationSummary(0.5) },
	}
	for name, fn := range charts {
		t.Run(name, func(t *testing.T) {
			fig, err := fn()
			require.NoError(t, err)
			assert.Equal(t, 1, fig.Panels())
			encodePNG(t, fig)
		})
	}
}

func TestChartErrors(t *testing.T) {
	v := newVisualizer(t)
	_, err := v.Scatter("x", "label", "")
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
	_, err = v.Scatter("x", "y", "nope")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
	_, err = v.Line("x")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = v.Heatmap("x")
	assert.ErrorIs(t, err, errs.ErrInsufficientColumns)
	_, err = v.PairGrid("x")
	assert.ErrorIs(t, err, errs.ErrInsufficientColumns)
	_, err = v.CorrelationSummary(1.5)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = v.StatisticalOverview("label")
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
	_, err = v.CompareGroups("x", "nope")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
}

func TestDetectKindAndQuickPlot(t *testing.T) {
	v := newVisualizer(t)
	for _, tc := range []struct{ x, y, want string }{
		{"x", "", KindHistogram},
		{"group", "", KindBar},
		{"x", "y", KindScatter},
		{"group", "x", KindBar},
	} {
		got, err := v.DetectKind(tc.x, tc.y)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s/%s", tc.x, tc.y)
	}
	_, err := v.DetectKind("nope", "")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)

	fig, err := v.QuickPlot("x", "y", KindAuto)
	require.NoError(t, err)
	assert.Equal(t, 1, fig.Panels())

	_, err = v.QuickPlot("x", "", KindScatter)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = v.QuickPlot("x", "y", "sunburst")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestAutoDiagnoseRespectsMaxPlots(t *testing.T) {
	v := newVisualizer(t)

	fig, err := v.AutoDiagnose("y", 0)
	require.NoError(t, err)
	assert.Equal(t, 6, fig.Panels())
	assert.Equal(t, 3, fig.Rows())
	assert.Equal(t, 2, fig.Cols())
	assert.Equal(t, "Target Distribution: y", fig.Panel(1, 1).Title.Text)
	encodePNG(t, fig)

	fig, err = v.AutoDiagnose("", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Panels())
	assert.Equal(t, 1, fig.Rows())

	_, err = v.AutoDiagnose("nope", 6)
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
	_, err = v.AutoDiagnose("", -1)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestAutoDiagnoseOverlaysHistograms(t *testing.T) {
	v := newVisualizer(t)
	r, ok := v.histOverlay([]string{"x", "y", "z"}).(render.Hists)
	require.True(t, ok)
	require.Len(t, r.Series, 3)
	assert.Equal(t, "y", r.Series[1].Name)
	assert.Len(t, r.Series[1].Values, 8)

	_, ok = v.histOverlay([]string{"label"}).(render.Text)
	assert.True(t, ok)

	fig, err := v.AutoDiagnose("", 1)
	require.NoError(t, err)
	p := fig.Panel(0, 0)
	assert.Equal(t, "Distribution of Numeric Variables", p.Title.Text)
	assert.Equal(t, "Frequency", p.Y.Label.Text)
}

func TestOutliersUsesConfiguredMethod(t *testing.T) {
	v := newVisualizer(t)
	flags, err := v.Outliers("x", "")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, false, true, false, false}, flags)
}

func TestOutliersHonorsZeroThreshold(t *testing.T) {
	v := newVisualizer(t)
	flags, err := v.Outliers("z", analysis.ZScore)
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.CountFlags(flags))

	opt := testOptions()
	zero := 0.0
	opt.ZThreshold = &zero
	v, err = New(records(), opt)
	require.NoError(t, err)
	flags, err = v.Outliers("z", analysis.ZScore)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false, true, true, true, true}, flags)
}

func TestCompositeFigures(t *testing.T) {
	v := newVisualizer(t)
	cases := map[string]struct {
		fn     func() (*render.Figure, error)
		panels int
	}{
		"pair grid":     {func() (*render.Figure, error) { return v.PairGrid("x", "y", "z") }, 9},
		"overview":      {func() (*render.Figure, error) { return v.StatisticalOverview("x") }, 6},
		"groups":        {func() (*render.Figure, error) { return v.CompareGroups("x", "group") }, 4},
		"quality":       {func() (*render.Figure, error) { return v.DataQualityReport() }, 4},
		"distributions": {func() (*render.Figure, error) { return v.DistributionComparison() }, 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fig, err := tc.fn()
			require.NoError(t, err)
			assert.Equal(t, tc.panels, fig.Panels())
		})
	}
}

func TestModelCharts(t *testing.T) {
	c, err := compare.New([]compare.Model{
		{Name: "X", Scores: map[string]float64{"acc": 0.9, "f1": 0.85, "auc": 0.93}},
		{Name: "Y", Scores: map[string]float64{"acc": 0.8, "f1": 0.88}},
	})
	require.NoError(t, err)
	mc, err := NewModelCharts(testOptions())
	require.NoError(t, err)

	fig, err := mc.Compare(c)
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Panels())
	encodePNG(t, fig)

	fig, err = mc.Compare(c, "acc", "f1")
	require.NoError(t, err)
	assert.Equal(t, "Metric Profile", fig.Panel(0, 1).Title.Text)

	_, err = mc.Compare(c, "loss")
	assert.ErrorIs(t, err, errs.ErrUnknownMetric)

	fig, err = mc.Ranking(c, "acc", false)
	require.NoError(t, err)
	assert.Equal(t, "Ranking by acc", fig.Panel(0, 0).Title.Text)

	_, err = mc.Predictions("X", []float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, errs.ErrDimensionMismatch)
	fig, err = mc.Predictions("X", []float64{1, 2, 3}, []float64{1.1, 1.9, 3.2})
	require.NoError(t, err)
	assert.Contains(t, fig.Panel(0, 0).Title.Text, "R² = ")

	v := newVisualizer(t)
	fig, err = v.CompareModels(c, "acc", "f1", "auc")
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Panels())
}

func TestMetricDistribution(t *testing.T) {
	c, err := compare.New([]compare.Model{
		{Name: "X", Scores: map[string]float64{"acc": 0.9, "f1": 0.85}},
		{Name: "Y", Scores: map[string]float64{"acc": 0.8}},
		{Name: "Z", Scores: map[string]float64{"acc": 0.7, "f1": 0.8}},
	})
	require.NoError(t, err)
	mc, err := NewModelCharts(testOptions())
	require.NoError(t, err)

	fig, err := mc.MetricDistribution(c, "acc")
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Panels())
	assert.Equal(t, "acc Distribution", fig.Panel(0, 0).Title.Text)
	assert.Equal(t, "Statistics", fig.Panel(0, 1).Title.Text)
	encodePNG(t, fig)

	// f1 is reported by only two of the models.
	fig, err = mc.MetricDistribution(c, "f1")
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Panels())

	_, err = mc.MetricDistribution(c, "loss")
	assert.ErrorIs(t, err, errs.ErrUnknownMetric)
	assert.ErrorContains(t, err, "loss")
}

func TestPlotAll(t *testing.T) {
	v := newVisualizer(t)

	fig, err := v.PlotAll("x", "y")
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Rows())
	assert.Equal(t, 2, fig.Cols())
	assert.Equal(t, 4, fig.Panels())
	assert.Equal(t, "Scatter Plot", fig.Panel(0, 0).Title.Text)
	assert.Equal(t, "Line Plot", fig.Panel(0, 1).Title.Text)
	assert.Equal(t, "Histogram", fig.Panel(1, 0).Title.Text)
	assert.Equal(t, "Box Plot", fig.Panel(1, 1).Title.Text)
	encodePNG(t, fig)

	fig, err = v.PlotAll("x", "y", KindHistogram, KindScatter, KindBox)
	require.NoError(t, err)
	assert.Equal(t, 2, fig.Rows())
	assert.Equal(t, 3, fig.Panels())
	assert.Equal(t, "Histogram", fig.Panel(0, 0).Title.Text)

	fig, err = v.PlotAll("x", "y", KindBox)
	require.NoError(t, err)
	assert.Equal(t, 1, fig.Cols())

	_, err = v.PlotAll("x", "y", KindPie)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
	_, err = v.PlotAll("x", "nope")
	assert.ErrorIs(t, err, errs.ErrColumnNotFound)
	_, err = v.PlotAll("x", "label")
	assert.ErrorIs(t, err, errs.ErrNotNumeric)
}
