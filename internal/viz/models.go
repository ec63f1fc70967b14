package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/compare"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
	"github.com/KaramelBytes/plotease/internal/theme"
)

// ModelCharts draws model comparison figures. It needs only a theme and
// render settings, so it works without a dataset.
type ModelCharts struct {
	cfg render.Config
}

// NewModelCharts resolves opt's theme for comparison charts.
func NewModelCharts(opt Options) (*ModelCharts, error) {
	opt = opt.withDefaults()
	t, err := theme.Get(opt.Theme)
	if err != nil {
		return nil, err
	}
	if opt.Palette != "" {
		if t, err = t.WithPalette(opt.Palette); err != nil {
			return nil, err
		}
	}
	return &ModelCharts{cfg: opt.Render.WithTheme(t)}, nil
}

// CompareModels charts models using the visualizer's theme.
func (v *Visualizer) CompareModels(c *compare.Comparator, metrics ...string) (*render.Figure, error) {
	mc := &ModelCharts{cfg: v.opt.Render.WithTheme(v.theme)}
	return mc.Compare(c, metrics...)
}

// Compare puts a grouped bar chart of the selected metrics next to a radar
// chart of the same scores. The radar panel needs three or more metrics and
// is replaced by a note otherwise.
func (m *ModelCharts) Compare(c *compare.Comparator, metrics ...string) (*render.Figure, error) {
	if len(metrics) == 0 {
		metrics = c.Metrics()
	}
	table, err := c.Table(metrics...)
	if err != nil {
		return nil, err
	}
	models := c.Models()
	bar := render.Bar{Categories: metrics}
	radar := render.Radar{Axes: metrics}
	for i, row := range table {
		bar.Series = append(bar.Series, render.Series{Name: models[i], Values: row})
		radar.Series = append(radar.Series, render.Series{Name: models[i], Values: row})
	}
	var radarPanel render.Renderer = radar
	if len(metrics) < 3 {
		radarPanel = render.Text{Message: "Radar chart needs at least 3 metrics"}
	}

	cfg := m.cfg.WithTitle("Model Comparison")
	return m.pair(cfg,
		render.Spec{Renderer: bar, Title: "Scores by Metric", XLabel: "Metric", YLabel: "Score"},
		render.Spec{Renderer: radarPanel, Title: "Metric Profile"},
	)
}

// MetricDistribution shows how one metric spreads across the models that
// report it: a box plot of the scores next to their summary statistics.
// Std is the population standard deviation of the scores.
func (m *ModelCharts) MetricDistribution(c *compare.Comparator, metric string) (*render.Figure, error) {
	var scores []float64
	for _, model := range c.Models() {
		if v, ok := c.Score(model, metric); ok && !math.IsNaN(v) {
			scores = append(scores, v)
		}
	}
	if len(scores) == 0 {
		return nil, errs.UnknownMetric(metric, c.Metrics())
	}
	st := analysis.Describe(scores)
	mean, std := stat.PopMeanStdDev(scores, nil)
	f4 := func(x float64) string { return analysis.FormatFloat(x, 4) }
	table := render.Table{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Models", fmt.Sprint(len(scores))},
			{"Mean", f4(mean)},
			{"Median", f4(st.Median)},
			{"Std", f4(std)},
			{"Min", f4(st.Min)},
			{"Max", f4(st.Max)},
		},
	}
	box := render.Box{Groups: []string{metric}, Data: [][]float64{scores}}
	return m.pair(m.cfg.WithTitle("Metric Analysis: "+metric),
		render.Spec{Renderer: box, Title: metric + " Distribution", YLabel: metric},
		render.Spec{Renderer: table, Title: "Statistics"},
	)
}

// pair lays two panels side by side. A panel that fails to draw fails the
// whole figure.
func (m *ModelCharts) pair(cfg render.Config, left, right render.Spec) (*render.Figure, error) {
	g, err := render.NewGrid(1, 2)
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithSize(cfg.Width*1.5, cfg.Height)
	for _, s := range []render.Spec{left, right} {
		if err := g.Next(s); err != nil {
			return nil, err
		}
	}
	fig, failures, err := g.RenderAll(cfg)
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		return nil, failures[0]
	}
	return fig, nil
}

// Ranking draws a horizontal bar per model ordered by one metric, best at
// the top. ascending treats lower scores as better.
func (m *ModelCharts) Ranking(c *compare.Comparator, metric string, ascending bool) (*render.Figure, error) {
	rank := c.Rank
	if ascending {
		rank = c.RankAscending
	}
	ranked, err := rank(metric)
	if err != nil {
		return nil, err
	}
	n := len(ranked)
	names := make([]string, n)
	scores := make([]float64, n)
	for i, r := range ranked {
		// Horizontal bars stack upwards.
		names[n-1-i] = fmt.Sprintf("%d. %s", i+1, r.Model)
		scores[n-1-i] = r.Score
		if r.Missing {
			scores[n-1-i] = 0
		}
	}
	cfg := m.cfg.WithTitle("Ranking by "+metric).WithLabels(metric, "")
	cfg.Horizontal = true
	cfg.Annotate = true
	return render.Render(render.Bar{Categories: names, Series: []render.Series{{Name: metric, Values: scores}}}, cfg)
}

// Predictions scatters predicted against true values and reports R² in the
// title.
func (m *ModelCharts) Predictions(name string, truth, pred []float64) (*render.Figure, error) {
	r2, err := compare.R2(truth, pred)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.InvalidParameter("name", name, "Name the model being plotted")
	}
	title := fmt.Sprintf("%s: predicted vs actual (R² = %s)", name, analysis.FormatFloat(r2, 3))
	return render.Render(render.Scatter{X: truth, Y: pred}, m.cfg.WithTitle(title).WithLabels("Actual", "Predicted"))
}
