package viz

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
)

// DefaultMaxPlots is the panel limit AutoDiagnose uses when given 0.
const DefaultMaxPlots = 6

const densityPoints = 128

// panelBins is the fixed bin count of histogram panels in PlotAll and the
// AutoDiagnose distribution overlay.
const panelBins = 30

// AutoDiagnose lays out up to maxPlots diagnostic panels in two columns:
// numeric distributions, the correlation matrix, missing values, the target
// column when named, the top categories of the first categorical column and
// outlier box plots.
func (v *Visualizer) AutoDiagnose(target string, maxPlots int) (*render.Figure, error) {
	if maxPlots == 0 {
		maxPlots = DefaultMaxPlots
	}
	if maxPlots < 0 {
		return nil, errs.InvalidParameter("max_plots", maxPlots, "Use a positive number of panels")
	}
	if target != "" {
		if err := v.ds.Require(target); err != nil {
			return nil, err
		}
	}
	numeric := v.ds.NumericColumns()
	categorical := v.ds.CategoricalColumns()

	var specs []render.Spec
	add := func(s render.Spec) bool {
		if len(specs) >= maxPlots {
			return false
		}
		specs = append(specs, s)
		return true
	}
	if len(numeric) > 0 {
		add(render.Spec{Renderer: v.histOverlay(first(numeric, 3)), Title: "Distribution of Numeric Variables", XLabel: "Value", YLabel: "Frequency", Bins: panelBins})
	}
	if len(numeric) > 1 {
		if hm, err := v.correlationHeatmap(numeric); err == nil {
			add(render.Spec{Renderer: hm, Title: "Correlation Matrix", Annotate: true})
		}
	}
	add(v.missingSpec())
	if target != "" {
		add(v.targetSpec(target))
	}
	if len(categorical) > 0 {
		col := categorical[0]
		if r, _, err := v.bar(col, "", 10); err == nil {
			add(render.Spec{Renderer: r, Title: "Top Categories: " + col, XLabel: "Count", Horizontal: true})
		}
	}
	if len(numeric) > 0 {
		if r, err := v.boxes(first(numeric, 4)); err == nil {
			add(render.Spec{Renderer: r, Title: "Outlier Detection (Boxplots)", YLabel: "Value"})
		}
	}

	rows := (len(specs) + 1) / 2
	cfg := v.config("Automatic Diagnostics", "", "")
	cfg = cfg.WithSize(cfg.Width*1.5, cfg.Height*float64(rows)*0.85)
	fig, err := v.grid(rows, 2, cfg, specs...)
	if err != nil {
		return nil, err
	}
	v.log.Info("generated diagnostic plots", "panels", len(specs), "target", target)
	return fig, nil
}

func first(cols []string, n int) []string {
	if len(cols) > n {
		return cols[:n]
	}
	return cols
}

// histOverlay overlays the histograms of columns.
func (v *Visualizer) histOverlay(columns []string) render.Renderer {
	r := render.Hists{}
	for _, c := range columns {
		vals, err := v.ds.Float(c)
		if err != nil {
			return render.Text{Message: err.Error()}
		}
		r.Series = append(r.Series, render.Series{Name: c, Values: vals})
	}
	return r
}

// densityOverlay draws the KDE of each column on one shared x grid.
func (v *Visualizer) densityOverlay(columns []string) render.Renderer {
	lo, hi := math.Inf(1), math.Inf(-1)
	data := make([][]float64, 0, len(columns))
	for _, c := range columns {
		vals, err := v.ds.Float(c)
		if err != nil {
			return render.Text{Message: err.Error()}
		}
		// Two points are enough to learn the estimate's support.
		xs, _ := analysis.Density(vals, 2)
		if xs == nil {
			continue
		}
		lo, hi = math.Min(lo, xs[0]), math.Max(hi, xs[1])
		data = append(data, vals)
	}
	if len(data) == 0 {
		return render.Text{Message: "No numeric values"}
	}
	grid := make([]float64, densityPoints)
	for i := range grid {
		grid[i] = lo + (hi-lo)*float64(i)/float64(densityPoints-1)
	}
	r := render.Line{X: grid}
	for i, vals := range data {
		r.Series = append(r.Series, render.Series{Name: columns[i], Values: analysis.DensityAt(vals, grid)})
	}
	return r
}

func (v *Visualizer) missingSpec() render.Spec {
	var cats []string
	var counts []float64
	for _, m := range analysis.MissingCounts(v.ds) {
		if m.Missing > 0 {
			cats = append(cats, m.Column)
			counts = append(counts, float64(m.Missing))
		}
	}
	if len(cats) == 0 {
		return render.Spec{Renderer: render.Text{Message: "No Missing Values"}, Title: "Missing Values Check"}
	}
	return render.Spec{
		Renderer:   render.Bar{Categories: cats, Series: []render.Series{{Name: "missing", Values: counts}}},
		Title:      "Missing Values by Column",
		XLabel:     "Count",
		Horizontal: true,
	}
}

func (v *Visualizer) targetSpec(target string) render.Spec {
	title := "Target Distribution: " + target
	if vals, err := v.ds.Float(target); err == nil {
		return render.Spec{Renderer: render.Histogram{Values: vals}, Title: title, XLabel: target, YLabel: "Frequency"}
	}
	r, _, err := v.bar(target, "", 0)
	if err != nil {
		return render.Spec{Renderer: render.Text{Message: err.Error()}, Title: title}
	}
	return render.Spec{Renderer: r, Title: title, XLabel: target, YLabel: "Count"}
}

// MissingData charts missing cells per column, or a notice when there are none.
func (v *Visualizer) MissingData() (*render.Figure, error) {
	s := v.missingSpec()
	cfg := v.config(s.Title, s.XLabel, "")
	cfg.Horizontal = s.Horizontal
	return v.render(s.Renderer, cfg)
}

// Outliers flags the values of a numeric column with the given method, or
// the configured method when empty.
func (v *Visualizer) Outliers(column string, method analysis.OutlierMethod) ([]bool, error) {
	if method == "" {
		method = v.opt.OutlierMethod
	}
	vals, err := v.ds.Float(column)
	if err != nil {
		return nil, err
	}
	return analysis.DetectOutliers(vals, method, v.opt.zThreshold())
}

// OutlierPlot scatters a column against its row index with flagged values
// drawn as a separate series.
func (v *Visualizer) OutlierPlot(column string, method analysis.OutlierMethod) (*render.Figure, error) {
	if method == "" {
		method = v.opt.OutlierMethod
	}
	flags, err := v.Outliers(column, method)
	if err != nil {
		return nil, err
	}
	vals, _ := v.ds.Float(column)
	hue := make([]string, len(vals))
	for i, f := range flags {
		hue[i] = "normal"
		if f {
			hue[i] = "outlier"
		}
	}
	n := analysis.CountFlags(flags)
	v.log.Debug("outliers detected", "column", column, "method", method, "count", n)
	title := fmt.Sprintf("Outliers in %s (%s, %d flagged)", column, method, n)
	return v.render(render.Scatter{X: indexOf(len(vals)), Y: vals, Hue: hue}, v.config(title, "index", column))
}

func indexOf(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// DistributionComparison puts the density curves of the columns next to
// their box plots. With no columns, up to four numeric columns are used.
func (v *Visualizer) DistributionComparison(columns ...string) (*render.Figure, error) {
	if len(columns) == 0 {
		columns = first(v.ds.NumericColumns(), 4)
	}
	if len(columns) == 0 {
		return nil, errs.InsufficientColumns(1, 0)
	}
	if err := v.ds.Require(columns...); err != nil {
		return nil, err
	}
	box, err := v.boxes(columns)
	if err != nil {
		return nil, err
	}
	cfg := v.config("Distribution Comparison", "", "")
	cfg = cfg.WithSize(cfg.Width*1.4, cfg.Height)
	return v.grid(1, 2, cfg,
		render.Spec{Renderer: v.densityOverlay(columns), Title: "Density", XLabel: "Value", YLabel: "Density"},
		render.Spec{Renderer: box, Title: "Spread", YLabel: "Value"},
	)
}

// DataQualityReport summarizes completeness and cardinality: missing values,
// column kinds, unique counts per column and headline numbers.
func (v *Visualizer) DataQualityReport() (*render.Figure, error) {
	rows, err := analysis.Summary(v.ds)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	unique := make([]float64, len(rows))
	missingCells := 0
	for i, r := range rows {
		names[i] = r.Name
		unique[i] = float64(r.Unique)
		missingCells += r.Missing
	}
	numeric, categorical := len(v.ds.NumericColumns()), len(v.ds.CategoricalColumns())
	total := v.ds.Len() * len(rows)
	completeness := 100.0
	if total > 0 {
		completeness = 100 * float64(total-missingCells) / float64(total)
	}
	facts := render.Table{
		Header: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Rows", fmt.Sprint(v.ds.Len())},
			{"Columns", fmt.Sprint(len(rows))},
			{"Numeric columns", fmt.Sprint(numeric)},
			{"Categorical columns", fmt.Sprint(categorical)},
			{"Missing cells", fmt.Sprint(missingCells)},
			{"Completeness", analysis.FormatFloat(completeness, 1) + "%"},
		},
	}
	kinds := render.Pie{Labels: []string{"numeric", "categorical"}, Values: []float64{float64(numeric), float64(categorical)}}

	cfg := v.config("Data Quality Report", "", "")
	cfg = cfg.WithSize(cfg.Width*1.4, cfg.Height*1.6)
	return v.grid(2, 2, cfg,
		v.missingSpec(),
		render.Spec{Renderer: kinds, Title: "Column Types"},
		render.Spec{Renderer: render.Bar{Categories: names, Series: []render.Series{{Name: "unique", Values: unique}}}, Title: "Unique Values per Column", YLabel: "Unique"},
		render.Spec{Renderer: facts, Title: "Overview"},
	)
}

// SummaryHeatmap colors count, mean, std, min, quartiles and max of the
// numeric columns, one heat map column per data column.
func (v *Visualizer) SummaryHeatmap(columns ...string) (*render.Figure, error) {
	rows, err := analysis.NumericSummary(v.ds, columns...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return v.render(render.Text{Message: "No numeric columns to summarize"}, v.config("Summary Statistics", "", ""))
	}
	stats := []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	values := make([][]float64, len(stats))
	for i := range values {
		values[i] = make([]float64, len(rows))
	}
	cols := make([]string, len(rows))
	for j, r := range rows {
		cols[j] = r.Name
		for i, x := range []float64{float64(r.Count), r.Mean, r.Std, r.Min, r.Q1, r.Median, r.Q3, r.Max} {
			values[i][j] = x
		}
	}
	cfg := v.config("Summary Statistics Heatmap", "Columns", "Statistics")
	cfg.Annotate = true
	return v.render(render.Heatmap{XLabels: cols, YLabels: stats, Values: values}, cfg)
}

// SummaryTable draws the per-column summary as a table panel.
func (v *Visualizer) SummaryTable(columns ...string) (*render.Figure, error) {
	rows, err := analysis.Summary(v.ds, columns...)
	if err != nil {
		return nil, err
	}
	t := render.Table{Header: []string{"Column", "Type", "Count", "Missing", "Unique", "Mean", "Min", "Max"}}
	for _, r := range rows {
		mean, lo, hi := "-", "-", "-"
		if r.Kind == dataset.Numeric {
			mean, lo, hi = analysis.FormatFloat(r.Mean, 2), analysis.FormatFloat(r.Min, 2), analysis.FormatFloat(r.Max, 2)
		}
		t.Rows = append(t.Rows, []string{
			r.Name, r.Type, fmt.Sprint(r.Count), fmt.Sprint(r.Missing), fmt.Sprint(r.Unique), mean, lo, hi,
		})
	}
	return v.render(t, v.config("Summary Table", "", ""))
}

// CorrelationSummary charts the column pairs with |r| >= threshold, strongest
// first, or a notice when no pair qualifies.
func (v *Visualizer) CorrelationSummary(threshold float64) (*render.Figure, error) {
	numeric := v.ds.NumericColumns()
	if len(numeric) < 2 {
		return v.render(render.Text{Message: "Need at least 2 numeric columns"}, v.config("Correlation Summary", "", ""))
	}
	rep, err := analysis.CorrelationMatrix(v.ds, v.opt.CorrMethod, numeric...)
	if err != nil {
		return nil, err
	}
	pairs, err := analysis.HighCorrelationPairs(rep, threshold)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("High Correlations (|r| >= %s)", analysis.FormatFloat(threshold, 2))
	if len(pairs) == 0 {
		return v.render(render.Text{Message: "No correlations found above threshold " + analysis.FormatFloat(threshold, 2)}, v.config(title, "", ""))
	}
	// Horizontal bars stack upwards, so reverse to put the strongest on top.
	labels := make([]string, len(pairs))
	vals := make([]float64, len(pairs))
	for i := range pairs {
		p := pairs[len(pairs)-1-i]
		labels[i] = p.A + " <-> " + p.B
		vals[i] = p.R
	}
	cfg := v.config(title, "Correlation Coefficient", "")
	cfg.Horizontal = true
	cfg.Annotate = true
	return v.render(render.Bar{Categories: labels, Series: []render.Series{{Name: string(rep.Method), Values: vals}}}, cfg)
}
