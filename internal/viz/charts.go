package viz

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
)

// Chart kinds accepted by QuickPlot.
const (
	KindAuto      = "auto"
	KindScatter   = "scatter"
	KindLine      = "line"
	KindBar       = "bar"
	KindHistogram = "hist"
	KindBox       = "box"
	KindViolin    = "violin"
	KindPie       = "pie"
	KindHeatmap   = "heatmap"
)

// Kinds lists the chart kinds QuickPlot accepts.
var Kinds = []string{KindAuto, KindScatter, KindLine, KindBar, KindHistogram, KindBox, KindViolin, KindPie, KindHeatmap}

const missingLabel = "(missing)"

// Scatter plots y against x, colored by hue when hue is non-empty.
func (v *Visualizer) Scatter(x, y, hue string) (*render.Figure, error) {
	r, err := v.scatter(x, y, hue)
	if err != nil {
		return nil, err
	}
	return v.render(r, v.config(fmt.Sprintf("%s vs %s", y, x), x, y))
}

func (v *Visualizer) scatter(x, y, hue string) (render.Scatter, error) {
	xs, err := v.ds.Float(x)
	if err != nil {
		return render.Scatter{}, err
	}
	ys, err := v.ds.Float(y)
	if err != nil {
		return render.Scatter{}, err
	}
	r := render.Scatter{X: xs, Y: ys}
	if hue != "" {
		if r.Hue, err = v.labels(hue); err != nil {
			return render.Scatter{}, err
		}
	}
	return r, nil
}

// labels returns a column as strings with missing cells named explicitly.
func (v *Visualizer) labels(column string) ([]string, error) {
	cells, miss, err := v.ds.Strings(column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c
		if miss[i] {
			out[i] = missingLabel
		}
	}
	return out, nil
}

// Line draws each y column against x. An empty x uses the row index.
func (v *Visualizer) Line(x string, ys ...string) (*render.Figure, error) {
	if len(ys) == 0 {
		return nil, errs.InvalidParameter("y", "(none)", "Name at least one numeric column to draw")
	}
	r := render.Line{}
	if x != "" {
		xs, err := v.ds.Float(x)
		if err != nil {
			return nil, err
		}
		r.X = xs
	}
	for _, y := range ys {
		vals, err := v.ds.Float(y)
		if err != nil {
			return nil, err
		}
		r.Series = append(r.Series, render.Series{Name: y, Values: vals})
	}
	xl := x
	if xl == "" {
		xl = "index"
	}
	return v.render(r, v.config("Line Plot", xl, strings.Join(ys, ", ")))
}

// Bar draws the mean of y per category of x, or the category counts of x
// when y is empty.
func (v *Visualizer) Bar(x, y string, horizontal bool) (*render.Figure, error) {
	r, ylabel, err := v.bar(x, y, 0)
	if err != nil {
		return nil, err
	}
	cfg := v.config("Bar Plot", x, ylabel)
	cfg.Horizontal = horizontal
	if horizontal {
		cfg = cfg.WithLabels(ylabel, x)
	}
	return v.render(r, cfg)
}

func (v *Visualizer) bar(x, y string, limit int) (render.Bar, string, error) {
	if y == "" {
		counts, err := analysis.ValueCounts(v.ds, x, limit)
		if err != nil {
			return render.Bar{}, "", err
		}
		cats, vals := splitCounts(counts)
		return render.Bar{Categories: cats, Series: []render.Series{{Name: "count", Values: vals}}}, "Count", nil
	}
	groups, err := analysis.GroupSummary(v.ds, y, x)
	if err != nil {
		return render.Bar{}, "", err
	}
	cats := make([]string, len(groups))
	means := make([]float64, len(groups))
	for i, g := range groups {
		cats[i], means[i] = g.Key, g.Stats.Mean
	}
	return render.Bar{Categories: cats, Series: []render.Series{{Name: y, Values: means}}}, "Mean " + y, nil
}

func splitCounts(counts []analysis.CategoryCount) ([]string, []float64) {
	cats := make([]string, len(counts))
	vals := make([]float64, len(counts))
	for i, c := range counts {
		cats[i], vals[i] = c.Value, float64(c.Count)
	}
	return cats, vals
}

// Histogram bins a numeric column. bins of 0 uses the configured bin count,
// or Sturges' rule when none is configured.
func (v *Visualizer) Histogram(column string, bins int) (*render.Figure, error) {
	vals, err := v.ds.Float(column)
	if err != nil {
		return nil, err
	}
	cfg := v.config("Distribution of "+column, column, "Frequency")
	if bins > 0 {
		cfg.Bins = bins
	}
	return v.render(render.Histogram{Values: vals}, cfg)
}

// Box draws one box per named column, or per numeric column when none are
// named.
func (v *Visualizer) Box(columns ...string) (*render.Figure, error) {
	r, err := v.boxes(columns)
	if err != nil {
		return nil, err
	}
	return v.render(r, v.config("Box Plot", "", "Value"))
}

func (v *Visualizer) boxes(columns []string) (render.Box, error) {
	if len(columns) == 0 {
		columns = v.ds.NumericColumns()
	}
	if len(columns) == 0 {
		return render.Box{}, errs.InsufficientColumns(1, 0)
	}
	r := render.Box{Groups: columns}
	for _, c := range columns {
		vals, err := v.ds.Float(c)
		if err != nil {
			return render.Box{}, err
		}
		r.Data = append(r.Data, vals)
	}
	return r, nil
}

// BoxBy draws the distribution of column for each value of groupBy.
func (v *Visualizer) BoxBy(column, groupBy string) (*render.Figure, error) {
	groups, data, err := v.split(column, groupBy)
	if err != nil {
		return nil, err
	}
	return v.render(render.Box{Groups: groups, Data: data}, v.config(column+" by "+groupBy, groupBy, column))
}

// Violin draws the density of y for each category of x.
func (v *Visualizer) Violin(x, y string) (*render.Figure, error) {
	groups, data, err := v.split(y, x)
	if err != nil {
		return nil, err
	}
	return v.render(render.Violin{Groups: groups, Data: data}, v.config("Violin Plot", x, y))
}

func (v *Visualizer) split(column, groupBy string) ([]string, [][]float64, error) {
	res, err := analysis.GroupSummary(v.ds, column, groupBy)
	if err != nil {
		return nil, nil, err
	}
	groups := make([]string, len(res))
	data := make([][]float64, len(res))
	for i, g := range res {
		groups[i], data[i] = g.Key, g.Values
	}
	return groups, data, nil
}

// Heatmap draws the annotated correlation matrix of the named numeric
// columns, or of every numeric column.
func (v *Visualizer) Heatmap(columns ...string) (*render.Figure, error) {
	r, err := v.correlationHeatmap(columns)
	if err != nil {
		return nil, err
	}
	cfg := v.config("Correlation Heatmap", "", "")
	cfg.Annotate = true
	return v.render(r, cfg)
}

func (v *Visualizer) correlationHeatmap(columns []string) (render.Heatmap, error) {
	rep, err := analysis.CorrelationMatrix(v.ds, v.opt.CorrMethod, columns...)
	if err != nil {
		return render.Heatmap{}, err
	}
	return render.Heatmap{
		XLabels:   rep.Columns,
		YLabels:   rep.Columns,
		Values:    rep.Values,
		Min:       -1,
		Max:       1,
		Diverging: true,
	}, nil
}

// Pie draws the share of each value of a column.
func (v *Visualizer) Pie(column string) (*render.Figure, error) {
	counts, err := analysis.ValueCounts(v.ds, column, 0)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, errs.EmptyDataset()
	}
	labels, vals := splitCounts(counts)
	return v.render(render.Pie{Labels: labels, Values: vals}, v.config("Distribution of "+column, "", ""))
}

// PairGrid draws histograms on the diagonal and scatter plots elsewhere for
// up to four numeric columns.
func (v *Visualizer) PairGrid(columns ...string) (*render.Figure, error) {
	if len(columns) == 0 {
		columns = v.ds.NumericColumns()
		if len(columns) > 4 {
			columns = columns[:4]
		}
	}
	if len(columns) < 2 {
		return nil, errs.InsufficientColumns(2, len(columns))
	}
	var specs []render.Spec
	for _, row := range columns {
		for _, col := range columns {
			if row == col {
				vals, err := v.ds.Float(col)
				if err != nil {
					return nil, err
				}
				specs = append(specs, render.Spec{Renderer: render.Histogram{Values: vals}, Title: col})
				continue
			}
			r, err := v.scatter(col, row, "")
			if err != nil {
				return nil, err
			}
			specs = append(specs, render.Spec{Renderer: r, XLabel: col, YLabel: row})
		}
	}
	n := len(columns)
	return v.grid(n, n, v.config("Pair Plot", "", ""), specs...)
}

// PlotAllKinds are the panels PlotAll draws when no kinds are given.
var PlotAllKinds = []string{KindScatter, KindLine, KindHistogram, KindBox}

// PlotAll draws y against x once per kind in a two-column grid. Supported
// kinds are scatter, line, hist (of y) and box (of y).
func (v *Visualizer) PlotAll(x, y string, kinds ...string) (*render.Figure, error) {
	if len(kinds) == 0 {
		kinds = PlotAllKinds
	}
	if err := v.ds.Require(x, y); err != nil {
		return nil, err
	}
	ys, err := v.ds.Float(y)
	if err != nil {
		return nil, err
	}
	specs := make([]render.Spec, 0, len(kinds))
	for _, kind := range kinds {
		s := render.Spec{XLabel: x, YLabel: y}
		switch kind {
		case KindScatter:
			r, err := v.scatter(x, y, "")
			if err != nil {
				return nil, err
			}
			s.Renderer, s.Title = r, "Scatter Plot"
		case KindLine:
			r, err := v.scatter(x, y, "")
			if err != nil {
				return nil, err
			}
			s.Renderer = render.Line{X: r.X, Series: []render.Series{{Name: y, Values: r.Y}}}
			s.Title = "Line Plot"
		case KindHistogram:
			s.Renderer, s.Title = render.Histogram{Values: ys}, "Histogram"
			s.XLabel, s.YLabel, s.Bins = y, "Frequency", panelBins
		case KindBox:
			s.Renderer, s.Title = render.Box{Groups: []string{y}, Data: [][]float64{ys}}, "Box Plot"
			s.XLabel = ""
		default:
			return nil, errs.InvalidParameter("kind", kind, "Supported kinds: "+strings.Join(PlotAllKinds, ", "))
		}
		specs = append(specs, s)
	}
	cols := 2
	if len(specs) < cols {
		cols = len(specs)
	}
	rows := (len(specs) + cols - 1) / cols
	cfg := v.config(fmt.Sprintf("Multiple Plot Types: %s vs %s", y, x), "", "")
	cfg = cfg.WithSize(cfg.Width*float64(cols), cfg.Height*float64(rows))
	return v.grid(rows, cols, cfg, specs...)
}

// DetectKind picks a chart for x and optional y: a histogram for one numeric
// column, a scatter for two, and a bar chart whenever a categorical column
// is involved.
func (v *Visualizer) DetectKind(x, y string) (string, error) {
	kx, err := v.ds.Kind(x)
	if err != nil {
		return "", err
	}
	if y == "" {
		if kx == dataset.Numeric {
			return KindHistogram, nil
		}
		return KindBar, nil
	}
	ky, err := v.ds.Kind(y)
	if err != nil {
		return "", err
	}
	if kx == dataset.Numeric && ky == dataset.Numeric {
		return KindScatter, nil
	}
	return KindBar, nil
}

// QuickPlot draws x (and y) as the given kind; KindAuto or "" chooses one
// with DetectKind.
func (v *Visualizer) QuickPlot(x, y, kind string) (*render.Figure, error) {
	if kind == "" || kind == KindAuto {
		var err error
		if kind, err = v.DetectKind(x, y); err != nil {
			return nil, err
		}
	}
	v.log.Debug("quick plot", "x", x, "y", y, "kind", kind)
	needY := func() error {
		if y == "" {
			return errs.InvalidParameter("y", "(none)", fmt.Sprintf("A %s plot needs both x and y columns", kind))
		}
		return nil
	}
	switch kind {
	case KindScatter:
		if err := needY(); err != nil {
			return nil, err
		}
		return v.Scatter(x, y, "")
	case KindLine:
		if err := needY(); err != nil {
			return nil, err
		}
		return v.Line(x, y)
	case KindBar:
		return v.Bar(x, y, false)
	case KindHistogram:
		return v.Histogram(x, 0)
	case KindBox:
		if y == "" {
			return v.Box(x)
		}
		return v.BoxBy(y, x)
	case KindViolin:
		if err := needY(); err != nil {
			return nil, err
		}
		return v.Violin(x, y)
	case KindPie:
		return v.Pie(x)
	case KindHeatmap:
		cols := []string{x}
		if y != "" {
			cols = append(cols, y)
		}
		return v.Heatmap(cols...)
	}
	return nil, errs.InvalidParameter("kind", kind, "Supported kinds: "+strings.Join(Kinds, ", "))
}
