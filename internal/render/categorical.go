package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/errs"
)

// Bar draws grouped bars, one group per category and one bar per series.
// Missing values draw as zero-height bars.
type Bar struct {
	Categories []string
	Series     []Series
}

func (b Bar) Plot(cfg Config) (*plot.Plot, error) {
	if len(b.Categories) == 0 || len(b.Series) == 0 {
		return nil, errs.EmptyDataset()
	}
	for _, s := range b.Series {
		if err := checkLen("values in series "+s.Name, len(b.Categories), len(s.Values)); err != nil {
			return nil, err
		}
	}
	p := cfg.newPlot()
	k := len(b.Series)
	w := slotWidth(cfg, len(b.Categories)) / vg.Length(k)
	for i, s := range b.Series {
		vals := zeroed(s.Values)
		bc, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return nil, wrap("bar chart", err)
		}
		bc.Color = cfg.series(i)
		if k == 1 {
			bc.Color = cfg.primary()
		}
		bc.LineStyle.Width = 0
		bc.Horizontal = cfg.Horizontal
		bc.Offset = (vg.Length(i) - vg.Length(k-1)/2) * w
		p.Add(bc)
		if cfg.Legend && k > 1 && s.Name != "" {
			p.Legend.Add(s.Name, bc)
		}
		if cfg.Annotate {
			lb, err := barLabels(cfg, vals, bc.Offset)
			if err != nil {
				return nil, err
			}
			p.Add(lb)
		}
	}
	if cfg.Horizontal {
		p.NominalY(b.Categories...)
	} else {
		p.NominalX(b.Categories...)
	}
	return p, nil
}

func barLabels(cfg Config, vals plotter.Values, offset vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(vals))
	text := make([]string, len(vals))
	for j, v := range vals {
		xys[j] = plotter.XY{X: float64(j), Y: v}
		if cfg.Horizontal {
			xys[j] = plotter.XY{X: v, Y: float64(j)}
		}
		text[j] = analysis.FormatFloat(v, 2)
	}
	lb, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, wrap("bar labels", err)
	}
	sty := cfg.textStyle(cfg.fontSize() - 2)
	for j := range lb.TextStyle {
		lb.TextStyle[j] = sty
	}
	if cfg.Horizontal {
		lb.Offset = vg.Point{X: vg.Points(14), Y: offset}
	} else {
		lb.Offset = vg.Point{X: offset, Y: vg.Points(8)}
	}
	return lb, nil
}

// slotWidth is the drawing width available to one category.
func slotWidth(cfg Config, n int) vg.Length {
	w, h := cfg.size()
	if cfg.Horizontal {
		w = h
	}
	return w * 0.6 / vg.Length(n)
}

// Histogram bins a single numeric sample. Config.Bins of 0 picks the
// Sturges bin count.
type Histogram struct {
	Values []float64
}

func (h Histogram) Plot(cfg Config) (*plot.Plot, error) {
	vals := values(h.Values)
	if len(vals) == 0 {
		return nil, errs.EmptyDataset()
	}
	bins := cfg.Bins
	if bins == 0 {
		bins = analysis.AutoBins(len(vals), "sturges")
	}
	hist, err := plotter.NewHist(vals, bins)
	if err != nil {
		return nil, wrap("histogram", err)
	}
	hist.FillColor = cfg.primary()
	hist.LineStyle.Color = cfg.Theme.Background
	hist.LineStyle.Width = vg.Points(0.5)
	p := cfg.newPlot()
	p.Add(hist)
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = "Frequency"
	}
	return p, nil
}

// Hists overlays one translucent histogram per series, each binned over its
// own range. Series without finite values are skipped.
type Hists struct {
	Series []Series
}

func (h Hists) Plot(cfg Config) (*plot.Plot, error) {
	p := cfg.newPlot()
	drawn := 0
	for i, s := range h.Series {
		vals := values(s.Values)
		if len(vals) == 0 {
			continue
		}
		bins := cfg.Bins
		if bins == 0 {
			bins = analysis.AutoBins(len(vals), "sturges")
		}
		hist, err := plotter.NewHist(vals, bins)
		if err != nil {
			return nil, wrap("histogram", err)
		}
		hist.FillColor = translucent(cfg.series(i), 0.5)
		hist.LineStyle.Width = 0
		p.Add(hist)
		if cfg.Legend && s.Name != "" {
			p.Legend.Add(s.Name, hist)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, errs.EmptyDataset()
	}
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = "Frequency"
	}
	return p, nil
}

// Box draws one box per group. Groups and Data are parallel.
type Box struct {
	Groups []string
	Data   [][]float64
}

func (b Box) Plot(cfg Config) (*plot.Plot, error) {
	if err := checkLen("groups", len(b.Groups), len(b.Data)); err != nil {
		return nil, err
	}
	if len(b.Groups) == 0 {
		return nil, errs.EmptyDataset()
	}
	p := cfg.newPlot()
	w := slotWidth(cfg, len(b.Groups))
	for i, d := range b.Data {
		vals := values(d)
		if len(vals) == 0 {
			return nil, errs.InvalidParameter("group", b.Groups[i], "Every group needs at least one non-missing value")
		}
		bp, err := plotter.NewBoxPlot(w, float64(i), vals)
		if err != nil {
			return nil, wrap("box plot", err)
		}
		bp.FillColor = cfg.series(i)
		bp.Horizontal = cfg.Horizontal
		p.Add(bp)
	}
	if cfg.Horizontal {
		p.NominalY(b.Groups...)
	} else {
		p.NominalX(b.Groups...)
	}
	return p, nil
}

// Violin mirrors a Gaussian kernel density estimate of each group around
// its category position.
type Violin struct {
	Groups []string
	Data   [][]float64
}

const violinSteps = 64

func (v Violin) Plot(cfg Config) (*plot.Plot, error) {
	if err := checkLen("groups", len(v.Groups), len(v.Data)); err != nil {
		return nil, err
	}
	if len(v.Groups) == 0 {
		return nil, errs.EmptyDataset()
	}
	p := cfg.newPlot()
	for i, d := range v.Data {
		vals := values(d)
		if len(vals) == 0 {
			return nil, errs.InvalidParameter("group", v.Groups[i], "Every group needs at least one non-missing value")
		}
		outline := violinOutline(vals, float64(i), 0.4)
		if cfg.Horizontal {
			for j := range outline {
				outline[j].X, outline[j].Y = outline[j].Y, outline[j].X
			}
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return nil, wrap("violin", err)
		}
		poly.Color = cfg.series(i)
		poly.LineStyle.Color = cfg.Theme.Foreground
		poly.LineStyle.Width = vg.Points(0.75)
		p.Add(poly)
	}
	if cfg.Horizontal {
		p.NominalY(v.Groups...)
	} else {
		p.NominalX(v.Groups...)
	}
	return p, nil
}

// violinOutline returns the closed outline of a KDE centered on loc with the
// widest point at loc±half.
func violinOutline(vals []float64, loc, half float64) plotter.XYs {
	ys, dens := analysis.Density(vals, violinSteps)
	peak := 0.0
	for _, d := range dens {
		peak = math.Max(peak, d)
	}
	out := make(plotter.XYs, 0, 2*len(ys))
	for j := range ys {
		out = append(out, plotter.XY{X: loc + half*dens[j]/peak, Y: ys[j]})
	}
	for j := len(ys) - 1; j >= 0; j-- {
		out = append(out, plotter.XY{X: loc - half*dens[j]/peak, Y: ys[j]})
	}
	return out
}
