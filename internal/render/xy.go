package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Scatter plots Y against X. When Hue is set, points are colored by its
// category in first-seen order and a legend entry is added per category.
type Scatter struct {
	X, Y []float64
	Hue  []string
}

func (s Scatter) Plot(cfg Config) (*plot.Plot, error) {
	if err := checkLen("y values", len(s.X), len(s.Y)); err != nil {
		return nil, err
	}
	if s.Hue != nil {
		if err := checkLen("hue values", len(s.X), len(s.Hue)); err != nil {
			return nil, err
		}
	}
	if len(s.X) == 0 {
		return nil, errs.EmptyDataset()
	}
	p := cfg.newPlot()
	groups, order := []plotter.XYs{points(s.X, s.Y)}, []string{""}
	if s.Hue != nil {
		groups, order = splitByHue(s.X, s.Y, s.Hue)
	}
	drawn := 0
	for i, xys := range groups {
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, wrap("scatter", err)
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: cfg.series(i), Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		if s.Hue == nil {
			sc.GlyphStyle.Color = cfg.primary()
		}
		p.Add(sc)
		if cfg.Legend && order[i] != "" {
			p.Legend.Add(order[i], sc)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, errs.EmptyDataset()
	}
	return p, nil
}

func splitByHue(x, y []float64, hue []string) ([]plotter.XYs, []string) {
	pos := map[string]int{}
	var groups []plotter.XYs
	var order []string
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			continue
		}
		j, ok := pos[hue[i]]
		if !ok {
			j = len(order)
			pos[hue[i]] = j
			order = append(order, hue[i])
			groups = append(groups, nil)
		}
		groups[j] = append(groups[j], plotter.XY{X: x[i], Y: y[i]})
	}
	return groups, order
}

// Line draws one line per series over a shared X. A nil X uses the row index.
type Line struct {
	X       []float64
	Series  []Series
	Markers bool
}

func (l Line) Plot(cfg Config) (*plot.Plot, error) {
	if len(l.Series) == 0 {
		return nil, errs.EmptyDataset()
	}
	x := l.X
	if x == nil {
		x = index(len(l.Series[0].Values))
	}
	if len(x) == 0 {
		return nil, errs.EmptyDataset()
	}
	p := cfg.newPlot()
	drawn := 0
	for i, s := range l.Series {
		if err := checkLen("values in series "+s.Name, len(x), len(s.Values)); err != nil {
			return nil, err
		}
		xys := points(x, s.Values)
		if len(xys) == 0 {
			continue
		}
		col := cfg.series(i)
		if len(l.Series) == 1 {
			col = cfg.primary()
		}
		var thumbs []plot.Thumbnailer
		if l.Markers {
			ln, sc, err := plotter.NewLinePoints(xys)
			if err != nil {
				return nil, wrap("line", err)
			}
			ln.LineStyle.Color = col
			ln.LineStyle.Width = vg.Points(1.5)
			sc.GlyphStyle = draw.GlyphStyle{Color: col, Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
			p.Add(ln, sc)
			thumbs = append(thumbs, ln, sc)
		} else {
			ln, err := plotter.NewLine(xys)
			if err != nil {
				return nil, wrap("line", err)
			}
			ln.LineStyle.Color = col
			ln.LineStyle.Width = vg.Points(1.5)
			p.Add(ln)
			thumbs = append(thumbs, ln)
		}
		if cfg.Legend && s.Name != "" {
			p.Legend.Add(s.Name, thumbs...)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, errs.EmptyDataset()
	}
	return p, nil
}
