package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Radar draws each series as a closed polygon over evenly spaced axes.
// Values are scaled by Max, or by the largest value when Max is 0.
type Radar struct {
	Axes   []string
	Series []Series
	Max    float64
}

func (r Radar) Plot(cfg Config) (*plot.Plot, error) {
	n := len(r.Axes)
	if n < 3 {
		return nil, errs.InvalidParameter("axes", n, "A radar chart needs at least 3 metrics")
	}
	if len(r.Series) == 0 {
		return nil, errs.EmptyDataset()
	}
	scale := r.Max
	for _, s := range r.Series {
		if err := checkLen("values in series "+s.Name, n, len(s.Values)); err != nil {
			return nil, err
		}
		if r.Max <= 0 {
			for _, v := range s.Values {
				if finite(v) {
					scale = math.Max(scale, v)
				}
			}
		}
	}
	if scale <= 0 {
		scale = 1
	}

	p := cfg.bare()
	p.X.Min, p.X.Max = -1.35, 1.35
	p.Y.Min, p.Y.Max = -1.25, 1.25
	grid := draw.LineStyle{Color: cfg.Theme.GridColor, Width: vg.Points(0.5)}
	for _, level := range []float64{0.25, 0.5, 0.75, 1} {
		ring := make(plotter.XYs, n)
		for k := range ring {
			ring[k] = spoke(k, n, level)
		}
		poly, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, wrap("radar", err)
		}
		poly.LineStyle = grid
		p.Add(poly)
	}
	for k := 0; k < n; k++ {
		ln, err := plotter.NewLine(plotter.XYs{{}, spoke(k, n, 1)})
		if err != nil {
			return nil, wrap("radar", err)
		}
		ln.LineStyle = grid
		p.Add(ln)
	}

	for i, s := range r.Series {
		outline := make(plotter.XYs, n)
		for k, v := range s.Values {
			if !finite(v) || v < 0 {
				v = 0
			}
			outline[k] = spoke(k, n, v/scale)
		}
		poly, err := plotter.NewPolygon(outline)
		if err != nil {
			return nil, wrap("radar", err)
		}
		col := cfg.series(i)
		poly.Color = translucent(col, 0.25)
		poly.LineStyle = draw.LineStyle{Color: col, Width: vg.Points(1.5)}
		p.Add(poly)
		if cfg.Legend && s.Name != "" {
			p.Legend.Add(s.Name, poly)
		}
	}

	var lab plotter.XYLabels
	for k, name := range r.Axes {
		lab.XYs = append(lab.XYs, spoke(k, n, 1.15))
		lab.Labels = append(lab.Labels, name)
	}
	lb, err := plotter.NewLabels(lab)
	if err != nil {
		return nil, wrap("radar labels", err)
	}
	sty := cfg.textStyle(cfg.fontSize() - 1)
	for k := range lb.TextStyle {
		lb.TextStyle[k] = sty
	}
	p.Add(lb)
	return p, nil
}

// spoke returns the point at radius on the k-th of n axes, starting at the
// top and going clockwise.
func spoke(k, n int, radius float64) plotter.XY {
	theta := math.Pi/2 - 2*math.Pi*float64(k)/float64(n)
	return plotter.XY{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
}

func translucent(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
}
