package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/errs"
)

// Heatmap colors a matrix of values. Values[i][j] is the cell in row i and
// column j; row 0 is drawn at the top. NaN cells are left empty.
type Heatmap struct {
	XLabels []string
	YLabels []string
	Values  [][]float64
	// Min and Max fix the color scale when Min < Max.
	Min, Max float64
	// Diverging selects a blue-white-red scale, used for correlations.
	Diverging bool
}

// matrix adapts Heatmap values to plotter.GridXYZ.
type matrix [][]float64

func (m matrix) Dims() (c, r int)   { return len(m[0]), len(m) }
func (m matrix) Z(c, r int) float64 { return m[len(m)-1-r][c] }
func (m matrix) X(c int) float64    { return float64(c) }
func (m matrix) Y(r int) float64    { return float64(r) }

func (h Heatmap) Plot(cfg Config) (*plot.Plot, error) {
	if len(h.Values) == 0 || len(h.Values[0]) == 0 {
		return nil, errs.EmptyDataset()
	}
	cols := len(h.Values[0])
	for _, row := range h.Values {
		if err := checkLen("cells per row", cols, len(row)); err != nil {
			return nil, err
		}
	}
	if h.XLabels != nil {
		if err := checkLen("x labels", cols, len(h.XLabels)); err != nil {
			return nil, err
		}
	}
	if h.YLabels != nil {
		if err := checkLen("y labels", len(h.Values), len(h.YLabels)); err != nil {
			return nil, err
		}
	}
	m := matrix(h.Values)
	var pal palette.Palette
	if h.Diverging {
		pal = moreland.SmoothBlueRed().Palette(255)
	} else {
		pal = moreland.Kindlmann().Palette(255)
	}
	hm := plotter.NewHeatMap(m, pal)
	if math.IsInf(hm.Min, 1) {
		return nil, errs.EmptyDataset()
	}
	if h.Min < h.Max {
		hm.Min, hm.Max = h.Min, h.Max
	}
	if hm.Min == hm.Max {
		hm.Min, hm.Max = hm.Min-0.5, hm.Max+0.5
	}
	hm.Underflow = pal.Colors()[0]
	hm.Overflow = pal.Colors()[len(pal.Colors())-1]

	p := cfg.newPlot()
	p.Add(hm)
	if cfg.Annotate {
		lb, err := cellLabels(cfg, m)
		if err != nil {
			return nil, err
		}
		if lb != nil {
			p.Add(lb)
		}
	}
	if h.XLabels != nil {
		p.NominalX(h.XLabels...)
	}
	if h.YLabels != nil {
		rev := make([]string, len(h.YLabels))
		for i, s := range h.YLabels {
			rev[len(rev)-1-i] = s
		}
		p.NominalY(rev...)
	}
	return p, nil
}

func cellLabels(cfg Config, m matrix) (*plotter.Labels, error) {
	c, r := m.Dims()
	var lab plotter.XYLabels
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			z := m.Z(i, j)
			if math.IsNaN(z) {
				continue
			}
			lab.XYs = append(lab.XYs, plotter.XY{X: m.X(i), Y: m.Y(j)})
			lab.Labels = append(lab.Labels, analysis.FormatFloat(z, 2))
		}
	}
	if len(lab.Labels) == 0 {
		return nil, nil
	}
	lb, err := plotter.NewLabels(lab)
	if err != nil {
		return nil, wrap("heat map labels", err)
	}
	sty := cfg.textStyle(cfg.fontSize() - 3)
	for i := range lb.TextStyle {
		lb.TextStyle[i] = sty
	}
	return lb, nil
}
