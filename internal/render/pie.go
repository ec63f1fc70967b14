package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Pie draws category shares. go-chart renders the slices to a raster that is
// then placed in a bare gonum panel so pies compose with the other charts.
type Pie struct {
	Labels []string
	Values []float64
}

func (pc Pie) Plot(cfg Config) (*plot.Plot, error) {
	if err := checkLen("values", len(pc.Labels), len(pc.Values)); err != nil {
		return nil, err
	}
	if len(pc.Values) == 0 {
		return nil, errs.EmptyDataset()
	}
	total := 0.0
	for i, v := range pc.Values {
		if !finite(v) || v < 0 {
			return nil, errs.InvalidParameter("value", fmt.Sprintf("%s=%v", pc.Labels[i], v), "Pie slices must be finite and non-negative")
		}
		total += v
	}
	if total == 0 {
		return nil, errs.InvalidParameter("values", "all zero", "At least one slice must be positive")
	}

	dpi := cfg.dpi()
	side := int(min(cfg.Width, cfg.Height) * float64(dpi))
	vals := make([]chart.Value, 0, len(pc.Values))
	for i, v := range pc.Values {
		if v == 0 {
			continue
		}
		vals = append(vals, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", pc.Labels[i], 100*v/total),
			Value: v,
			Style: chart.Style{
				FillColor:   cfg.Theme.GetSeriesColor(i),
				StrokeColor: cfg.Theme.Background,
				StrokeWidth: 1,
				FontColor:   cfg.Theme.TextColor(),
			},
		})
	}
	pie := chart.PieChart{
		ColorPalette: cfg.Theme,
		Width:        side,
		Height:       side,
		DPI:          float64(dpi),
		Values:       vals,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, wrap("pie chart", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, wrap("pie chart", err)
	}
	p := cfg.bare()
	p.Add(plotter.NewImage(img, -1, -1, 1, 1))
	return p, nil
}

