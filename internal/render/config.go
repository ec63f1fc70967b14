// Package render turns prepared data into figures. Each chart family is a
// Renderer; styling comes from an explicit Config so nothing here depends on
// process-wide state. Gonum plot does the drawing; pie charts are drawn by
// go-chart and placed as an image panel.
package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/theme"
)

// Config is the styling and sizing passed to every render call.
type Config struct {
	Title  string
	XLabel string
	YLabel string
	// Width and Height are in inches.
	Width  float64
	Height float64
	DPI    int
	Theme  theme.Theme
	// Color overrides the theme's primary color for single-series charts.
	Color color.Color
	// Bins is the histogram bin count; 0 picks one from the sample size.
	Bins int
	// Alpha is the fill opacity in (0, 1]; 0 means opaque.
	Alpha      float64
	Horizontal bool
	// Annotate writes values next to bars and inside heat map cells.
	Annotate bool
	Grid     bool
	Legend   bool
	FontSize vg.Length
}

// DefaultConfig returns a 10x6 inch, 100 DPI configuration on the default theme.
func DefaultConfig() Config {
	return Config{
		Width:    10,
		Height:   6,
		DPI:      100,
		Theme:    theme.MustGet(theme.Default),
		Grid:     true,
		Legend:   true,
		FontSize: 12,
	}
}

// WithTheme returns a copy of c using t.
func (c Config) WithTheme(t theme.Theme) Config {
	c.Theme = t
	return c
}

// WithTitle returns a copy of c with the given title.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithLabels returns a copy of c with the given axis labels.
func (c Config) WithLabels(x, y string) Config {
	c.XLabel, c.YLabel = x, y
	return c
}

// WithSize returns a copy of c sized in inches.
func (c Config) WithSize(w, h float64) Config {
	c.Width, c.Height = w, h
	return c
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 || math.IsNaN(c.Width) || math.IsNaN(c.Height) {
		return errs.InvalidParameter("size", [2]float64{c.Width, c.Height}, "Width and height must be positive inches")
	}
	if c.Alpha < 0 || c.Alpha > 1 || math.IsNaN(c.Alpha) {
		return errs.InvalidParameter("alpha", c.Alpha, "Alpha must be within [0, 1]")
	}
	if c.Bins < 0 {
		return errs.InvalidParameter("bins", c.Bins, "Bins must be positive, or 0 to choose automatically")
	}
	if c.DPI < 0 {
		return errs.InvalidParameter("dpi", c.DPI, "DPI must be positive")
	}
	return nil
}

func (c Config) size() (vg.Length, vg.Length) {
	return vg.Length(c.Width) * vg.Inch, vg.Length(c.Height) * vg.Inch
}

func (c Config) dpi() int {
	if c.DPI <= 0 {
		return 100
	}
	return c.DPI
}

func (c Config) fontSize() vg.Length {
	if c.FontSize <= 0 {
		return 12
	}
	return c.FontSize
}

// primary is the single-series fill color.
func (c Config) primary() color.Color {
	if c.Color != nil {
		return c.fade(c.Color)
	}
	return c.fade(c.Theme.GetSeriesColor(0))
}

// series returns the i-th series color with Alpha applied.
func (c Config) series(i int) color.Color {
	return c.fade(c.Theme.GetSeriesColor(i))
}

func (c Config) fade(col color.Color) color.Color {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return col
	}
	return translucent(col, c.Alpha)
}

func (c Config) textStyle(size vg.Length) draw.TextStyle {
	return draw.TextStyle{
		Color:   c.Theme.Foreground,
		Font:    font.From(plot.DefaultFont, size),
		Handler: plot.DefaultTextHandler,
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
	}
}

// newPlot creates a themed plot with the configured title and labels.
func (c Config) newPlot() *plot.Plot {
	p := plot.New()
	fg := c.Theme.Foreground
	p.BackgroundColor = c.Theme.Canvas
	p.Title.Text = c.Title
	p.Title.TextStyle.Color = fg
	p.Title.TextStyle.Font.Size = c.fontSize() + 2
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Color = fg
		ax.Color = fg
		ax.Tick.Label.Color = fg
		ax.Tick.LineStyle.Color = fg
	}
	p.Legend.TextStyle.Color = fg
	p.Legend.Top = true
	if c.Grid && c.Theme.ShowGrid {
		g := plotter.NewGrid()
		g.Vertical.Color = c.Theme.GridColor
		g.Horizontal.Color = c.Theme.GridColor
		p.Add(g)
	}
	return p
}

// bare returns a themed plot with hidden axes for non-Cartesian panels.
func (c Config) bare() *plot.Plot {
	p := plot.New()
	p.BackgroundColor = c.Theme.Canvas
	p.Title.Text = c.Title
	p.Title.TextStyle.Color = c.Theme.Foreground
	p.Title.TextStyle.Font.Size = c.fontSize() + 2
	p.Legend.TextStyle.Color = c.Theme.Foreground
	p.Legend.Top = true
	p.HideAxes()
	return p
}
