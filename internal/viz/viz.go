// Package viz is the convenience facade: it binds a dataset to a theme and
// exposes one-call charts and diagnostic figures built from the analysis
// and render packages.
package viz

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
	"github.com/KaramelBytes/plotease/internal/theme"
)

// Options configures a Visualizer. Zero values fall back to DefaultOptions.
type Options struct {
	Theme   string
	Palette string
	// Render is the base styling every chart starts from; its Theme field is
	// replaced by the Visualizer's theme.
	Render        render.Config
	CorrMethod    analysis.Method
	OutlierMethod analysis.OutlierMethod
	// ZThreshold is the z-score cut-off; nil means analysis.DefaultZThreshold.
	ZThreshold  *float64
	Categorical analysis.CategoricalOptions
	Logger      *slog.Logger
}

// DefaultOptions returns the default theme, Pearson correlation and IQR
// outlier detection with a discarding logger.
func DefaultOptions() Options {
	return Options{
		Theme:         theme.Default,
		Render:        render.DefaultConfig(),
		CorrMethod:    analysis.Pearson,
		OutlierMethod: analysis.IQR,
		Categorical:   analysis.DefaultCategoricalOptions(),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Theme == "" {
		o.Theme = d.Theme
	}
	if o.Render.Width == 0 && o.Render.Height == 0 {
		o.Render = d.Render
	}
	if o.CorrMethod == "" {
		o.CorrMethod = d.CorrMethod
	}
	if o.OutlierMethod == "" {
		o.OutlierMethod = d.OutlierMethod
	}
	if o.Categorical.TieBreak == "" {
		o.Categorical = d.Categorical
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

func (o Options) zThreshold() float64 {
	if o.ZThreshold == nil {
		return analysis.DefaultZThreshold
	}
	return *o.ZThreshold
}

// Visualizer binds a dataset to a theme.
type Visualizer struct {
	ds    *dataset.Dataset
	theme theme.Theme
	opt   Options
	log   *slog.Logger
}

// New wraps data, which may be a *dataset.Dataset or anything dataset.New
// accepts, and resolves the configured theme and palette.
func New(data any, opt Options) (*Visualizer, error) {
	opt = opt.withDefaults()
	var ds *dataset.Dataset
	switch d := data.(type) {
	case *dataset.Dataset:
		if d == nil {
			return nil, errs.InvalidDataType("nil *dataset.Dataset")
		}
		ds = d
	default:
		var err error
		if ds, err = dataset.New(data); err != nil {
			return nil, err
		}
	}
	v := &Visualizer{ds: ds, opt: opt, log: opt.Logger}
	if err := v.setTheme(opt.Theme, opt.Palette); err != nil {
		return nil, err
	}
	v.log.Debug("visualizer ready", "rows", ds.Len(), "cols", len(ds.Names()), "theme", v.theme.Name)
	return v, nil
}

// Dataset returns the wrapped dataset.
func (v *Visualizer) Dataset() *dataset.Dataset { return v.ds }

// Theme returns the active theme.
func (v *Visualizer) Theme() theme.Theme { return v.theme }

// Len returns the number of rows.
func (v *Visualizer) Len() int { return v.ds.Len() }

// SetTheme switches the theme for subsequent charts, keeping the palette.
func (v *Visualizer) SetTheme(name string) error {
	return v.setTheme(name, v.opt.Palette)
}

func (v *Visualizer) setTheme(name, pal string) error {
	t, err := theme.Get(name)
	if err != nil {
		return err
	}
	if pal != "" {
		if t, err = t.WithPalette(pal); err != nil {
			return err
		}
	}
	v.theme = t
	v.opt.Theme = name
	return nil
}

func (v *Visualizer) String() string {
	return fmt.Sprintf("Visualizer(rows=%d, theme=%q)", v.ds.Len(), v.theme.Name)
}

// EqualsByContent reports whether both visualizers hold equal tables and
// use the same theme.
func EqualsByContent(a, b *Visualizer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.theme.Name == b.theme.Name && dataset.EqualsByContent(a.ds, b.ds)
}

// CompareByRowCount orders visualizers by the row count of their data.
func CompareByRowCount(a, b *Visualizer) int {
	return dataset.CompareByRowCount(a.ds, b.ds)
}

// config returns the base render config with the active theme and labels.
func (v *Visualizer) config(title, xlabel, ylabel string) render.Config {
	return v.opt.Render.WithTheme(v.theme).WithTitle(title).WithLabels(xlabel, ylabel)
}

func (v *Visualizer) render(r render.Renderer, cfg render.Config) (*render.Figure, error) {
	fig, err := render.Render(r, cfg)
	if err != nil {
		v.log.Debug("render failed", "title", cfg.Title, "err", err)
		return nil, err
	}
	return fig, nil
}

// grid renders specs into a figure, logging panels that had to be replaced.
func (v *Visualizer) grid(rows, cols int, cfg render.Config, specs ...render.Spec) (*render.Figure, error) {
	g, err := render.NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, s := range specs {
		if err := g.Next(s); err != nil {
			return nil, err
		}
	}
	fig, failures, err := g.RenderAll(cfg)
	for _, f := range failures {
		v.log.Warn("panel skipped", "figure", cfg.Title, "err", f)
	}
	return fig, err
}
