package render

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Renderer builds one themed panel from its own data. Implementations only
// validate their inputs; layout and export belong to Figure and Grid.
type Renderer interface {
	Plot(cfg Config) (*plot.Plot, error)
}

// Series is a named run of values, one per category or x position.
type Series struct {
	Name   string
	Values []float64
}

// Render draws r into a single-panel figure.
func Render(r Renderer, cfg Config) (*Figure, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p, err := r.Plot(cfg)
	if err != nil {
		return nil, err
	}
	return single(p, cfg), nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// points pairs x and y, dropping pairs where either side is not finite.
func points(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if finite(x[i]) && finite(y[i]) {
			xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
		}
	}
	return xys
}

// values copies the finite entries of v.
func values(v []float64) plotter.Values {
	out := make(plotter.Values, 0, len(v))
	for _, x := range v {
		if finite(x) {
			out = append(out, x)
		}
	}
	return out
}

// zeroed replaces non-finite entries with 0 so bars keep their slot.
func zeroed(v []float64) plotter.Values {
	out := make(plotter.Values, len(v))
	for i, x := range v {
		if finite(x) {
			out[i] = x
		}
	}
	return out
}

func index(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func checkLen(what string, want, got int) error {
	if want != got {
		return errs.DimensionMismatch(strconv.Itoa(want)+" "+what, strconv.Itoa(got))
	}
	return nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.OperationFailed(op, err)
}
