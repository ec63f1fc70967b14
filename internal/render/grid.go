package render

import (
	"fmt"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Spec is a renderer plus the per-panel settings it is drawn with. The
// figure Config supplies theme, sizes and everything not set here.
type Spec struct {
	Renderer Renderer
	Title    string
	XLabel   string
	YLabel   string
	// Annotate and Horizontal override the figure Config for this panel.
	Annotate   bool
	Horizontal bool
	Bins       int
}

// Cell addresses a grid position, zero-based.
type Cell struct {
	Row, Col int
}

// Grid collects panel specs for a rows x cols figure. Panels are rendered in
// row-major cell order so output is deterministic.
type Grid struct {
	rows, cols int
	cells      []*Spec
	n          int
}

// NewGrid returns an empty grid. Both dimensions must be positive.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errs.InvalidParameter("grid", fmt.Sprintf("%dx%d", rows, cols), "Rows and columns must be positive")
	}
	return &Grid{rows: rows, cols: cols, cells: make([]*Spec, rows*cols)}, nil
}

// Cap is the number of cells.
func (g *Grid) Cap() int { return g.rows * g.cols }

// Len is the number of filled cells.
func (g *Grid) Len() int { return g.n }

// Add places spec in cell. A full grid reports MaxCellsExceeded; an occupied
// or out-of-range cell is an InvalidParameter.
func (g *Grid) Add(spec Spec, cell Cell) error {
	if spec.Renderer == nil {
		return errs.InvalidParameter("renderer", nil, "Every panel needs a renderer")
	}
	if g.n >= g.Cap() {
		return errs.MaxCellsExceeded(g.Cap())
	}
	if cell.Row < 0 || cell.Col < 0 || cell.Row >= g.rows || cell.Col >= g.cols {
		return errs.InvalidParameter("cell", fmt.Sprintf("(%d, %d)", cell.Row, cell.Col),
			fmt.Sprintf("Cells range from (0, 0) to (%d, %d)", g.rows-1, g.cols-1))
	}
	i := cell.Row*g.cols + cell.Col
	if g.cells[i] != nil {
		return errs.InvalidParameter("cell", fmt.Sprintf("(%d, %d)", cell.Row, cell.Col), "Cell is already occupied")
	}
	g.cells[i] = &spec
	g.n++
	return nil
}

// Next places spec in the first free cell in row-major order.
func (g *Grid) Next(spec Spec) error {
	if g.n >= g.Cap() {
		return errs.MaxCellsExceeded(g.Cap())
	}
	for i, s := range g.cells {
		if s == nil {
			return g.Add(spec, Cell{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return errs.MaxCellsExceeded(g.Cap())
}

// RenderAll draws every filled cell with cfg and returns the composed figure.
// A panel that fails to render is replaced by a Text panel and its error is
// collected in the second result.
func (g *Grid) RenderAll(cfg Config) (*Figure, []error, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if g.n == 0 {
		return nil, nil, errs.EmptyDataset()
	}
	fig := newFigure(g.rows, g.cols, cfg)
	fig.Title = cfg.Title
	var failures []error
	for i, s := range g.cells {
		if s == nil {
			continue
		}
		pc := panelConfig(cfg, *s)
		p, err := s.Renderer.Plot(pc)
		if err != nil {
			failures = append(failures, fmt.Errorf("panel %q: %w", s.Title, err))
			if p, err = (Text{Message: "Could not draw " + s.Title}).Plot(pc); err != nil {
				return nil, failures, err
			}
		}
		fig.panels[i] = p
	}
	return fig, failures, nil
}

func panelConfig(cfg Config, s Spec) Config {
	pc := cfg
	pc.Title, pc.XLabel, pc.YLabel = s.Title, s.XLabel, s.YLabel
	pc.Annotate = cfg.Annotate || s.Annotate
	pc.Horizontal = cfg.Horizontal || s.Horizontal
	if s.Bins > 0 {
		pc.Bins = s.Bins
	}
	pc.FontSize = cfg.fontSize() - 2
	return pc
}
