package render

import (
	"bytes"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/utils"
)

// Formats lists the export formats Save and WriteTo accept.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// Figure is a rendered grid of panels ready for export. Empty cells are nil.
type Figure struct {
	Title string

	rows, cols int
	panels     []*plot.Plot
	cfg        Config
}

func newFigure(rows, cols int, cfg Config) *Figure {
	return &Figure{rows: rows, cols: cols, panels: make([]*plot.Plot, rows*cols), cfg: cfg}
}

// single wraps one panel in a 1x1 figure.
func single(p *plot.Plot, cfg Config) *Figure {
	f := newFigure(1, 1, cfg)
	f.panels[0] = p
	return f
}

// Rows and Cols report the grid shape.
func (f *Figure) Rows() int { return f.rows }
func (f *Figure) Cols() int { return f.cols }

// Panel returns the plot at a grid cell, or nil when the cell is empty.
func (f *Figure) Panel(row, col int) *plot.Plot {
	if row < 0 || col < 0 || row >= f.rows || col >= f.cols {
		return nil
	}
	return f.panels[row*f.cols+col]
}

// Panels returns the number of non-empty cells.
func (f *Figure) Panels() int {
	n := 0
	for _, p := range f.panels {
		if p != nil {
			n++
		}
	}
	return n
}

// Size returns the figure size in inches.
func (f *Figure) Size() (w, h float64) { return f.cfg.Width, f.cfg.Height }

// Draw paints the background, the optional figure title and each panel.
func (f *Figure) Draw(c draw.Canvas) {
	c.SetColor(f.cfg.Theme.Background)
	c.Fill(c.Rectangle.Path())
	if f.Title != "" {
		sty := f.cfg.textStyle(f.cfg.fontSize() + 4)
		sty.YAlign = draw.YTop
		top := vg.Point{X: c.Center().X, Y: c.Max.Y - vg.Points(6)}
		c.FillText(sty, top, f.Title)
		c.Max.Y -= sty.Height(f.Title) + vg.Points(12)
	}
	tiles := draw.Tiles{
		Rows: f.rows, Cols: f.cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	for r := 0; r < f.rows; r++ {
		for col := 0; col < f.cols; col++ {
			if p := f.panels[r*f.cols+col]; p != nil {
				p.Draw(tiles.At(c, col, r))
			}
		}
	}
}

// WriteTo encodes the figure in format ("png", "svg", ...) at dpi.
func (f *Figure) WriteTo(w io.Writer, format string, dpi int) (int64, error) {
	cw, err := f.canvas(format, dpi)
	if err != nil {
		return 0, err
	}
	f.Draw(draw.New(cw))
	return cw.WriteTo(w)
}

// Save writes the figure to path. An empty format is taken from the file
// extension; dpi 0 uses the configured DPI. I/O failures are reported as
// ExportFailure.
func (f *Figure) Save(path string, dpi int, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf, format, dpi); err != nil {
		if errs.KindOf(err) == errs.KindInvalidParameter {
			return err
		}
		return errs.ExportFailure(path, err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return errs.ExportFailure(path, err)
	}
	return nil
}

func (f *Figure) canvas(format string, dpi int) (vg.CanvasWriterTo, error) {
	if dpi <= 0 {
		dpi = f.cfg.dpi()
	}
	w, h := f.cfg.size()
	var bg color.Color = f.cfg.Theme.Background
	img := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi), vgimg.UseBackgroundColor(bg))
	}
	switch strings.ToLower(format) {
	case "png":
		return vgimg.PngCanvas{Canvas: img()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: img()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: img()}, nil
	case "svg":
		return vgsvg.New(w, h), nil
	case "pdf":
		return vgpdf.New(w, h), nil
	case "eps":
		return vgeps.New(w, h), nil
	}
	return nil, errs.InvalidParameter("format", format, "Supported formats: "+strings.Join(Formats, ", "))
}

