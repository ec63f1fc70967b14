package render

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Text is a panel holding only a centered message, used for notes and for
// cells whose chart could not be drawn.
type Text struct {
	Message string
}

func (t Text) Plot(cfg Config) (*plot.Plot, error) {
	p := cfg.bare()
	p.Add(textPlotter{msg: t.Message, style: cfg.textStyle(cfg.fontSize())})
	return p, nil
}

type textPlotter struct {
	msg   string
	style draw.TextStyle
}

func (t textPlotter) Plot(c draw.Canvas, _ *plot.Plot) {
	c.FillText(t.style, c.Center(), t.msg)
}

// Table lays out string cells in a grid with a shaded header row.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) Plot(cfg Config) (*plot.Plot, error) {
	if len(t.Header) == 0 {
		return nil, errs.EmptyDataset()
	}
	for _, r := range t.Rows {
		if err := checkLen("cells per row", len(t.Header), len(r)); err != nil {
			return nil, err
		}
	}
	p := cfg.bare()
	p.Add(tablePlotter{
		header: t.Header,
		rows:   t.Rows,
		style:  cfg.textStyle(cfg.fontSize() - 2),
		band:   cfg.Theme.Primary,
		rule:   draw.LineStyle{Color: cfg.Theme.GridColor, Width: vg.Points(0.5)},
		onBand: cfg.Theme.Background,
	})
	return p, nil
}

type tablePlotter struct {
	header []string
	rows   [][]string
	style  draw.TextStyle
	band   color.Color
	onBand color.Color
	rule   draw.LineStyle
}

func (t tablePlotter) Plot(c draw.Canvas, _ *plot.Plot) {
	ncol := len(t.header)
	nrow := len(t.rows) + 1
	width := c.Max.X - c.Min.X
	height := c.Max.Y - c.Min.Y
	rowH := height / vg.Length(nrow)
	if limit := t.style.Height("M") * 2; rowH > limit {
		rowH = limit
	}
	colW := width / vg.Length(ncol)
	top := c.Max.Y

	c.FillPolygon(t.band, []vg.Point{
		{X: c.Min.X, Y: top},
		{X: c.Max.X, Y: top},
		{X: c.Max.X, Y: top - rowH},
		{X: c.Min.X, Y: top - rowH},
	})
	head := t.style
	head.Color = t.onBand
	for j, h := range t.header {
		c.FillText(head, vg.Point{X: c.Min.X + colW*(vg.Length(j)+0.5), Y: top - rowH/2}, h)
	}
	for i, row := range t.rows {
		y := top - rowH*vg.Length(i+1)
		for j, cell := range row {
			c.FillText(t.style, vg.Point{X: c.Min.X + colW*(vg.Length(j)+0.5), Y: y - rowH/2}, cell)
		}
		c.StrokeLine2(t.rule, c.Min.X, y, c.Max.X, y)
	}
}
