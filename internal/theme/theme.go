// Package theme maps theme and palette names to colors. Themes satisfy
// go-chart's ColorPalette so the same table styles gonum plots and go-chart
// renderings.
package theme

import (
	"image/color"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Default is the theme used when none is configured.
const Default = "default"

// Theme is a named set of rendering colors.
type Theme struct {
	Name       string
	Background drawing.Color
	Canvas     drawing.Color
	Foreground drawing.Color
	GridColor  drawing.Color
	Primary    drawing.Color
	Secondary  drawing.Color
	Accent     drawing.Color
	ShowGrid   bool
	Series     []drawing.Color
}

var themes = map[string]Theme{
	"default": {
		Name:       "default",
		Background: hex("#ffffff"),
		Canvas:     hex("#eaeaf2"),
		Foreground: hex("#000000"),
		GridColor:  hex("#ffffff"),
		Primary:    hex("#1f77b4"),
		Secondary:  hex("#ff7f0e"),
		Accent:     hex("#2ca02c"),
		ShowGrid:   true,
		Series: hexes("#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf"),
	},
	"minimal": {
		Name:       "minimal",
		Background: hex("#f8f8f8"),
		Canvas:     hex("#ffffff"),
		Foreground: hex("#333333"),
		GridColor:  hex("#dddddd"),
		Primary:    hex("#4c72b0"),
		Secondary:  hex("#55a868"),
		Accent:     hex("#c44e52"),
		ShowGrid:   true,
		Series: hexes("#4c72b0", "#dd8452", "#55a868", "#c44e52", "#8172b3",
			"#937860", "#da8bc3", "#8c8c8c", "#ccb974", "#64b5cd"),
	},
	"dark": {
		Name:       "dark",
		Background: hex("#2b2b2b"),
		Canvas:     hex("#2b2b2b"),
		Foreground: hex("#ffffff"),
		GridColor:  hex("#555555"),
		Primary:    hex("#8dd3c7"),
		Secondary:  hex("#fdb462"),
		Accent:     hex("#fb8072"),
		Series: hexes("#8dd3c7", "#feffb3", "#bfbbd9", "#fa8174", "#81b1d2",
			"#fdb462", "#b3de69", "#bc82bd", "#ccebc4", "#ffed6f"),
	},
	"colorful": {
		Name:       "colorful",
		Background: hex("#ffffff"),
		Canvas:     hex("#ffffff"),
		Foreground: hex("#000000"),
		GridColor:  hex("#e5e5e5"),
		Primary:    hex("#e377c2"),
		Secondary:  hex("#7f7f7f"),
		Accent:     hex("#bcbd22"),
		ShowGrid:   true,
		Series: hexes("#023eff", "#ff7c00", "#1ac938", "#e8000b", "#8b2be2",
			"#9f4800", "#f14cc1", "#a3a3a3", "#ffc400", "#00d7ff"),
	},
}

var palettes = map[string][]drawing.Color{
	"default": hexes("#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"),
	"pastel":  hexes("#FFB3BA", "#BAFFC9", "#BAE1FF", "#FFFFBA", "#FFD8BA"),
	"vibrant": hexes("#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8"),
}

// Get looks up a theme by name.
func Get(name string) (Theme, error) {
	if name == "" {
		name = Default
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, errs.ThemeNotFound(name, Names())
	}
	return t, nil
}

// MustGet is Get for names known at compile time.
func MustGet(name string) Theme {
	t, err := Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Names lists the available themes alphabetically.
func Names() []string { return keys(themes) }

// PaletteNames lists the available palettes alphabetically.
func PaletteNames() []string { return keys(palettes) }

// Palette returns n colors from a named palette, cycling when n exceeds its
// size.
func Palette(name string, n int) ([]color.Color, error) {
	if name == "" {
		name = Default
	}
	p, ok := palettes[name]
	if !ok {
		return nil, errs.InvalidParameter("palette", name, "Available palettes: "+strings.Join(PaletteNames(), ", "))
	}
	return cycle(p, n), nil
}

// WithPalette returns a copy of t whose series colors come from a named palette.
func (t Theme) WithPalette(name string) (Theme, error) {
	p, ok := palettes[name]
	if !ok {
		return t, errs.InvalidParameter("palette", name, "Available palettes: "+strings.Join(PaletteNames(), ", "))
	}
	t.Series = p
	return t, nil
}

// Colors returns n series colors, cycling through the theme's list.
func (t Theme) Colors(n int) []color.Color { return cycle(t.Series, n) }

// Color returns the i-th series color.
func (t Theme) Color(i int) color.Color { return t.GetSeriesColor(i) }

// go-chart ColorPalette

func (t Theme) BackgroundColor() drawing.Color       { return t.Background }
func (t Theme) BackgroundStrokeColor() drawing.Color { return t.Background }
func (t Theme) CanvasColor() drawing.Color           { return t.Canvas }
func (t Theme) CanvasStrokeColor() drawing.Color     { return t.GridColor }
func (t Theme) AxisStrokeColor() drawing.Color       { return t.Foreground }
func (t Theme) TextColor() drawing.Color             { return t.Foreground }

func (t Theme) GetSeriesColor(index int) drawing.Color {
	if len(t.Series) == 0 {
		return t.Primary
	}
	if index < 0 {
		index = -index
	}
	return t.Series[index%len(t.Series)]
}

func cycle(p []drawing.Color, n int) []color.Color {
	if n <= 0 || len(p) == 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return out
}

func hex(s string) drawing.Color { return drawing.ColorFromHex(s) }

func hexes(s ...string) []drawing.Color {
	out := make([]drawing.Color, len(s))
	for i, h := range s {
		out[i] = hex(h)
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
