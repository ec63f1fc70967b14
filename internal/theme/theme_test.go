package theme

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Themes are used directly as go-chart palettes.
var _ chart.ColorPalette = Theme{}

func TestGetKnownThemes(t *testing.T) {
	assert.Equal(t, []string{"colorful", "dark", "default", "minimal"}, Names())
	for _, name := range Names() {
		th, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, th.Name)
		assert.NotEmpty(t, th.Series)
	}
	dark := MustGet("dark")
	assert.Equal(t, uint8(0x2b), dark.Background.R)
	assert.False(t, dark.ShowGrid)

	def, err := Get("")
	require.NoError(t, err)
	assert.Equal(t, "default", def.Name)
}

func TestGetUnknownTheme(t *testing.T) {
	_, err := Get("neon")
	require.True(t, errors.Is(err, errs.ErrThemeNotFound))
	assert.Equal(t, "Available themes: colorful, dark, default, minimal", errs.Suggestion(err))
}

func TestPaletteCycles(t *testing.T) {
	cols, err := Palette("pastel", 7)
	require.NoError(t, err)
	require.Len(t, cols, 7)
	assert.Equal(t, cols[0], cols[5])
	assert.Equal(t, cols[1], cols[6])
	r, g, b, _ := cols[0].RGBA()
	assert.Equal(t, color.RGBA{0xFF, 0xB3, 0xBA, 0xFF}, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xFF})

	_, err = Palette("grayscale", 3)
	assert.True(t, errors.Is(err, errs.ErrInvalidParameter))

	none, err := Palette("vibrant", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWithPaletteAndSeriesColor(t *testing.T) {
	th, err := MustGet("default").WithPalette("vibrant")
	require.NoError(t, err)
	assert.Equal(t, th.Series[0], th.GetSeriesColor(5))
	assert.Len(t, th.Colors(3), 3)

	_, err = th.WithPalette("nope")
	assert.True(t, errors.Is(err, errs.ErrInvalidParameter))
}
