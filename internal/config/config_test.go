package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 100, c.DPI)
	assert.Equal(t, "iqr", c.OutlierMethod)
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c := Default()
	c.Theme = "dark"
	c.DPI = 150
	require.NoError(t, Save(c, ""))

	_, err := os.Stat(filepath.Join(home, ".plotease", "config.yaml"))
	require.NoError(t, err)

	t.Setenv("PLOTEASE_DPI", "72")
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 72, got.DPI)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: minimal\nz_threshold: 2.5\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", c.Theme)
	assert.Equal(t, 2.5, c.ZThreshold)
	assert.Equal(t, "png", c.Format)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dpi: -1\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid dpi")
}

func TestSet(t *testing.T) {
	c := Default()
	require.NoError(t, c.Set("format", ".SVG"))
	assert.Equal(t, "svg", c.Format)
	require.NoError(t, c.Set("corr_threshold", "0.8"))
	assert.Equal(t, 0.8, c.CorrThreshold)
	require.NoError(t, c.Set("max_plots", "4"))
	assert.Equal(t, 4, c.MaxPlots)
	require.NoError(t, c.Set("z_threshold", "0"))
	assert.Equal(t, 0.0, c.ZThreshold)

	assert.ErrorContains(t, c.Set("dpi", "many"), "invalid int")
	assert.ErrorContains(t, c.Set("corr_threshold", "2"), "invalid corr_threshold")
	assert.ErrorContains(t, c.Set("z_threshold", "-1"), "invalid z_threshold")
	assert.ErrorContains(t, c.Set("colour", "red"), "unknown key")
	// failed sets leave the config untouched
	assert.Equal(t, 0.8, c.CorrThreshold)
	assert.Equal(t, 100, c.DPI)
}

func TestKeysAreSorted(t *testing.T) {
	keys := Keys()
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "output_dir")
}
