package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, SafeWriteFile(path, []byte("new")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "nope", "out.txt"), []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOutputPathIsUniquePerCall(t *testing.T) {
	a := OutputPath("plots", "diagnose", "")
	b := OutputPath("plots", "diagnose", ".svg")
	assert.Equal(t, "plots", filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "diagnose-"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.True(t, strings.HasSuffix(b, ".svg"))
	assert.NotEqual(t, a, b)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "plots"), ExpandHome("~/plots"))
	assert.Equal(t, "rel/plots", ExpandHome("rel/plots"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
}
