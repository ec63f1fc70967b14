package compare

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/plotease/internal/errs"
)

func TestRankAndBestModel(t *testing.T) {
	c, err := FromMap(map[string]map[string]float64{
		"X": {"acc": 0.9},
		"Y": {"acc": 0.8},
	})
	require.NoError(t, err)

	r, err := c.Rank("acc")
	require.NoError(t, err)
	require.Len(t, r, 2)
	assert.Equal(t, "X", r[0].Model)
	assert.Equal(t, "Y", r[1].Model)

	best, err := c.BestModel("acc")
	require.NoError(t, err)
	assert.Equal(t, "X", best)

	_, err = c.BestModel("f1")
	require.True(t, errors.Is(err, errs.ErrUnknownMetric))
	assert.Contains(t, errs.Suggestion(err), "'acc'")
}

func TestRankIsStableAndMissingLast(t *testing.T) {
	c, err := New([]Model{
		{Name: "c", Scores: map[string]float64{"f1": 0.5}},
		{Name: "a", Scores: map[string]float64{"acc": 0.7, "f1": 0.5}},
		{Name: "b", Scores: map[string]float64{"acc": 0.7, "f1": 0.6}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "acc"}, c.Metrics())

	r, err := c.Rank("acc")
	require.NoError(t, err)
	assert.Equal(t, []Ranked{{"a", 0.7, false}, {"b", 0.7, false}, {"c", 0, true}}, r)

	r, err = c.RankAscending("f1")
	require.NoError(t, err)
	assert.Equal(t, "c", r[0].Model)
	assert.Equal(t, "a", r[1].Model)
	assert.Equal(t, "b", r[2].Model)
}

func TestNewValidatesNames(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))

	_, err = New([]Model{{Name: "a"}, {Name: "a"}})
	assert.True(t, errors.Is(err, errs.ErrInvalidParameter))

	_, err = New([]Model{{Name: " "}})
	assert.True(t, errors.Is(err, errs.ErrInvalidParameter))
}

func TestCompareAndMeanScore(t *testing.T) {
	c, err := New([]Model{
		{Name: "rf", Scores: map[string]float64{"acc": 0.9, "f1": 0.8}},
		{Name: "svm", Scores: map[string]float64{"acc": 0.7, "f1": 0.9}},
	})
	require.NoError(t, err)

	res, err := c.Compare()
	require.NoError(t, err)
	assert.Equal(t, "rf", res.Best["acc"])
	assert.Equal(t, "svm", res.Best["f1"])
	assert.InDelta(t, 0.825, res.MeanScore, 1e-12)

	res, err = c.Compare("acc")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.MeanScore, 1e-12)
	assert.Len(t, res.Rankings, 1)

	_, err = c.Compare("auc")
	assert.True(t, errors.Is(err, errs.ErrUnknownMetric))
}

func TestCompareByMeanScoreAndEquality(t *testing.T) {
	hi, err := FromMap(map[string]map[string]float64{"a": {"acc": 0.9}})
	require.NoError(t, err)
	lo, err := FromMap(map[string]map[string]float64{"a": {"acc": 0.6}})
	require.NoError(t, err)
	same, err := FromMap(map[string]map[string]float64{"a": {"acc": 0.9}})
	require.NoError(t, err)

	assert.Equal(t, 1, CompareByMeanScore(hi, lo))
	assert.Equal(t, -1, CompareByMeanScore(lo, hi))
	assert.Equal(t, 0, CompareByMeanScore(hi, same))
	assert.True(t, EqualsByContent(hi, same))
	assert.False(t, EqualsByContent(hi, lo))
}

func TestTableFillsAbsentWithZero(t *testing.T) {
	c, err := New([]Model{
		{Name: "a", Scores: map[string]float64{"acc": 0.9}},
		{Name: "b", Scores: map[string]float64{"f1": 0.4}},
	})
	require.NoError(t, err)
	tbl, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.9, 0}, {0, 0.4}}, tbl)

	assert.True(t, c.Remove("b"))
	assert.Equal(t, []string{"acc"}, c.Metrics())
	assert.False(t, c.Remove("b"))
	assert.Equal(t, 1, c.Len())
}

func TestParsePreservesFileOrder(t *testing.T) {
	c, err := Parse([]byte(`
XGBoost:
  recall: 0.81
  accuracy: 0.93
Random Forest:
  recall: 0.85
  accuracy: 0.91
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"XGBoost", "Random Forest"}, c.Models())
	assert.Equal(t, []string{"recall", "accuracy"}, c.Metrics())

	list, err := Parse([]byte(`[{"name": "b", "scores": {"acc": 0.5}}, {"name": "a", "scores": {"acc": 0.6}}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, list.Models())

	_, err = Parse([]byte("m: {acc: high}"))
	assert.True(t, errors.Is(err, errs.ErrNotNumeric))

	_, err = Parse([]byte("just text"))
	assert.True(t, errors.Is(err, errs.ErrInvalidDataType))

	_, err = Parse(nil)
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"X": {"acc": 0.9}, "Y": {"acc": 0.8}}`), 0o644))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, c.Models())
	assert.Contains(t, c.Markdown(), "| X | 0.9000 |")

	_, err = LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestR2(t *testing.T) {
	r2, err := R2([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r2)

	r2, err = R2([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 5})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, r2, 1e-12)

	r2, err = R2([]float64{2, 2}, []float64{1, 3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r2))

	r2, err = R2([]float64{2, 2}, []float64{2, 2})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(r2))

	_, err = R2(nil, nil)
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))

	_, err = R2([]float64{1}, []float64{1, 2})
	assert.True(t, errors.Is(err, errs.ErrDimensionMismatch))
}
