// Package analysis is the statistics engine: descriptive summaries,
// correlation, outlier detection and group breakdowns over a dataset.
// Every function is a pure computation over its inputs.
package analysis

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
)

// ColumnSummary captures descriptive statistics for one column. Numeric
// fields are NaN when undefined for the sample size; categorical fields are
// zero for numeric summaries and vice versa.
type ColumnSummary struct {
	Name       string
	Kind       dataset.Kind
	Type       string
	Unit       string
	Count      int
	Missing    int
	MissingPct float64
	Unique     int

	// Numeric stats
	Mean     float64
	Std      float64
	Min      float64
	Max      float64
	Median   float64
	Q1       float64
	Q3       float64
	Skewness float64
	Kurtosis float64

	// Categorical stats
	MostFrequent string
	Frequency    int
	TopValues    []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// TieBreak decides which value wins when several share the highest frequency.
type TieBreak string

const (
	// TieFirst picks the value encountered first in row order.
	TieFirst TieBreak = "first"
	// TieLexical picks the lexically smallest value.
	TieLexical TieBreak = "lexical"
)

// CategoricalOptions tunes CategoricalSummaryWith.
type CategoricalOptions struct {
	TieBreak TieBreak
	// TopN limits TopValues; 0 means 5.
	TopN int
}

// DefaultCategoricalOptions returns first-encountered tie breaking with five top values.
func DefaultCategoricalOptions() CategoricalOptions {
	return CategoricalOptions{TieBreak: TieFirst, TopN: 5}
}

// Stats holds the numeric statistics of a sample with missing values removed.
type Stats struct {
	N                  int
	Mean, Std          float64
	Min, Max           float64
	Q1, Median, Q3     float64
	Skewness, Kurtosis float64
}

// Describe computes Stats over vals, skipping NaN. Std uses the n-1
// denominator; skewness and kurtosis are the adjusted Fisher-Pearson G1 and
// excess G2 estimators.
func Describe(vals []float64) Stats {
	xs := dropNaN(vals)
	n := len(xs)
	s := Stats{N: n}
	nan := math.NaN()
	s.Mean, s.Std, s.Min, s.Max = nan, nan, nan, nan
	s.Q1, s.Median, s.Q3 = nan, nan, nan
	s.Skewness, s.Kurtosis = nan, nan
	if n == 0 {
		return s
	}
	sort.Float64s(xs)
	s.Mean = stat.Mean(xs, nil)
	s.Min, s.Max = xs[0], xs[n-1]
	s.Q1 = quantile(xs, 0.25)
	s.Median = quantile(xs, 0.5)
	s.Q3 = quantile(xs, 0.75)
	if n >= 2 {
		s.Std = stat.StdDev(xs, nil)
	}
	if s.Std > 0 {
		if n >= 3 {
			s.Skewness = stat.Skew(xs, nil)
		}
		if n >= 4 {
			s.Kurtosis = stat.ExKurtosis(xs, nil)
		}
	} else if n >= 3 {
		s.Skewness = 0
		if n >= 4 {
			s.Kurtosis = 0
		}
	}
	return s
}

// NumericSummary summarizes the named columns, or every numeric column when
// none are given.
func NumericSummary(ds *dataset.Dataset, columns ...string) ([]ColumnSummary, error) {
	if len(columns) == 0 {
		columns = ds.NumericColumns()
	}
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		vals, err := ds.Float(col)
		if err != nil {
			return nil, err
		}
		out = append(out, numericSummary(ds, col, vals))
	}
	return out, nil
}

func numericSummary(ds *dataset.Dataset, col string, vals []float64) ColumnSummary {
	st := Describe(vals)
	total := len(vals)
	cs := ColumnSummary{
		Name:     col,
		Kind:     dataset.Numeric,
		Type:     ds.Type(col),
		Unit:     ds.Unit(col),
		Count:    st.N,
		Missing:  total - st.N,
		Mean:     st.Mean,
		Std:      st.Std,
		Min:      st.Min,
		Max:      st.Max,
		Median:   st.Median,
		Q1:       st.Q1,
		Q3:       st.Q3,
		Skewness: st.Skewness,
		Kurtosis: st.Kurtosis,
	}
	cs.MissingPct = percent(cs.Missing, total)
	seen := make(map[float64]struct{}, st.N)
	for _, v := range vals {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	cs.Unique = len(seen)
	return cs
}

// CategoricalSummary summarizes the named columns, or every categorical
// column when none are given, with DefaultCategoricalOptions.
func CategoricalSummary(ds *dataset.Dataset, columns ...string) ([]ColumnSummary, error) {
	return CategoricalSummaryWith(ds, DefaultCategoricalOptions(), columns...)
}

// CategoricalSummaryWith is CategoricalSummary with explicit options. Named
// numeric columns are summarized by their textual cell values.
func CategoricalSummaryWith(ds *dataset.Dataset, opt CategoricalOptions, columns ...string) ([]ColumnSummary, error) {
	switch opt.TieBreak {
	case "", TieFirst, TieLexical:
	default:
		return nil, errs.InvalidParameter("tie_break", opt.TieBreak, "Use 'first' or 'lexical'")
	}
	if len(columns) == 0 {
		columns = ds.CategoricalColumns()
	}
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		cells, miss, err := ds.Strings(col)
		if err != nil {
			return nil, err
		}
		kind, _ := ds.Kind(col)
		cs := ColumnSummary{Name: col, Kind: kind, Type: ds.Type(col), Unit: ds.Unit(col)}
		counts := Frequencies(cells, miss)
		for _, c := range counts {
			cs.Count += c.Count
		}
		cs.Missing = len(cells) - cs.Count
		cs.MissingPct = percent(cs.Missing, len(cells))
		cs.Unique = len(counts)
		if len(counts) > 0 {
			best := mode(counts, opt.TieBreak)
			cs.MostFrequent, cs.Frequency = best.Value, best.Count
		}
		cs.TopValues = topValues(counts, opt.TopN)
		out = append(out, cs)
	}
	return out, nil
}

// Summary produces one row per column, numeric or categorical, in the order
// requested (or table order when no columns are given).
func Summary(ds *dataset.Dataset, columns ...string) ([]ColumnSummary, error) {
	if len(columns) == 0 {
		columns = ds.Names()
	}
	if err := ds.Require(columns...); err != nil {
		return nil, err
	}
	out := make([]ColumnSummary, 0, len(columns))
	for _, col := range columns {
		var (
			rows []ColumnSummary
			err  error
		)
		if k, _ := ds.Kind(col); k == dataset.Numeric {
			rows, err = NumericSummary(ds, col)
		} else {
			rows, err = CategoricalSummary(ds, col)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// Frequencies counts non-missing values in first-seen order.
func Frequencies(cells []string, missing []bool) []CategoryCount {
	idx := make(map[string]int)
	var counts []CategoryCount
	for i, v := range cells {
		if i < len(missing) && missing[i] {
			continue
		}
		if j, ok := idx[v]; ok {
			counts[j].Count++
			continue
		}
		idx[v] = len(counts)
		counts = append(counts, CategoryCount{Value: v, Count: 1})
	}
	return counts
}

// ValueCounts counts the values of a column, most frequent first with ties
// in first-seen order. A positive limit keeps only the top entries.
func ValueCounts(ds *dataset.Dataset, column string, limit int) ([]CategoryCount, error) {
	cells, miss, err := ds.Strings(column)
	if err != nil {
		return nil, err
	}
	counts := Frequencies(cells, miss)
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func mode(counts []CategoryCount, tb TieBreak) CategoryCount {
	best := counts[0]
	for _, c := range counts[1:] {
		switch {
		case c.Count > best.Count:
			best = c
		case c.Count == best.Count && tb == TieLexical && c.Value < best.Value:
			best = c
		}
	}
	return best
}

func topValues(counts []CategoryCount, n int) []CategoryCount {
	if n <= 0 {
		n = 5
	}
	sorted := make([]CategoryCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column  string
	Missing int
	Pct     float64
}

// MissingCounts returns per-column missing counts, largest first. Columns
// with equal counts keep table order.
func MissingCounts(ds *dataset.Dataset) []MissingCount {
	names := ds.Names()
	out := make([]MissingCount, 0, len(names))
	for _, n := range names {
		m, _ := ds.Missing(n)
		out = append(out, MissingCount{Column: n, Missing: m, Pct: percent(m, ds.Len())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Missing > out[j].Missing })
	return out
}

// Normalize rescales vals by "minmax" or "zscore". NaN stays NaN; a zero
// range or zero spread maps every value to 0.
func Normalize(vals []float64, method string) ([]float64, error) {
	out := make([]float64, len(vals))
	xs := dropNaN(vals)
	if len(xs) == 0 {
		copy(out, vals)
		return out, nil
	}
	var shift, scale float64
	switch method {
	case "minmax":
		shift = floats.Min(xs)
		scale = floats.Max(xs) - shift
	case "zscore":
		shift = stat.Mean(xs, nil)
		if len(xs) > 1 {
			scale = stat.StdDev(xs, nil)
		}
	default:
		return nil, errs.InvalidParameter("method", method, "Use 'minmax' or 'zscore'")
	}
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case scale == 0:
			out[i] = 0
		default:
			out[i] = (v - shift) / scale
		}
	}
	return out, nil
}

// FormatFloat renders v with the given decimals, or "NaN".
func FormatFloat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100.0 / float64(total)
}

func dropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile interpolates linearly between order statistics of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
