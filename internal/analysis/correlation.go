package analysis

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
)

// Method selects a correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
	Kendall  Method = "kendall"
)

var methods = []string{string(Pearson), string(Spearman), string(Kendall)}

// ParseMethod maps a case-insensitive name to a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case Pearson, Spearman, Kendall:
		return m, nil
	case "":
		return Pearson, nil
	}
	return "", errs.InvalidParameter("method", s, "Use one of: "+strings.Join(methods, ", "))
}

// CorrelationReport holds a symmetric correlation matrix across numeric columns.
type CorrelationReport struct {
	Method  Method
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns the coefficient between two named columns.
func (r *CorrelationReport) At(a, b string) (float64, bool) {
	i, j := r.index(a), r.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return r.Values[i][j], true
}

func (r *CorrelationReport) index(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Pair is a single off-diagonal entry of a correlation matrix.
type Pair struct {
	A, B string
	R    float64
}

// CorrelationMatrix correlates the named columns, or every numeric column
// when none are given, using pairwise-complete observations.
func CorrelationMatrix(ds *dataset.Dataset, method Method, columns ...string) (*CorrelationReport, error) {
	if method == "" {
		method = Pearson
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = ds.NumericColumns()
	}
	data := make([][]float64, len(columns))
	for i, c := range columns {
		v, err := ds.Float(c)
		if err != nil {
			return nil, err
		}
		data[i] = v
	}
	if len(columns) < 2 {
		return nil, errs.InsufficientColumns(2, len(columns))
	}
	n := len(columns)
	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		vals[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := Correlate(data[i], data[j], method)
			vals[i][j], vals[j][i] = r, r
		}
	}
	cols := make([]string, n)
	copy(cols, columns)
	return &CorrelationReport{Method: method, Columns: cols, Values: vals}, nil
}

// Correlate computes the coefficient over rows where both x and y are
// present. The result is NaN when fewer than two complete rows remain or
// either side has no spread.
func Correlate(x, y []float64, method Method) float64 {
	xs, ys := completePairs(x, y)
	if len(xs) < 2 {
		return math.NaN()
	}
	var r float64
	switch method {
	case Spearman:
		r = pearson(Rank(xs), Rank(ys))
	case Kendall:
		r = kendallTauB(xs, ys)
	default:
		r = pearson(xs, ys)
	}
	return clamp(r)
}

func pearson(x, y []float64) float64 {
	if constant(x) || constant(y) {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// kendallTauB counts concordant and discordant pairs with tie correction.
func kendallTauB(x, y []float64) float64 {
	var conc, disc, tx, ty float64
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tx++
			case dy == 0:
				ty++
			case dx == dy:
				conc++
			default:
				disc++
			}
		}
	}
	den := math.Sqrt((conc + disc + tx) * (conc + disc + ty))
	if den == 0 {
		return math.NaN()
	}
	return (conc - disc) / den
}

// Rank returns 1-based ranks with ties sharing their average rank.
func Rank(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	ranks := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && x[idx[j+1]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// HighCorrelationPairs returns upper-triangle pairs with |r| >= threshold,
// strongest first. Equal magnitudes keep matrix order.
func HighCorrelationPairs(r *CorrelationReport, threshold float64) ([]Pair, error) {
	if r == nil {
		return nil, errs.InvalidParameter("report", nil, "Compute a correlation matrix first")
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, errs.InvalidParameter("threshold", threshold, "Threshold must be within [0, 1]")
	}
	var pairs []Pair
	n := len(r.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := r.Values[i][j]
			if math.IsNaN(v) || math.Abs(v) < threshold {
				continue
			}
			pairs = append(pairs, Pair{A: r.Columns[i], B: r.Columns[j], R: v})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return math.Abs(pairs[i].R) > math.Abs(pairs[j].R) })
	return pairs, nil
}

func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return r
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}
