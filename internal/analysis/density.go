package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Density evaluates a Gaussian kernel density estimate of vals at points
// evenly spaced over [min-3h, max+3h], where h is Scott's bandwidth. NaN
// values are ignored; an empty sample yields nil slices.
func Density(vals []float64, points int) (xs, ys []float64) {
	sample := dropNaN(vals)
	if len(sample) == 0 || points < 2 {
		return nil, nil
	}
	sort.Float64s(sample)
	h := Bandwidth(sample)
	lo, hi := sample[0]-3*h, sample[len(sample)-1]+3*h
	xs = make([]float64, points)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(points-1)
	}
	return xs, densityAt(sample, h, xs)
}

// DensityAt evaluates the same estimate as Density at the given points.
func DensityAt(vals, at []float64) []float64 {
	sample := dropNaN(vals)
	if len(sample) == 0 {
		return make([]float64, len(at))
	}
	return densityAt(sample, Bandwidth(sample), at)
}

func densityAt(sample []float64, h float64, at []float64) []float64 {
	ys := make([]float64, len(at))
	for i, x := range at {
		sum := 0.0
		for _, v := range sample {
			sum += distuv.Normal{Mu: v, Sigma: h}.Prob(x)
		}
		ys[i] = sum / float64(len(sample))
	}
	return ys
}

// Bandwidth is Scott's rule of thumb, 1.06*std*n^(-1/5). Degenerate samples
// fall back to a tenth of the magnitude, at least 0.5.
func Bandwidth(sample []float64) float64 {
	h := 0.0
	if len(sample) > 1 {
		h = 1.06 * stat.StdDev(sample, nil) * math.Pow(float64(len(sample)), -0.2)
	}
	if h == 0 || math.IsNaN(h) {
		h = math.Max(math.Abs(sample[0])*0.1, 0.5)
	}
	return h
}

// NormalQuantiles pairs the sorted non-missing values with the standard
// normal quantiles at plotting positions (i-0.5)/n, ready for a Q-Q plot.
func NormalQuantiles(vals []float64) (theoretical, sample []float64) {
	sample = dropNaN(vals)
	sort.Float64s(sample)
	n := float64(len(sample))
	theoretical = make([]float64, len(sample))
	for i := range sample {
		theoretical[i] = distuv.UnitNormal.Quantile((float64(i) + 0.5) / n)
	}
	return theoretical, sample
}
