package analysis

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// OutlierMethod selects how DetectOutliers flags values.
type OutlierMethod string

const (
	IQR    OutlierMethod = "iqr"
	ZScore OutlierMethod = "zscore"
	// Robust flags |x-median|/(1.4826*MAD) above the threshold.
	Robust OutlierMethod = "robust"
)

const (
	// DefaultZThreshold is the z-score cut-off used when none is given.
	DefaultZThreshold = 3.0
	// IQRFence is the interquartile multiplier for the IQR bounds.
	IQRFence = 1.5
)

// ParseOutlierMethod maps a case-insensitive name to an OutlierMethod.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch m := OutlierMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case IQR, ZScore, Robust:
		return m, nil
	case "z", "z-score":
		return ZScore, nil
	case "":
		return IQR, nil
	}
	return "", errs.InvalidParameter("method", s, "Use 'iqr', 'zscore' or 'robust'")
}

// Bounds are the closed interval outside of which IQR flags values.
type Bounds struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// OutlierBounds computes the IQR fences over the non-missing values. ok is
// false when there are fewer than two values.
func OutlierBounds(values []float64) (b Bounds, ok bool) {
	xs := dropNaN(values)
	if len(xs) < 2 {
		return Bounds{}, false
	}
	sort.Float64s(xs)
	b.Q1 = quantile(xs, 0.25)
	b.Q3 = quantile(xs, 0.75)
	iqr := b.Q3 - b.Q1
	b.Lower = b.Q1 - IQRFence*iqr
	b.Upper = b.Q3 + IQRFence*iqr
	return b, true
}

// DetectOutliers returns a mask aligned to values. NaN is never flagged and
// samples without spread produce no flags. zThreshold is used as given by
// the z-score and robust methods, so 0 flags every value off the center;
// the IQR method ignores it.
func DetectOutliers(values []float64, method OutlierMethod, zThreshold float64) ([]bool, error) {
	if math.IsNaN(zThreshold) || zThreshold < 0 {
		return nil, errs.InvalidParameter("z_threshold", zThreshold, "Threshold must be zero or a positive number")
	}
	flags := make([]bool, len(values))
	xs := dropNaN(values)
	if len(xs) < 2 {
		return flags, nil
	}
	switch method {
	case IQR, "":
		b, _ := OutlierBounds(xs)
		for i, v := range values {
			flags[i] = !math.IsNaN(v) && (v < b.Lower || v > b.Upper)
		}
	case ZScore:
		mean, std := stat.MeanStdDev(xs, nil)
		if std == 0 || math.IsNaN(std) {
			return flags, nil
		}
		for i, v := range values {
			flags[i] = !math.IsNaN(v) && math.Abs((v-mean)/std) > zThreshold
		}
	case Robust:
		med, mad := medianMAD(xs)
		if mad == 0 {
			return flags, nil
		}
		for i, v := range values {
			flags[i] = !math.IsNaN(v) && math.Abs(v-med)/(1.4826*mad) > zThreshold
		}
	default:
		return nil, errs.InvalidParameter("method", method, "Use 'iqr', 'zscore' or 'robust'")
	}
	return flags, nil
}

// CountFlags returns how many entries of mask are set.
func CountFlags(mask []bool) int {
	n := 0
	for _, f := range mask {
		if f {
			n++
		}
	}
	return n
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}
