package analysis

import (
	"math"

	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/errs"
)

// GroupResult captures the statistics of one column within one group.
type GroupResult struct {
	Key    string
	Size   int
	Values []float64
	Stats  Stats
}

// GroupSummary splits a numeric column by the values of groupBy. Groups are
// returned in first-seen order; rows with a missing group key are skipped.
func GroupSummary(ds *dataset.Dataset, column, groupBy string) ([]GroupResult, error) {
	vals, err := ds.Float(column)
	if err != nil {
		return nil, err
	}
	keys, miss, err := ds.Strings(groupBy)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	var groups []GroupResult
	for i, k := range keys {
		if miss[i] {
			continue
		}
		j, ok := idx[k]
		if !ok {
			j = len(groups)
			idx[k] = j
			groups = append(groups, GroupResult{Key: k})
		}
		groups[j].Size++
		groups[j].Values = append(groups[j].Values, vals[i])
	}
	if len(groups) == 0 {
		return nil, errs.EmptyDataset()
	}
	for i := range groups {
		groups[i].Stats = Describe(groups[i].Values)
	}
	return groups, nil
}

// AutoBins suggests a histogram bin count for n observations using
// "sturges", "sqrt" or "rice". Unknown methods fall back to 30.
func AutoBins(n int, method string) int {
	if n <= 0 {
		return 1
	}
	fn := float64(n)
	switch method {
	case "sturges", "":
		return int(math.Ceil(math.Log2(fn) + 1))
	case "sqrt":
		return int(math.Ceil(math.Sqrt(fn)))
	case "rice":
		return int(math.Ceil(2 * math.Cbrt(fn)))
	}
	return 30
}
