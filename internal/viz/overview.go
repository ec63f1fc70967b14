package viz

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/errs"
	"github.com/KaramelBytes/plotease/internal/render"
)

// StatisticalOverview shows one numeric column six ways: histogram, box
// plot, normal Q-Q plot, density curve, a statistics table and an outlier
// note.
func (v *Visualizer) StatisticalOverview(column string) (*render.Figure, error) {
	vals, err := v.ds.Float(column)
	if err != nil {
		return nil, err
	}
	st := analysis.Describe(vals)
	if st.N == 0 {
		return nil, errs.EmptyDataset()
	}
	theo, sample := analysis.NormalQuantiles(vals)
	xs, ys := analysis.Density(vals, densityPoints)
	f4 := func(x float64) string { return analysis.FormatFloat(x, 4) }
	table := render.Table{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Count", fmt.Sprint(st.N)},
			{"Mean", f4(st.Mean)},
			{"Std Dev", f4(st.Std)},
			{"Min", f4(st.Min)},
			{"Q1 (25%)", f4(st.Q1)},
			{"Median", f4(st.Median)},
			{"Q3 (75%)", f4(st.Q3)},
			{"Max", f4(st.Max)},
			{"Skewness", f4(st.Skewness)},
			{"Kurtosis", f4(st.Kurtosis)},
		},
	}
	flags, err := analysis.DetectOutliers(vals, v.opt.OutlierMethod, v.opt.zThreshold())
	if err != nil {
		return nil, err
	}
	missing, _ := v.ds.Missing(column)
	note := fmt.Sprintf("%d outliers by %s\n%d missing of %d rows", analysis.CountFlags(flags), v.opt.OutlierMethod, missing, v.ds.Len())

	cfg := v.config("Statistical Overview: "+column, "", "")
	cfg = cfg.WithSize(cfg.Width*1.4, cfg.Height*1.7)
	return v.grid(3, 2, cfg,
		render.Spec{Renderer: render.Histogram{Values: vals}, Title: "Distribution", XLabel: column, YLabel: "Frequency"},
		render.Spec{Renderer: render.Box{Groups: []string{column}, Data: [][]float64{vals}}, Title: "Box Plot", YLabel: column},
		render.Spec{Renderer: render.Scatter{X: theo, Y: sample}, Title: "Q-Q Plot", XLabel: "Theoretical quantiles", YLabel: "Ordered values"},
		render.Spec{Renderer: render.Line{X: xs, Series: []render.Series{{Name: "density", Values: ys}}}, Title: "Kernel Density Estimation", XLabel: column, YLabel: "Density"},
		render.Spec{Renderer: table, Title: "Statistics"},
		render.Spec{Renderer: render.Text{Message: note}, Title: "Notes"},
	)
}

// CompareGroups contrasts a numeric column across the values of groupBy:
// box plots, violins, group means and a per-group statistics table.
func (v *Visualizer) CompareGroups(column, groupBy string) (*render.Figure, error) {
	if err := v.ds.Require(column, groupBy); err != nil {
		return nil, err
	}
	groups, err := analysis.GroupSummary(v.ds, column, groupBy)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(groups))
	data := make([][]float64, len(groups))
	table := render.Table{Header: []string{groupBy, "count", "mean", "std", "min", "25%", "50%", "75%", "max"}}
	f2 := func(x float64) string { return analysis.FormatFloat(x, 2) }
	for i, g := range groups {
		keys[i], data[i] = g.Key, g.Values
		s := g.Stats
		table.Rows = append(table.Rows, []string{g.Key, fmt.Sprint(s.N), f2(s.Mean), f2(s.Std), f2(s.Min), f2(s.Q1), f2(s.Median), f2(s.Q3), f2(s.Max)})
	}

	// Means in ascending order.
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return groups[order[a]].Stats.Mean < groups[order[b]].Stats.Mean })
	meanKeys := make([]string, len(order))
	means := make([]float64, len(order))
	for i, j := range order {
		meanKeys[i], means[i] = groups[j].Key, groups[j].Stats.Mean
	}

	cfg := v.config(fmt.Sprintf("Group Comparison: %s by %s", column, groupBy), "", "")
	cfg = cfg.WithSize(cfg.Width*1.4, cfg.Height*1.6)
	return v.grid(2, 2, cfg,
		render.Spec{Renderer: render.Box{Groups: keys, Data: data}, Title: column + " by " + groupBy, XLabel: groupBy, YLabel: column},
		render.Spec{Renderer: render.Violin{Groups: keys, Data: data}, Title: "Distribution of " + column + " by " + groupBy, XLabel: groupBy, YLabel: column},
		render.Spec{Renderer: render.Bar{Categories: meanKeys, Series: []render.Series{{Name: "mean", Values: means}}}, Title: "Mean " + column + " by " + groupBy, XLabel: "Mean " + column, Horizontal: true},
		render.Spec{Renderer: table, Title: "Summary"},
	)
}
