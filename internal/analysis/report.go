package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/plotease/internal/dataset"
)

// ReportOptions controls which sections BuildReport computes.
type ReportOptions struct {
	// SampleRows determines how many example rows to include.
	SampleRows int
	// GroupBy computes per-group means for every numeric column.
	GroupBy string
	// Correlations computes a correlation matrix among numeric columns.
	Correlations bool
	CorrMethod   Method
	// Outliers counts flagged values per numeric column.
	Outliers      bool
	OutlierMethod OutlierMethod
	// ZThreshold is passed to DetectOutliers as is; zero is a real cut-off.
	ZThreshold    float64
	Categorical   CategoricalOptions
}

// DefaultReportOptions returns the options used by the CLI summary command.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		SampleRows:    5,
		Correlations:  true,
		CorrMethod:    Pearson,
		Outliers:      true,
		OutlierMethod: IQR,
		ZThreshold:    DefaultZThreshold,
		Categorical:   DefaultCategoricalOptions(),
	}
}

// Report is a markdown-friendly analysis of a dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Outliers map[string]int
	Samples  [][]string
	Groups   []ReportGroup
	Corr     *CorrelationReport
	Warnings []string
}

// ReportGroup aggregates numeric columns for one group key.
type ReportGroup struct {
	Key     string
	Size    int
	Metrics map[string]Stats
}

// BuildReport runs the summaries selected by opt. Sections that cannot be
// computed for this dataset are noted in Warnings rather than failing.
func BuildReport(ds *dataset.Dataset, opt ReportOptions) (*Report, error) {
	r := &Report{Name: ds.Source, Rows: ds.Len()}
	for _, col := range ds.Names() {
		var (
			rows []ColumnSummary
			err  error
		)
		if k, _ := ds.Kind(col); k == dataset.Numeric {
			rows, err = NumericSummary(ds, col)
		} else {
			rows, err = CategoricalSummaryWith(ds, opt.Categorical, col)
		}
		if err != nil {
			return nil, err
		}
		r.Cols = append(r.Cols, rows...)
	}

	numeric := ds.NumericColumns()
	if opt.Outliers {
		r.Outliers = make(map[string]int, len(numeric))
		for _, col := range numeric {
			vals, _ := ds.Float(col)
			mask, err := DetectOutliers(vals, opt.OutlierMethod, opt.ZThreshold)
			if err != nil {
				return nil, err
			}
			r.Outliers[col] = CountFlags(mask)
		}
	}
	if opt.Correlations {
		if len(numeric) < 2 {
			r.Warnings = append(r.Warnings, "correlations skipped: fewer than 2 numeric columns")
		} else {
			corr, err := CorrelationMatrix(ds, opt.CorrMethod, numeric...)
			if err != nil {
				return nil, err
			}
			r.Corr = corr
		}
	}
	if opt.GroupBy != "" {
		if err := ds.Require(opt.GroupBy); err != nil {
			return nil, err
		}
		pos := map[string]int{}
		for _, col := range numeric {
			if col == opt.GroupBy {
				continue
			}
			groups, err := GroupSummary(ds, col, opt.GroupBy)
			if err != nil {
				return nil, err
			}
			for _, g := range groups {
				i, ok := pos[g.Key]
				if !ok {
					i = len(r.Groups)
					pos[g.Key] = i
					r.Groups = append(r.Groups, ReportGroup{Key: opt.GroupBy + "=" + g.Key, Size: g.Size, Metrics: map[string]Stats{}})
				}
				r.Groups[i].Metrics[col] = g.Stats
			}
		}
	}
	if opt.SampleRows > 0 {
		recs := ds.Frame().Records()
		for i := 1; i < len(recs) && i <= opt.SampleRows; i++ {
			r.Samples = append(r.Samples, recs[i])
		}
	}
	for _, c := range r.Cols {
		if c.Count == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("column %s has no values", safeName(c.Name)))
		}
	}
	return r, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := safeName(c.Name)
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.Count, c.MissingPct))
		switch c.Kind {
		case dataset.Numeric:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g, median %.4g", c.Min, c.Max, c.Mean, c.Std, c.Median))
			if n, ok := r.Outliers[c.Name]; ok {
				b.WriteString(fmt.Sprintf("; outliers: %d", n))
			}
		case dataset.Categorical:
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil {
		pairs, _ := HighCorrelationPairs(r.Corr, 0)
		if len(pairs) > 0 {
			b.WriteString(fmt.Sprintf("\n[CORRELATIONS] (%s)\n", r.Corr.Method))
			if len(pairs) > 10 {
				pairs = pairs[:10]
			}
			for _, p := range pairs {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
			}
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString(tableRow(columnNames(r.Cols)))
		b.WriteString(tableRow(dashes(len(r.Cols))))
		for _, row := range r.Samples {
			cells := make([]string, len(r.Cols))
			for i := range cells {
				if i < len(row) {
					cells[i] = row[i]
				}
				if len(cells[i]) > 80 {
					cells[i] = cells[i][:77] + "..."
				}
			}
			b.WriteString(tableRow(cells))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// SummaryMarkdown renders summary rows as a markdown table.
func SummaryMarkdown(rows []ColumnSummary) string {
	var b strings.Builder
	b.WriteString(tableRow([]string{"Column", "Type", "Count", "Missing", "Missing %", "Unique", "Mean", "Std", "Min", "Max", "Median", "Most Common"}))
	b.WriteString(tableRow(dashes(12)))
	for _, c := range rows {
		cells := []string{
			safeName(c.Name), c.Type,
			fmt.Sprint(c.Count), fmt.Sprint(c.Missing),
			fmt.Sprintf("%.1f%%", c.MissingPct), fmt.Sprint(c.Unique),
		}
		if c.Kind == dataset.Numeric {
			cells = append(cells, FormatFloat(c.Mean, 2), FormatFloat(c.Std, 2), FormatFloat(c.Min, 2),
				FormatFloat(c.Max, 2), FormatFloat(c.Median, 2), "")
		} else {
			most := c.MostFrequent
			if c.Count == 0 {
				most = "N/A"
			}
			cells = append(cells, "", "", "", "", "", safeVal(most))
		}
		b.WriteString(tableRow(cells))
	}
	return b.String()
}

func columnNames(cols []ColumnSummary) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = safeName(c.Name)
	}
	return out
}

func dashes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "---"
	}
	return out
}

func tableRow(cells []string) string {
	esc := make([]string, len(cells))
	for i, c := range cells {
		esc[i] = safeVal(c)
	}
	return "| " + strings.Join(esc, " | ") + " |\n"
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
