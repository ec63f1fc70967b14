package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/utils"
)

var (
	sumLoad       loadFlags
	sumOutputPath string
	sumSampleRows int
	sumGroupBy    string
	sumCorr       bool
	sumOutliers   bool
	sumJSON       bool
	sumLexical    bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print per-column statistics and a compact dataset report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := sumLoad.load(args[0])
		if err != nil {
			return err
		}
		var out []byte
		if sumJSON {
			rows, err := analysis.Summary(ds)
			if err != nil {
				return err
			}
			if out, err = utils.PrettyJSON(jsonRows(rows)); err != nil {
				return err
			}
			out = append(out, '\n')
		} else {
			opt := analysis.DefaultReportOptions()
			opt.SampleRows = sumSampleRows
			opt.GroupBy = sumGroupBy
			opt.Correlations = sumCorr
			opt.Outliers = sumOutliers
			opt.ZThreshold = cfg.ZThreshold
			if opt.CorrMethod, err = analysis.ParseMethod(cfg.CorrMethod); err != nil {
				return err
			}
			if opt.OutlierMethod, err = analysis.ParseOutlierMethod(cfg.OutlierMethod); err != nil {
				return err
			}
			if sumLexical {
				opt.Categorical.TieBreak = analysis.TieLexical
			}
			rep, err := analysis.BuildReport(ds, opt)
			if err != nil {
				return err
			}
			out = []byte(rep.Markdown())
		}

		if sumOutputPath == "" {
			_, err = cmd.OutOrStdout().Write(out)
			return err
		}
		if err := os.WriteFile(sumOutputPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutputPath)
		return nil
	},
}

// jsonRows flattens summaries into JSON-safe maps; undefined statistics
// become null.
func jsonRows(rows []analysis.ColumnSummary) []map[string]any {
	num := func(v float64) any {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := map[string]any{
			"name":        r.Name,
			"kind":        string(r.Kind),
			"type":        r.Type,
			"count":       r.Count,
			"missing":     r.Missing,
			"missing_pct": num(r.MissingPct),
			"unique":      r.Unique,
		}
		if r.Unit != "" {
			m["unit"] = r.Unit
		}
		if r.Kind == dataset.Numeric {
			m["mean"] = num(r.Mean)
			m["std"] = num(r.Std)
			m["min"] = num(r.Min)
			m["max"] = num(r.Max)
			m["median"] = num(r.Median)
			m["q1"] = num(r.Q1)
			m["q3"] = num(r.Q3)
			m["skewness"] = num(r.Skewness)
			m["kurtosis"] = num(r.Kurtosis)
		} else {
			m["most_frequent"] = r.MostFrequent
			m["frequency"] = r.Frequency
		}
		out = append(out, m)
	}
	return out
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumLoad.register(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "write the summary to this file instead of stdout")
	summaryCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of sample rows to include")
	summaryCmd.Flags().StringVar(&sumGroupBy, "group-by", "", "column to compute per-group means by")
	summaryCmd.Flags().BoolVar(&sumCorr, "corr", true, "include the strongest correlations")
	summaryCmd.Flags().BoolVar(&sumOutliers, "outliers", true, "count outliers per numeric column")
	summaryCmd.Flags().BoolVar(&sumJSON, "json", false, "print the per-column summary as JSON")
	summaryCmd.Flags().BoolVar(&sumLexical, "lexical-ties", false, "break most-common ties alphabetically instead of by first occurrence")
}
