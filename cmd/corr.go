package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/analysis"
)

var (
	corrLoad      loadFlags
	corrMethod    string
	corrThreshold float64
	corrColumns   []string
	corrPlot      bool
	corrOutput    string
	corrFormat    string
)

var corrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "List strongly correlated column pairs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := corrLoad.load(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("method") {
			cfg.CorrMethod = corrMethod
		}
		if cmd.Flags().Changed("threshold") {
			cfg.CorrThreshold = corrThreshold
		}
		method, err := analysis.ParseMethod(cfg.CorrMethod)
		if err != nil {
			return err
		}
		rep, err := analysis.CorrelationMatrix(ds, method, corrColumns...)
		if err != nil {
			return err
		}
		pairs, err := analysis.HighCorrelationPairs(rep, cfg.CorrThreshold)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s correlation, |r| >= %s\n", method, analysis.FormatFloat(cfg.CorrThreshold, 2))
		if len(pairs) == 0 {
			fmt.Fprintln(out, "No pairs above threshold")
		} else {
			fmt.Fprintln(out, "| A | B | r |")
			fmt.Fprintln(out, "| --- | --- | --- |")
			for _, p := range pairs {
				fmt.Fprintf(out, "| %s | %s | %.3f |\n", p.A, p.B, p.R)
			}
		}
		if !corrPlot {
			return nil
		}
		v, err := newVisualizer(ds)
		if err != nil {
			return err
		}
		fig, err := v.Heatmap(corrColumns...)
		if err != nil {
			return err
		}
		_, err = saveFigure(cmd, fig, "corr", corrOutput, corrFormat)
		return err
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrLoad.register(corrCmd)
	corrCmd.Flags().StringVar(&corrMethod, "method", "pearson", "pearson, spearman or kendall (overrides config)")
	corrCmd.Flags().Float64Var(&corrThreshold, "threshold", 0.5, "minimum |r| to list (overrides config)")
	corrCmd.Flags().StringSliceVar(&corrColumns, "columns", nil, "numeric columns to correlate (default all)")
	corrCmd.Flags().BoolVar(&corrPlot, "plot", false, "also save a correlation heat map")
	corrCmd.Flags().StringVarP(&corrOutput, "output", "o", "", "heat map output file")
	corrCmd.Flags().StringVar(&corrFormat, "format", "", "heat map format (default from extension or config)")
}
