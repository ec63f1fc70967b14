package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/analysis"
)

var (
	outLoad   loadFlags
	outColumn string
	outMethod string
	outZ      float64
	outShow   int
	outPlot   bool
	outOutput string
	outFormat string
)

var outliersCmd = &cobra.Command{
	Use:   "outliers <file>",
	Short: "Count outliers per numeric column, or list them for one column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := outLoad.load(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("method") {
			cfg.OutlierMethod = outMethod
		}
		if cmd.Flags().Changed("z") {
			cfg.ZThreshold = outZ
		}
		v, err := newVisualizer(ds)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		method, err := analysis.ParseOutlierMethod(cfg.OutlierMethod)
		if err != nil {
			return err
		}
		if outColumn == "" {
			if outPlot {
				return fmt.Errorf("--plot needs --column")
			}
			fmt.Fprintf(out, "| Column | Outliers (%s) |\n| --- | --- |\n", method)
			for _, col := range ds.NumericColumns() {
				flags, err := v.Outliers(col, method)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "| %s | %d |\n", col, analysis.CountFlags(flags))
			}
			return nil
		}

		flags, err := v.Outliers(outColumn, method)
		if err != nil {
			return err
		}
		vals, _ := ds.Float(outColumn)
		n := analysis.CountFlags(flags)
		fmt.Fprintf(out, "%s: %d outliers (%s)\n", outColumn, n, method)
		shown := 0
		for i, f := range flags {
			if !f {
				continue
			}
			if outShow > 0 && shown == outShow {
				fmt.Fprintf(out, "  ... %d more\n", n-shown)
				break
			}
			fmt.Fprintf(out, "  row %d: %s\n", i+1, analysis.FormatFloat(vals[i], 4))
			shown++
		}
		if !outPlot {
			return nil
		}
		fig, err := v.OutlierPlot(outColumn, method)
		if err != nil {
			return err
		}
		_, err = saveFigure(cmd, fig, "outliers", outOutput, outFormat)
		return err
	},
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	outLoad.register(outliersCmd)
	outliersCmd.Flags().StringVarP(&outColumn, "column", "c", "", "numeric column to inspect (default: count all)")
	outliersCmd.Flags().StringVar(&outMethod, "method", "iqr", "iqr, zscore or robust (overrides config)")
	outliersCmd.Flags().Float64Var(&outZ, "z", 3.0, "z-score threshold for zscore and robust (overrides config)")
	outliersCmd.Flags().IntVar(&outShow, "show", 20, "maximum flagged rows to print (0 = all)")
	outliersCmd.Flags().BoolVar(&outPlot, "plot", false, "also save an index scatter with outliers highlighted")
	outliersCmd.Flags().StringVarP(&outOutput, "output", "o", "", "plot output file")
	outliersCmd.Flags().StringVar(&outFormat, "format", "", "plot format (default from extension or config)")
}
