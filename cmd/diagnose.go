package cmd

import (
	"github.com/spf13/cobra"
)

var (
	diagLoad     loadFlags
	diagTarget   string
	diagMaxPlots int
	diagOutput   string
	diagFormat   string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Draw a multi-panel diagnostic figure for a dataset",
	Long: `diagnose draws up to --max-plots panels: numeric distributions, a
correlation heat map, missing values, the --target column, top categories
and outlier box plots. Panels that cannot be drawn are replaced by a note.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := diagLoad.load(args[0])
		if err != nil {
			return err
		}
		v, err := newVisualizer(ds)
		if err != nil {
			return err
		}
		limit := diagMaxPlots
		if !cmd.Flags().Changed("max-plots") {
			limit = cfg.MaxPlots
		}
		fig, err := v.AutoDiagnose(diagTarget, limit)
		if err != nil {
			return err
		}
		_, err = saveFigure(cmd, fig, "diagnose", diagOutput, diagFormat)
		return err
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagLoad.register(diagnoseCmd)
	diagnoseCmd.Flags().StringVarP(&diagTarget, "target", "t", "", "column to feature in its own panel")
	diagnoseCmd.Flags().IntVar(&diagMaxPlots, "max-plots", 6, "maximum number of panels (overrides config)")
	diagnoseCmd.Flags().StringVarP(&diagOutput, "output", "o", "", "output file (default <output_dir>/diagnose-<id>.<format>)")
	diagnoseCmd.Flags().StringVar(&diagFormat, "format", "", "png, jpg, tiff, svg, pdf or eps (default from extension or config)")
}
