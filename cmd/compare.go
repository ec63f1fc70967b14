package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/compare"
	"github.com/KaramelBytes/plotease/internal/utils"
	"github.com/KaramelBytes/plotease/internal/viz"
)

var (
	cmpMetrics   []string
	cmpRank      string
	cmpAscending bool
	cmpDist      string
	cmpPlot      bool
	cmpOutput    string
	cmpFormat    string
)

var compareCmd = &cobra.Command{
	Use:   "compare <scores.yaml>",
	Short: "Compare model scores across metrics",
	Long: `compare reads model scores from YAML or JSON, either a mapping of
model name to {metric: score} or a list of {name, scores} entries, and
prints the score table with the best model per metric.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compare.LoadFile(utils.ExpandHome(args[0]))
		if err != nil {
			return err
		}
		logger.Debug("scores loaded", "models", c.Len(), "metrics", len(c.Metrics()))
		res, err := c.Compare(cmpMetrics...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, c.Markdown())
		fmt.Fprintln(out)
		for _, m := range res.Metrics {
			if best, ok := res.Best[m]; ok {
				fmt.Fprintf(out, "Best %s: %s\n", m, best)
			}
		}
		fmt.Fprintf(out, "Mean score: %s\n", analysis.FormatFloat(res.MeanScore, 4))
		if !cmpPlot {
			return nil
		}

		opt, err := vizOptions()
		if err != nil {
			return err
		}
		mc, err := viz.NewModelCharts(opt)
		if err != nil {
			return err
		}
		if cmpDist != "" {
			fig, err := mc.MetricDistribution(c, cmpDist)
			if err != nil {
				return err
			}
			_, err = saveFigure(cmd, fig, "distribution", cmpOutput, cmpFormat)
			return err
		}
		if cmpRank != "" {
			fig, err := mc.Ranking(c, cmpRank, cmpAscending)
			if err != nil {
				return err
			}
			_, err = saveFigure(cmd, fig, "ranking", cmpOutput, cmpFormat)
			return err
		}
		fig, err := mc.Compare(c, res.Metrics...)
		if err != nil {
			return err
		}
		_, err = saveFigure(cmd, fig, "compare", cmpOutput, cmpFormat)
		return err
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringSliceVar(&cmpMetrics, "metrics", nil, "metrics to compare (default all)")
	compareCmd.Flags().StringVar(&cmpRank, "rank", "", "with --plot, draw a ranking by this metric instead")
	compareCmd.Flags().StringVar(&cmpDist, "distribution", "", "with --plot, draw the spread of this metric across models instead")
	compareCmd.Flags().BoolVar(&cmpAscending, "ascending", false, "lower scores rank higher (e.g. error metrics)")
	compareCmd.Flags().BoolVar(&cmpPlot, "plot", false, "also save a comparison chart")
	compareCmd.Flags().StringVarP(&cmpOutput, "output", "o", "", "chart output file")
	compareCmd.Flags().StringVar(&cmpFormat, "format", "", "chart format (default from extension or config)")
}
