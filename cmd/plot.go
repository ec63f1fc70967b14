package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/render"
	"github.com/KaramelBytes/plotease/internal/viz"
)

// Multi-panel figures available next to the single-chart kinds.
const (
	figPairs          = "pairs"
	figMissing        = "missing"
	figOverview       = "overview"
	figGroups         = "groups"
	figQuality        = "quality"
	figDistributions  = "distributions"
	figSummaryHeatmap = "summary-heatmap"
	figSummaryTable   = "summary-table"
	figCorrSummary    = "corr-summary"
	figAll            = "all"
)

var figureKinds = []string{figPairs, figMissing, figOverview, figGroups, figQuality, figDistributions, figSummaryHeatmap, figSummaryTable, figCorrSummary, figAll}

var (
	plotLoad       loadFlags
	plotX          string
	plotY          string
	plotHue        string
	plotBy         string
	plotColumns    []string
	plotKinds      []string
	plotBins       int
	plotHorizontal bool
	plotOutput     string
	plotFormat     string
)

var plotCmd = &cobra.Command{
	Use:   "plot <kind> <file>",
	Short: "Draw one chart or figure from a table",
	Long: fmt.Sprintf(`plot draws a single chart kind (%s)
or a composite figure (%s).

"auto" picks a histogram for one numeric column, a scatter for two numeric
columns and a bar chart when a categorical column is involved. "all" draws
-y against -x once per --kinds entry (scatter, line, hist, box) in one
two-column figure.`,
		strings.Join(viz.Kinds, ", "), strings.Join(figureKinds, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(args[0])
		ds, err := plotLoad.load(args[1])
		if err != nil {
			return err
		}
		v, err := newVisualizer(ds)
		if err != nil {
			return err
		}
		fig, err := drawKind(v, kind)
		if err != nil {
			return err
		}
		_, err = saveFigure(cmd, fig, kind, plotOutput, plotFormat)
		return err
	},
}

func drawKind(v *viz.Visualizer, kind string) (*render.Figure, error) {
	need := func(flag, val string) error {
		if val == "" {
			return fmt.Errorf("%s needs --%s", kind, flag)
		}
		return nil
	}
	switch kind {
	case viz.KindScatter:
		if plotHue != "" {
			if err := need("y", plotY); err != nil {
				return nil, err
			}
			return v.Scatter(plotX, plotY, plotHue)
		}
	case viz.KindLine:
		if len(plotColumns) > 0 {
			return v.Line(plotX, plotColumns...)
		}
	case viz.KindBar:
		if plotHorizontal {
			return v.Bar(plotX, plotY, true)
		}
	case viz.KindHistogram:
		if plotBins > 0 {
			return v.Histogram(plotX, plotBins)
		}
	case viz.KindBox:
		if len(plotColumns) > 0 {
			return v.Box(plotColumns...)
		}
	case viz.KindHeatmap:
		return v.Heatmap(plotColumns...)
	case figPairs:
		return v.PairGrid(plotColumns...)
	case figMissing:
		return v.MissingData()
	case figOverview:
		if err := need("x", plotX); err != nil {
			return nil, err
		}
		return v.StatisticalOverview(plotX)
	case figGroups:
		if err := need("x", plotX); err != nil {
			return nil, err
		}
		if err := need("by", plotBy); err != nil {
			return nil, err
		}
		return v.CompareGroups(plotX, plotBy)
	case figQuality:
		return v.DataQualityReport()
	case figDistributions:
		return v.DistributionComparison(plotColumns...)
	case figSummaryHeatmap:
		return v.SummaryHeatmap(plotColumns...)
	case figSummaryTable:
		return v.SummaryTable(plotColumns...)
	case figCorrSummary:
		return v.CorrelationSummary(cfg.CorrThreshold)
	case figAll:
		if err := need("x", plotX); err != nil {
			return nil, err
		}
		if err := need("y", plotY); err != nil {
			return nil, err
		}
		return v.PlotAll(plotX, plotY, plotKinds...)
	}
	if err := need("x", plotX); err != nil {
		return nil, err
	}
	return v.QuickPlot(plotX, plotY, kind)
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotLoad.register(plotCmd)
	plotCmd.Flags().StringVarP(&plotX, "x", "x", "", "x column (or the column for one-column charts)")
	plotCmd.Flags().StringVarP(&plotY, "y", "y", "", "y column")
	plotCmd.Flags().StringVar(&plotHue, "hue", "", "categorical column coloring scatter points")
	plotCmd.Flags().StringVar(&plotBy, "by", "", "group column for the groups figure")
	plotCmd.Flags().StringSliceVar(&plotColumns, "columns", nil, "columns for line, box, heatmap and composite figures")
	plotCmd.Flags().StringSliceVar(&plotKinds, "kinds", nil, "panels for the all figure (default scatter,line,hist,box)")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "histogram bins (0 = automatic)")
	plotCmd.Flags().BoolVar(&plotHorizontal, "horizontal", false, "draw bars horizontally")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "output file (default <output_dir>/<kind>-<id>.<format>)")
	plotCmd.Flags().StringVar(&plotFormat, "format", "", "png, jpg, tiff, svg, pdf or eps (default from extension or config)")
}
