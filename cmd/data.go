package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/plotease/internal/analysis"
	"github.com/KaramelBytes/plotease/internal/dataset"
	"github.com/KaramelBytes/plotease/internal/render"
	"github.com/KaramelBytes/plotease/internal/utils"
	"github.com/KaramelBytes/plotease/internal/viz"
)

// loadFlags are the table-reading flags shared by every data command.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
	units      bool
}

func (l *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',', ';', '|' or 'tab' (default by extension)")
	cmd.Flags().StringVar(&l.decimal, "decimal", "", "decimal separator for numbers: '.' or 'comma'")
	cmd.Flags().StringVar(&l.thousands, "thousands", "", "thousands separator: ',', '.' or 'space'")
	cmd.Flags().StringVar(&l.sheetName, "sheet-name", "", "XLSX sheet name (defaults to first sheet)")
	cmd.Flags().IntVar(&l.sheetIndex, "sheet-index", 1, "XLSX 1-based sheet index (used when --sheet-name is empty)")
	cmd.Flags().IntVar(&l.maxRows, "max-rows", 0, "maximum rows to load (0 = all)")
	cmd.Flags().BoolVar(&l.units, "units", false, "split units like 'Mass [mg/L]' out of column headers")
}

func (l *loadFlags) options() (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	opt.MaxRows = l.maxRows
	opt.SheetName = l.sheetName
	opt.SheetIndex = l.sheetIndex
	opt.SplitUnits = l.units
	switch l.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(l.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", l.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(l.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", l.thousands)
	}
	return opt, nil
}

func (l *loadFlags) load(path string) (*dataset.Dataset, error) {
	opt, err := l.options()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Load(utils.ExpandHome(path), opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "file", ds.Source, "rows", ds.Len(), "cols", len(ds.Names()))
	return ds, nil
}

// vizOptions maps the effective configuration onto library options.
func vizOptions() (viz.Options, error) {
	opt := viz.DefaultOptions()
	opt.Theme = cfg.Theme
	opt.Palette = cfg.Palette
	opt.Render.Width = cfg.Width
	opt.Render.Height = cfg.Height
	opt.Render.DPI = cfg.DPI
	opt.Render.Bins = cfg.Bins
	z := cfg.ZThreshold
	opt.ZThreshold = &z
	opt.Logger = logger
	m, err := analysis.ParseMethod(cfg.CorrMethod)
	if err != nil {
		return opt, err
	}
	opt.CorrMethod = m
	om, err := analysis.ParseOutlierMethod(cfg.OutlierMethod)
	if err != nil {
		return opt, err
	}
	opt.OutlierMethod = om
	return opt, nil
}

func newVisualizer(ds *dataset.Dataset) (*viz.Visualizer, error) {
	opt, err := vizOptions()
	if err != nil {
		return nil, err
	}
	return viz.New(ds, opt)
}

// saveFigure writes fig to out, or to a fresh file under the configured
// output directory, and prints the path.
func saveFigure(cmd *cobra.Command, fig *render.Figure, command, out, format string) (string, error) {
	if format == "" && out == "" {
		format = cfg.Format
	}
	if out == "" {
		out = utils.OutputPath(cfg.OutputDir, command, format)
	}
	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := fig.Save(out, cfg.DPI, format); err != nil {
		return "", err
	}
	logger.Info("figure written", "path", out, "panels", fig.Panels())
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", out)
	return out, nil
}
