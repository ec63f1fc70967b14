package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/plotease/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Styling overrides (override config if set)
	flagTheme     string
	flagDPI       int
	flagOutputDir string
	flagLogFile   string

	// Loaded configuration
	cfg *cfgpkg.Global

	// logger is rebuilt on every invocation from config and flags.
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "plotease",
	Short: "plotease: one-call statistical charts and diagnostics for tabular data",
	Long: `plotease loads CSV, TSV, JSON or XLSX tables, summarizes them, and draws
themed charts and multi-panel diagnostic figures (PNG, JPEG, SVG, PDF).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.plotease/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "chart theme: default, minimal, dark or colorful (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagDPI, "dpi", 0, "output resolution for raster formats (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "directory for generated figures (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also append logs to this file (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("theme") && flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if f.Changed("dpi") && flagDPI > 0 {
		cfg.DPI = flagDPI
	}
	if f.Changed("output-dir") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if f.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	setupLogging()
}

// setupLogging writes text logs to stderr and, when configured, to a log
// file. A log file that cannot be opened is reported and skipped.
func setupLogging() {
	closeLog()
	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: cannot open log file: %v\n", err)
		} else {
			logFile = f
			w = io.MultiWriter(os.Stderr, f)
		}
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	logger.Debug("config loaded", "theme", cfg.Theme, "dpi", cfg.DPI, "format", cfg.Format, "output_dir", cfg.OutputDir)
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
