package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Styling and export
	Theme     string  `mapstructure:"theme" yaml:"theme"`
	Palette   string  `mapstructure:"palette" yaml:"palette"`
	DPI       int     `mapstructure:"dpi" yaml:"dpi"`
	Format    string  `mapstructure:"format" yaml:"format"`
	Width     float64 `mapstructure:"width" yaml:"width"`
	Height    float64 `mapstructure:"height" yaml:"height"`
	OutputDir string  `mapstructure:"output_dir" yaml:"output_dir"`
	Bins      int     `mapstructure:"bins" yaml:"bins"`
	MaxPlots  int     `mapstructure:"max_plots" yaml:"max_plots"`

	// Statistics
	CorrMethod    string  `mapstructure:"corr_method" yaml:"corr_method"`
	CorrThreshold float64 `mapstructure:"corr_threshold" yaml:"corr_threshold"`
	OutlierMethod string  `mapstructure:"outlier_method" yaml:"outlier_method"`
	ZThreshold    float64 `mapstructure:"z_threshold" yaml:"z_threshold"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
}

const (
	envPrefix = "PLOTEASE"
	dirName   = ".plotease"
)

var defaults = map[string]any{
	"theme":          "default",
	"palette":        "",
	"dpi":            100,
	"format":         "png",
	"width":          10.0,
	"height":         6.0,
	"output_dir":     ".",
	"bins":           0,
	"max_plots":      6,
	"corr_method":    "pearson",
	"corr_threshold": 0.5,
	"outlier_method": "iqr",
	"z_threshold":    3.0,
	"log_level":      "info",
	"log_file":       "",
}

// Keys lists every configuration key in alphabetical order.
func Keys() []string {
	out := make([]string, 0, len(defaults))
	for k := range defaults {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultPath returns ~/.plotease/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.plotease/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied
// by the caller on top of the result.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ranges that would otherwise fail deep inside a command.
func (c *Global) Validate() error {
	switch {
	case c.DPI <= 0:
		return fmt.Errorf("invalid dpi: %d (must be positive)", c.DPI)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid size: %gx%g (must be positive inches)", c.Width, c.Height)
	case c.Bins < 0:
		return fmt.Errorf("invalid bins: %d (use 0 for automatic)", c.Bins)
	case c.MaxPlots <= 0:
		return fmt.Errorf("invalid max_plots: %d (must be positive)", c.MaxPlots)
	case c.CorrThreshold < 0 || c.CorrThreshold > 1:
		return fmt.Errorf("invalid corr_threshold: %g (must be within [0, 1])", c.CorrThreshold)
	case c.ZThreshold < 0:
		return fmt.Errorf("invalid z_threshold: %g (must not be negative)", c.ZThreshold)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", c.LogLevel)
	}
	return nil
}

// Set assigns a value by key, parsing numbers, and re-validates.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "theme":
		next.Theme = val
	case "palette":
		next.Palette = val
	case "format":
		next.Format = strings.TrimPrefix(strings.ToLower(val), ".")
	case "output_dir":
		next.OutputDir = val
	case "corr_method":
		next.CorrMethod = strings.ToLower(val)
	case "outlier_method":
		next.OutlierMethod = strings.ToLower(val)
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_file":
		next.LogFile = val
	case "dpi", "bins", "max_plots":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "dpi":
			next.DPI = i
		case "bins":
			next.Bins = i
		default:
			next.MaxPlots = i
		}
	case "width", "height", "corr_threshold", "z_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		switch key {
		case "width":
			next.Width = f
		case "height":
			next.Height = f
		case "corr_threshold":
			next.CorrThreshold = f
		default:
			next.ZThreshold = f
		}
	default:
		return fmt.Errorf("unknown key: %s (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Default returns the built-in configuration.
func Default() *Global {
	return &Global{
		Theme:         defaults["theme"].(string),
		Palette:       defaults["palette"].(string),
		DPI:           defaults["dpi"].(int),
		Format:        defaults["format"].(string),
		Width:         defaults["width"].(float64),
		Height:        defaults["height"].(float64),
		OutputDir:     defaults["output_dir"].(string),
		Bins:          defaults["bins"].(int),
		MaxPlots:      defaults["max_plots"].(int),
		CorrMethod:    defaults["corr_method"].(string),
		CorrThreshold: defaults["corr_threshold"].(float64),
		OutlierMethod: defaults["outlier_method"].(string),
		ZThreshold:    defaults["z_threshold"].(float64),
		LogLevel:      defaults["log_level"].(string),
		LogFile:       defaults["log_file"].(string),
	}
}
