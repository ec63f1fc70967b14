package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// LoadOptions controls how files are turned into tables.
type LoadOptions struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Numeric parsing locale. When either separator is set, cells that parse
	// as locale numbers are rewritten before type detection.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// SplitUnits strips unit suffixes like "Mass [mg/L]" from headers and
	// records them in Dataset.Unit.
	SplitUnits bool
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultLoadOptions returns reasonable defaults for file loading.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{SheetIndex: 1}
}

// Loader reads one family of tabular files.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(jsonLoader{})
}

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported table format")

// Load selects a loader by file name and wraps the resulting table.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		ds, err := l.Load(path, opt)
		if err != nil {
			var e *errs.Error
			if errors.As(err, &e) {
				return nil, err
			}
			return nil, errs.OperationFailed("load "+filepath.Base(path), err)
		}
		ds.Source = filepath.Base(path)
		return ds, nil
	}
	return nil, errs.OperationFailed("load "+filepath.Base(path), fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path)))
}

// FromRecords builds a Dataset from header-first records after applying the
// locale and unit handling in opt.
func FromRecords(records [][]string, opt LoadOptions) (*Dataset, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, errs.InvalidDataType("records without a header row")
	}
	records, units := prepareRecords(records, opt)
	if len(records) == 1 {
		return nil, errs.EmptyDataset()
	}
	ds, err := fromFrame(loadRecords(records))
	if err != nil {
		return nil, err
	}
	ds.units = units
	return ds, nil
}

// Unit returns the unit split from a column header, if any.
func (d *Dataset) Unit(name string) string {
	return d.units[name]
}

func loadRecords(records [][]string) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(MissingMarkers),
	)
}

// prepareRecords pads ragged rows, applies MaxRows, splits header units and
// rewrites locale-formatted numbers into plain decimal notation.
func prepareRecords(records [][]string, opt LoadOptions) ([][]string, map[string]string) {
	header := make([]string, len(records[0]))
	var units map[string]string
	for i, h := range records[0] {
		name := strings.TrimSpace(h)
		if opt.SplitUnits {
			clean, unit := splitUnits(name)
			if unit != "" {
				if units == nil {
					units = map[string]string{}
				}
				units[clean] = unit
			}
			name = clean
		}
		header[i] = name
	}
	ncol := len(header)
	body := records[1:]
	if opt.MaxRows > 0 && len(body) > opt.MaxRows {
		body = body[:opt.MaxRows]
	}
	locale := opt.DecimalSeparator != 0 || opt.ThousandsSeparator != 0
	out := make([][]string, 0, len(body)+1)
	out = append(out, header)
	for _, rec := range body {
		row := make([]string, ncol)
		copy(row, rec)
		for j := range row {
			v := strings.TrimSpace(row[j])
			if locale && v != "" {
				if x, ok := parseNumeric(v, opt.DecimalSeparator, opt.ThousandsSeparator); ok {
					v = strconv.FormatFloat(x, 'g', -1, 64)
				}
			}
			row[j] = v
		}
		out = append(out, row)
	}
	return out, units
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}
