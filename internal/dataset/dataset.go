// Package dataset wraps a gota DataFrame behind a read-only view that
// validates its shape once and classifies each column as numeric or
// categorical.
package dataset

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/plotease/internal/errs"
)

// Kind is the coarse type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// MissingMarkers are the raw cell values treated as missing on load.
var MissingMarkers = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "<nil>"}

// Dataset is an immutable-by-convention view over a DataFrame. Column kinds
// are derived once at construction; mutating the wrapped frame afterwards is
// out of contract.
type Dataset struct {
	// Source is an optional label, usually the file name the data came from.
	Source string

	df    dataframe.DataFrame
	names []string
	kinds map[string]Kind
	types map[string]series.Type
	units map[string]string
}

// New wraps v, which may be a dataframe.DataFrame, *dataframe.DataFrame,
// CSV-style [][]string records whose first row is the header, or a
// []map[string]any of rows.
func New(v any) (*Dataset, error) {
	var df dataframe.DataFrame
	switch t := v.(type) {
	case dataframe.DataFrame:
		df = t
	case *dataframe.DataFrame:
		if t == nil {
			return nil, errs.InvalidDataType("nil *dataframe.DataFrame")
		}
		df = *t
	case [][]string:
		return FromRecords(t, LoadOptions{})
	case []map[string]any:
		if len(t) == 0 {
			return nil, errs.EmptyDataset()
		}
		df = dataframe.LoadMaps(t, dataframe.NaNValues(MissingMarkers))
	default:
		return nil, errs.InvalidDataType(fmt.Sprintf("%T", v))
	}
	return fromFrame(df)
}

func fromFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, &errs.Error{
			Kind:       errs.KindInvalidDataType,
			Message:    fmt.Sprintf("Data is not a valid table: %v", df.Err),
			Suggestion: "Check that every row has the same number of fields as the header",
			Err:        df.Err,
		}
	}
	if df.Ncol() == 0 {
		return nil, errs.InvalidDataType("table without columns")
	}
	if df.Nrow() == 0 {
		return nil, errs.EmptyDataset()
	}
	names := df.Names()
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, errs.InvalidDataType(fmt.Sprintf("table with duplicate column %q", n))
		}
		seen[n] = struct{}{}
	}
	ds := &Dataset{
		df:    df,
		names: names,
		kinds: make(map[string]Kind, len(names)),
		types: make(map[string]series.Type, len(names)),
	}
	for i, t := range df.Types() {
		name := names[i]
		ds.types[name] = t
		switch t {
		case series.Int, series.Float:
			ds.kinds[name] = Numeric
		default:
			ds.kinds[name] = Categorical
		}
	}
	return ds, nil
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.df.Nrow() }

// Names returns the column names in table order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Frame exposes the wrapped DataFrame. Callers must treat it as read-only.
func (d *Dataset) Frame() dataframe.DataFrame { return d.df }

func (d *Dataset) Has(name string) bool {
	_, ok := d.kinds[name]
	return ok
}

// Kind returns the classification of a column.
func (d *Dataset) Kind(name string) (Kind, error) {
	k, ok := d.kinds[name]
	if !ok {
		return "", errs.ColumnNotFound(name, d.names)
	}
	return k, nil
}

// Type returns the underlying gota series type name of a column.
func (d *Dataset) Type(name string) string {
	return string(d.types[name])
}

func (d *Dataset) NumericColumns() []string { return d.columnsOf(Numeric) }

func (d *Dataset) CategoricalColumns() []string { return d.columnsOf(Categorical) }

func (d *Dataset) columnsOf(k Kind) []string {
	var out []string
	for _, n := range d.names {
		if d.kinds[n] == k {
			out = append(out, n)
		}
	}
	return out
}

// Require checks that every named column exists.
func (d *Dataset) Require(columns ...string) error {
	for _, c := range columns {
		if !d.Has(c) {
			return errs.ColumnNotFound(c, d.names)
		}
	}
	return nil
}

// Float returns a numeric column as float64 values with NaN for missing cells.
func (d *Dataset) Float(name string) ([]float64, error) {
	k, err := d.Kind(name)
	if err != nil {
		return nil, err
	}
	if k != Numeric {
		return nil, errs.NotNumeric(name, d.Type(name))
	}
	s := d.df.Col(name)
	vals := s.Float()
	miss := s.IsNaN()
	for i := range vals {
		if miss[i] {
			vals[i] = math.NaN()
		}
	}
	return vals, nil
}

// Strings returns the textual cell values of a column together with a
// missing mask aligned to it.
func (d *Dataset) Strings(name string) ([]string, []bool, error) {
	if !d.Has(name) {
		return nil, nil, errs.ColumnNotFound(name, d.names)
	}
	s := d.df.Col(name)
	return s.Records(), s.IsNaN(), nil
}

// Missing returns the number of missing cells in a column.
func (d *Dataset) Missing(name string) (int, error) {
	if !d.Has(name) {
		return 0, errs.ColumnNotFound(name, d.names)
	}
	n := 0
	for _, m := range d.df.Col(name).IsNaN() {
		if m {
			n++
		}
	}
	return n, nil
}

// EqualsByContent reports whether two datasets hold the same column names,
// types and cell values.
func EqualsByContent(a, b *Dataset) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() || len(a.names) != len(b.names) {
		return false
	}
	for i, n := range a.names {
		if b.names[i] != n || a.types[n] != b.types[n] {
			return false
		}
	}
	ra, rb := a.df.Records(), b.df.Records()
	for i := range ra {
		for j := range ra[i] {
			if ra[i][j] != rb[i][j] {
				return false
			}
		}
	}
	return true
}

// CompareByRowCount returns -1, 0 or +1 as a has fewer, equal or more rows than b.
func CompareByRowCount(a, b *Dataset) int {
	switch la, lb := a.Len(), b.Len(); {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}
