// Package errs defines the error taxonomy shared by the dataset, analysis,
// render and viz packages. Validation errors carry a remediation suggestion;
// failures coming from collaborating libraries are wrapped as OperationFailed
// or ExportFailure so callers never need to know third-party error types.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindColumnNotFound
	KindNotNumeric
	KindEmptyDataset
	KindInvalidDataType
	KindInsufficientColumns
	KindUnknownMetric
	KindInvalidParameter
	KindDimensionMismatch
	KindThemeNotFound
	KindMaxCellsExceeded
	KindExportFailure
	KindOperationFailed
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindColumnNotFound:      "column not found",
	KindNotNumeric:          "not numeric",
	KindEmptyDataset:        "empty dataset",
	KindInvalidDataType:     "invalid data type",
	KindInsufficientColumns: "insufficient columns",
	KindUnknownMetric:       "unknown metric",
	KindInvalidParameter:    "invalid parameter",
	KindDimensionMismatch:   "dimension mismatch",
	KindThemeNotFound:       "theme not found",
	KindMaxCellsExceeded:    "max cells exceeded",
	KindExportFailure:       "export failure",
	KindOperationFailed:     "operation failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single concrete error type returned by the library.
type Error struct {
	Kind       Kind
	Message    string
	Suggestion string
	// Err is the wrapped cause for ExportFailure and OperationFailed.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("%s\n Suggestion: %s", msg, e.Suggestion)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets the package sentinels match any error of the same kind:
// errors.Is(err, errs.ErrColumnNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Err == nil {
		return t.Kind == e.Kind
	}
	return t == e
}

// Sentinels for errors.Is matching.
var (
	ErrColumnNotFound      = &Error{Kind: KindColumnNotFound}
	ErrNotNumeric          = &Error{Kind: KindNotNumeric}
	ErrEmptyDataset        = &Error{Kind: KindEmptyDataset}
	ErrInvalidDataType     = &Error{Kind: KindInvalidDataType}
	ErrInsufficientColumns = &Error{Kind: KindInsufficientColumns}
	ErrUnknownMetric       = &Error{Kind: KindUnknownMetric}
	ErrInvalidParameter    = &Error{Kind: KindInvalidParameter}
	ErrDimensionMismatch   = &Error{Kind: KindDimensionMismatch}
	ErrThemeNotFound       = &Error{Kind: KindThemeNotFound}
	ErrMaxCellsExceeded    = &Error{Kind: KindMaxCellsExceeded}
	ErrExportFailure       = &Error{Kind: KindExportFailure}
	ErrOperationFailed     = &Error{Kind: KindOperationFailed}
)

// KindOf reports the Kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Suggestion returns the remediation hint attached to err, if any.
func Suggestion(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Suggestion
	}
	return ""
}

// ColumnNotFound reports a missing column and lists up to five available ones.
func ColumnNotFound(column string, available []string) *Error {
	return &Error{
		Kind:       KindColumnNotFound,
		Message:    fmt.Sprintf("Column '%s' not found in data", column),
		Suggestion: "Available columns: " + quoteList(available, 5),
	}
}

func NotNumeric(column, got string) *Error {
	return &Error{
		Kind:       KindNotNumeric,
		Message:    fmt.Sprintf("Column '%s' is not numeric (type %s)", column, got),
		Suggestion: "Select a numeric column or convert the column before computing statistics",
	}
}

func EmptyDataset() *Error {
	return &Error{
		Kind:       KindEmptyDataset,
		Message:    "Cannot operate on empty data",
		Suggestion: "Ensure your data contains at least one row/element",
	}
}

func InvalidDataType(got string) *Error {
	return &Error{
		Kind:       KindInvalidDataType,
		Message:    fmt.Sprintf("Unsupported data type: %s", got),
		Suggestion: "Pass a gota DataFrame, CSV-style records with a header row, or a slice of row maps",
	}
}

func InsufficientColumns(need, got int) *Error {
	return &Error{
		Kind:       KindInsufficientColumns,
		Message:    fmt.Sprintf("Need at least %d numeric columns, got %d", need, got),
		Suggestion: "Add numeric columns or pass an explicit column list",
	}
}

func UnknownMetric(metric string, available []string) *Error {
	return &Error{
		Kind:       KindUnknownMetric,
		Message:    fmt.Sprintf("Metric '%s' not found", metric),
		Suggestion: "Available metrics: " + quoteList(available, len(available)),
	}
}

func InvalidParameter(name string, value any, reason string) *Error {
	return &Error{
		Kind:       KindInvalidParameter,
		Message:    fmt.Sprintf("Invalid value for %s: %v", name, value),
		Suggestion: reason,
	}
}

func DimensionMismatch(expected, actual string) *Error {
	return &Error{
		Kind:       KindDimensionMismatch,
		Message:    fmt.Sprintf("Data dimension mismatch: expected %s, got %s", expected, actual),
		Suggestion: "Check your data shape and ensure it matches the plot requirements",
	}
}

func ThemeNotFound(name string, available []string) *Error {
	return &Error{
		Kind:       KindThemeNotFound,
		Message:    fmt.Sprintf("Theme '%s' not found", name),
		Suggestion: "Available themes: " + strings.Join(available, ", "),
	}
}

func MaxCellsExceeded(max int) *Error {
	return &Error{
		Kind:       KindMaxCellsExceeded,
		Message:    fmt.Sprintf("Cannot add more than %d plots", max),
		Suggestion: "Increase the grid rows/cols or render into a second figure",
	}
}

// ExportFailure wraps an I/O error raised while writing a figure.
func ExportFailure(path string, err error) *Error {
	return &Error{
		Kind:       KindExportFailure,
		Message:    fmt.Sprintf("Failed to export figure to '%s': %v", path, err),
		Suggestion: "Check that the directory exists, is writable and has free space",
		Err:        err,
	}
}

// OperationFailed wraps an unexpected error from a collaborating library.
func OperationFailed(op string, err error) *Error {
	return &Error{
		Kind:    KindOperationFailed,
		Message: fmt.Sprintf("%s failed: %v", op, err),
		Err:     err,
	}
}

func quoteList(items []string, limit int) string {
	if len(items) == 0 {
		return "(none)"
	}
	n := len(items)
	if limit > 0 && n > limit {
		n = limit
	}
	quoted := make([]string, n)
	for i := 0; i < n; i++ {
		quoted[i] = "'" + items[i] + "'"
	}
	out := strings.Join(quoted, ", ")
	if len(items) > n {
		out += fmt.Sprintf(", ... (%d total)", len(items))
	}
	return out
}
