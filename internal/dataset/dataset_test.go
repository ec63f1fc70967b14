package dataset

import (
	"encoding/base64"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/plotease/internal/errs"
)

var csvRows = []string{
	"Group;Concentration (g/L);Temp (°F);Score;LocaleNumber;Category;Note",
	"A;0,5;70;10,0;1.000,0;alpha;first",
	"A;0,6;71;11,0;1.100,0;alpha;second",
	"A;0,55;69;9,5;0.900,0;beta;third",
	"B;0,7;75;10,5;1.050,0;alpha;fourth",
	"B;0,65;74;9,8;0.980,0;beta;fifth",
	"B;0,68;73;10,2;1.020,0;alpha;sixth",
	"A;0,52;68;8,8;0.880,0;gamma;seventh",
	"B;0,75;76;9,7;0.970,0;beta;eighth",
	"A;3,0;95;50,0;5.000,0;alpha;ninth",
	"B;0,66;72;10,1;1.010,0;gamma;tenth",
}

const xlsxFixtureBase64 = `
UEsDBBQAAAAIAMEwN1vYAxPv/wAAALYCAAATABwAW0NvbnRlbnRfVHlwZXNdLnhtbFVUCQADyjjSaMo40mh1eAsAAQQAAAAABAAAAAC1ks1OwzAQhO95CsvX
Kt60B4RQkh74OQKH8gDG3iRW/CfbLeHtcVIEEqIIpHJaWTOz32jlejsZTQ4YonK2oWtWUYJWOKls39Cn3V15SbdtUe9ePUaSvTY2dEjJXwFEMaDhkTmPNiud
C4an/Aw9eC5G3iNsquoChLMJbSrTvIO2BSH1DXZ8rxO5nbJyRAfUkZLro3fGNZR7r5XgKetwsPILqHyHsJxcPHFQPq6ygcIpyCyeZnxGH/JFgpJIHnlI99xk
I0waXlwYn50b2c97vunquk4JlE7sTY6w6ANyGQfEZDRbJjNc2dWvKiz+CMtYn7nLx/6/V9n8d5Ualm/YFm9QSwMECgAAAAAAxDA3WwAAAAAAAAAAAAAAAAMA
HAB4bC9VVAkAA9A40mjyONJodXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIAMQwN1tM2kS6xQAAAEkBAAAPABwAeGwvd29ya2Jvb2sueG1sVVQJAAPQONJo0DjS
aHV4CwABBAAAAAAEAAAAAI1Qu27DMAzc/RUC90aOhyIwZGcJAnhvP0CxaVuIRRqk+vj8qjEMZOjQ7Y7k3ZF05++4mE8UDUwNHA8lGKSeh0BTA+9v15cTnNvC
fbHcb8x3k8dJG5hTWmtrtZ8xej3wipQ7I0v0KVOZrK6CftAZMcXFVmX5aqMPBJtDLf/x4HEMPV64/4hIaTMRXHzKy+ocVoW2MMY9QvQX7sSQj9hANxELgnnU
uiHfB0bqkIF0wxHsH5KLT/5JUD0Jqk3g7J7n7P6WtvgBUEsDBAoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABwAeGwvd29ya3NoZWV0cy9VVAkAA+s40mjyONJo
dXgLAAEEAAAAAAQAAAAAUEsDBBQAAAAIANIwN1u3fFZsqwIAAIASAAAYABwAeGwvd29ya3NoZWV0cy9zaGVldDIueG1sVVQJAAPrONJo6zjSaHV4CwABBAAA
AAAEAAAAAJ3YT26bQBiH4X1OgVilkguD/wEVJkoMzibKJukBJngMqGYGDeMkvVXP0JN1nEhVQ/r7QCxx/BDsV9/gIbl6bY7Os9BdreTGDTzmOkIWal/LcuN+
f9x9jdyr9CJ5UfpHVwlhHPt+2W3cypj2m+93RSUa3nmqFdL+5aB0w4091KXftVrw/Rtqjv6csbXf8Fq66YXjJG8vZ9zw85E91urF0fb/u+/H9pXifHwduI7Z
uLU81lI8GO2mSd2liUlvtTq1iW/SxD+/4Bcf3Q1yWyULIY3mxn5e57L0777gs2zRWR5F0zqXv3/tCJwh/FAoLbDLkbtTBT+K+1PzJDTmO/jJuRGl0j8xvUX0
Xpn/XHDi22gf8837+ebgjNdEOmTYbEWkQipkRCKEAjYjWA6Zxxgpd0jyY1txogxyh1p3ZlSaRT/NYkIaZNhsTaRBKgyINAgFAZkGMi8YSIPkUBrkOlEouR/V
Ztlvs5zQBhk7NtTcILaOiTgIxdSI5vAKvXigDZJPwlBpEDNVrceVWfXLrMApb4gyyLBZSIRBKiS+4gyhgFw8c8g8tqLLIDk0Ncgd1EmbalSbdb/NekIbZOyK
Rk0NYuGSiINQPIuINvAKvTii2yA5MDWIHerDyDJhv0w4oQwytgzxdW0RCxdEGYTs2MyJNJB5bE6nQXJobJDr6teRbaJ+m2jCvQYZu8oQ39cWMSpohlBETg28
Qi8amBokS940VBrkOvFsNxzj4sT9OPGEwUHG3m6oJQ2xkPhplyEUU7e2HF6hF4d0HCQHljTERF1WI9ME7NPWlE2YHIgW1OfeQhZTvwagom/qOXaDGxxIh1Y2
CGU9dnqCz08P0I6Wmh+I7J2H2uZAFxJrYgaVvfcQ+6McO4/R29cdpENLHIRmYIVL/H+e9yT+34dJ6cUfUEsDBBQAAAAIAMcwN1sqMey0swAAAPgAAAAYABwA
eGwvd29ya3NoZWV0cy9zaGVldDEueG1sVVQJAAPWONJo1jjSaHV4CwABBAAAAAAEAAAAAE2P3WrDMAxG7/MURverkl6MUhyXwegLrHsA46iNqf+QxbLHr5OO
0cvzSfoO0qffGNQPcfU5jTDselCUXJ58uo3wfTm/HeBkOr1kvteZSFTbT3WEWaQcEaubKdq6y4VSm1wzRysN+Ya1MNlpO4oB933/jtH6BKZTSm/xpxW7UmPO
i+Lmhye3xK38MYCSEXwKPtGXMBjtq9FiSrCO5hwmYo1iNK4xur82bHWbBl88Gv+fMN0DUEsDBAoAAAAAAMYwN1sAAAAAAAAAAAAAAAAJABwAeGwvX3JlbHMv
VVQJAAPTONJo8jjSaHV4CwABBAAAAAAEAAAAAFBLAwQUAAAACADGMDdbCmPblLYAAACtAQAAGgAcAHhsL19yZWxzL3dvcmtib29rLnhtbC5yZWxzVVQJAAPT
ONJo0zjSaHV4CwABBAAAAAAEAAAAAL2QSwrCMBBA9z1FmL2dtgsRadqNCN1KPUBIpx/aJiGJv9sbBMWCgitXw/zePCYvr/PEzmTdoBWHNE6AkZK6GVTH4Vjv
Vxsoiyg/0CR8GHH9YBwLO8px6L03W0Qne5qFi7UhFTqttrPwIbUdGiFH0RFmSbJG+86AImJsgWVVw8FWTQqsvhn6Ba/bdpC00/I0k/IfruBF29H1RD5Ahe3I
c3iVHD5CGgcq4Fef7M8+2dMnx8XXi+gOUEsDBAoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABwAX3JlbHMvVVQJAAPNONJo8jjSaHV4CwABBAAAAAAEAAAAAFBL
AwQUAAAACADDMDdbDxvLDKoAAAAcAQAACwAcAF9yZWxzLy5yZWxzVVQJAAPNONJozTjSaHV4CwABBAAAAAAEAAAAAI3PsQ6CMBAG4J2naG6XgoMxxsJiTFgN
PkAtRyHQXtNWxbe3oxgHx8v9913+Y72YmT3Qh5GsgDIvgKFV1I1WC7i2580e6io7XnCWMUXCMLrA0o0NAoYY3YHzoAY0MuTk0KZNT97ImEavuZNqkhr5tih2
3H8aUGWMrVjWdAJ805XA2pfDf3jq+1HhidTdoI0/vnwlkiy9xihgmfmT/HQjmvKEAk8d+apklb0BUEsBAh4DFAAAAAgAwTA3W9gDE+//AAAAtgIAABMAGAAA
AAAAAQAAAKSBAAAAAFtDb250ZW50X1R5cGVzXS54bWxVVAUAA8o40mh1eAsAAQQAAAAABAAAAABQSwECHgMKAAAAAADEMDdbAAAAAAAAAAAAAAAAAwAYAAAA
AAAAABAA7UFMAQAAeGwvVVQFAAPQONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DFAAAAAgAxDA3W0zaRLrFAAAASQEAAA8AGAAAAAAAAQAAAKSBiQEAAHhsL3dv
cmtib29rLnhtbFVUBQAD0DjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAANIwN1sAAAAAAAAAAAAAAAAOABgAAAAAAAAAEADtQZcCAAB4bC93b3Jrc2hl
ZXRzL1VUBQAD6zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIANIwN1u3fFZsqwIAAIASAAAYABgAAAAAAAEAAACkgd8CAAB4bC93b3Jrc2hlZXRzL3No
ZWV0Mi54bWxVVAUAA+s40mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADHMDdbKjHstLMAAAD4AAAAGAAYAAAAAAABAAAApIHcBQAAeGwvd29ya3NoZWV0
cy9zaGVldDEueG1sVVQFAAPWONJodXgLAAEEAAAAAAQAAAAAUEsBAh4DCgAAAAAAxjA3WwAAAAAAAAAAAAAAAAkAGAAAAAAAAAAQAO1B4QYAAHhsL19yZWxz
L1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAxQAAAAIAMYwN1sKY9uUtgAAAK0BAAAaABgAAAAAAAEAAACkgSQHAAB4bC9fcmVscy93b3JrYm9vay54
bWwucmVsc1VUBQAD0zjSaHV4CwABBAAAAAAEAAAAAFBLAQIeAwoAAAAAAMMwN1sAAAAAAAAAAAAAAAAGABgAAAAAAAAAEADtQS4IAABfcmVscy9VVAUAA804
0mh1eAsAAQQAAAAABAAAAABQSwECHgMUAAAACADDMDdbDxvLDKoAAAAcAQAACwAYAAAAAAABAAAApIFuCAAAX3JlbHMvLnJlbHNVVAUAA8040mh1eAsAAQQA
AAAABAAAAABQSwUGAAAAAAoACgBTAwAAXQkAAAAA
`

func sampleRecords() [][]string {
	return [][]string{
		{"id", "value", "label"},
		{"1", "1", "x"},
		{"2", "2", ""},
		{"3", "3", "y"},
		{"4", "", "x"},
		{"5", "5", "z"},
	}
}

func TestNewFromRecordsClassifiesColumns(t *testing.T) {
	ds, err := New(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []string{"id", "value", "label"}, ds.Names())
	assert.Equal(t, []string{"id", "value"}, ds.NumericColumns())
	assert.Equal(t, []string{"label"}, ds.CategoricalColumns())

	vals, err := ds.Float("value")
	require.NoError(t, err)
	require.Len(t, vals, 5)
	assert.Equal(t, 2.0, vals[1])
	assert.True(t, math.IsNaN(vals[3]))

	miss, err := ds.Missing("label")
	require.NoError(t, err)
	assert.Equal(t, 1, miss)
}

func TestFloatRejectsCategoricalAndUnknownColumns(t *testing.T) {
	ds, err := New(sampleRecords())
	require.NoError(t, err)

	_, err = ds.Float("label")
	assert.True(t, errors.Is(err, errs.ErrNotNumeric))

	_, err = ds.Float("nope")
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))
	assert.Contains(t, errs.Suggestion(err), "'id'")
}

func TestNewRejectsNonTables(t *testing.T) {
	for _, v := range []any{42, "a,b", []float64{1, 2}, nil, map[string]int{"a": 1}} {
		_, err := New(v)
		assert.Truef(t, errors.Is(err, errs.ErrInvalidDataType), "input %#v: %v", v, err)
	}
	_, err := New(dataframe.DataFrame{})
	assert.True(t, errors.Is(err, errs.ErrInvalidDataType))
}

func TestNewRejectsEmptyTables(t *testing.T) {
	_, err := New([][]string{{"a", "b"}})
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))

	_, err = New([]map[string]any{})
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))

	df := dataframe.New(series.New([]float64{}, series.Float, "a"))
	_, err = New(df)
	assert.True(t, errors.Is(err, errs.ErrEmptyDataset))
}

func TestNewFromDataFrameAndMaps(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1.5, 2.5}, series.Float, "x"),
		series.New([]string{"a", "b"}, series.String, "name"),
	)
	ds, err := New(&df)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	k, err := ds.Kind("x")
	require.NoError(t, err)
	assert.Equal(t, Numeric, k)

	ds, err = New([]map[string]any{{"a": 1, "b": "u"}, {"a": 2, "b": nil}})
	require.NoError(t, err)
	miss, err := ds.Missing("b")
	require.NoError(t, err)
	assert.Equal(t, 1, miss)
}

func TestEqualsByContentAndCompareByRowCount(t *testing.T) {
	a, err := New(sampleRecords())
	require.NoError(t, err)
	b, err := New(sampleRecords())
	require.NoError(t, err)
	assert.True(t, EqualsByContent(a, b))
	assert.Equal(t, 0, CompareByRowCount(a, b))

	shorter := sampleRecords()[:3]
	c, err := New(shorter)
	require.NoError(t, err)
	assert.False(t, EqualsByContent(a, c))
	assert.Equal(t, 1, CompareByRowCount(a, c))
	assert.Equal(t, -1, CompareByRowCount(c, a))

	changed := sampleRecords()
	changed[1][2] = "w"
	d, err := New(changed)
	require.NoError(t, err)
	assert.False(t, EqualsByContent(a, d))
}

func TestLoadCSVWithLocaleAndUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(csvRows, "\n")), 0o644))

	opt := DefaultLoadOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	opt.SplitUnits = true
	opt.MaxRows = 9

	ds, err := Load(path, opt)
	require.NoError(t, err)
	assert.Equal(t, "metrics.csv", ds.Source)
	assert.Equal(t, 9, ds.Len())
	assert.Equal(t, []string{"Group", "Concentration", "Temp", "Score", "LocaleNumber", "Category", "Note"}, ds.Names())
	assert.Equal(t, "g/L", ds.Unit("Concentration"))
	assert.Equal(t, "°F", ds.Unit("Temp"))
	assert.Equal(t, []string{"Concentration", "Temp", "Score", "LocaleNumber"}, ds.NumericColumns())

	locale, err := ds.Float("LocaleNumber")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 1100, 900, 1050, 980, 1020, 880, 970, 5000}, locale)
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	path := writeXLSXFixture(t)
	opt := DefaultLoadOptions()
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	opt.SplitUnits = true

	opt.SheetName = "Data"
	byName, err := Load(path, opt)
	require.NoError(t, err)
	assert.Equal(t, 10, byName.Len())

	opt.SheetName = ""
	opt.SheetIndex = 2
	byIndex, err := Load(path, opt)
	require.NoError(t, err)
	assert.True(t, EqualsByContent(byName, byIndex))

	score, err := byIndex.Float("Score")
	require.NoError(t, err)
	assert.Equal(t, 50.0, score[8])

	opt.SheetName = "Missing"
	_, err = Load(path, opt)
	require.True(t, errors.Is(err, errs.ErrInvalidParameter))
	assert.Contains(t, errs.Suggestion(err), "Data")
}

func TestLoadUnsupportedAndMissingFiles(t *testing.T) {
	_, err := Load("table.parquet", DefaultLoadOptions())
	require.True(t, errors.Is(err, errs.ErrOperationFailed))
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultLoadOptions())
	require.True(t, errors.Is(err, errs.ErrOperationFailed))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadJSONRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	body := `[{"a": 1, "b": "x"}, {"a": 2, "b": "y"}, {"a": 3, "b": "x"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	ds, err := Load(path, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"a"}, ds.NumericColumns())
}

func TestWorksheetPathAndColumnIndex(t *testing.T) {
	for in, want := range map[string]string{
		"/xl/worksheets/sheet1.xml": "xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet1.xml":  "xl/worksheets/sheet1.xml",
		"/worksheets/sheet1.xml":    "xl/worksheets/sheet1.xml",
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
	} {
		assert.Equal(t, want, worksheetPath(in), in)
	}
	assert.Equal(t, 0, columnIndex("A1"))
	assert.Equal(t, 27, columnIndex("ab12"))
	assert.Equal(t, -1, columnIndex("12"))
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in        string
		dec, thou rune
		want      float64
	}{
		{"1.000,5", ',', '.', 1000.5},
		{"1,000.5", '.', ',', 1000.5},
		{"12%", 0, 0, 12},
		{"3e2", 0, 0, 300},
		{"0,25", 0, 0, 0.25},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, c.dec, c.thou)
		require.Truef(t, ok, "parse %q", c.in)
		assert.InDelta(t, c.want, got, 1e-9, c.in)
	}
	_, ok := parseNumeric("alpha", ',', '.')
	assert.False(t, ok)
}

func writeXLSXFixture(t *testing.T) string {
	t.Helper()
	raw := strings.ReplaceAll(strings.TrimSpace(xlsxFixtureBase64), "\n", "")
	data, err := base64.StdEncoding.DecodeString(raw)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "analysis_dataset.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
