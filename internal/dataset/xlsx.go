package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/plotease/internal/errs"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(p string, opt LoadOptions) (*Dataset, error) {
	b, err := readFile(p)
	if err != nil {
		return nil, err
	}
	records, err := ReadXLSX(b, filepath.Base(p), opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.EmptyDataset()
	}
	return FromRecords(records, opt)
}

// Workbook parts. Tags carry no namespace so both the main and the
// relationship namespaces match.
type (
	xlsxWorkbook struct {
		Sheets []xlsxSheet `xml:"sheets>sheet"`
	}
	xlsxSheet struct {
		Name string `xml:"name,attr"`
		ID   int    `xml:"sheetId,attr"`
		Rel  string `xml:"id,attr"`
	}
	xlsxRelationships struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	xlsxShared struct {
		Items []xlsxText `xml:"si"`
	}
	// xlsxText is plain <t> text or a sequence of rich-text runs.
	xlsxText struct {
		T    string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	}
	xlsxWorksheet struct {
		Rows []struct {
			Cells []xlsxCell `xml:"c"`
		} `xml:"sheetData>row"`
	}
	xlsxCell struct {
		Ref    string    `xml:"r,attr"`
		Type   string    `xml:"t,attr"`
		Value  string    `xml:"v"`
		Inline *xlsxText `xml:"is"`
	}
)

func (t xlsxText) String() string {
	if len(t.Runs) == 0 {
		return t.T
	}
	var b strings.Builder
	b.WriteString(t.T)
	for _, r := range t.Runs {
		b.WriteString(r.T)
	}
	return b.String()
}

// ReadXLSX extracts the rows of one worksheet as string records. An empty
// sheetName selects by sheetIndex (1-based, defaulting to 1).
func ReadXLSX(data []byte, name, sheetName string, sheetIndex int) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	var (
		wb     xlsxWorkbook
		rels   xlsxRelationships
		shared xlsxShared
	)
	if err := decodePart(zr, "xl/workbook.xml", &wb); err != nil {
		return nil, err
	}
	if err := decodePart(zr, "xl/_rels/workbook.xml.rels", &rels); err != nil {
		return nil, err
	}
	if err := decodePart(zr, "xl/sharedStrings.xml", &shared); err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		targets[r.ID] = worksheetPath(r.Target)
	}

	var target string
	if sheetName != "" {
		names := make([]string, 0, len(wb.Sheets))
		for _, s := range wb.Sheets {
			names = append(names, s.Name)
			if target == "" && strings.EqualFold(s.Name, sheetName) {
				target = targets[s.Rel]
			}
		}
		if target == "" {
			return nil, errs.InvalidParameter("sheet", sheetName,
				fmt.Sprintf("Available sheets in '%s': %s", name, strings.Join(names, ", ")))
		}
	} else {
		if sheetIndex <= 0 {
			sheetIndex = 1
		}
		for _, s := range wb.Sheets {
			if s.ID == sheetIndex {
				target = targets[s.Rel]
				break
			}
		}
		if target == "" {
			target = fmt.Sprintf("xl/worksheets/sheet%d.xml", sheetIndex)
		}
	}

	var ws xlsxWorksheet
	found, err := decodeOptional(zr, target, &ws)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("worksheet %s missing from %s", target, name)
	}
	out := make([][]string, 0, len(ws.Rows))
	for _, row := range ws.Rows {
		var rec []string
		for i, c := range row.Cells {
			col := columnIndex(c.Ref)
			if col < 0 {
				col = i
			}
			for len(rec) <= col {
				rec = append(rec, "")
			}
			rec[col] = c.text(shared.Items)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c xlsxCell) text(shared []xlsxText) string {
	switch c.Type {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i].String()
	case "inlineStr":
		if c.Inline != nil {
			return c.Inline.String()
		}
	}
	return c.Value
}

// decodePart unmarshals an optional workbook part; absent parts leave v zero.
func decodePart(zr *zip.Reader, name string, v any) error {
	_, err := decodeOptional(zr, name, v)
	return err
}

func decodeOptional(zr *zip.Reader, name string, v any) (bool, error) {
	f, err := zr.Open(name)
	if err != nil {
		return false, nil
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return true, fmt.Errorf("read %s: %w", name, err)
	}
	if err := xml.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

// worksheetPath turns a relationship target into a zip entry name under xl/.
func worksheetPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return path.Join("xl", target)
}

// columnIndex maps a cell reference such as "AB12" to its 0-based column.
func columnIndex(ref string) int {
	n := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1
}
