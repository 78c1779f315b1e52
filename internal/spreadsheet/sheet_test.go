package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/examsheet/internal/spreadsheet/spreadsheettest"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]any) []byte {
	return spreadsheettest.XLSX(t, rows)
}

func TestOpen_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"StudentNo", "ClassNo", "Sortable", "Score"},
		{123, 45, "8,5", "B"},
		{124, nil, "9"},
	})

	sheet, format, err := Open(data)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if format != FormatXLSX {
		t.Errorf("format = %q, want %q", format, FormatXLSX)
	}

	header, rows, ok := sheet.Header()
	if !ok {
		t.Fatal("Header() ok = false")
	}
	if header.Len() != 4 {
		t.Errorf("header.Len() = %d, want 4", header.Len())
	}
	if header.Cell(0) != TextCell("StudentNo") {
		t.Errorf("header.Cell(0) = %v, want %q", header.Cell(0), "StudentNo")
	}
	if len(rows) != 2 {
		t.Fatalf("data rows = %d, want 2", len(rows))
	}

	first := rows[0]
	if first.Cell(0) != NumberCell(123) {
		t.Errorf("row1 col0 = %v, want numeric 123", first.Cell(0))
	}
	if first.Cell(2) != TextCell("8,5") {
		t.Errorf("row1 col2 = %v, want text 8,5", first.Cell(2))
	}

	second := rows[1]
	if second.Len() != 3 {
		t.Errorf("row2 Len() = %d, want 3", second.Len())
	}
	if got := second.Cell(1).Kind; got != KindBlank {
		t.Errorf("row2 col1 kind = %v, want blank", got)
	}
	if got := second.Cell(3).Kind; got != KindUnknown {
		t.Errorf("row2 col3 kind = %v, want unknown", got)
	}
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

// results.xls holds a header, a full row, an undefined row 2 and a short
// row 3 whose second cell is a BLANK record.
func TestOpen_XLS(t *testing.T) {
	sheet, format, err := Open(readTestdata(t, "results.xls"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if format != FormatXLS {
		t.Errorf("format = %q, want %q", format, FormatXLS)
	}
	if sheet.Name != "Results" {
		t.Errorf("Name = %q, want Results", sheet.Name)
	}
	if len(sheet.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(sheet.Rows))
	}

	tests := []struct {
		index int
		cells []Cell
	}{
		{0, []Cell{TextCell("StudentNo"), TextCell("ClassNo"), TextCell("Sortable"), TextCell("Score")}},
		{1, []Cell{NumberCell(123), NumberCell(45), TextCell("8,5"), TextCell("B")}},
		{3, []Cell{NumberCell(124), BlankCell(), TextCell("9")}},
	}
	for i, tt := range tests {
		row := sheet.Rows[i]
		if row.Index != tt.index {
			t.Errorf("rows[%d].Index = %d, want %d", i, row.Index, tt.index)
		}
		if row.Len() != len(tt.cells) {
			t.Errorf("rows[%d].Len() = %d, want %d", i, row.Len(), len(tt.cells))
			continue
		}
		for c, want := range tt.cells {
			if got := row.Cell(c); got != want {
				t.Errorf("rows[%d].Cell(%d) = %v, want %v", i, c, got, want)
			}
		}
	}
}

func TestOpen_XLSWithoutCells(t *testing.T) {
	sheet, _, err := Open(readTestdata(t, "empty.xls"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, _, ok := sheet.Header(); ok {
		t.Errorf("Header() ok = true for a sheet without cells, rows = %d", len(sheet.Rows))
	}
}

func TestTrimFillers(t *testing.T) {
	num := new(record.Number)
	blank := new(record.Blank)
	filler := new(record.FakeBlank)

	tests := []struct {
		name string
		cols []structure.CellData
		want int
	}{
		{"filler only", []structure.CellData{filler}, 0},
		{"trailing fillers", []structure.CellData{num, filler, filler}, 1},
		{"inner filler kept", []structure.CellData{num, filler, num}, 3},
		{"blank record kept", []structure.CellData{num, blank}, 2},
		{"none", nil, 0},
	}
	for _, tt := range tests {
		if got := len(trimFillers(tt.cols)); got != tt.want {
			t.Errorf("%s: len(trimFillers()) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrEmptyFile},
		{"plain text", []byte("StudentNo,ClassNo\n1,2\n"), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Open(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpen_CorruptOLE(t *testing.T) {
	// OLE2 signature followed by garbage
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 504)...)

	if _, _, err := Open(data); err == nil {
		t.Error("Open() of corrupt OLE stream should fail")
	}
}

func TestDetectFormat(t *testing.T) {
	xlsx := buildXLSX(t, [][]any{{"a"}})
	if got := DetectFormat(xlsx); got != FormatXLSX {
		t.Errorf("DetectFormat(xlsx) = %q, want %q", got, FormatXLSX)
	}
	if got := DetectFormat(readTestdata(t, "results.xls")); got != FormatXLS {
		t.Errorf("DetectFormat(xls) = %q, want %q", got, FormatXLS)
	}
	if got := DetectFormat([]byte("hello")); got != FormatUnknown {
		t.Errorf("DetectFormat(text) = %q, want unknown", got)
	}
}

func TestConvertXLSCell(t *testing.T) {
	tests := []struct {
		typ  string
		want CellKind
	}{
		{"*record.LabelSSt", KindText},
		{"*record.Label", KindText},
		{"*record.Number", KindNumeric},
		{"*record.Rk", KindNumeric},
		{"*record.Blank", KindBlank},
		{"*record.FakeBlank", KindUnknown},
		{"*record.BoolErr", KindUnknown},
		{"*record.Formula", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got := convertXLSCell(fakeXLSCell{typ: tt.typ, s: "x", f: 1})
			if got.Kind != tt.want {
				t.Errorf("kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}

	if got := convertXLSCell(nil); got.Kind != KindUnknown {
		t.Errorf("nil cell kind = %v, want unknown", got.Kind)
	}
}

func TestConvertXLSXCell(t *testing.T) {
	tests := []struct {
		name string
		typ  excelize.CellType
		raw  string
		want Cell
	}{
		{"shared string", excelize.CellTypeSharedString, "B", TextCell("B")},
		{"inline string", excelize.CellTypeInlineString, "8,5", TextCell("8,5")},
		{"number", excelize.CellTypeNumber, "8.5", NumberCell(8.5)},
		{"untyped number", excelize.CellTypeUnset, "123", NumberCell(123)},
		{"untyped empty", excelize.CellTypeUnset, "", BlankCell()},
		{"bool", excelize.CellTypeBool, "1", Cell{Kind: KindUnknown}},
		{"formula", excelize.CellTypeFormula, "x", Cell{Kind: KindUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertXLSXCell(tt.typ, tt.raw); got != tt.want {
				t.Errorf("convertXLSXCell(%v, %q) = %v, want %v", tt.typ, tt.raw, got, tt.want)
			}
		})
	}
}

func TestRowCell_PastEnd(t *testing.T) {
	row := Row{Cells: []Cell{TextCell("a")}}
	if got := row.Cell(5).Kind; got != KindUnknown {
		t.Errorf("Cell(5).Kind = %v, want unknown", got)
	}
}

type fakeXLSCell struct {
	typ string
	s   string
	f   float64
}

func (c fakeXLSCell) GetString() string   { return c.s }
func (c fakeXLSCell) GetFloat64() float64 { return c.f }
func (c fakeXLSCell) GetType() string     { return c.typ }
