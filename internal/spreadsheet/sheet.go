// Package spreadsheet decodes uploaded workbooks into an in-memory sheet of
// typed cells.
//
// Only the first worksheet of a workbook is read. Rows keep their physical
// width: a row holds exactly the cells the file defines up to its last
// defined column, so a short row stays short instead of being padded to the
// header width.
package spreadsheet

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrEmptyFile is returned when no bytes were uploaded.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFormat is returned when the bytes are not a known workbook format.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")

	// ErrNoSheets is returned when a workbook contains no worksheet.
	ErrNoSheets = errors.New("workbook has no sheets")
)

// CellKind is the content kind a workbook declares for a cell.
type CellKind int

const (
	KindUnknown CellKind = iota
	KindText
	KindNumeric
	KindBlank
)

// String returns the lowercase kind name used in logs.
func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Cell is a single raw worksheet cell.
// Text is set for KindText, Number for KindNumeric.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: KindNumeric, Number: f} }

// BlankCell returns a present cell without content.
func BlankCell() Cell { return Cell{Kind: KindBlank} }

// String renders the cell for diagnostics.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return strconv.Quote(c.Text)
	case KindNumeric:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	default:
		return c.Kind.String()
	}
}

// Row is one physical worksheet row.
type Row struct {
	Index int // zero-based row number in the worksheet
	Cells []Cell
}

// Len returns the row's physical cell count.
func (r Row) Len() int { return len(r.Cells) }

// Cell returns the cell at position i, or an unknown cell past the row's end.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Cell{Kind: KindUnknown}
	}
	return r.Cells[i]
}

// Sheet is a decoded worksheet. Rows are physical rows in worksheet order;
// rows the file does not define are absent.
type Sheet struct {
	Name string
	Rows []Row
}

// Header returns the first physical row and the rows that follow it.
// ok is false when the sheet has no rows.
func (s *Sheet) Header() (header Row, data []Row, ok bool) {
	if s == nil || len(s.Rows) == 0 {
		return Row{}, nil, false
	}
	return s.Rows[0], s.Rows[1:], true
}

// Format identifies a workbook container format.
type Format string

const (
	FormatUnknown Format = ""
	FormatXLS     Format = "xls"
	FormatXLSX    Format = "xlsx"
)

// Open decodes the first worksheet of a workbook held in data.
func Open(data []byte) (*Sheet, Format, error) {
	if len(data) == 0 {
		return nil, FormatUnknown, ErrEmptyFile
	}

	format := DetectFormat(data)

	var (
		sheet *Sheet
		err   error
	)
	switch format {
	case FormatXLS:
		sheet, err = readXLS(data)
	case FormatXLSX:
		sheet, err = readXLSX(data)
	default:
		return nil, FormatUnknown, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, format, fmt.Errorf("read %s workbook: %w", format, err)
	}
	return sheet, format, nil
}
