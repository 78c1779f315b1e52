package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
)

// xlsCell is the subset of the reader's cell record API used here.
type xlsCell interface {
	GetString() string
	GetFloat64() float64
	GetType() string
}

// readXLS decodes the first worksheet of a legacy binary workbook.
func readXLS(data []byte) (sheet *Sheet, err error) {
	// The BIFF reader panics on some truncated or corrupt streams.
	defer func() {
		if r := recover(); r != nil {
			sheet = nil
			err = fmt.Errorf("corrupt xls stream: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if wb.GetNumberSheets() == 0 {
		return nil, ErrNoSheets
	}

	ws, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("sheet 0: %w", err)
	}

	sheet = &Sheet{Name: ws.GetName()}
	for i := 0; i < ws.GetNumberRows(); i++ {
		row, err := ws.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		// The reader fills an index without cell records with a single
		// FakeBlank, so a row made only of fillers is physically absent.
		cols := trimFillers(row.GetCols())
		if len(cols) == 0 {
			continue
		}

		cells := make([]Cell, len(cols))
		for c, col := range cols {
			cells[c] = convertXLSCell(col)
		}
		sheet.Rows = append(sheet.Rows, Row{Index: i, Cells: cells})
	}
	return sheet, nil
}

// trimFillers drops the FakeBlank padding after the last cell record.
func trimFillers(cols []structure.CellData) []structure.CellData {
	n := len(cols)
	for n > 0 && isFiller(cols[n-1]) {
		n--
	}
	return cols[:n]
}

func isFiller(c structure.CellData) bool {
	_, ok := c.(*record.FakeBlank)
	return ok || c == nil
}

// convertXLSCell maps a BIFF cell record onto a CellKind.
// Record types are reported as Go type names such as "*record.LabelSSt".
func convertXLSCell(c xlsCell) Cell {
	if c == nil {
		return Cell{Kind: KindUnknown}
	}

	typ := c.GetType()
	switch {
	case strings.Contains(typ, "Label"):
		return TextCell(c.GetString())
	case strings.Contains(typ, "Number"), strings.Contains(typ, "Rk"):
		return NumberCell(c.GetFloat64())
	case strings.Contains(typ, "FakeBlank"):
		// filler for a column the row does not define
		return Cell{Kind: KindUnknown}
	case strings.Contains(typ, "Blank"):
		return BlankCell()
	default:
		return Cell{Kind: KindUnknown}
	}
}
