package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// readXLSX decodes the first worksheet of an Office Open XML workbook.
// Trailing empty cells of a row are not reported by the reader, so they
// count as absent rather than blank.
func readXLSX(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	name := names[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("rows of %q: %w", name, err)
	}

	sheet := &Sheet{Name: name}
	for r, values := range rows {
		if len(values) == 0 {
			continue
		}

		cells := make([]Cell, len(values))
		for c, raw := range values {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			cells[c] = convertXLSXCell(typ, raw)
		}
		sheet.Rows = append(sheet.Rows, Row{Index: r, Cells: cells})
	}
	return sheet, nil
}

// convertXLSXCell maps an excelize cell type and raw value onto a CellKind.
// Numeric cells are usually written without a type attribute and come back unset.
func convertXLSXCell(typ excelize.CellType, raw string) Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return TextCell(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if raw == "" {
			return BlankCell()
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(f)
		}
		return TextCell(raw)
	default:
		return Cell{Kind: KindUnknown}
	}
}
