// Package spreadsheettest builds workbooks for tests.
package spreadsheettest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// XLSX writes rows into the first sheet of a new workbook and returns the
// encoded file. A nil value leaves its cell undefined.
func XLSX(t testing.TB, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, axis, v); err != nil {
				t.Fatalf("SetCellValue(%s): %v", axis, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// EmptyXLSX returns a workbook whose only sheet has no cells.
func EmptyXLSX(t testing.TB) []byte {
	return XLSX(t, nil)
}
