package workbook

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// TestSheet describes one sheet of a workbook built by WriteTestWorkbook.
// Rows are written from A1; nil values leave the cell empty.
type TestSheet struct {
	Name string
	Rows [][]any
}

// WriteTestWorkbook writes an .xlsx file named name into a fresh temp
// directory and returns its path.
func WriteTestWorkbook(t testing.TB, name string, sheets ...TestSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("create sheet %q: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sheet.Name, axis, v); err != nil {
					t.Fatalf("set %s!%s: %v", sheet.Name, axis, err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
