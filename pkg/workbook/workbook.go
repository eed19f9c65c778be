// Package workbook reads spreadsheet sheets into typed cell grids.
//
// Values are read raw, without applying number formats, and classified by
// cell type. Numeric cells whose number format is a date format are
// converted to Date cells, so a date typed into a sheet reaches the
// normalizer as a time rather than an Excel serial number.
package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/alicedeps/pkg/errors"
)

// Workbook is an open spreadsheet file.
type Workbook struct {
	path     string
	file     *excelize.File
	date1904 bool
	isDate   map[int]bool
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	wb := &Workbook{path: path, file: f, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

// Path returns the file the workbook was opened from.
func (wb *Workbook) Path() string {
	return wb.path
}

// SheetNames lists the sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// Sheet reads the named sheet into a grid. Rows are padded with empty
// cells to the width of the widest row; trailing empty rows are dropped.
func (wb *Workbook) Sheet(name string) (Grid, error) {
	if idx, err := wb.file.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, errors.NewNotFoundError("sheet", name)
	}

	rows, err := wb.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.WrapParse("xlsx", wb.path, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	grid := make(Grid, 0, len(rows))
	for r, row := range rows {
		cells := make([]Cell, width)
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cell, err := wb.cell(name, r, c, raw)
			if err != nil {
				return nil, err
			}
			cells[c] = cell
		}
		grid = append(grid, cells)
	}

	for len(grid) > 0 && rowEmpty(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	return grid, nil
}

// cell classifies one raw value.
func (wb *Workbook) cell(sheet string, row, col int, raw string) (Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, errors.WrapParse("xlsx", wb.path, err)
	}
	typ, err := wb.file.GetCellType(sheet, axis)
	if err != nil {
		return Cell{}, errors.WrapParse("xlsx", wb.path, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return Cell{Kind: Bool, Bool: raw == "1" || strings.EqualFold(raw, "true")}, nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return Cell{Kind: Date, Time: t}, nil
		}
		return textCell(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return textCell(raw), nil
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return textCell(raw), nil
	}

	dated, err := wb.hasDateFormat(sheet, axis)
	if err != nil {
		return Cell{}, err
	}
	if dated {
		t, err := excelize.ExcelDateToTime(num, wb.date1904)
		if err == nil {
			return Cell{Kind: Date, Time: t}, nil
		}
	}
	return Cell{Kind: Number, Num: num, Raw: raw}, nil
}

// hasDateFormat reports whether the style applied to axis formats dates.
func (wb *Workbook) hasDateFormat(sheet, axis string) (bool, error) {
	styleID, err := wb.file.GetCellStyle(sheet, axis)
	if err != nil {
		return false, errors.WrapParse("xlsx", wb.path, err)
	}
	if dated, ok := wb.isDate[styleID]; ok {
		return dated, nil
	}

	dated := false
	if styleID != 0 {
		style, err := wb.file.GetStyle(styleID)
		if err != nil {
			return false, errors.WrapParse("xlsx", wb.path, err)
		}
		dated = isDateNumFmt(style.NumFmt)
		if !dated && style.CustomNumFmt != nil {
			dated = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	wb.isDate[styleID] = dated
	return dated, nil
}

// isDateNumFmt reports whether a built-in number format id formats dates.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code carries a year or
// day token outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	plain := strings.ToLower(b.String())
	return strings.ContainsAny(plain, "yd")
}

func textCell(raw string) Cell {
	if isNAMarker(raw) {
		return Cell{}
	}
	return Text(raw)
}

func rowEmpty(row []Cell) bool {
	for _, c := range row {
		if !c.Missing() {
			return false
		}
	}
	return true
}
