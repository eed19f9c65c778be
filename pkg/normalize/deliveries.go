package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/records"
	"github.com/agentstation/alicedeps/pkg/workbook"
)

// Layout A columns, zero-based positions in the raw grid.
const (
	deliveryModuleCol    = 2
	deliveryComponentCol = 3
	deliveryVersionCol   = 4
)

// deliveryHeader is the label row that sometimes appears inside the data.
var deliveryHeader = [3]string{"Module", "Composant", "Tag de livraison"}

// frontendComponent has no backend descriptor and is never delivered.
const frontendComponent = "frontend"

type deliveryRow [3]workbook.Cell

// Deliveries applies Layout A to a "Livraison Modules" grid.
//
// The first grid row is the column header row and the module, component and
// tag columns must be unlabeled there. Data rows are then filtered in a
// fixed order; see the inline steps. The result keeps sheet order.
func Deliveries(grid workbook.Grid) (records.Set, error) {
	if len(grid) == 0 || grid.Width() <= deliveryVersionCol {
		return nil, errors.NewValidationError("columns", grid.Width(),
			"expected at least 5 columns in the deliveries sheet")
	}
	for _, col := range []int{deliveryModuleCol, deliveryComponentCol, deliveryVersionCol} {
		if h := grid.Column(0, col); !h.Missing() {
			return nil, errors.NewValidationError(columnName(col), h.String(),
				"expected an unlabeled column")
		}
	}

	var rows []deliveryRow
	for i := 1; i < len(grid); i++ {
		if rowMissing(grid[i]) {
			continue
		}
		row := deliveryRow{
			grid.Column(i, deliveryModuleCol),
			grid.Column(i, deliveryComponentCol),
			grid.Column(i, deliveryVersionCol),
		}
		if row.allMissing() || row.anyBlank() {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 && rows[0].isHeader() {
		rows = rows[1:]
	}

	lower := cases.Lower(language.Und)
	set := records.Set{}
	for _, row := range rows {
		if row.anyMissing() || row.anyBlank() {
			continue
		}
		component := strings.TrimSpace(row[1].String())
		if lower.String(component) == frontendComponent {
			continue
		}
		set = append(set, records.Record{
			Module:  strings.TrimSpace(row[0].String()) + "-" + component,
			Version: row[2].Value(),
		})
	}
	return set, nil
}

func (r deliveryRow) allMissing() bool {
	for _, c := range r {
		if !c.Missing() {
			return false
		}
	}
	return true
}

func (r deliveryRow) anyMissing() bool {
	for _, c := range r {
		if c.Missing() {
			return true
		}
	}
	return false
}

func (r deliveryRow) anyBlank() bool {
	for _, c := range r {
		if c.Blank() {
			return true
		}
	}
	return false
}

func (r deliveryRow) isHeader() bool {
	for i, c := range r {
		if c.Kind != workbook.String || c.Text != deliveryHeader[i] {
			return false
		}
	}
	return true
}

func rowMissing(row []workbook.Cell) bool {
	for _, c := range row {
		if !c.Missing() {
			return false
		}
	}
	return true
}

// columnName returns the spreadsheet letter of a zero-based column.
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return "column " + name
}
