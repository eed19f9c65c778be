package normalize

import (
	"github.com/agentstation/alicedeps/pkg/errors"
	"github.com/agentstation/alicedeps/pkg/records"
	"github.com/agentstation/alicedeps/pkg/workbook"
)

// Layout B geometry.
const (
	exchangeTitleRows  = 3
	exchangeModuleCol  = 1
	exchangeVersionCol = 2
)

// Exchanges applies Layout B to a "Livraison echanges" grid. The sheet has
// no header row; its first three rows hold the title and legend.
func Exchanges(grid workbook.Grid) (records.Set, error) {
	if grid.Width() <= exchangeVersionCol {
		return nil, errors.NewValidationError("columns", grid.Width(),
			"expected at least 3 columns in the exchanges sheet")
	}

	set := records.Set{}
	for i := exchangeTitleRows; i < len(grid); i++ {
		module := grid.Column(i, exchangeModuleCol)
		version := grid.Column(i, exchangeVersionCol)
		if module.Missing() || version.Missing() {
			continue
		}
		if module.Blank() || version.Blank() {
			continue
		}
		set = append(set, records.Record{
			Module:  module.Value(),
			Version: version.Value(),
		})
	}
	return set, nil
}
