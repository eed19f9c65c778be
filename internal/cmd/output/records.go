package output

import (
	"io"

	"github.com/agentstation/alicedeps/internal/cmd/globals"
	"github.com/agentstation/alicedeps/internal/cmd/table"
	"github.com/agentstation/alicedeps/pkg/normalize"
	"github.com/agentstation/alicedeps/pkg/pom"
	"github.com/agentstation/alicedeps/pkg/records"
)

// Source labels used in record tables.
const (
	SourceDeliveries = "deliveries"
	SourceExchanges  = "exchanges"
)

// FormatRecords writes both record sets of a normalization result.
func FormatRecords(w io.Writer, result *normalize.Result, flags *globals.Flags) error {
	format := DetectFormat(flags.Format)
	if format == FormatTable {
		return NewFormatter(format).Format(w, table.RecordsToTableData(map[string]records.Set{
			SourceDeliveries: result.Deliveries,
			SourceExchanges:  result.Exchanges,
		}, SourceDeliveries, SourceExchanges))
	}
	return NewFormatter(format).Format(w, result)
}

// FormatChanges writes a change log.
func FormatChanges(w io.Writer, log []pom.ChangeRecord, flags *globals.Flags) error {
	format := DetectFormat(flags.Format)
	if format == FormatTable {
		return NewFormatter(format).Format(w, table.ChangesToTableData(log))
	}
	if log == nil {
		log = []pom.ChangeRecord{}
	}
	return NewFormatter(format).Format(w, log)
}

// FormatAny formats any data type for output. This is useful for
// commands with custom data structures.
func FormatAny(w io.Writer, data any, flags *globals.Flags) error {
	return NewFormatter(DetectFormat(flags.Format)).Format(w, data)
}
