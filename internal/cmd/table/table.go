// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"

	"github.com/agentstation/alicedeps/pkg/pom"
	"github.com/agentstation/alicedeps/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// RecordsToTableData converts record sets to a table, one row per record,
// in corpus order. Source labels each set.
func RecordsToTableData(sets map[string]records.Set, order ...string) Data {
	var rows [][]string
	n := 0
	for _, source := range order {
		for _, r := range sets[source] {
			n++
			rows = append(rows, []string{strconv.Itoa(n), source, r.Module, r.Version})
		}
	}
	return Data{
		Headers:         []string{"#", "Source", "Module", "Version"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft, AlignLeft},
	}
}

// ChangesToTableData converts a change log to a table, one row per
// changed property.
func ChangesToTableData(log []pom.ChangeRecord) Data {
	var rows [][]string
	for _, rec := range log {
		for _, c := range rec.Changes {
			rows = append(rows, []string{rec.File, c.Tag, c.Old, c.New})
		}
	}
	return Data{
		Headers: []string{"File", "Property", "Old", "New"},
		Rows:    rows,
	}
}
