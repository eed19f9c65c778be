// Package records defines the canonical version records produced by the
// spreadsheet normalizer and consumed by the descriptor patcher.
//
// A Set keeps the row order of the sheet it came from. A Corpus is the
// ordered, read-only concatenation of several sets; it is never merged or
// deduplicated because the first matching record wins.
package records

import "strings"

// Record is one (module, version) pair.
type Record struct {
	Module  string `json:"module" yaml:"module"`
	Version string `json:"version" yaml:"version"`
}

// Matches reports whether the record's module is contained in tag.
func (r Record) Matches(tag string) bool {
	return strings.Contains(tag, r.Module)
}

// Set is an ordered sequence of records from one sheet layout.
type Set []Record

// Len returns the number of records in the set.
func (s Set) Len() int {
	return len(s)
}
