package pom

import "fmt"

// Change is one rewritten (or, in preview, rewritable) version property.
type Change struct {
	Tag string
	// Old is the property text before the change; an empty element
	// renders as the empty string.
	Old string
	New string
}

// String renders the change as "tag: old -> new".
func (c Change) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Tag, c.Old, c.New)
}

// MarshalText makes a Change encode as its String form in JSON and YAML.
func (c Change) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ChangeRecord lists the changes made to one descriptor file, in the order
// its properties appear.
type ChangeRecord struct {
	File    string   `json:"file" yaml:"file"`
	Changes []Change `json:"changes" yaml:"changes"`
}

// Lines returns the changes as "tag: old -> new" strings.
func (r ChangeRecord) Lines() []string {
	lines := make([]string, len(r.Changes))
	for i, c := range r.Changes {
		lines[i] = c.String()
	}
	return lines
}

// Summary returns the total number of changes across records.
func Summary(log []ChangeRecord) int {
	total := 0
	for _, r := range log {
		total += len(r.Changes)
	}
	return total
}
