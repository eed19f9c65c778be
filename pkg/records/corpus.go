package records

import "iter"

// Corpus is the ordered match corpus handed to the patcher.
type Corpus struct {
	sets []Set
}

// Concat returns a corpus that yields every record of sets in order,
// the records of sets[0] first. The sets are not copied.
func Concat(sets ...Set) Corpus {
	return Corpus{sets: sets}
}

// All iterates the corpus in priority order.
func (c Corpus) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, set := range c.sets {
			for _, r := range set {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Len returns the total number of records across all sets.
func (c Corpus) Len() int {
	n := 0
	for _, set := range c.sets {
		n += len(set)
	}
	return n
}

// Match returns the first record whose module is a substring of tag.
//
// This is containment, not equality: a short module name such as "auth"
// also matches "auth-service.version", and it wins over a later, more
// specific record.
func (c Corpus) Match(tag string) (Record, bool) {
	for r := range c.All() {
		if r.Matches(tag) {
			return r, true
		}
	}
	return Record{}, false
}
