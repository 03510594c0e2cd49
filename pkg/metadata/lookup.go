package metadata

import "sort"

// Lookup is an ordered name → abstraction map. Ordering enables the prefix
// range scan used for suffix wildcards (`prefix*`); iteration order is the
// lexical name order, which keeps resolution deterministic.
type Lookup struct {
	names   []string
	entries map[string]*IndexAbstraction
}

func newLookup(entries map[string]*IndexAbstraction) *Lookup {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Lookup{names: names, entries: entries}
}

// Get returns the abstraction for name, or nil.
func (l *Lookup) Get(name string) *IndexAbstraction {
	return l.entries[name]
}

// Len returns the number of entries.
func (l *Lookup) Len() int {
	return len(l.names)
}

// Each calls fn for every abstraction in name order.
func (l *Lookup) Each(fn func(*IndexAbstraction) bool) {
	for _, name := range l.names {
		if !fn(l.entries[name]) {
			return
		}
	}
}

// EachInRange calls fn for every abstraction whose name is in [from, to),
// in name order.
func (l *Lookup) EachInRange(from, to string, fn func(*IndexAbstraction) bool) {
	i := sort.SearchStrings(l.names, from)
	for ; i < len(l.names) && l.names[i] < to; i++ {
		if !fn(l.entries[l.names[i]]) {
			return
		}
	}
}
