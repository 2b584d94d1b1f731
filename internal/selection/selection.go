// Package selection holds the set of community IDs chosen during profile
// setup.
//
// A Set is a value: Toggle returns a new Set and never modifies the receiver,
// so a Set handed to a submission can't change underneath it.
package selection

import "sort"

// Set is an unordered set of community IDs. The zero value is an empty set.
type Set struct {
	ids map[string]struct{}
}

// New returns a set containing ids. Duplicates collapse.
func New(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Toggle returns a copy of s with id removed if present, added otherwise.
func (s Set) Toggle(id string) Set {
	out := Set{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		out.ids[k] = struct{}{}
	}
	if _, ok := out.ids[id]; ok {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// Contains reports whether id is selected.
func (s Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected IDs.
func (s Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs in sorted order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether s and other hold the same IDs.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if _, ok := other.ids[id]; !ok {
			return false
		}
	}
	return true
}
