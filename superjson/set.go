package superjson

import "reflect"

// Set is an insertion-ordered collection of unique values. Go has no native
// set type; Set gives serialization a concrete collection to tag so set
// semantics survive a round trip. Membership uses deep equality, so members
// need not be comparable with ==.
//
// Set is not safe for concurrent mutation; share only after construction.
type Set struct {
	members []any
}

// NewSet builds a set from the given members in order, dropping duplicates.
func NewSet(members ...any) *Set {
	s := &Set{}
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts a member, reporting whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.Has(v) {
		return false
	}
	s.members = append(s.members, v)
	return true
}

// Has reports whether the set contains a deeply-equal member.
func (s *Set) Has(v any) bool {
	for _, m := range s.members {
		if reflect.DeepEqual(m, v) {
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

// Values returns the members in insertion order. The slice is a copy.
func (s *Set) Values() []any {
	out := make([]any, len(s.members))
	copy(out, s.members)
	return out
}
