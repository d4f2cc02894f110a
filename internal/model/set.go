package model

import "encoding/json"

// Set is an insertion-ordered string set. Merge passes union sets from
// several records, so iteration order must be deterministic for output and
// for the first-seen survivor rule in similarity collapsing.
type Set struct {
	values []string
	index  map[string]struct{}
}

// NewSet creates a set seeded with the given values.
func NewSet(values ...string) *Set {
	s := &Set{index: make(map[string]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v if not already present. Empty strings are allowed; they act
// as the null placeholders the formatting pass prunes.
func (s *Set) Add(v string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.values = append(s.values, v)
}

// AddAll unions other into s, preserving s's existing order.
func (s *Set) AddAll(other *Set) {
	if other == nil {
		return
	}
	for _, v := range other.values {
		s.Add(v)
	}
}

// Remove deletes v if present.
func (s *Set) Remove(v string) {
	if s.index == nil {
		return
	}
	if _, ok := s.index[v]; !ok {
		return
	}
	delete(s.index, v)
	for i, existing := range s.values {
		if existing == v {
			s.values = append(s.values[:i], s.values[i+1:]...)
			break
		}
	}
}

// Values returns the members in insertion order. The returned slice is a
// copy.
func (s *Set) Values() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Replace swaps the set contents for the given values, keeping their order.
func (s *Set) Replace(values []string) {
	s.values = nil
	s.index = make(map[string]struct{})
	for _, v := range values {
		s.Add(v)
	}
}

// Len returns the member count.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// MarshalJSON encodes the set as a JSON array in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil || s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON decodes a JSON array, preserving element order.
func (s *Set) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	s.Replace(values)
	return nil
}
