package key

// Set is an insertion-ordered set of normalised strings.
// The zero value is ready to use. Set is not safe for concurrent use;
// the tracker guards its sets with its own lock.
type Set struct {
	index map[string]int
	items []string
}

// NewSet creates a set holding the given values, normalised.
func NewSet(values ...string) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v (normalised). Adding an existing value keeps its position.
func (s *Set) Add(v string) {
	v = Normalize(v)
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = len(s.items)
	s.items = append(s.items, v)
}

// Remove deletes v (normalised). Removing an absent value is a no-op.
func (s *Set) Remove(v string) {
	v = Normalize(v)
	i, ok := s.index[v]
	if !ok {
		return
	}
	delete(s.index, v)
	copy(s.items[i:], s.items[i+1:])
	s.items = s.items[:len(s.items)-1]
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
}

// Has reports whether v (normalised) is present.
func (s *Set) Has(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[Normalize(v)]
	return ok
}

// Len returns the number of values in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Clear removes every value.
func (s *Set) Clear() {
	s.index = nil
	s.items = nil
}

// Slice returns the values in insertion order.
func (s *Set) Slice() []string {
	if s == nil || len(s.items) == 0 {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
