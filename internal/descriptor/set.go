package descriptor

// Set is an ordered collection of descriptors with identity lookup.
// Insertion order is preserved; a second Add of the same identity is
// ignored (first occurrence wins).
type Set struct {
	ordered []*TypeDescriptor
	index   map[Identity]*TypeDescriptor
}

func NewSet(descriptors ...*TypeDescriptor) *Set {
	s := &Set{index: make(map[Identity]*TypeDescriptor)}
	for _, d := range descriptors {
		s.Add(d)
	}
	return s
}

// Add inserts d unless a descriptor with the same identity is already
// present. It reports whether the descriptor was inserted.
func (s *Set) Add(d *TypeDescriptor) bool {
	if _, ok := s.index[d.Identity]; ok {
		return false
	}
	s.index[d.Identity] = d
	s.ordered = append(s.ordered, d)
	return true
}

// Lookup resolves an identity to its descriptor.
func (s *Set) Lookup(id Identity) (*TypeDescriptor, bool) {
	d, ok := s.index[id]
	return d, ok
}

// All returns the descriptors in insertion order. The returned slice
// is shared; callers must not mutate it.
func (s *Set) All() []*TypeDescriptor {
	return s.ordered
}

// Len returns the number of descriptors held.
func (s *Set) Len() int {
	return len(s.ordered)
}
