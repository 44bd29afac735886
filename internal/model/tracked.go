package model

import (
	"sort"
)

// Tracked is an optional field that remembers whether it was explicitly
// set or cleared since it was loaded or created.
type Tracked[T any] struct {
	value    T
	valid    bool
	modified bool
}

// Loaded returns a hydrated, unmodified field holding v
func Loaded[T any](v T) Tracked[T] {
	return Tracked[T]{value: v, valid: true}
}

// LoadedPtr returns a hydrated, unmodified field; nil means absent
func LoadedPtr[T any](p *T) Tracked[T] {
	if p == nil {
		return Tracked[T]{}
	}
	return Loaded(*p)
}

// Get returns the current value and whether one is present
func (t Tracked[T]) Get() (T, bool) {
	return t.value, t.valid
}

// Value returns the current value, or the zero value when absent
func (t Tracked[T]) Value() T {
	return t.value
}

// Ptr returns a pointer to a copy of the value, nil when absent
func (t Tracked[T]) Ptr() *T {
	if !t.valid {
		return nil
	}
	v := t.value
	return &v
}

// IsSet reports whether a value is present
func (t Tracked[T]) IsSet() bool {
	return t.valid
}

// IsModified reports whether Set or Unset was called
func (t Tracked[T]) IsModified() bool {
	return t.modified
}

// Set stores v and marks the field modified
func (t *Tracked[T]) Set(v T) {
	t.value = v
	t.valid = true
	t.modified = true
}

// Unset clears the value and marks the field modified
func (t *Tracked[T]) Unset() {
	var zero T
	t.value = zero
	t.valid = false
	t.modified = true
}

// commit makes the current value the loaded one
func (t *Tracked[T]) commit() {
	t.modified = false
}

// TrackedSet is a string set that keeps its original contents so the
// additions and removals applied to it can be computed.
type TrackedSet struct {
	original map[string]struct{}
	current  map[string]struct{}
	modified bool
}

// NewTrackedSet returns an unmodified set whose original contents are values
func NewTrackedSet(values ...string) TrackedSet {
	s := TrackedSet{
		original: make(map[string]struct{}, len(values)),
		current:  make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		s.original[v] = struct{}{}
		s.current[v] = struct{}{}
	}
	return s
}

func (s *TrackedSet) init() {
	if s.current == nil {
		s.current = make(map[string]struct{})
	}
	if s.original == nil {
		s.original = make(map[string]struct{})
	}
}

// Get returns a sorted copy of the current contents
func (s TrackedSet) Get() []string {
	return sortedKeys(s.current)
}

// Original returns a sorted copy of the contents at construction
func (s TrackedSet) Original() []string {
	return sortedKeys(s.original)
}

// Len returns the number of elements
func (s TrackedSet) Len() int {
	return len(s.current)
}

// Has reports whether v is in the current set
func (s TrackedSet) Has(v string) bool {
	_, ok := s.current[v]
	return ok
}

// IsModified reports whether Set, Add or Remove was called
func (s TrackedSet) IsModified() bool {
	return s.modified
}

// Set replaces the whole set
func (s *TrackedSet) Set(values ...string) {
	s.init()
	s.current = make(map[string]struct{}, len(values))
	for _, v := range values {
		s.current[v] = struct{}{}
	}
	s.modified = true
}

// Add unions values into the set
func (s *TrackedSet) Add(values ...string) {
	s.init()
	for _, v := range values {
		s.current[v] = struct{}{}
	}
	s.modified = true
}

// Remove subtracts values from the set
func (s *TrackedSet) Remove(values ...string) {
	s.init()
	for _, v := range values {
		delete(s.current, v)
	}
	s.modified = true
}

// Edit adds and removes tags in one step. The lists must not intersect; on
// error the set is left untouched.
func (s *TrackedSet) Edit(add, remove []string) error {
	if both := Intersect(add, remove); len(both) > 0 {
		return Preconditionf("tags both added and removed: %v", both)
	}
	if len(add) > 0 {
		s.Add(add...)
	}
	if len(remove) > 0 {
		s.Remove(remove...)
	}
	return nil
}

// Difference returns the elements added and removed relative to the
// original contents. Both are empty if the set was never modified.
func (s TrackedSet) Difference() (added, removed []string) {
	if !s.modified {
		return nil, nil
	}
	for v := range s.current {
		if _, ok := s.original[v]; !ok {
			added = append(added, v)
		}
	}
	for v := range s.original {
		if _, ok := s.current[v]; !ok {
			removed = append(removed, v)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Commit makes the current contents the original ones
func (s *TrackedSet) Commit() {
	s.init()
	s.original = make(map[string]struct{}, len(s.current))
	for v := range s.current {
		s.original[v] = struct{}{}
	}
	s.modified = false
}

// Intersect returns the sorted values present in both a and b
func Intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(a))
	for _, v := range a {
		in[v] = struct{}{}
	}
	both := make(map[string]struct{})
	for _, v := range b {
		if _, ok := in[v]; ok {
			both[v] = struct{}{}
		}
	}
	return sortedKeys(both)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
