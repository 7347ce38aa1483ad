package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Set is an ordered collection of annotations deduplicated by canonical hash.
// The zero value is an empty set ready for use. A nil *Set is a valid empty
// set for all read-only methods; mutating a nil set panics.
type Set struct {
	order  []string
	byHash map[string]Annotation
}

// NewSet returns a set holding the given annotations, deduplicated in order.
func NewSet(anns ...Annotation) *Set {
	s := &Set{}
	for _, a := range anns {
		s.Add(a)
	}
	return s
}

// Len returns the number of distinct annotations in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IsEmpty reports whether the set holds no annotations.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Add inserts the annotation unless an equal one, by canonical hash, is
// already present. It reports whether the set changed. The stored annotation
// is a copy; later mutation of the argument does not affect the set.
func (s *Set) Add(a Annotation) bool {
	h := a.Hash()
	if _, ok := s.byHash[h]; ok {
		return false
	}
	if s.byHash == nil {
		s.byHash = make(map[string]Annotation, 4)
	}
	s.byHash[h] = a.Clone()
	s.order = append(s.order, h)
	return true
}

// Remove deletes the annotation equal to a, reporting whether it was present.
func (s *Set) Remove(a Annotation) bool {
	return s.RemoveHash(a.Hash())
}

// RemoveHash deletes the annotation stored under the given canonical hash.
func (s *Set) RemoveHash(hash string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.byHash[hash]; !ok {
		return false
	}
	delete(s.byHash, hash)
	for i, h := range s.order {
		if h == hash {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds the annotation if absent and removes it if present. It reports
// whether the annotation is present afterwards.
func (s *Set) Toggle(a Annotation) bool {
	if s.Contains(a) {
		s.Remove(a)
		return false
	}
	s.Add(a)
	return true
}

// Clear removes all annotations.
func (s *Set) Clear() {
	if s == nil {
		return
	}
	s.order = s.order[:0]
	for h := range s.byHash {
		delete(s.byHash, h)
	}
}

// Contains reports whether an annotation equal to a is present.
func (s *Set) Contains(a Annotation) bool {
	return s.ContainsHash(a.Hash())
}

// ContainsHash reports whether the given canonical hash is present.
func (s *Set) ContainsHash(hash string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byHash[hash]
	return ok
}

// Get returns the annotation stored under the given hash.
func (s *Set) Get(hash string) (Annotation, bool) {
	if s == nil {
		return Annotation{}, false
	}
	a, ok := s.byHash[hash]
	return a, ok
}

// At returns the i-th annotation in insertion order.
func (s *Set) At(i int) Annotation {
	return s.byHash[s.order[i]]
}

// Hashes returns the canonical hashes in insertion order.
func (s *Set) Hashes() []string {
	if s.Len() == 0 {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Annotations returns copies of the annotations in insertion order.
func (s *Set) Annotations() []Annotation {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Annotation, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.byHash[h].Clone())
	}
	return out
}

// Clone returns a deep copy. Cloning nil returns nil.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	out := &Set{}
	for _, h := range s.order {
		out.Add(s.byHash[h])
	}
	return out
}

// Equal reports whether both sets contain the same annotations, regardless of
// insertion order. Nil and empty sets are equal.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil || other == nil {
		return true
	}
	for h := range s.byHash {
		if !other.ContainsHash(h) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as an object mapping each canonical hash to its
// annotation, with keys in sorted order.
func (s *Set) MarshalJSON() ([]byte, error) {
	m := make(map[string]Annotation, s.Len())
	if s != nil {
		for h, a := range s.byHash {
			m[h] = a
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a hash-to-annotation object, preserving the key order
// of the document. Keys are recomputed from the decoded annotations, so a
// stale or foreign hash key is repaired rather than trusted.
func (s *Set) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("annotation: set: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("annotation: set must be a JSON object, got %v", tok)
	}
	s.order = s.order[:0]
	for h := range s.byHash {
		delete(s.byHash, h)
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("annotation: set key: %w", err)
		}
		var a Annotation
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("annotation: set value: %w", err)
		}
		s.Add(a)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("annotation: set: %w", err)
	}
	return nil
}

// String returns a compact readable listing of the contained hashes.
func (s *Set) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	if s != nil {
		for i, h := range s.order {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(h)
		}
	}
	buf.WriteByte(']')
	return buf.String()
}
