// Package annotation defines inline formatting markers and the deduplicated
// sets that attach them to document content.
//
// An Annotation is identified structurally: its canonical hash is the JSON
// encoding of its type and parameters with keys in sorted order. Two
// annotations built independently from equal data therefore collapse to a
// single stored entry wherever a Set deduplicates by hash.
package annotation

import (
	"encoding/json"
	"fmt"
)

// Annotation is a named formatting rule, such as "textStyle/bold" or "link",
// with optional parameters. Equality is structural: two annotations with the
// same type and parameters are the same annotation.
type Annotation struct {
	Type       string
	Attributes map[string]any
}

// New returns an annotation of the given type. Attributes may be nil and are
// copied. A parameter named "type" would collide with the type field on the
// wire and is dropped.
func New(typ string, attributes map[string]any) Annotation {
	a := Annotation{Type: typ}
	if len(attributes) > 0 {
		a.Attributes = make(map[string]any, len(attributes))
		for k, v := range attributes {
			if k == "type" {
				continue
			}
			a.Attributes[k] = cloneValue(v)
		}
	}
	return a
}

// Hash returns the canonical identity of the annotation: the JSON encoding of
// its type and parameters with keys in sorted order. Structurally equal
// annotations always share a hash. Parameters must hold plain JSON data;
// anything else is a programming error and panics.
func (a Annotation) Hash() string {
	b, err := a.MarshalJSON()
	if err != nil {
		panic("annotation: attributes are not JSON encodable: " + err.Error())
	}
	return string(b)
}

// Attribute returns the named parameter and whether it is present.
func (a Annotation) Attribute(name string) (any, bool) {
	v, ok := a.Attributes[name]
	return v, ok
}

// Equal reports whether both annotations share a canonical hash.
func (a Annotation) Equal(other Annotation) bool {
	return a.Hash() == other.Hash()
}

// Clone returns a deep copy of the annotation.
func (a Annotation) Clone() Annotation {
	return New(a.Type, a.Attributes)
}

// MarshalJSON encodes the annotation as a single flat object holding "type"
// alongside its parameters.
func (a Annotation) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(a.Attributes)+1)
	for k, v := range a.Attributes {
		if k == "type" {
			continue
		}
		flat[k] = v
	}
	flat["type"] = a.Type
	return json.Marshal(flat)
}

// UnmarshalJSON decodes the flat wire object produced by MarshalJSON.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("annotation: %w", err)
	}
	typ, ok := flat["type"].(string)
	if !ok || typ == "" {
		return fmt.Errorf("annotation: object %s has no type", data)
	}
	delete(flat, "type")
	a.Type = typ
	a.Attributes = nil
	if len(flat) > 0 {
		a.Attributes = flat
	}
	return nil
}

// String returns the canonical hash, which doubles as a readable form.
func (a Annotation) String() string {
	return a.Hash()
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
