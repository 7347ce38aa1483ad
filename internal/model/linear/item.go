package linear

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vellumlab/vellum/internal/model/annotation"
)

// ItemKind discriminates the variants of a linear item.
type ItemKind uint8

const (
	// KindChar is a content unit: one user-perceived character.
	KindChar ItemKind = iota
	// KindOpen is a structural marker beginning an element.
	KindOpen
	// KindClose is a structural marker ending an element.
	KindClose
)

// String returns the kind name.
func (k ItemKind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	default:
		return fmt.Sprintf("ItemKind(%d)", k)
	}
}

// Item is one slot in the linear sequence: a content unit or a structural
// marker. Kind selects which of the remaining fields are meaningful.
type Item struct {
	Kind ItemKind

	// Text is the content unit's grapheme cluster. KindChar only.
	Text string
	// Annotations is the content unit's annotation set, nil when unannotated.
	// KindChar only.
	Annotations *annotation.Set

	// Type is the element type name. KindOpen and KindClose.
	Type string
	// Attributes holds the element's attributes. KindOpen only.
	Attributes map[string]any
}

// NewChar returns an unannotated content unit. The text must be a single
// grapheme cluster; use FromString to segment longer text.
func NewChar(text string) Item {
	return Item{Kind: KindChar, Text: text}
}

// NewAnnotatedChar returns a content unit carrying the given annotation set.
// The set is referenced, not copied; an empty or nil set is normalized to nil.
func NewAnnotatedChar(text string, set *annotation.Set) Item {
	if set.IsEmpty() {
		set = nil
	}
	return Item{Kind: KindChar, Text: text, Annotations: set}
}

// NewOpen returns an opening structural marker. Attributes may be nil and are
// referenced, not copied.
func NewOpen(typ string, attributes map[string]any) Item {
	if len(attributes) == 0 {
		attributes = nil
	}
	return Item{Kind: KindOpen, Type: typ, Attributes: attributes}
}

// NewClose returns the closing structural marker for the given element type.
func NewClose(typ string) Item {
	return Item{Kind: KindClose, Type: typ}
}

// IsContent reports whether the item is a content unit.
func (it Item) IsContent() bool { return it.Kind == KindChar }

// IsStructural reports whether the item is an opening or closing marker.
func (it Item) IsStructural() bool { return it.Kind == KindOpen || it.Kind == KindClose }

// Annotated reports whether the item carries a non-empty annotation set.
func (it Item) Annotated() bool { return it.Kind == KindChar && !it.Annotations.IsEmpty() }

// Clone returns a deep copy of the item, including its annotation set and
// attribute map.
func (it Item) Clone() Item {
	out := it
	out.Annotations = it.Annotations.Clone()
	if it.Attributes != nil {
		out.Attributes = cloneAttrs(it.Attributes)
	}
	return out
}

// Equal reports whether both items have the same kind and payload. Annotation
// sets compare structurally and attribute maps compare by canonical JSON.
func (it Item) Equal(other Item) bool {
	if it.Kind != other.Kind {
		return false
	}
	switch it.Kind {
	case KindChar:
		return it.Text == other.Text && it.Annotations.Equal(other.Annotations)
	case KindOpen:
		return it.Type == other.Type && equalAttrs(it.Attributes, other.Attributes)
	case KindClose:
		return it.Type == other.Type
	default:
		return false
	}
}

// String returns a compact readable form, for logs and test failures.
func (it Item) String() string {
	switch it.Kind {
	case KindChar:
		if it.Annotated() {
			return fmt.Sprintf("%q%s", it.Text, it.Annotations)
		}
		return fmt.Sprintf("%q", it.Text)
	case KindOpen:
		return "<" + it.Type + ">"
	case KindClose:
		return "</" + it.Type + ">"
	default:
		return it.Kind.String()
	}
}

// marker is the wire form of a structural item.
type marker struct {
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// MarshalJSON encodes the item in interchange form: a bare string for an
// unannotated content unit, a [text, annotations] pair for an annotated one,
// and a {type} object for markers with "/" prefixing a closing type.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case KindChar:
		if !it.Annotated() {
			return json.Marshal(it.Text)
		}
		return json.Marshal([2]any{it.Text, it.Annotations})
	case KindOpen:
		return json.Marshal(marker{Type: it.Type, Attributes: it.Attributes})
	case KindClose:
		return json.Marshal(marker{Type: "/" + it.Type})
	default:
		return nil, fmt.Errorf("linear: cannot marshal %s item", it.Kind)
	}
}

// UnmarshalJSON decodes any of the interchange item forms.
func (it *Item) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("linear: empty item")
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("linear: content unit: %w", err)
		}
		*it = NewChar(text)
		return nil
	case '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return fmt.Errorf("linear: annotated unit: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("linear: annotated unit needs [text, annotations], got %d elements", len(pair))
		}
		var text string
		if err := json.Unmarshal(pair[0], &text); err != nil {
			return fmt.Errorf("linear: annotated unit text: %w", err)
		}
		set := annotation.NewSet()
		if err := json.Unmarshal(pair[1], set); err != nil {
			return fmt.Errorf("linear: annotated unit: %w", err)
		}
		*it = NewAnnotatedChar(text, set)
		return nil
	case '{':
		var m marker
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("linear: marker: %w", err)
		}
		if m.Type == "" {
			return fmt.Errorf("linear: marker has no type: %s", trimmed)
		}
		if rest, ok := strings.CutPrefix(m.Type, "/"); ok {
			*it = NewClose(rest)
			return nil
		}
		*it = NewOpen(m.Type, m.Attributes)
		return nil
	default:
		return fmt.Errorf("linear: unrecognized item form: %s", trimmed)
	}
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = cloneAttrValue(v)
	}
	return out
}

func cloneAttrValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneAttrs(val)
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneAttrValue(inner)
		}
		return out
	default:
		return v
	}
}

func equalAttrs(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
