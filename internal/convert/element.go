package convert

import (
	"github.com/vellumlab/vellum/internal/model/annotation"
)

// Element is one node of the tree representation. A structural node has
// a Type and optionally Children; a text node has Text and optionally
// Annotations. The two roles never mix.
type Element struct {
	Type       string         `json:"type,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []*Element     `json:"children,omitempty"`

	Text        string                  `json:"text,omitempty"`
	Annotations []annotation.Annotation `json:"annotations,omitempty"`
}

// IsText reports whether the node is a text node.
func (e *Element) IsText() bool { return e.Type == "" }

// NewElement returns a structural node.
func NewElement(typ string, attributes map[string]any, children ...*Element) *Element {
	if len(attributes) == 0 {
		attributes = nil
	}
	return &Element{Type: typ, Attributes: attributes, Children: children}
}

// NewText returns a text node carrying the given annotations.
func NewText(text string, annotations ...annotation.Annotation) *Element {
	return &Element{Text: text, Annotations: annotations}
}

// cloneAttrs deep-copies an attribute map, descending into nested maps
// and slices.
func cloneAttrs(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = cloneAttrValue(v)
	}
	return out
}

func cloneAttrValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneAttrValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneAttrValue(item)
		}
		return out
	default:
		return v
	}
}
