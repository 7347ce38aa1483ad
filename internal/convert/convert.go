package convert

import (
	"encoding/json"
	"fmt"

	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/schema"
)

// Converter translates between linear data and element trees. The
// registry is optional; when present it supplies default attributes and
// leaf constraints for known element types.
type Converter struct {
	reg *schema.Registry
}

// NewConverter returns a converter using reg, which may be nil.
func NewConverter(reg *schema.Registry) *Converter {
	return &Converter{reg: reg}
}

// ToTree folds a linear sequence into a forest of elements. Runs of
// characters with equal annotation sets merge into single text nodes.
// Markers must balance.
func (c *Converter) ToTree(data linear.Data) ([]*Element, error) {
	var (
		roots []*Element
		stack []*Element
		text  *Element
		set   *annotation.Set
	)
	appendNode := func(el *Element) {
		if len(stack) == 0 {
			roots = append(roots, el)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, el)
	}

	for i, item := range data {
		switch item.Kind {
		case linear.KindOpen:
			text, set = nil, nil
			el := NewElement(item.Type, cloneAttrs(item.Attributes))
			appendNode(el)
			stack = append(stack, el)
		case linear.KindClose:
			text, set = nil, nil
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: close %s at offset %d without open", ErrUnbalanced, item.Type, i)
			}
			top := stack[len(stack)-1]
			if top.Type != item.Type {
				return nil, fmt.Errorf("%w: close %s at offset %d inside %s", ErrUnbalanced, item.Type, i, top.Type)
			}
			stack = stack[:len(stack)-1]
		case linear.KindChar:
			if text != nil && set.Equal(item.Annotations) {
				text.Text += item.Text
				continue
			}
			text = NewText(item.Text, item.Annotations.Annotations()...)
			set = item.Annotations
			appendNode(text)
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: %s left open", ErrUnbalanced, stack[len(stack)-1].Type)
	}
	return roots, nil
}

// FromTree flattens a forest of elements into a linear sequence.
func (c *Converter) FromTree(elements []*Element) (linear.Data, error) {
	var data linear.Data
	if err := c.appendTree(&data, elements); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Converter) appendTree(data *linear.Data, elements []*Element) error {
	for _, el := range elements {
		if el == nil {
			return fmt.Errorf("%w: nil element", ErrMalformedTree)
		}
		if el.IsText() {
			if len(el.Children) > 0 {
				return fmt.Errorf("%w: text node with children", ErrMalformedTree)
			}
			if el.Text == "" {
				continue
			}
			set := annotation.NewSet(el.Annotations...)
			for _, item := range linear.FromString(el.Text) {
				if set.IsEmpty() {
					*data = append(*data, item)
					continue
				}
				*data = append(*data, linear.NewAnnotatedChar(item.Text, set.Clone()))
			}
			continue
		}

		if el.Text != "" {
			return fmt.Errorf("%w: element %s carries text", ErrMalformedTree, el.Type)
		}
		if len(el.Annotations) > 0 {
			return fmt.Errorf("%w: element %s carries annotations", ErrMalformedTree, el.Type)
		}
		spec := c.elementSpec(el.Type)
		if spec != nil && spec.Kind == schema.KindLeaf && len(el.Children) > 0 {
			return fmt.Errorf("%w: leaf element %s has children", ErrMalformedTree, el.Type)
		}

		*data = append(*data, linear.NewOpen(el.Type, c.elementAttrs(spec, el)))
		if err := c.appendTree(data, el.Children); err != nil {
			return err
		}
		*data = append(*data, linear.NewClose(el.Type))
	}
	return nil
}

func (c *Converter) elementSpec(name string) *schema.ElementSpec {
	if c.reg == nil {
		return nil
	}
	return c.reg.Element(name)
}

// elementAttrs merges registry defaults under the element's explicit
// attributes.
func (c *Converter) elementAttrs(spec *schema.ElementSpec, el *Element) map[string]any {
	if spec == nil || len(spec.DefaultAttributes) == 0 {
		return cloneAttrs(el.Attributes)
	}
	attrs := cloneAttrs(spec.DefaultAttributes)
	for k, v := range el.Attributes {
		attrs[k] = cloneAttrValue(v)
	}
	return attrs
}

// ToJSON renders a linear sequence as a JSON element tree.
func (c *Converter) ToJSON(data linear.Data) ([]byte, error) {
	tree, err := c.ToTree(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// FromJSON parses a JSON element tree into a linear sequence.
func (c *Converter) FromJSON(raw []byte) (linear.Data, error) {
	var tree []*Element
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse tree: %w", err)
	}
	return c.FromTree(tree)
}
