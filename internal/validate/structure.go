package validate

import (
	"fmt"

	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/schema"
)

// Language-bearing built-ins whose tags get checked when a registry is
// supplied.
const (
	languageAnnotation     = "language"
	languageVariantElement = "languageVariant"
)

type options struct {
	reg *schema.Registry
}

// Option configures Structure.
type Option func(*options)

// WithRegistry makes Structure check element and annotation types
// against the registry, including the language tags of the built-in
// language vocabulary.
func WithRegistry(reg *schema.Registry) Option {
	return func(o *options) { o.reg = reg }
}

// Structure checks linear data for soundness: well-formed items,
// balanced markers and annotation keys matching their annotations.
func Structure(data linear.Data, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var stack []string
	for i, item := range data {
		if err := itemShape(item); err != nil {
			return fmt.Errorf("%w at offset %d", err, i)
		}
		switch item.Kind {
		case linear.KindOpen:
			if err := o.checkElement(item); err != nil {
				return fmt.Errorf("%w at offset %d", err, i)
			}
			stack = append(stack, item.Type)
		case linear.KindClose:
			if len(stack) == 0 {
				return fmt.Errorf("%w: close %s at offset %d without open", ErrInvalidData, item.Type, i)
			}
			top := stack[len(stack)-1]
			if top != item.Type {
				return fmt.Errorf("%w: close %s at offset %d inside %s", ErrInvalidData, item.Type, i, top)
			}
			stack = stack[:len(stack)-1]
		case linear.KindChar:
			if err := o.checkAnnotations(item); err != nil {
				return fmt.Errorf("%w at offset %d", err, i)
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%w: %s left open", ErrInvalidData, stack[len(stack)-1])
	}
	return nil
}

// itemShape checks one item regardless of context. Shared with
// TransactionFor for insert and remove payloads.
func itemShape(item linear.Item) error {
	switch item.Kind {
	case linear.KindChar:
		if item.Text == "" {
			return fmt.Errorf("%w: character without text", ErrInvalidData)
		}
		if item.Type != "" || item.Attributes != nil {
			return fmt.Errorf("%w: character carries marker fields", ErrInvalidData)
		}
	case linear.KindOpen:
		if item.Type == "" {
			return fmt.Errorf("%w: open marker without type", ErrInvalidData)
		}
		if item.Text != "" || !item.Annotations.IsEmpty() {
			return fmt.Errorf("%w: open marker carries content fields", ErrInvalidData)
		}
	case linear.KindClose:
		if item.Type == "" {
			return fmt.Errorf("%w: close marker without type", ErrInvalidData)
		}
		if item.Text != "" || !item.Annotations.IsEmpty() || item.Attributes != nil {
			return fmt.Errorf("%w: close marker carries extra fields", ErrInvalidData)
		}
	default:
		return fmt.Errorf("%w: unknown item kind %d", ErrInvalidData, item.Kind)
	}
	return nil
}

func (o *options) checkElement(item linear.Item) error {
	if o.reg == nil {
		return nil
	}
	if !o.reg.HasElement(item.Type) {
		return fmt.Errorf("%w: unknown element type %q", ErrInvalidData, item.Type)
	}
	if item.Type != languageVariantElement {
		return nil
	}
	variants, ok := item.Attributes["variants"].(map[string]any)
	if !ok {
		return nil
	}
	if _, err := schema.NormalizeVariants(variants); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

func (o *options) checkAnnotations(item linear.Item) error {
	for _, h := range item.Annotations.Hashes() {
		a, ok := item.Annotations.Get(h)
		if !ok || a.Hash() != h {
			return fmt.Errorf("%w: annotation key %q is not its canonical hash", ErrInvalidData, h)
		}
		if o.reg == nil {
			continue
		}
		if !o.reg.HasAnnotation(a.Type) {
			return fmt.Errorf("%w: unknown annotation type %q", ErrInvalidData, a.Type)
		}
		if a.Type == languageAnnotation {
			v, _ := a.Attribute("lang")
			if lang, ok := v.(string); ok && !schema.ValidLanguage(lang) {
				return fmt.Errorf("%w: annotation language tag %q", ErrInvalidData, lang)
			}
		}
	}
	return nil
}
