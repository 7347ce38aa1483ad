package validate

import (
	"errors"
	"testing"

	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/schema"
)

func bold() annotation.Annotation {
	return annotation.New("textStyle/bold", nil)
}

func TestStructureValid(t *testing.T) {
	data := linear.Data{
		linear.NewOpen("paragraph", nil),
		linear.NewChar("a"),
		linear.NewAnnotatedChar("b", annotation.NewSet(bold())),
		linear.NewClose("paragraph"),
		linear.NewOpen("list", map[string]any{"style": "bullet"}),
		linear.NewOpen("listItem", nil),
		linear.NewClose("listItem"),
		linear.NewClose("list"),
	}
	if err := Structure(data); err != nil {
		t.Errorf("structure: %v", err)
	}
	if err := Structure(data, WithRegistry(schema.NewWithDefaults())); err != nil {
		t.Errorf("structure with registry: %v", err)
	}
	if err := Structure(nil); err != nil {
		t.Errorf("empty data: %v", err)
	}
}

func TestStructureShapes(t *testing.T) {
	tests := []struct {
		name string
		item linear.Item
	}{
		{"empty char", linear.Item{Kind: linear.KindChar}},
		{"char with type", linear.Item{Kind: linear.KindChar, Text: "a", Type: "paragraph"}},
		{"open without type", linear.Item{Kind: linear.KindOpen}},
		{"annotated open", linear.Item{
			Kind: linear.KindOpen, Type: "paragraph",
			Annotations: annotation.NewSet(bold()),
		}},
		{"close with attributes", linear.Item{
			Kind: linear.KindClose, Type: "paragraph",
			Attributes: map[string]any{"x": 1},
		}},
		{"unknown kind", linear.Item{Kind: linear.ItemKind(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Structure(linear.Data{tt.item}); !errors.Is(err, ErrInvalidData) {
				t.Errorf("err = %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestStructureBalance(t *testing.T) {
	tests := []struct {
		name string
		data linear.Data
	}{
		{"close without open", linear.Data{linear.NewClose("paragraph")}},
		{"mismatched close", linear.Data{
			linear.NewOpen("paragraph", nil),
			linear.NewClose("list"),
		}},
		{"left open", linear.Data{linear.NewOpen("paragraph", nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Structure(tt.data); !errors.Is(err, ErrInvalidData) {
				t.Errorf("err = %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestStructureRegistry(t *testing.T) {
	reg := schema.NewWithDefaults()

	if err := Structure(linear.Data{
		linear.NewOpen("mystery", nil),
		linear.NewClose("mystery"),
	}, WithRegistry(reg)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("unknown element err = %v, want ErrInvalidData", err)
	}

	unknown := annotation.New("sparkle", nil)
	if err := Structure(linear.Data{
		linear.NewAnnotatedChar("a", annotation.NewSet(unknown)),
	}, WithRegistry(reg)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("unknown annotation err = %v, want ErrInvalidData", err)
	}

	// Without a registry both pass.
	if err := Structure(linear.Data{
		linear.NewOpen("mystery", nil),
		linear.NewClose("mystery"),
	}); err != nil {
		t.Errorf("registry-free structure: %v", err)
	}
}

func TestStructureLanguageTags(t *testing.T) {
	reg := schema.NewWithDefaults()

	good := annotation.New("language", map[string]any{"lang": "en-US", "dir": "ltr"})
	if err := Structure(linear.Data{
		linear.NewAnnotatedChar("a", annotation.NewSet(good)),
	}, WithRegistry(reg)); err != nil {
		t.Errorf("valid language annotation: %v", err)
	}

	bad := annotation.New("language", map[string]any{"lang": "not a tag!"})
	if err := Structure(linear.Data{
		linear.NewAnnotatedChar("a", annotation.NewSet(bad)),
	}, WithRegistry(reg)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("invalid language tag err = %v, want ErrInvalidData", err)
	}
}

func TestStructureLanguageVariants(t *testing.T) {
	reg := schema.NewWithDefaults()

	good := linear.Data{
		linear.NewOpen("languageVariant", map[string]any{
			"variants": map[string]any{"en-GB": "colour", "en-US": "color"},
		}),
		linear.NewClose("languageVariant"),
	}
	if err := Structure(good, WithRegistry(reg)); err != nil {
		t.Errorf("valid variants: %v", err)
	}

	bad := linear.Data{
		linear.NewOpen("languageVariant", map[string]any{
			"variants": map[string]any{"not a tag!": "x"},
		}),
		linear.NewClose("languageVariant"),
	}
	if err := Structure(bad, WithRegistry(reg)); !errors.Is(err, ErrInvalidData) {
		t.Errorf("invalid variants err = %v, want ErrInvalidData", err)
	}
}
