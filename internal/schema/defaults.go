package schema

// RegisterDefaults adds the built-in vocabulary to the registry. It
// panics if any default name is already taken, so call it on a fresh
// registry.
func (r *Registry) RegisterDefaults() {
	r.MustRegisterElement(ElementSpec{Name: "paragraph", Kind: KindBranch})
	r.MustRegisterElement(ElementSpec{
		Name:              "heading",
		Kind:              KindBranch,
		DefaultAttributes: map[string]any{"level": 1},
	})
	r.MustRegisterElement(ElementSpec{Name: "preformatted", Kind: KindBranch})
	r.MustRegisterElement(ElementSpec{Name: "blockquote", Kind: KindBranch})
	r.MustRegisterElement(ElementSpec{
		Name:              "list",
		Kind:              KindBranch,
		DefaultAttributes: map[string]any{"style": "bullet"},
	})
	r.MustRegisterElement(ElementSpec{Name: "listItem", Kind: KindBranch})

	// languageVariant holds per-language alternatives of a text fragment
	// in a variants attribute keyed by BCP 47 tags.
	r.MustRegisterElement(ElementSpec{
		Name:              "languageVariant",
		Kind:              KindLeaf,
		DefaultAttributes: map[string]any{"variants": map[string]any{}},
	})

	r.MustRegisterAnnotation(AnnotationSpec{Name: "textStyle/bold"})
	r.MustRegisterAnnotation(AnnotationSpec{Name: "textStyle/italic"})
	r.MustRegisterAnnotation(AnnotationSpec{Name: "textStyle/underline"})
	r.MustRegisterAnnotation(AnnotationSpec{Name: "link", Attributes: []string{"href"}})
	r.MustRegisterAnnotation(AnnotationSpec{Name: "language", Attributes: []string{"lang", "dir"}})
}
