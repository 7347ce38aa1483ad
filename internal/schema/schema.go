package schema

import "fmt"

// Kind classifies an element type.
type Kind string

// Element kinds.
const (
	// KindBranch elements contain children: other elements or content.
	KindBranch Kind = "branch"

	// KindLeaf elements stand alone with no children.
	KindLeaf Kind = "leaf"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k == KindBranch || k == KindLeaf }

// ElementSpec describes one structural element type.
type ElementSpec struct {
	// Name is the element type as it appears in open and close markers,
	// for example "paragraph".
	Name string

	// Kind says whether the element contains children.
	Kind Kind

	// DefaultAttributes are merged under an element's attributes when a
	// tree is built without them.
	DefaultAttributes map[string]any
}

// Validate checks the spec for registration.
func (s ElementSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: element name is empty", ErrInvalidSpec)
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("%w: element %q has unknown kind %q", ErrInvalidSpec, s.Name, s.Kind)
	}
	return nil
}

// AnnotationSpec describes one annotation type.
type AnnotationSpec struct {
	// Name is the annotation type, for example "textStyle/bold" or
	// "link".
	Name string

	// Attributes lists the attribute names instances of this annotation
	// carry, if any.
	Attributes []string
}

// Validate checks the spec for registration.
func (s AnnotationSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: annotation name is empty", ErrInvalidSpec)
	}
	return nil
}
