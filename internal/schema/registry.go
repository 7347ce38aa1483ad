package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maintains the known element and annotation specs.
type Registry struct {
	mu          sync.RWMutex
	elements    map[string]*ElementSpec
	annotations map[string]*AnnotationSpec
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		elements:    make(map[string]*ElementSpec),
		annotations: make(map[string]*AnnotationSpec),
	}
}

// NewWithDefaults creates a registry holding the default vocabulary.
func NewWithDefaults() *Registry {
	r := New()
	r.RegisterDefaults()
	return r
}

// RegisterElement adds an element spec. Registering a name twice is an
// error.
func (r *Registry) RegisterElement(spec ElementSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.elements[spec.Name]; exists {
		return fmt.Errorf("%w: element %s", ErrAlreadyRegistered, spec.Name)
	}
	s := &spec
	r.elements[spec.Name] = s
	return nil
}

// MustRegisterElement registers an element spec and panics on error.
// Useful for built-in specs.
func (r *Registry) MustRegisterElement(spec ElementSpec) {
	if err := r.RegisterElement(spec); err != nil {
		panic(err)
	}
}

// RegisterAnnotation adds an annotation spec. Registering a name twice
// is an error.
func (r *Registry) RegisterAnnotation(spec AnnotationSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.annotations[spec.Name]; exists {
		return fmt.Errorf("%w: annotation %s", ErrAlreadyRegistered, spec.Name)
	}
	s := &spec
	r.annotations[spec.Name] = s
	return nil
}

// MustRegisterAnnotation registers an annotation spec and panics on
// error.
func (r *Registry) MustRegisterAnnotation(spec AnnotationSpec) {
	if err := r.RegisterAnnotation(spec); err != nil {
		panic(err)
	}
}

// Element returns the spec for an element name, or nil if it is not
// registered. Callers must not mutate the returned spec.
func (r *Registry) Element(name string) *ElementSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.elements[name]
}

// Annotation returns the spec for an annotation name, or nil if it is
// not registered. Callers must not mutate the returned spec.
func (r *Registry) Annotation(name string) *AnnotationSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.annotations[name]
}

// HasElement checks whether an element name is registered.
func (r *Registry) HasElement(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.elements[name]
	return exists
}

// HasAnnotation checks whether an annotation name is registered.
func (r *Registry) HasAnnotation(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.annotations[name]
	return exists
}

// ElementNames returns all registered element names, sorted.
func (r *Registry) ElementNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.elements))
	for name := range r.elements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AnnotationNames returns all registered annotation names, sorted.
func (r *Registry) AnnotationNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.annotations))
	for name := range r.annotations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
