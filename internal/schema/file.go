package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// specFile mirrors the on-disk YAML schema description.
type specFile struct {
	Elements []struct {
		Name       string         `yaml:"name"`
		Kind       string         `yaml:"kind"`
		Attributes map[string]any `yaml:"attributes"`
	} `yaml:"elements"`
	Annotations []struct {
		Name       string   `yaml:"name"`
		Attributes []string `yaml:"attributes"`
	} `yaml:"annotations"`
}

// LoadFile reads a YAML schema description and registers its element and
// annotation specs into r. Elements without a kind default to branch.
func LoadFile(r *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}
	if err := Load(r, data); err != nil {
		return fmt.Errorf("schema file %s: %w", path, err)
	}
	return nil
}

// Load registers the element and annotation specs of a YAML schema
// description into r.
func Load(r *Registry, data []byte) error {
	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	for _, e := range f.Elements {
		kind := Kind(e.Kind)
		if e.Kind == "" {
			kind = KindBranch
		}
		spec := ElementSpec{Name: e.Name, Kind: kind, DefaultAttributes: e.Attributes}
		if err := r.RegisterElement(spec); err != nil {
			return err
		}
	}
	for _, a := range f.Annotations {
		spec := AnnotationSpec{Name: a.Name, Attributes: a.Attributes}
		if err := r.RegisterAnnotation(spec); err != nil {
			return err
		}
	}
	return nil
}
