package validate

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vellumlab/vellum/internal/model/annotation"
)

// interchangeSchema describes the linear interchange format: an array of
// plain characters, annotated character pairs and structural markers.
const interchangeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "oneOf": [
      { "$ref": "#/$defs/char" },
      { "$ref": "#/$defs/annotatedChar" },
      { "$ref": "#/$defs/marker" }
    ]
  },
  "$defs": {
    "char": { "type": "string", "minLength": 1 },
    "annotation": {
      "type": "object",
      "properties": { "type": { "type": "string", "minLength": 1 } },
      "required": ["type"]
    },
    "annotatedChar": {
      "type": "array",
      "prefixItems": [
        { "$ref": "#/$defs/char" },
        {
          "type": "object",
          "minProperties": 1,
          "additionalProperties": { "$ref": "#/$defs/annotation" }
        }
      ],
      "items": false,
      "minItems": 2
    },
    "marker": {
      "type": "object",
      "properties": {
        "type": { "type": "string", "minLength": 1 },
        "attributes": { "type": "object" }
      },
      "required": ["type"],
      "additionalProperties": false
    }
  }
}`

var interchangeCompiled = jsonschema.MustCompileString("linear-interchange.json", interchangeSchema)

// Interchange checks that raw is a well-formed linear interchange
// document and that every annotation key is the canonical hash of its
// annotation.
func Interchange(raw []byte) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInterchange, err)
	}
	if err := interchangeCompiled.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInterchange, err)
	}
	return annotationKeys(instance)
}

// annotationKeys verifies the hash keys of annotated pairs. The schema
// has already constrained the shapes, so type assertions are loose.
func annotationKeys(instance any) error {
	items, _ := instance.([]any)
	for i, it := range items {
		pair, ok := it.([]any)
		if !ok || len(pair) != 2 {
			continue
		}
		set, ok := pair[1].(map[string]any)
		if !ok {
			continue
		}
		for key, raw := range set {
			blob, err := json.Marshal(raw)
			if err != nil {
				return fmt.Errorf("%w: offset %d: %v", ErrInvalidInterchange, i, err)
			}
			var a annotation.Annotation
			if err := json.Unmarshal(blob, &a); err != nil {
				return fmt.Errorf("%w: offset %d: %v", ErrInvalidInterchange, i, err)
			}
			if h := a.Hash(); h != key {
				return fmt.Errorf("%w: offset %d: key %q is not the canonical hash %q", ErrInvalidInterchange, i, key, h)
			}
		}
	}
	return nil
}
