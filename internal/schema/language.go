package schema

import (
	"fmt"

	"golang.org/x/text/language"
)

// NormalizeLanguage canonicalizes a BCP 47 language tag, for example
// "EN-us" to "en-US" and "zh-hant" to "zh-Hant". Any parse error rejects
// the tag.
func NormalizeLanguage(tag string) (string, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("language tag %q: %w", tag, err)
	}
	return t.String(), nil
}

// ValidLanguage reports whether tag parses as a BCP 47 language tag.
func ValidLanguage(tag string) bool {
	_, err := language.Parse(tag)
	return err == nil
}

// NormalizeVariants canonicalizes the language-tag keys of a variants
// attribute. Values are kept as-is. Two keys canonicalizing to the same
// tag or a key that does not parse are errors.
func NormalizeVariants(variants map[string]any) (map[string]any, error) {
	if variants == nil {
		return nil, nil
	}
	out := make(map[string]any, len(variants))
	for tag, value := range variants {
		canon, err := NormalizeLanguage(tag)
		if err != nil {
			return nil, err
		}
		if _, dup := out[canon]; dup {
			return nil, fmt.Errorf("language tag %q: duplicate variant", canon)
		}
		out[canon] = value
	}
	return out, nil
}
