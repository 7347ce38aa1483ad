// Package schema describes the document vocabulary: which element types
// and annotation types exist and what attributes they carry.
//
// A Registry is built at startup, usually from NewWithDefaults, optionally
// extended from a YAML schema file, and then injected into the components
// that need it. There is no package-level registry; two sessions can run
// different vocabularies side by side.
//
// # Default vocabulary
//
// The defaults cover the structural elements paragraph, heading,
// preformatted, blockquote, list, listItem and languageVariant, and the
// annotations textStyle/bold, textStyle/italic, textStyle/underline, link
// and language. The languageVariant element and the language annotation
// carry BCP 47 language tags; NormalizeLanguage canonicalizes them.
package schema
