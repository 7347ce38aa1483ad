// Package linear implements the flat, offset-addressable representation of a
// document.
//
// # Shape
//
// A document is a sequence of items. Each item is either a content unit (one
// user-perceived character, optionally carrying an annotation set) or a
// structural marker opening or closing an element. A paragraph holding "ab"
// occupies four offsets:
//
//	0 {type: "paragraph"}
//	1 "a"
//	2 "b"
//	3 {type: "/paragraph"}
//
// Well-formed data pairs every opening marker with a matching closing marker
// later in the sequence. The package does not enforce that invariant; the
// sequence layer trusts its input and validation is layered separately as an
// opt-in check.
//
// # Content units
//
// Content is segmented into grapheme clusters, so a combining sequence or an
// emoji occupies exactly one offset. FromString performs the segmentation for
// plain text.
//
// # Interchange
//
// Data marshals to the interchange form used at the converter boundary: a
// plain string for an unannotated content unit, a [text, annotations] pair for
// an annotated one, and {type} objects for markers, with a closing marker's
// type prefixed by "/".
package linear
