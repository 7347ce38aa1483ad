// Package convert translates between the flat linear document
// representation and a tree of elements, the shape DOM-oriented
// consumers exchange.
//
// ToTree folds balanced open and close markers into nested elements and
// merges runs of characters with equal annotation sets into single text
// nodes. FromTree is the inverse; a registry, when provided, fills in
// default attributes for known element types. Unknown element types pass
// through untouched in both directions.
package convert
