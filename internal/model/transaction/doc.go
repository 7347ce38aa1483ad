// Package transaction describes document edits as ordered lists of atomic
// operations.
//
// A transaction walks the document it was built against from offset 0,
// consuming it: retain skips over items, remove and annotate consume the items
// they affect, insert adds new ones. The operations of a valid transaction
// consume the document's exact length, so every offset is accounted for.
//
// Transactions are immutable once constructed and every transaction can be
// inverted: insert and remove swap payloads, an annotation set becomes a
// clear, and an attribute change swaps its old and new values. Applying a
// transaction and then its inverse restores the original data.
package transaction
