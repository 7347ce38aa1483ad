package transaction

import (
	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
)

// Source describes the document state a transaction is built against. Both
// linear.Data and the document type satisfy it.
type Source interface {
	// Len returns the document's item count.
	Len() int
	// DataRange returns a deep copy of the items in the normalized range.
	DataRange(r linear.Range) linear.Data
}

// FromInsertion returns a transaction inserting the given items at offset.
// The offset must lie within the source; bounds are the caller's contract.
func FromInsertion(src Source, offset int, items ...linear.Item) *Transaction {
	return NewBuilder().
		Retain(offset).
		Insert(items...).
		Retain(src.Len() - offset).
		Transaction()
}

// FromRemoval returns a transaction removing the items in the range. The
// removed items are captured from the source so the transaction can be
// inverted. Bounds are the caller's contract.
func FromRemoval(src Source, r linear.Range) *Transaction {
	r = r.Normalized()
	return NewBuilder().
		Retain(r.From).
		Remove(src.DataRange(r)...).
		Retain(src.Len() - r.To).
		Transaction()
}

// FromReplacement returns a transaction replacing the items in the range with
// the given items. Bounds are the caller's contract.
func FromReplacement(src Source, r linear.Range, items ...linear.Item) *Transaction {
	r = r.Normalized()
	return NewBuilder().
		Retain(r.From).
		Remove(src.DataRange(r)...).
		Insert(items...).
		Retain(src.Len() - r.To).
		Transaction()
}

// FromAnnotation returns a transaction applying the method with the given
// annotation over the range. Structural markers inside the span are skipped
// at application time. Bounds are the caller's contract.
func FromAnnotation(src Source, r linear.Range, method AnnotateMethod, a annotation.Annotation) *Transaction {
	r = r.Normalized()
	return NewBuilder().
		Retain(r.From).
		Annotate(method, a, r.Len()).
		Retain(src.Len() - r.To).
		Transaction()
}

// FromAttributeChange returns a transaction setting one attribute of the
// opening marker at offset to the given value. The old value is read from the
// source so the transaction can be inverted; nil means unset. Offset must
// address an opening marker; bounds are the caller's contract.
func FromAttributeChange(src Source, offset int, key string, to any) *Transaction {
	var from any
	span := src.DataRange(linear.NewRange(offset, offset+1))
	if len(span) == 1 && span[0].Kind == linear.KindOpen {
		from = span[0].Attributes[key]
	}
	return NewBuilder().
		Retain(offset).
		Attribute(key, from, to).
		Retain(src.Len() - offset).
		Transaction()
}
