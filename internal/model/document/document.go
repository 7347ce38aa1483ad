// Package document owns the mutable linear state of one editing session.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// Document is constructed once from an initial sequence and mutated in place
// only through transaction application; its data is never replaced wholesale
// during a session.
//
// The document trusts its input structurally. Apply verifies one thing before
// mutating, the length law: the transaction's operations must consume the
// document's exact current length. Anything deeper, payload equality and
// marker targeting, is checked only under StrictApply, which is meant for
// debug and tooling paths rather than the editing hot path.
type Document struct {
	data   linear.Data
	strict bool
}

// Option configures a document at construction.
type Option func(*Document)

// StrictApply makes Apply verify operation payloads against the document:
// removals must match the items they delete and attribute changes must
// address an opening marker holding the operation's old value.
func StrictApply() Option {
	return func(doc *Document) { doc.strict = true }
}

// New returns a document over the given data. The document takes ownership of
// the slice and everything it references.
func New(data linear.Data, opts ...Option) *Document {
	doc := &Document{data: data}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// NewFromString returns a document of unannotated content units, one per
// grapheme cluster, with no structural markers.
func NewFromString(s string, opts ...Option) *Document {
	return New(linear.FromString(s), opts...)
}

// Len returns the number of items in the document.
func (doc *Document) Len() int { return doc.data.Len() }

// Data returns a deep copy of the document's current state. The internal
// sequence is never exposed; mutate through Apply.
func (doc *Document) Data() linear.Data { return doc.data.Clone() }

// DataRange returns a deep copy of the items in the normalized range. Bounds
// are the caller's contract.
func (doc *Document) DataRange(r linear.Range) linear.Data { return doc.data.DataRange(r) }

// ContentText returns the concatenated content text in the normalized range.
func (doc *Document) ContentText(r linear.Range) string { return doc.data.ContentText(r) }

// Text returns the document's full content text.
func (doc *Document) Text() string { return doc.data.String() }

// CountContent returns the number of content units in the normalized range.
func (doc *Document) CountContent(r linear.Range) int { return doc.data.CountContent(r) }

// MarshalJSON encodes the current state in interchange form.
func (doc *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(doc.data)
}

var _ transaction.Source = (*Document)(nil)

// Apply executes the transaction, mutating the document in place. On error
// the document is unchanged. A nil transaction is a no-op.
func (doc *Document) Apply(tx *transaction.Transaction) error {
	if tx == nil {
		return nil
	}
	ops := tx.Operations()
	if err := lengthLaw(ops, doc.data.Len()); err != nil {
		return err
	}
	if doc.strict {
		clone := doc.data.Clone()
		if err := applyOps(&clone, ops, true); err != nil {
			return err
		}
		doc.data = clone
		return nil
	}
	return applyOps(&doc.data, ops, false)
}

// lengthLaw rejects operation lists that do not account for the document's
// exact length, before anything is mutated.
func lengthLaw(ops []transaction.Op, docLen int) error {
	consumed := 0
	for _, op := range ops {
		if op.Length < 0 {
			return fmt.Errorf("%w: negative span %d", ErrContract, op.Length)
		}
		consumed += op.Consumes()
	}
	if consumed != docLen {
		return fmt.Errorf("%w: operations consume %d of %d items", ErrContract, consumed, docLen)
	}
	return nil
}

func applyOps(data *linear.Data, ops []transaction.Op, strict bool) error {
	cursor := 0
	for _, op := range ops {
		switch op.Kind {
		case transaction.OpRetain:
			cursor += op.Length
		case transaction.OpInsert:
			data.Splice(cursor, 0, op.Items.Clone()...)
			cursor += len(op.Items)
		case transaction.OpRemove:
			if strict {
				current := data.Slice(cursor, cursor+len(op.Items))
				if !current.Equal(op.Items) {
					return fmt.Errorf("%w: removal payload does not match document at offset %d", ErrContract, cursor)
				}
			}
			data.Splice(cursor, len(op.Items))
		case transaction.OpAnnotate:
			annotateSpan(data, cursor, op)
			cursor += op.Length
		case transaction.OpAttribute:
			if strict {
				if err := checkAttributeTarget(*data, cursor, op); err != nil {
					return err
				}
			}
			changeAttribute(data, cursor, op)
		}
	}
	return nil
}

// annotateSpan rewrites the annotation sets of the content units in the span.
// Structural markers inside the span are skipped. Sets are replaced, not
// mutated, so data captured elsewhere keeps its annotations.
func annotateSpan(data *linear.Data, cursor int, op transaction.Op) {
	for i := cursor; i < cursor+op.Length; i++ {
		it := &(*data)[i]
		if !it.IsContent() {
			continue
		}
		set := it.Annotations.Clone()
		if set == nil {
			set = annotation.NewSet()
		}
		var changed bool
		switch op.Method {
		case transaction.MethodSet:
			changed = set.Add(op.Annotation)
		case transaction.MethodClear:
			changed = set.Remove(op.Annotation)
		}
		if !changed {
			continue
		}
		if set.IsEmpty() {
			it.Annotations = nil
		} else {
			it.Annotations = set
		}
	}
}

// changeAttribute rewrites one attribute of the opening marker at cursor. A
// cursor that does not address an opening marker is silently skipped; the
// trusting path never fails mid-application.
func changeAttribute(data *linear.Data, cursor int, op transaction.Op) {
	if cursor >= data.Len() {
		return
	}
	it := &(*data)[cursor]
	if it.Kind != linear.KindOpen {
		return
	}
	if op.To == nil {
		delete(it.Attributes, op.Key)
		if len(it.Attributes) == 0 {
			it.Attributes = nil
		}
		return
	}
	if it.Attributes == nil {
		it.Attributes = make(map[string]any, 1)
	}
	it.Attributes[op.Key] = op.To
}

func checkAttributeTarget(data linear.Data, cursor int, op transaction.Op) error {
	if cursor >= data.Len() || data[cursor].Kind != linear.KindOpen {
		return fmt.Errorf("%w: attribute change at offset %d does not address an opening marker", ErrContract, cursor)
	}
	current := data[cursor].Attributes[op.Key]
	if !jsonEqual(current, op.From) {
		return fmt.Errorf("%w: attribute %q at offset %d is %v, not %v", ErrContract, op.Key, cursor, current, op.From)
	}
	return nil
}

func jsonEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ab) == string(bb)
}
