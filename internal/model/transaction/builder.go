package transaction

import (
	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
)

// Builder assembles a transaction operation by operation, merging adjacent
// operations of the same kind so the resulting list is minimal. The zero
// value is ready for use.
type Builder struct {
	ops []Op
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Retain appends a retain of n items. Zero and negative lengths are dropped.
func (b *Builder) Retain(n int) *Builder {
	if n <= 0 {
		return b
	}
	if last := b.last(); last != nil && last.Kind == OpRetain {
		last.Length += n
		return b
	}
	b.ops = append(b.ops, Retain(n))
	return b
}

// Insert appends an insertion. The items are deep-copied so the transaction
// stays a stable value record.
func (b *Builder) Insert(items ...linear.Item) *Builder {
	if len(items) == 0 {
		return b
	}
	owned := linear.Data(items).Clone()
	if last := b.last(); last != nil && last.Kind == OpInsert {
		last.Items = append(last.Items, owned...)
		return b
	}
	b.ops = append(b.ops, Insert(owned...))
	return b
}

// Remove appends a removal. The items are deep-copied so the transaction
// stays a stable value record.
func (b *Builder) Remove(items ...linear.Item) *Builder {
	if len(items) == 0 {
		return b
	}
	owned := linear.Data(items).Clone()
	if last := b.last(); last != nil && last.Kind == OpRemove {
		last.Items = append(last.Items, owned...)
		return b
	}
	b.ops = append(b.ops, Remove(owned...))
	return b
}

// Annotate appends an annotation change over n items. Adjacent changes with
// the same method and annotation merge into one span.
func (b *Builder) Annotate(method AnnotateMethod, a annotation.Annotation, n int) *Builder {
	if n <= 0 {
		return b
	}
	if last := b.last(); last != nil && last.Kind == OpAnnotate &&
		last.Method == method && last.Annotation.Equal(a) {
		last.Length += n
		return b
	}
	b.ops = append(b.ops, Annotate(method, a.Clone(), n))
	return b
}

// Attribute appends an attribute change at the current position.
func (b *Builder) Attribute(key string, from, to any) *Builder {
	b.ops = append(b.ops, Attribute(key, from, to))
	return b
}

// Transaction returns the built transaction. The builder may be reused; the
// returned transaction owns its operations.
func (b *Builder) Transaction() *Transaction {
	return New(b.ops...)
}

func (b *Builder) last() *Op {
	if len(b.ops) == 0 {
		return nil
	}
	return &b.ops[len(b.ops)-1]
}
