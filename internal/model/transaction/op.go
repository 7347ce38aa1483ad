package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
)

// OpKind discriminates the operation variants.
type OpKind uint8

const (
	// OpRetain skips over a span of items unchanged.
	OpRetain OpKind = iota
	// OpInsert adds items at the current position.
	OpInsert
	// OpRemove deletes the items at the current position.
	OpRemove
	// OpAnnotate rewrites the annotation sets of the content units in a span.
	OpAnnotate
	// OpAttribute changes one attribute of the opening marker at the current
	// position. Consumes nothing.
	OpAttribute
)

// String returns the kind's wire name.
func (k OpKind) String() string {
	switch k {
	case OpRetain:
		return "retain"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpAnnotate:
		return "annotate"
	case OpAttribute:
		return "attribute"
	default:
		return fmt.Sprintf("OpKind(%d)", k)
	}
}

// AnnotateMethod selects how an annotate operation changes covered sets.
type AnnotateMethod string

const (
	// MethodSet adds the annotation to each covered content unit.
	MethodSet AnnotateMethod = "set"
	// MethodClear removes the annotation from each covered content unit.
	MethodClear AnnotateMethod = "clear"
)

// Inverse returns the opposite method.
func (m AnnotateMethod) Inverse() AnnotateMethod {
	if m == MethodSet {
		return MethodClear
	}
	return MethodSet
}

// Op is one atomic operation, a tagged variant over the OpKind constants.
// Kind selects which of the remaining fields are meaningful.
type Op struct {
	Kind OpKind

	// Length is the span for retain and annotate operations.
	Length int
	// Items are the payload for insert and remove operations.
	Items linear.Data

	// Method and Annotation describe an annotate operation.
	Method     AnnotateMethod
	Annotation annotation.Annotation

	// Key, From and To describe an attribute change.
	Key  string
	From any
	To   any
}

// Retain returns an operation skipping n items.
func Retain(n int) Op {
	return Op{Kind: OpRetain, Length: n}
}

// Insert returns an operation adding the given items.
func Insert(items ...linear.Item) Op {
	return Op{Kind: OpInsert, Items: items}
}

// Remove returns an operation deleting the given items.
func Remove(items ...linear.Item) Op {
	return Op{Kind: OpRemove, Items: items}
}

// Annotate returns an operation applying the method over a span of length n.
func Annotate(method AnnotateMethod, a annotation.Annotation, n int) Op {
	return Op{Kind: OpAnnotate, Method: method, Annotation: a, Length: n}
}

// Attribute returns an operation changing the named attribute of the opening
// marker at the current position from one value to another. A nil value means
// the attribute is unset on that side.
func Attribute(key string, from, to any) Op {
	return Op{Kind: OpAttribute, Key: key, From: from, To: to}
}

// Consumes returns how many items of the source document the operation
// accounts for.
func (op Op) Consumes() int {
	switch op.Kind {
	case OpRetain, OpAnnotate:
		return op.Length
	case OpRemove:
		return len(op.Items)
	default:
		return 0
	}
}

// Produces returns how many items the operation contributes to the resulting
// document.
func (op Op) Produces() int {
	switch op.Kind {
	case OpRetain, OpAnnotate:
		return op.Length
	case OpInsert:
		return len(op.Items)
	default:
		return 0
	}
}

// Mutating reports whether the operation changes the document.
func (op Op) Mutating() bool { return op.Kind != OpRetain }

// Invert returns the operation that undoes this one.
func (op Op) Invert() Op {
	switch op.Kind {
	case OpInsert:
		return Op{Kind: OpRemove, Items: op.Items}
	case OpRemove:
		return Op{Kind: OpInsert, Items: op.Items}
	case OpAnnotate:
		return Op{Kind: OpAnnotate, Method: op.Method.Inverse(), Annotation: op.Annotation, Length: op.Length}
	case OpAttribute:
		return Op{Kind: OpAttribute, Key: op.Key, From: op.To, To: op.From}
	default:
		return op
	}
}

// Equal reports whether both operations are the same edit.
func (op Op) Equal(other Op) bool {
	if op.Kind != other.Kind {
		return false
	}
	switch op.Kind {
	case OpRetain:
		return op.Length == other.Length
	case OpInsert, OpRemove:
		return op.Items.Equal(other.Items)
	case OpAnnotate:
		return op.Method == other.Method && op.Length == other.Length && op.Annotation.Equal(other.Annotation)
	case OpAttribute:
		return op.Key == other.Key && attrValueEqual(op.From, other.From) && attrValueEqual(op.To, other.To)
	default:
		return false
	}
}

// String returns a compact readable form.
func (op Op) String() string {
	switch op.Kind {
	case OpRetain:
		return fmt.Sprintf("retain %d", op.Length)
	case OpInsert:
		return fmt.Sprintf("insert %d", len(op.Items))
	case OpRemove:
		return fmt.Sprintf("remove %d", len(op.Items))
	case OpAnnotate:
		return fmt.Sprintf("annotate %s %s over %d", op.Method, op.Annotation.Hash(), op.Length)
	case OpAttribute:
		return fmt.Sprintf("attribute %s: %v -> %v", op.Key, op.From, op.To)
	default:
		return op.Kind.String()
	}
}

// wireOp is the tagged JSON form of an operation.
type wireOp struct {
	Type       string                 `json:"type"`
	Length     int                    `json:"length,omitempty"`
	Items      linear.Data            `json:"items,omitempty"`
	Method     AnnotateMethod         `json:"method,omitempty"`
	Annotation *annotation.Annotation `json:"annotation,omitempty"`
	Key        string                 `json:"key,omitempty"`
	From       any                    `json:"from,omitempty"`
	To         any                    `json:"to,omitempty"`
}

// MarshalJSON encodes the operation with a tagged "type" field.
func (op Op) MarshalJSON() ([]byte, error) {
	w := wireOp{Type: op.Kind.String()}
	switch op.Kind {
	case OpRetain:
		w.Length = op.Length
	case OpInsert, OpRemove:
		w.Items = op.Items
	case OpAnnotate:
		w.Length = op.Length
		w.Method = op.Method
		a := op.Annotation
		w.Annotation = &a
	case OpAttribute:
		w.Key = op.Key
		w.From = op.From
		w.To = op.To
	default:
		return nil, fmt.Errorf("transaction: cannot marshal %s operation", op.Kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a tagged operation object.
func (op *Op) UnmarshalJSON(data []byte) error {
	var w wireOp
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("transaction: operation: %w", err)
	}
	switch w.Type {
	case "retain":
		*op = Retain(w.Length)
	case "insert":
		*op = Insert(w.Items...)
	case "remove":
		*op = Remove(w.Items...)
	case "annotate":
		if w.Annotation == nil {
			return fmt.Errorf("transaction: annotate operation has no annotation")
		}
		if w.Method != MethodSet && w.Method != MethodClear {
			return fmt.Errorf("transaction: unknown annotate method %q", w.Method)
		}
		*op = Annotate(w.Method, *w.Annotation, w.Length)
	case "attribute":
		*op = Attribute(w.Key, w.From, w.To)
	default:
		return fmt.Errorf("transaction: unknown operation type %q", w.Type)
	}
	return nil
}

func attrValueEqual(a, b any) bool {
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
