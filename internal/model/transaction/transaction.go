package transaction

import (
	"encoding/json"
	"strings"
)

// Transaction is an immutable ordered list of operations describing one
// coherent edit. A nil *Transaction is a valid empty transaction for all
// read-only methods; callers distinguish "no transaction" by passing nil.
type Transaction struct {
	ops []Op
}

// New returns a transaction over a copy of the given operations.
func New(ops ...Op) *Transaction {
	owned := make([]Op, len(ops))
	copy(owned, ops)
	return &Transaction{ops: owned}
}

// Operations returns a copy of the operation list.
func (t *Transaction) Operations() []Op {
	if t == nil || len(t.ops) == 0 {
		return nil
	}
	out := make([]Op, len(t.ops))
	copy(out, t.ops)
	return out
}

// Len returns the number of operations.
func (t *Transaction) Len() int {
	if t == nil {
		return 0
	}
	return len(t.ops)
}

// IsNoOp reports whether the transaction changes nothing: it is empty or
// consists of retains only. A no-op transaction is still a valid transaction
// and is distinct from no transaction at all.
func (t *Transaction) IsNoOp() bool {
	if t == nil {
		return true
	}
	for _, op := range t.ops {
		if op.Mutating() {
			return false
		}
	}
	return true
}

// Lengths returns how many items the transaction consumes from the document
// it was built against and how many the resulting document holds. Consumed
// must equal the source document's length for the transaction to be valid.
func (t *Transaction) Lengths() (consumed, produced int) {
	if t == nil {
		return 0, 0
	}
	for _, op := range t.ops {
		consumed += op.Consumes()
		produced += op.Produces()
	}
	return consumed, produced
}

// Invert returns the transaction that undoes this one: operations keep their
// order while each is individually inverted, so offsets keep lining up when
// the inverse is applied to the transaction's own result.
func (t *Transaction) Invert() *Transaction {
	if t == nil {
		return nil
	}
	inv := make([]Op, len(t.ops))
	for i, op := range t.ops {
		inv[i] = op.Invert()
	}
	return &Transaction{ops: inv}
}

// String returns a compact readable operation listing.
func (t *Transaction) String() string {
	if t.Len() == 0 {
		return "tx[]"
	}
	parts := make([]string, len(t.ops))
	for i, op := range t.ops {
		parts[i] = op.String()
	}
	return "tx[" + strings.Join(parts, "; ") + "]"
}

// wireTransaction is the JSON envelope.
type wireTransaction struct {
	Operations []Op `json:"operations"`
}

// MarshalJSON encodes the transaction as {"operations": [...]}.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	w := wireTransaction{Operations: t.Operations()}
	if w.Operations == nil {
		w.Operations = []Op{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the envelope produced by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ops = w.Operations
	return nil
}
