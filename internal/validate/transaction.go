package validate

import (
	"fmt"

	"github.com/vellumlab/vellum/internal/model/transaction"
)

// TransactionFor checks tx statically against a document of the given
// length: operations must be well formed and together consume exactly
// length items. A nil transaction is a valid no-op.
func TransactionFor(tx *transaction.Transaction, length int) error {
	if tx == nil {
		return nil
	}
	consumed := 0
	for i, op := range tx.Operations() {
		if err := opShape(op); err != nil {
			return fmt.Errorf("%w at op %d", err, i)
		}
		consumed += op.Consumes()
	}
	if consumed != length {
		return fmt.Errorf("%w: consumes %d of %d items", ErrInvalidTransaction, consumed, length)
	}
	return nil
}

func opShape(op transaction.Op) error {
	switch op.Kind {
	case transaction.OpRetain:
		if op.Length <= 0 {
			return fmt.Errorf("%w: retain of %d", ErrInvalidTransaction, op.Length)
		}
	case transaction.OpInsert:
		if len(op.Items) == 0 {
			return fmt.Errorf("%w: empty insert", ErrInvalidTransaction)
		}
		return payloadShape(op)
	case transaction.OpRemove:
		if len(op.Items) == 0 {
			return fmt.Errorf("%w: empty remove", ErrInvalidTransaction)
		}
		return payloadShape(op)
	case transaction.OpAnnotate:
		if op.Length <= 0 {
			return fmt.Errorf("%w: annotate span of %d", ErrInvalidTransaction, op.Length)
		}
		if op.Method != transaction.MethodSet && op.Method != transaction.MethodClear {
			return fmt.Errorf("%w: annotate method %q", ErrInvalidTransaction, op.Method)
		}
		if op.Annotation.Type == "" {
			return fmt.Errorf("%w: annotate without annotation type", ErrInvalidTransaction)
		}
	case transaction.OpAttribute:
		if op.Key == "" {
			return fmt.Errorf("%w: attribute change without key", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown operation kind %d", ErrInvalidTransaction, op.Kind)
	}
	return nil
}

func payloadShape(op transaction.Op) error {
	for _, item := range op.Items {
		if err := itemShape(item); err != nil {
			return fmt.Errorf("%w: %v in %s payload", ErrInvalidTransaction, err, op.Kind)
		}
	}
	return nil
}
