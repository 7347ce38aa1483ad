// Package model provides the Surface, the controller for one editing
// session. A Surface owns a document, tracks the current selection and
// publishes events describing every change it makes.
//
// # Change contract
//
// All mutation flows through Change. One call performs at most one
// transaction application and at most one selection update, then publishes
// events for whatever it did:
//
//   - surface.transact, once, if a transaction was applied
//   - surface.select, once, if the selection was replaced
//   - surface.change, once, if either of the above happened
//
// Within a call the order is always transact, then select, then change.
// A call with neither a transaction nor a selection does nothing and
// publishes nothing. If the transaction is rejected by the document the
// call returns the error, leaves the selection alone and publishes
// nothing.
//
// # History
//
// Applied transactions are recorded on an undo stack together with the
// selection before and after the change. Undo applies the recorded
// inverses through the same event path with the transact payload marked
// reversed; Redo reapplies. BeginGroup and EndGroup combine several
// changes into one undo step. Any new recorded change clears the redo
// stack.
//
// # Concurrency
//
// A mutex serializes Change, Annotate, Undo and Redo. Events are
// published after the mutex is released, still synchronously inside the
// mutating call, so a subscriber may call back into the surface. The
// surface does not guard against the interleaving such reentrant calls
// produce; one logical owner is assumed to drive all mutation.
package model
