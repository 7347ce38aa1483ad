package model

import (
	"time"

	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 1000

// historyEntry is one undo step: the transactions applied, in order, and
// the selection on either side of them.
type historyEntry struct {
	txs    []*transaction.Transaction
	before *linear.Range
	after  *linear.Range
	at     time.Time
}

// history holds the undo and redo stacks. It is not safe for concurrent
// use; the owning surface's mutex guards every call.
type history struct {
	undo  []*historyEntry
	redo  []*historyEntry
	group *historyEntry
	limit int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &history{limit: limit}
}

// record notes an applied transaction. While a group is open the
// transaction joins the group and nothing is pushed. It reports whether
// an entry landed on the undo stack.
func (h *history) record(tx *transaction.Transaction, before, after *linear.Range) bool {
	if h.group != nil {
		if len(h.group.txs) == 0 {
			h.group.before = before
		}
		h.group.txs = append(h.group.txs, tx)
		h.group.after = after
		return false
	}
	h.push(&historyEntry{
		txs:    []*transaction.Transaction{tx},
		before: before,
		after:  after,
		at:     time.Now(),
	})
	return true
}

// push adds an entry to the undo stack, clears the redo stack and
// enforces the limit by dropping the oldest entries.
func (h *history) push(e *historyEntry) {
	h.undo = append(h.undo, e)
	h.redo = nil
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

func (h *history) popUndo() (*historyEntry, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	return e, true
}

func (h *history) popRedo() (*historyEntry, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	return e, true
}

// restoreUndo puts a popped entry back after a failed undo.
func (h *history) restoreUndo(e *historyEntry) { h.undo = append(h.undo, e) }

// restoreRedo puts a popped entry back after a failed redo.
func (h *history) restoreRedo(e *historyEntry) { h.redo = append(h.redo, e) }

// pushRedo records an undone entry for redo.
func (h *history) pushRedo(e *historyEntry) { h.redo = append(h.redo, e) }

// pushUndo records a redone entry for undo again. Unlike push it leaves
// the redo stack alone.
func (h *history) pushUndo(e *historyEntry) { h.undo = append(h.undo, e) }

// beginGroup opens a compound entry. It reports false when a group is
// already open; groups do not nest.
func (h *history) beginGroup() bool {
	if h.group != nil {
		return false
	}
	h.group = &historyEntry{}
	return true
}

// endGroup closes the open group and pushes it as one undo step. It
// reports whether an entry landed on the undo stack; an empty group is
// discarded.
func (h *history) endGroup() bool {
	g := h.group
	if g == nil {
		return false
	}
	h.group = nil
	if len(g.txs) == 0 {
		return false
	}
	g.at = time.Now()
	h.push(g)
	return true
}

// cancelGroup discards the open group. Transactions already applied stay
// applied; they just become un-undoable.
func (h *history) cancelGroup() {
	h.group = nil
}

func (h *history) grouping() bool { return h.group != nil }

// clear drops both stacks and any open group. It reports whether there
// was anything to drop.
func (h *history) clear() bool {
	had := len(h.undo) > 0 || len(h.redo) > 0 || h.group != nil
	h.undo = nil
	h.redo = nil
	h.group = nil
	return had
}
