package model

import (
	"testing"

	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

func insertTx(text string) *transaction.Transaction {
	return transaction.New(transaction.Insert(linear.NewChar(text)))
}

func TestHistoryRecordAndPop(t *testing.T) {
	h := newHistory(0)

	if !h.record(insertTx("a"), nil, nil) {
		t.Fatal("record outside a group should push")
	}
	if len(h.undo) != 1 {
		t.Fatalf("undo depth = %d, want 1", len(h.undo))
	}

	e, ok := h.popUndo()
	if !ok || len(e.txs) != 1 {
		t.Fatal("popUndo should return the recorded entry")
	}
	if _, ok := h.popUndo(); ok {
		t.Error("popUndo on empty stack should report false")
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := newHistory(0)

	h.record(insertTx("a"), nil, nil)
	e, _ := h.popUndo()
	h.pushRedo(e)
	if len(h.redo) != 1 {
		t.Fatalf("redo depth = %d, want 1", len(h.redo))
	}

	h.record(insertTx("b"), nil, nil)
	if len(h.redo) != 0 {
		t.Error("recording should clear the redo stack")
	}
}

func TestHistoryPushUndoKeepsRedo(t *testing.T) {
	h := newHistory(0)

	h.record(insertTx("a"), nil, nil)
	h.record(insertTx("b"), nil, nil)
	for i := 0; i < 2; i++ {
		e, _ := h.popUndo()
		h.pushRedo(e)
	}

	// Redoing one entry moves it back without losing the other.
	e, _ := h.popRedo()
	h.pushUndo(e)
	if len(h.undo) != 1 || len(h.redo) != 1 {
		t.Errorf("depths = %d/%d, want 1/1", len(h.undo), len(h.redo))
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	h := newHistory(2)

	first := insertTx("a")
	h.record(first, nil, nil)
	h.record(insertTx("b"), nil, nil)
	h.record(insertTx("c"), nil, nil)

	if len(h.undo) != 2 {
		t.Fatalf("undo depth = %d, want 2", len(h.undo))
	}
	for _, e := range h.undo {
		if e.txs[0] == first {
			t.Error("oldest entry should have been dropped")
		}
	}
}

func TestHistoryGroupLifecycle(t *testing.T) {
	h := newHistory(0)

	if !h.beginGroup() {
		t.Fatal("beginGroup should open a group")
	}
	if h.beginGroup() {
		t.Error("groups should not nest")
	}
	if h.record(insertTx("a"), nil, nil) {
		t.Error("record inside a group should not push")
	}
	if h.record(insertTx("b"), nil, nil) {
		t.Error("record inside a group should not push")
	}
	if !h.endGroup() {
		t.Fatal("endGroup should push the compound entry")
	}
	if len(h.undo) != 1 || len(h.undo[0].txs) != 2 {
		t.Fatalf("compound entry should hold both transactions")
	}
	if h.endGroup() {
		t.Error("endGroup without a group should report false")
	}
}

func TestHistoryGroupSelectionCapture(t *testing.T) {
	h := newHistory(0)
	r1 := linear.NewRange(0, 1)
	r2 := linear.NewRange(2, 3)
	r3 := linear.NewRange(4, 5)

	h.beginGroup()
	h.record(insertTx("a"), &r1, &r2)
	h.record(insertTx("b"), &r2, &r3)
	h.endGroup()

	e := h.undo[0]
	if e.before == nil || *e.before != r1 {
		t.Errorf("group before = %v, want %v", e.before, r1)
	}
	if e.after == nil || *e.after != r3 {
		t.Errorf("group after = %v, want %v", e.after, r3)
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	h := newHistory(0)

	h.beginGroup()
	h.record(insertTx("a"), nil, nil)
	h.cancelGroup()

	if h.grouping() {
		t.Error("cancel should close the group")
	}
	if len(h.undo) != 0 {
		t.Error("cancelled group should not push")
	}
}

func TestHistoryEmptyGroupDiscarded(t *testing.T) {
	h := newHistory(0)

	h.beginGroup()
	if h.endGroup() {
		t.Error("empty group should be discarded")
	}
	if len(h.undo) != 0 {
		t.Errorf("undo depth = %d, want 0", len(h.undo))
	}
}

func TestHistoryClear(t *testing.T) {
	h := newHistory(0)

	if h.clear() {
		t.Error("clearing empty history should report false")
	}
	h.record(insertTx("a"), nil, nil)
	if !h.clear() {
		t.Error("clear should report dropped entries")
	}
	if len(h.undo) != 0 || len(h.redo) != 0 || h.grouping() {
		t.Error("clear should empty everything")
	}
}
