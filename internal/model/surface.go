package model

import (
	"context"
	"sync"

	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/document"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// Surface is the controller for one editing session. It owns a document,
// the current selection and the undo history, and publishes events for
// every change. See the package documentation for the change contract.
type Surface struct {
	mu        sync.Mutex
	doc       *document.Document
	selection *linear.Range
	hist      *history
	pub       event.Publisher
	source    string
}

// NewSurface returns a surface editing doc. A nil doc gets an empty
// document.
func NewSurface(doc *document.Document, opts ...Option) *Surface {
	if doc == nil {
		doc = document.New(nil)
	}
	s := &Surface{
		doc:    doc,
		hist:   newHistory(0),
		pub:    event.NopPublisher{},
		source: "surface",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns the document this surface edits. The same instance is
// returned for the lifetime of the surface.
func (s *Surface) Document() *document.Document { return s.doc }

// Selection returns the current selection, or nil before anything has
// been selected. The returned range is the stored instance, stable until
// the next selection change; callers must treat it as read-only.
func (s *Surface) Selection() *linear.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Change applies tx to the document and replaces the selection, then
// publishes events for whatever it did. A nil tx skips the transaction
// step; omitting sel skips the selection step; with neither, the call
// does nothing and publishes nothing. A range beyond the first is
// ignored. If the document rejects the transaction the error is returned,
// the selection is left alone and nothing is published.
func (s *Surface) Change(tx *transaction.Transaction, sel ...linear.Range) error {
	var r *linear.Range
	if len(sel) > 0 {
		r = &sel[0]
	}
	s.mu.Lock()
	pending, err := s.changeLocked(tx, r, false)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.emit(pending)
}

// Annotate builds an annotation transaction covering the current
// selection and routes it through the change path. The method is
// transaction.MethodSet or transaction.MethodClear. It requires a
// non-collapsed selection.
func (s *Surface) Annotate(method transaction.AnnotateMethod, a annotation.Annotation) error {
	s.mu.Lock()
	if s.selection == nil {
		s.mu.Unlock()
		return ErrNoSelection
	}
	sel := *s.selection
	if sel.Collapsed() {
		s.mu.Unlock()
		return ErrCollapsedSelection
	}
	tx := transaction.FromAnnotation(s.doc, sel, method, a)
	pending, err := s.changeLocked(tx, nil, false)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.emit(pending)
}

// changeLocked performs one change step and returns the envelopes to
// publish once the lock is released. reversed marks transactions replayed
// from the history stacks, which are not recorded again.
func (s *Surface) changeLocked(tx *transaction.Transaction, sel *linear.Range, reversed bool) ([]event.Envelope, error) {
	if tx == nil && sel == nil {
		return nil, nil
	}
	if tx != nil {
		if err := s.doc.Apply(tx); err != nil {
			return nil, err
		}
	}
	prev := s.selection
	if sel != nil {
		r := *sel
		s.selection = &r
	}

	var pending []event.Envelope
	if tx != nil {
		pending = append(pending, s.envelope(events.Transact{Transaction: tx, Reversed: reversed}))
	}
	if sel != nil {
		var prevSel linear.Range
		if prev != nil {
			prevSel = *prev
		}
		pending = append(pending, s.envelope(events.Select{Selection: *s.selection, Previous: prevSel}))
	}
	pending = append(pending, s.envelope(events.Change{Transacted: tx != nil, Selected: sel != nil}))

	if tx != nil && !reversed && s.hist.record(tx, prev, s.selection) {
		pending = append(pending, s.historyEnvelope(events.HistoryRecord))
	}
	return pending, nil
}

// Undo pops the most recent undo entry, applies the inverses of its
// transactions in reverse order and restores the selection recorded
// before the entry, publishing transact, select and change events as one
// change step with the transact payloads marked reversed.
func (s *Surface) Undo() error {
	s.mu.Lock()
	entry, ok := s.hist.popUndo()
	if !ok {
		s.mu.Unlock()
		return ErrNothingToUndo
	}
	var pending []event.Envelope
	for i := len(entry.txs) - 1; i >= 0; i-- {
		inv := entry.txs[i].Invert()
		if err := s.doc.Apply(inv); err != nil {
			// Earlier inverses in this entry stay applied; the entry is
			// restored so the failure is visible on the stack.
			s.hist.restoreUndo(entry)
			s.mu.Unlock()
			return err
		}
		pending = append(pending, s.envelope(events.Transact{Transaction: inv, Reversed: true}))
	}
	selected := false
	if entry.before != nil {
		prev := s.selection
		r := *entry.before
		s.selection = &r
		var prevSel linear.Range
		if prev != nil {
			prevSel = *prev
		}
		pending = append(pending, s.envelope(events.Select{Selection: r, Previous: prevSel}))
		selected = true
	}
	s.hist.pushRedo(entry)
	pending = append(pending, s.envelope(events.Change{Transacted: true, Selected: selected}))
	pending = append(pending, s.historyEnvelope(events.HistoryUndo))
	s.mu.Unlock()
	return s.emit(pending)
}

// Redo pops the most recent redo entry, reapplies its transactions in
// order and restores the selection recorded after the entry, publishing
// transact, select and change events as one change step.
func (s *Surface) Redo() error {
	s.mu.Lock()
	entry, ok := s.hist.popRedo()
	if !ok {
		s.mu.Unlock()
		return ErrNothingToRedo
	}
	var pending []event.Envelope
	for _, tx := range entry.txs {
		if err := s.doc.Apply(tx); err != nil {
			s.hist.restoreRedo(entry)
			s.mu.Unlock()
			return err
		}
		pending = append(pending, s.envelope(events.Transact{Transaction: tx, Reversed: false}))
	}
	selected := false
	if entry.after != nil {
		prev := s.selection
		r := *entry.after
		s.selection = &r
		var prevSel linear.Range
		if prev != nil {
			prevSel = *prev
		}
		pending = append(pending, s.envelope(events.Select{Selection: r, Previous: prevSel}))
		selected = true
	}
	s.hist.pushUndo(entry)
	pending = append(pending, s.envelope(events.Change{Transacted: true, Selected: selected}))
	pending = append(pending, s.historyEnvelope(events.HistoryRedo))
	s.mu.Unlock()
	return s.emit(pending)
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Surface) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hist.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (s *Surface) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hist.redo) > 0
}

// UndoCount returns the undo stack depth.
func (s *Surface) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hist.undo)
}

// RedoCount returns the redo stack depth.
func (s *Surface) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hist.redo)
}

// BeginGroup opens a compound undo step: changes recorded until EndGroup
// undo together. Groups do not nest; a second BeginGroup is a no-op.
func (s *Surface) BeginGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.beginGroup()
}

// EndGroup closes the open group and records it as one undo step. An
// empty group is discarded. Without an open group it is a no-op.
func (s *Surface) EndGroup() error {
	s.mu.Lock()
	if !s.hist.endGroup() {
		s.mu.Unlock()
		return nil
	}
	env := s.historyEnvelope(events.HistoryRecord)
	s.mu.Unlock()
	return s.emit([]event.Envelope{env})
}

// CancelGroup discards the open group. Changes already applied stay
// applied; they just become un-undoable.
func (s *Surface) CancelGroup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.cancelGroup()
}

// IsGrouping reports whether a compound undo step is open.
func (s *Surface) IsGrouping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.grouping()
}

// ClearHistory drops both history stacks and any open group.
func (s *Surface) ClearHistory() error {
	s.mu.Lock()
	if !s.hist.clear() {
		s.mu.Unlock()
		return nil
	}
	env := s.historyEnvelope(events.HistoryClear)
	s.mu.Unlock()
	return s.emit([]event.Envelope{env})
}

// envelope wraps a payload with fresh metadata carrying this surface's
// source.
func (s *Surface) envelope(p event.TopicProvider) event.Envelope {
	return event.Envelope{
		Topic:    p.EventTopic(),
		Payload:  p,
		Metadata: event.NewMetadata(s.source),
	}
}

// historyEnvelope builds a history event reflecting the current stack
// depths. Callers hold the lock.
func (s *Surface) historyEnvelope(action events.HistoryAction) event.Envelope {
	return s.envelope(events.History{
		Action:    action,
		UndoDepth: len(s.hist.undo),
		RedoDepth: len(s.hist.redo),
	})
}

// emit publishes envelopes in order with a background context. The lock
// is not held, so a subscriber may call back into the surface.
func (s *Surface) emit(pending []event.Envelope) error {
	var firstErr error
	for _, env := range pending {
		if err := s.pub.Publish(context.Background(), env); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
