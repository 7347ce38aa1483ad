package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/document"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// recorder captures delivered envelopes in order. Delivery is synchronous
// and single-goroutine, so no locking is needed.
type recorder struct {
	order     []string
	counts    map[string]int
	envelopes []event.Envelope
}

func (r *recorder) handle(_ context.Context, env event.Envelope) error {
	r.order = append(r.order, string(env.Topic))
	r.counts[string(env.Topic)]++
	r.envelopes = append(r.envelopes, env)
	return nil
}

func (r *recorder) lastPayload(topic event.Topic) any {
	for i := len(r.envelopes) - 1; i >= 0; i-- {
		if r.envelopes[i].Topic == topic {
			return r.envelopes[i].Payload
		}
	}
	return nil
}

func observe(t *testing.T, bus *event.Bus, topics ...event.Topic) *recorder {
	t.Helper()
	rec := &recorder{counts: map[string]int{}}
	for _, topic := range topics {
		if _, err := bus.SubscribeFunc(topic, rec.handle); err != nil {
			t.Fatalf("subscribe %s: %v", topic, err)
		}
	}
	return rec
}

// newTestSurface builds a surface over text with a recorder on the three
// core surface topics.
func newTestSurface(t *testing.T, text string) (*Surface, *recorder, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	rec := observe(t, bus,
		events.TopicSurfaceTransact,
		events.TopicSurfaceSelect,
		events.TopicSurfaceChange,
	)
	s := NewSurface(document.NewFromString(text), WithPublisher(bus))
	return s, rec, bus
}

func fullRange(doc *document.Document) linear.Range {
	return linear.NewRange(0, doc.Len())
}

func TestNewSurfaceDefaults(t *testing.T) {
	doc := document.NewFromString("abc")
	s := NewSurface(doc)

	if s.Document() != doc {
		t.Error("Document should return the constructed instance")
	}
	if s.Document() != s.Document() {
		t.Error("Document should be identity-stable")
	}
	if s.Selection() != nil {
		t.Error("selection should start nil")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("history should start empty")
	}
}

func TestNewSurfaceNilDocument(t *testing.T) {
	s := NewSurface(nil)
	if s.Document() == nil {
		t.Fatal("nil document should be replaced with an empty one")
	}
	if s.Document().Len() != 0 {
		t.Errorf("empty document length = %d, want 0", s.Document().Len())
	}
}

func TestSelectionIdentityStable(t *testing.T) {
	s, _, _ := newTestSurface(t, "abc")

	r := linear.NewRange(0, 2)
	if err := s.Change(nil, r); err != nil {
		t.Fatalf("change: %v", err)
	}
	p1 := s.Selection()
	p2 := s.Selection()
	if p1 != p2 {
		t.Error("selection should be identity-stable between changes")
	}
	if *p1 != r {
		t.Errorf("selection = %v, want %v", *p1, r)
	}

	if err := s.Change(nil, linear.NewRange(1, 3)); err != nil {
		t.Fatalf("change: %v", err)
	}
	if s.Selection() == p1 {
		t.Error("replaced selection should be a new instance")
	}
}

func TestChangeEventCounting(t *testing.T) {
	s, rec, _ := newTestSurface(t, "abc")
	doc := s.Document()

	tx1 := transaction.FromInsertion(doc, 0, linear.NewChar("x"))
	if err := s.Change(tx1); err != nil {
		t.Fatalf("change 1: %v", err)
	}
	if err := s.Change(nil, linear.NewRange(0, 1)); err != nil {
		t.Fatalf("change 2: %v", err)
	}
	tx2 := transaction.FromInsertion(doc, 1, linear.NewChar("y"))
	if err := s.Change(tx2, linear.NewRange(2, 3)); err != nil {
		t.Fatalf("change 3: %v", err)
	}

	want := map[string]int{
		"surface.transact": 2,
		"surface.select":   2,
		"surface.change":   3,
	}
	if diff := cmp.Diff(want, rec.counts); diff != "" {
		t.Errorf("event counts mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeEventOrdering(t *testing.T) {
	s, rec, _ := newTestSurface(t, "abc")

	tx := transaction.FromInsertion(s.Document(), 0, linear.NewChar("x"))
	if err := s.Change(tx, linear.NewRange(0, 1)); err != nil {
		t.Fatalf("change: %v", err)
	}

	want := []string{"surface.transact", "surface.select", "surface.change"}
	if diff := cmp.Diff(want, rec.order); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeNothingPublishesNothing(t *testing.T) {
	s, rec, _ := newTestSurface(t, "abc")

	if err := s.Change(nil); err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(rec.order) != 0 {
		t.Errorf("empty change published %v, want nothing", rec.order)
	}
}

func TestChangeSelectionOnly(t *testing.T) {
	s, rec, _ := newTestSurface(t, "abc")

	r := linear.NewRange(1, 2)
	if err := s.Change(nil, r); err != nil {
		t.Fatalf("change: %v", err)
	}

	if rec.counts["surface.transact"] != 0 {
		t.Error("selection-only change should not publish transact")
	}
	if rec.counts["surface.select"] != 1 || rec.counts["surface.change"] != 1 {
		t.Errorf("counts = %v, want one select and one change", rec.counts)
	}
	if sel := s.Selection(); sel == nil || *sel != r {
		t.Errorf("selection = %v, want %v", sel, r)
	}
	if s.UndoCount() != 0 {
		t.Error("selection-only change should not be undoable")
	}

	payload, ok := rec.lastPayload(events.TopicSurfaceChange).(events.Change)
	if !ok {
		t.Fatal("change payload should be events.Change")
	}
	if payload.Transacted || !payload.Selected {
		t.Errorf("change payload = %+v, want selected only", payload)
	}
}

func TestChangeRejectedTransaction(t *testing.T) {
	s, rec, _ := newTestSurface(t, "abc")

	short := transaction.New(transaction.Retain(2))
	err := s.Change(short, linear.NewRange(0, 1))
	if !errors.Is(err, document.ErrContract) {
		t.Fatalf("err = %v, want ErrContract", err)
	}
	if len(rec.order) != 0 {
		t.Error("rejected change should publish nothing")
	}
	if s.Selection() != nil {
		t.Error("rejected change should not move the selection")
	}
	if got := s.Document().Text(); got != "abc" {
		t.Errorf("document text = %q, want %q", got, "abc")
	}
	if s.UndoCount() != 0 {
		t.Error("rejected change should not be recorded")
	}
}

func TestAnnotateBold(t *testing.T) {
	s, rec, _ := newTestSurface(t, "bold")

	if err := s.Change(nil, linear.NewRange(0, 4)); err != nil {
		t.Fatalf("select: %v", err)
	}
	bold := annotation.New("textStyle/bold", nil)
	if err := s.Annotate(transaction.MethodSet, bold); err != nil {
		t.Fatalf("annotate: %v", err)
	}

	data := s.Document().Data()
	if data.Len() != 4 {
		t.Fatalf("length = %d, want 4", data.Len())
	}
	hash := `{"type":"textStyle/bold"}`
	for i, item := range data {
		if item.Kind != linear.KindChar {
			t.Fatalf("item %d kind = %v, want char", i, item.Kind)
		}
		if item.Annotations.Len() != 1 || !item.Annotations.ContainsHash(hash) {
			t.Errorf("item %d annotations = %v, want one bold entry", i, item.Annotations)
		}
	}

	raw, err := json.Marshal(s.Document())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pair := `"{\"type\":\"textStyle/bold\"}":{"type":"textStyle/bold"}`
	want := `[["b",{` + pair + `}],["o",{` + pair + `}],["l",{` + pair + `}],["d",{` + pair + `}]]`
	if string(raw) != want {
		t.Errorf("document JSON = %s, want %s", raw, want)
	}

	// The annotate call routes through the change path: one transact and
	// one change on top of the earlier selection change.
	want2 := map[string]int{
		"surface.transact": 1,
		"surface.select":   1,
		"surface.change":   2,
	}
	if diff := cmp.Diff(want2, rec.counts); diff != "" {
		t.Errorf("event counts mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateIdempotent(t *testing.T) {
	s, _, _ := newTestSurface(t, "bold")

	if err := s.Change(nil, linear.NewRange(0, 4)); err != nil {
		t.Fatalf("select: %v", err)
	}
	bold := annotation.New("textStyle/bold", nil)
	if err := s.Annotate(transaction.MethodSet, bold); err != nil {
		t.Fatalf("first annotate: %v", err)
	}
	if err := s.Annotate(transaction.MethodSet, bold); err != nil {
		t.Fatalf("second annotate: %v", err)
	}

	for i, item := range s.Document().Data() {
		if item.Annotations.Len() != 1 {
			t.Errorf("item %d has %d annotations, want 1", i, item.Annotations.Len())
		}
	}
}

func TestAnnotateClear(t *testing.T) {
	s, _, _ := newTestSurface(t, "bold")

	if err := s.Change(nil, linear.NewRange(0, 4)); err != nil {
		t.Fatalf("select: %v", err)
	}
	bold := annotation.New("textStyle/bold", nil)
	if err := s.Annotate(transaction.MethodSet, bold); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Annotate(transaction.MethodClear, bold); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for i, item := range s.Document().Data() {
		if item.Annotated() {
			t.Errorf("item %d should be unannotated after clear", i)
		}
	}
	raw, err := json.Marshal(s.Document())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `["b","o","l","d"]` {
		t.Errorf("document JSON = %s, want plain characters", raw)
	}
}

func TestAnnotateSelectionErrors(t *testing.T) {
	s, _, _ := newTestSurface(t, "abc")
	bold := annotation.New("textStyle/bold", nil)

	if err := s.Annotate(transaction.MethodSet, bold); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}

	if err := s.Change(nil, linear.NewCollapsedRange(1)); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Annotate(transaction.MethodSet, bold); !errors.Is(err, ErrCollapsedSelection) {
		t.Errorf("err = %v, want ErrCollapsedSelection", err)
	}
}

func TestAnnotateBackwardsSelection(t *testing.T) {
	s, _, _ := newTestSurface(t, "bold")

	if err := s.Change(nil, linear.NewRange(4, 0)); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Annotate(transaction.MethodSet, annotation.New("textStyle/bold", nil)); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	for i, item := range s.Document().Data() {
		if !item.Annotated() {
			t.Errorf("item %d should be annotated", i)
		}
	}
}

func TestUndoRedo(t *testing.T) {
	s, rec, bus := newTestSurface(t, "ab")
	hist := observe(t, bus, events.TopicSurfaceHistory)
	doc := s.Document()

	tx := transaction.FromInsertion(doc, 2, linear.NewChar("c"))
	if err := s.Change(tx); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := doc.Text(); got != "abc" {
		t.Fatalf("text = %q, want %q", got, "abc")
	}
	record, ok := hist.lastPayload(events.TopicSurfaceHistory).(events.History)
	if !ok || record.Action != events.HistoryRecord || record.UndoDepth != 1 {
		t.Errorf("history payload = %+v, want record at depth 1", record)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := doc.Text(); got != "ab" {
		t.Errorf("text after undo = %q, want %q", got, "ab")
	}
	if s.CanUndo() || !s.CanRedo() {
		t.Error("undo should move the entry to the redo stack")
	}
	tr, ok := rec.lastPayload(events.TopicSurfaceTransact).(events.Transact)
	if !ok || !tr.Reversed {
		t.Errorf("undo transact payload = %+v, want reversed", tr)
	}
	action, _ := hist.lastPayload(events.TopicSurfaceHistory).(events.History)
	if action.Action != events.HistoryUndo {
		t.Errorf("history action = %q, want undo", action.Action)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := doc.Text(); got != "abc" {
		t.Errorf("text after redo = %q, want %q", got, "abc")
	}
	if !s.CanUndo() || s.CanRedo() {
		t.Error("redo should move the entry back to the undo stack")
	}
	tr, ok = rec.lastPayload(events.TopicSurfaceTransact).(events.Transact)
	if !ok || tr.Reversed {
		t.Errorf("redo transact payload = %+v, want not reversed", tr)
	}
}

func TestUndoRestoresSelection(t *testing.T) {
	s, _, _ := newTestSurface(t, "abc")
	doc := s.Document()

	r1 := linear.NewRange(0, 1)
	if err := s.Change(nil, r1); err != nil {
		t.Fatalf("select: %v", err)
	}
	tx := transaction.FromInsertion(doc, 3, linear.NewChar("d"))
	r2 := linear.NewRange(3, 4)
	if err := s.Change(tx, r2); err != nil {
		t.Fatalf("change: %v", err)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if sel := s.Selection(); sel == nil || *sel != r1 {
		t.Errorf("selection after undo = %v, want %v", sel, r1)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if sel := s.Selection(); sel == nil || *sel != r2 {
		t.Errorf("selection after redo = %v, want %v", sel, r2)
	}
}

func TestUndoRedoEmptyStacks(t *testing.T) {
	s, _, _ := newTestSurface(t, "abc")

	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo err = %v, want ErrNothingToUndo", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("redo err = %v, want ErrNothingToRedo", err)
	}
}

func TestGroupedUndo(t *testing.T) {
	s, _, _ := newTestSurface(t, "")
	doc := s.Document()

	s.BeginGroup()
	if !s.IsGrouping() {
		t.Fatal("group should be open")
	}
	if err := s.Change(transaction.FromInsertion(doc, 0, linear.NewChar("a"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := s.Change(transaction.FromInsertion(doc, 1, linear.NewChar("b"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	if s.UndoCount() != 0 {
		t.Error("grouped changes should not push until the group ends")
	}
	if err := s.EndGroup(); err != nil {
		t.Fatalf("end group: %v", err)
	}
	if s.UndoCount() != 1 {
		t.Fatalf("undo count = %d, want 1", s.UndoCount())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("document length after undo = %d, want 0", doc.Len())
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := doc.Text(); got != "ab" {
		t.Errorf("text after redo = %q, want %q", got, "ab")
	}
}

func TestCancelGroup(t *testing.T) {
	s, _, _ := newTestSurface(t, "")
	doc := s.Document()

	s.BeginGroup()
	if err := s.Change(transaction.FromInsertion(doc, 0, linear.NewChar("a"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	s.CancelGroup()

	if s.IsGrouping() {
		t.Error("group should be closed")
	}
	if s.UndoCount() != 0 {
		t.Error("cancelled group should not be recorded")
	}
	if got := doc.Text(); got != "a" {
		t.Errorf("text = %q, cancelled changes stay applied", got)
	}
}

func TestEmptyGroupDiscarded(t *testing.T) {
	s, _, bus := newTestSurface(t, "abc")
	hist := observe(t, bus, events.TopicSurfaceHistory)

	s.BeginGroup()
	if err := s.EndGroup(); err != nil {
		t.Fatalf("end group: %v", err)
	}
	if s.UndoCount() != 0 {
		t.Error("empty group should be discarded")
	}
	if len(hist.order) != 0 {
		t.Error("empty group should publish nothing")
	}

	// EndGroup without BeginGroup is a no-op.
	if err := s.EndGroup(); err != nil {
		t.Fatalf("stray end group: %v", err)
	}
}

func TestRedoClearedByNewChange(t *testing.T) {
	s, _, _ := newTestSurface(t, "")
	doc := s.Document()

	if err := s.Change(transaction.FromInsertion(doc, 0, linear.NewChar("a"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !s.CanRedo() {
		t.Fatal("redo should be available")
	}
	if err := s.Change(transaction.FromInsertion(doc, 0, linear.NewChar("b"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	if s.CanRedo() {
		t.Error("new change should clear the redo stack")
	}
}

func TestHistoryLimit(t *testing.T) {
	s := NewSurface(document.NewFromString(""), WithHistoryLimit(2))
	doc := s.Document()

	for i := 0; i < 3; i++ {
		tx := transaction.FromInsertion(doc, doc.Len(), linear.NewChar("x"))
		if err := s.Change(tx); err != nil {
			t.Fatalf("change %d: %v", i, err)
		}
	}
	if s.UndoCount() != 2 {
		t.Errorf("undo count = %d, want 2", s.UndoCount())
	}
}

func TestClearHistory(t *testing.T) {
	s, _, bus := newTestSurface(t, "")
	hist := observe(t, bus, events.TopicSurfaceHistory)
	doc := s.Document()

	if err := s.Change(transaction.FromInsertion(doc, 0, linear.NewChar("a"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("history should be empty after clear")
	}
	action, _ := hist.lastPayload(events.TopicSurfaceHistory).(events.History)
	if action.Action != events.HistoryClear {
		t.Errorf("history action = %q, want clear", action.Action)
	}

	// Clearing an empty history publishes nothing further.
	seen := len(hist.order)
	if err := s.ClearHistory(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if len(hist.order) != seen {
		t.Error("clearing empty history should publish nothing")
	}
}

func TestEventMetadataSource(t *testing.T) {
	bus := event.NewBus()
	rec := observe(t, bus, events.TopicSurfaceChange)
	s := NewSurface(document.NewFromString("abc"), WithPublisher(bus), WithEventSource("session-7"))

	if err := s.Change(nil, linear.NewRange(0, 1)); err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(rec.envelopes) != 1 {
		t.Fatalf("envelopes = %d, want 1", len(rec.envelopes))
	}
	meta := rec.envelopes[0].Metadata
	if meta.Source != "session-7" {
		t.Errorf("source = %q, want %q", meta.Source, "session-7")
	}
	if meta.ID == "" || meta.Timestamp.IsZero() {
		t.Error("metadata should carry an ID and timestamp")
	}
}

func TestInvertedChangeRoundTrip(t *testing.T) {
	s, _, _ := newTestSurface(t, "hello")
	doc := s.Document()

	tx := transaction.FromReplacement(doc, linear.NewRange(0, 1), linear.NewChar("H"))
	if err := s.Change(tx); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := doc.Text(); got != "Hello" {
		t.Fatalf("text = %q, want %q", got, "Hello")
	}
	if err := s.Change(tx.Invert()); err != nil {
		t.Fatalf("inverse change: %v", err)
	}
	if got := doc.Text(); got != "hello" {
		t.Errorf("text = %q, want %q", got, "hello")
	}
}
