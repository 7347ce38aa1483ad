package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vellumlab/vellum/internal/model"
	"github.com/vellumlab/vellum/internal/model/document"
	"github.com/vellumlab/vellum/internal/model/linear"
)

func newTestHost(t *testing.T, text string) (*Host, *model.Surface) {
	t.Helper()
	surface := model.NewSurface(document.NewFromString(text))
	h, err := NewHost(surface)
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h, surface
}

func TestNewHostNilSurface(t *testing.T) {
	if _, err := NewHost(nil); !errors.Is(err, ErrNilSurface) {
		t.Errorf("NewHost(nil) error = %v, want ErrNilSurface", err)
	}
}

func TestInsert(t *testing.T) {
	h, surface := newTestHost(t, "hello")

	if err := h.RunString(`doc.insert(5, " world")`); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if got := surface.Document().Text(); got != "hello world" {
		t.Errorf("Text() = %q, want %q", got, "hello world")
	}
}

func TestRemove(t *testing.T) {
	h, surface := newTestHost(t, "hello")

	if err := h.RunString(`doc.remove(0, 2)`); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if got := surface.Document().Text(); got != "llo" {
		t.Errorf("Text() = %q, want %q", got, "llo")
	}
}

func TestLengthAndContent(t *testing.T) {
	h, _ := newTestHost(t, "hello")

	script := `
assert(doc.length() == 5, "length")
assert(doc.content() == "hello", "content()")
assert(doc.content(1, 4) == "ell", "content(1, 4)")
`
	if err := h.RunString(script); err != nil {
		t.Errorf("RunString() error = %v", err)
	}
}

func TestSelection(t *testing.T) {
	h, surface := newTestHost(t, "hello")

	script := `
assert(doc.selection() == nil, "selection before sel")
doc.sel(1, 3)
local from, to = doc.selection()
assert(from == 1 and to == 3, "selection after sel")
doc.sel(2)
from, to = doc.selection()
assert(from == 2 and to == 2, "collapsed sel")
`
	if err := h.RunString(script); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	r := surface.Selection()
	if r == nil || r.From != 2 || r.To != 2 {
		t.Errorf("Selection() = %v, want [2, 2)", r)
	}
}

func TestAnnotate(t *testing.T) {
	h, surface := newTestHost(t, "bold")

	script := `
doc.sel(0, 4)
doc.annotate("set", "textStyle/bold")
local anns = doc.annotations(0)
assert(#anns == 1, "one annotation")
assert(anns[1].type == "textStyle/bold", "annotation type")
`
	if err := h.RunString(script); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	for i, it := range surface.Document().Data() {
		if !it.Annotated() {
			t.Errorf("item %d not annotated", i)
		}
	}
}

func TestAnnotateWithAttrs(t *testing.T) {
	h, surface := newTestHost(t, "link")

	script := `
doc.sel(0, 4)
doc.annotate("set", "link", {href = "https://example.com"})
local anns = doc.annotations(2)
assert(anns[1].attributes.href == "https://example.com", "href")
`
	if err := h.RunString(script); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}

	it := surface.Document().DataRange(linear.NewRange(0, 1))[0]
	a := it.Annotations.Annotations()[0]
	if got, _ := a.Attribute("href"); got != "https://example.com" {
		t.Errorf("href = %v, want https://example.com", got)
	}
}

func TestAnnotateClear(t *testing.T) {
	h, surface := newTestHost(t, "ab")

	script := `
doc.sel(0, 2)
doc.annotate("set", "textStyle/bold")
doc.annotate("clear", "textStyle/bold")
assert(#doc.annotations(0) == 0, "cleared")
`
	if err := h.RunString(script); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if it := surface.Document().DataRange(linear.NewRange(0, 1))[0]; it.Annotated() {
		t.Error("annotation survived clear")
	}
}

func TestAnnotateErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"bad method", `doc.sel(0, 2) doc.annotate("toggle", "textStyle/bold")`},
		{"no selection", `doc.annotate("set", "textStyle/bold")`},
		{"collapsed selection", `doc.sel(1) doc.annotate("set", "textStyle/bold")`},
		{"array attrs", `doc.sel(0, 2) doc.annotate("set", "link", {1, 2})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHost(t, "hello")
			if err := h.RunString(tt.script); err == nil {
				t.Error("RunString() = nil error")
			}
		})
	}
}

func TestUndoRedo(t *testing.T) {
	h, surface := newTestHost(t, "hello")

	script := `
doc.insert(5, " world")
assert(doc.undo(), "undo after insert")
assert(doc.content() == "hello", "content after undo")
assert(not doc.undo(), "undo with empty history")
assert(doc.redo(), "redo")
assert(not doc.redo(), "redo with empty stack")
`
	if err := h.RunString(script); err != nil {
		t.Fatalf("RunString() error = %v", err)
	}
	if got := surface.Document().Text(); got != "hello world" {
		t.Errorf("Text() = %q, want %q", got, "hello world")
	}
}

func TestPositionOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"insert beyond end", `doc.insert(99, "x")`},
		{"insert negative", `doc.insert(-1, "x")`},
		{"remove beyond end", `doc.remove(0, 99)`},
		{"sel beyond end", `doc.sel(99)`},
		{"annotations beyond end", `doc.annotations(5)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, surface := newTestHost(t, "hello")
			if err := h.RunString(tt.script); err == nil {
				t.Error("RunString() = nil error")
			}
			if got := surface.Document().Text(); got != "hello" {
				t.Errorf("document changed to %q", got)
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	h, _ := newTestHost(t, "")

	script := `
assert(io == nil, "io is open")
assert(os == nil, "os is open")
assert(debug == nil, "debug is open")
assert(require == nil, "require exists")
assert(dofile == nil, "dofile exists")
assert(loadfile == nil, "loadfile exists")
assert(load == nil, "load exists")
assert(string.upper("a") == "A", "string library missing")
assert(math.floor(1.5) == 1, "math library missing")
assert(table.concat({"a", "b"}) == "ab", "table library missing")
`
	if err := h.RunString(script); err != nil {
		t.Errorf("RunString() error = %v", err)
	}
}

func TestRunFile(t *testing.T) {
	h, surface := newTestHost(t, "hello")

	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`doc.insert(0, "say ")`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.Run(path); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := surface.Document().Text(); got != "say hello" {
		t.Errorf("Text() = %q, want %q", got, "say hello")
	}
}

func TestSyntaxError(t *testing.T) {
	h, _ := newTestHost(t, "")
	if err := h.RunString(`this is not lua`); err == nil {
		t.Error("RunString() = nil error for invalid chunk")
	}
}

func TestScriptError(t *testing.T) {
	h, _ := newTestHost(t, "hello")
	err := h.RunString(`doc.insert(99, "x")`)
	if err == nil {
		t.Fatal("RunString() = nil error")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error %q does not mention the bad position", err)
	}
}

func TestClose(t *testing.T) {
	h, _ := newTestHost(t, "")

	if err := h.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := h.RunString(`doc.length()`); !errors.Is(err, ErrHostClosed) {
		t.Errorf("RunString() after close error = %v, want ErrHostClosed", err)
	}
}
