package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/vellumlab/vellum/internal/model"
	"github.com/vellumlab/vellum/internal/model/annotation"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// Host runs Lua scripts against one surface.
//
// The Lua state is not goroutine safe, so Run, RunString and Close
// serialize on an internal mutex. Scripts run synchronously; surface
// events fire during the call, on the calling goroutine.
type Host struct {
	mu      sync.Mutex
	L       *lua.LState
	surface *model.Surface
	closed  bool
}

// NewHost returns a host whose scripts edit surface through the doc
// module.
func NewHost(surface *model.Surface) (*Host, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	h := &Host{L: L, surface: surface}
	h.openLibraries()
	h.installModule()
	return h, nil
}

// openLibraries opens the safe standard libraries and removes the chunk
// loaders. The package library is never opened, so require does not
// exist inside scripts.
func (h *Host) openLibraries() {
	lua.OpenBase(h.L)
	lua.OpenTable(h.L)
	lua.OpenString(h.L)
	lua.OpenMath(h.L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		h.L.SetGlobal(name, lua.LNil)
	}
}

// installModule registers the doc module as a global table.
func (h *Host) installModule() {
	funcs := map[string]lua.LGFunction{
		"length":      h.luaLength,
		"content":     h.luaContent,
		"insert":      h.luaInsert,
		"remove":      h.luaRemove,
		"sel":         h.luaSel,
		"selection":   h.luaSelection,
		"annotate":    h.luaAnnotate,
		"annotations": h.luaAnnotations,
		"undo":        h.luaUndo,
		"redo":        h.luaRedo,
	}
	mod := h.L.SetFuncs(h.L.NewTable(), funcs)
	h.L.SetGlobal("doc", mod)
}

// Run executes the Lua file at path.
func (h *Host) Run(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.protect(func() error { return h.L.DoFile(path) })
}

// RunString executes code as a Lua chunk.
func (h *Host) RunString(code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	return h.protect(func() error { return h.L.DoString(code) })
}

// protect converts interpreter panics into errors.
func (h *Host) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state. Further calls return ErrHostClosed.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.L.Close()
	return nil
}

func (h *Host) luaLength(L *lua.LState) int {
	L.Push(lua.LNumber(h.surface.Document().Len()))
	return 1
}

func (h *Host) luaContent(L *lua.LState) int {
	doc := h.surface.Document()
	if L.GetTop() == 0 {
		L.Push(lua.LString(doc.Text()))
		return 1
	}

	from := L.CheckInt(1)
	to := L.CheckInt(2)
	h.checkPosition(L, from)
	h.checkPosition(L, to)
	L.Push(lua.LString(doc.ContentText(linear.NewRange(from, to))))
	return 1
}

func (h *Host) luaInsert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)
	h.checkPosition(L, offset)

	if text == "" {
		return 0
	}
	tx := transaction.FromInsertion(h.surface.Document(), offset, linear.FromString(text)...)
	if err := h.surface.Change(tx); err != nil {
		L.RaiseError("insert: %s", err.Error())
	}
	return 0
}

func (h *Host) luaRemove(L *lua.LState) int {
	from := L.CheckInt(1)
	to := L.CheckInt(2)
	h.checkPosition(L, from)
	h.checkPosition(L, to)

	tx := transaction.FromRemoval(h.surface.Document(), linear.NewRange(from, to))
	if err := h.surface.Change(tx); err != nil {
		L.RaiseError("remove: %s", err.Error())
	}
	return 0
}

func (h *Host) luaSel(L *lua.LState) int {
	from := L.CheckInt(1)
	to := L.OptInt(2, from)
	h.checkPosition(L, from)
	h.checkPosition(L, to)

	if err := h.surface.Change(nil, linear.NewRange(from, to)); err != nil {
		L.RaiseError("sel: %s", err.Error())
	}
	return 0
}

func (h *Host) luaSelection(L *lua.LState) int {
	r := h.surface.Selection()
	if r == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(r.From))
	L.Push(lua.LNumber(r.To))
	return 2
}

func (h *Host) luaAnnotate(L *lua.LState) int {
	method := transaction.AnnotateMethod(L.CheckString(1))
	name := L.CheckString(2)

	if method != transaction.MethodSet && method != transaction.MethodClear {
		L.ArgError(1, `method must be "set" or "clear"`)
	}

	var attrs map[string]any
	if L.GetTop() >= 3 {
		m, err := attrsFromTable(L.CheckTable(3))
		if err != nil {
			L.ArgError(3, err.Error())
		}
		attrs = m
	}

	if err := h.surface.Annotate(method, annotation.New(name, attrs)); err != nil {
		L.RaiseError("annotate: %s", err.Error())
	}
	return 0
}

func (h *Host) luaAnnotations(L *lua.LState) int {
	offset := L.CheckInt(1)
	doc := h.surface.Document()
	if offset < 0 || offset >= doc.Len() {
		L.RaiseError("no item at offset %d", offset)
	}

	out := L.NewTable()
	it := doc.DataRange(linear.NewRange(offset, offset+1))[0]
	if it.Annotated() {
		for i, a := range it.Annotations.Annotations() {
			entry := L.NewTable()
			entry.RawSetString("type", lua.LString(a.Type))
			if len(a.Attributes) > 0 {
				entry.RawSetString("attributes", toLuaValue(L, a.Attributes))
			}
			out.RawSetInt(i+1, entry)
		}
	}
	L.Push(out)
	return 1
}

func (h *Host) luaUndo(L *lua.LState) int {
	err := h.surface.Undo()
	if errors.Is(err, model.ErrNothingToUndo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		L.RaiseError("undo: %s", err.Error())
	}
	L.Push(lua.LTrue)
	return 1
}

func (h *Host) luaRedo(L *lua.LState) int {
	err := h.surface.Redo()
	if errors.Is(err, model.ErrNothingToRedo) {
		L.Push(lua.LFalse)
		return 1
	}
	if err != nil {
		L.RaiseError("redo: %s", err.Error())
	}
	L.Push(lua.LTrue)
	return 1
}

// checkPosition raises a Lua error unless p is a valid item position,
// zero through the document length inclusive.
func (h *Host) checkPosition(L *lua.LState, p int) {
	length := h.surface.Document().Len()
	if p < 0 || p > length {
		L.RaiseError("position %d out of range 0..%d", p, length)
	}
}
