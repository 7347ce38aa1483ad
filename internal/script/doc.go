// Package script embeds a sandboxed Lua interpreter bound to a surface.
//
// A Host owns one Lua state and exposes the surface to scripts through a
// global doc module:
//
//	doc.length()                      item count
//	doc.content([from, to])           content text, markers skipped
//	doc.insert(offset, text)          insert text at offset
//	doc.remove(from, to)              remove the items in [from, to)
//	doc.sel(from [, to])              set the selection, collapsed with one arg
//	doc.selection()                   from, to of the selection, or nil
//	doc.annotate(method, name [, attrs])  annotate the selection
//	doc.annotations(offset)           annotations on the item at offset
//	doc.undo() / doc.redo()           step the history, returning false when empty
//
// Offsets are item positions counted from zero, the same addressing the
// document itself uses. Failed operations raise Lua errors, which Run and
// RunString return as Go errors.
//
// # Sandbox
//
// Scripts get the base, table, string and math libraries only. The io, os,
// debug and package libraries are never opened, and the chunk loading
// functions dofile, loadfile, load and loadstring are removed, so a script
// cannot reach the filesystem or pull in code the host did not hand it.
package script
