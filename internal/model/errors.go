package model

import "errors"

// Common errors for surface operations.
var (
	// ErrNoSelection is returned by operations that need a selection when
	// none has been made.
	ErrNoSelection = errors.New("no selection")

	// ErrCollapsedSelection is returned by operations that need a span
	// when the selection is collapsed to a caret.
	ErrCollapsedSelection = errors.New("collapsed selection")

	// ErrNothingToUndo is returned by Undo when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
