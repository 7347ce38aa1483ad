package events

import (
	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/model/transaction"
)

// Surface event topics.
const (
	// TopicSurfaceTransact is published after a transaction mutates the
	// surface's document.
	TopicSurfaceTransact event.Topic = "surface.transact"

	// TopicSurfaceSelect is published after the surface's selection moves.
	TopicSurfaceSelect event.Topic = "surface.select"

	// TopicSurfaceChange is published once per change call that did
	// anything, after any transact and select events for that call.
	TopicSurfaceChange event.Topic = "surface.change"

	// TopicSurfaceHistory is published when the undo or redo stacks are
	// altered.
	TopicSurfaceHistory event.Topic = "surface.history"
)

// HistoryAction names what happened to the history stacks.
type HistoryAction string

// History actions.
const (
	// HistoryRecord means a transaction was pushed onto the undo stack.
	HistoryRecord HistoryAction = "record"

	// HistoryUndo means an inverse transaction was applied from the undo
	// stack.
	HistoryUndo HistoryAction = "undo"

	// HistoryRedo means a transaction was reapplied from the redo stack.
	HistoryRedo HistoryAction = "redo"

	// HistoryClear means both stacks were discarded.
	HistoryClear HistoryAction = "clear"
)

// Transact is published when a transaction has been applied to the document.
type Transact struct {
	// Transaction is the transaction that was applied.
	Transaction *transaction.Transaction

	// Reversed reports whether the transaction is an inverse applied by
	// undo rather than a forward edit.
	Reversed bool
}

// EventTopic implements event.TopicProvider.
func (Transact) EventTopic() event.Topic { return TopicSurfaceTransact }

// Select is published when the selection has moved.
type Select struct {
	// Selection is the new selection.
	Selection linear.Range

	// Previous is the selection before the move.
	Previous linear.Range
}

// EventTopic implements event.TopicProvider.
func (Select) EventTopic() event.Topic { return TopicSurfaceSelect }

// Change is published once per effective change call, after the transact
// and select events that call produced.
type Change struct {
	// Transacted reports whether the change applied a transaction.
	Transacted bool

	// Selected reports whether the change moved the selection.
	Selected bool
}

// EventTopic implements event.TopicProvider.
func (Change) EventTopic() event.Topic { return TopicSurfaceChange }

// History is published when the history stacks change.
type History struct {
	// Action is what happened.
	Action HistoryAction

	// UndoDepth is the undo stack depth after the action.
	UndoDepth int

	// RedoDepth is the redo stack depth after the action.
	RedoDepth int
}

// EventTopic implements event.TopicProvider.
func (History) EventTopic() event.Topic { return TopicSurfaceHistory }
