package event

import "context"

// Priority determines handler execution order. Lower values execute first.
type Priority int

const (
	// PriorityCritical is for state observers that must see an event before
	// anything else runs, such as history capture.
	PriorityCritical Priority = 0

	// PriorityHigh is for observers other observers depend on, such as
	// derived caches.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and metrics observers that run last.
	PriorityLow Priority = 300
)

// String returns a readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes a delivered event.
type Handler interface {
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	return f(ctx, env)
}

// FilterFunc is a delivery predicate. Return true to deliver the event to
// the subscription, false to skip it.
type FilterFunc func(env Envelope) bool

// PanicHandler is called after a handler panic has been recovered.
type PanicHandler func(env Envelope, sub *Subscription, recovered any)

// Stats holds bus counters. All counters are cumulative.
type Stats struct {
	// EventsPublished is the number of Publish calls that found a topic.
	EventsPublished uint64

	// EventsDelivered is the number of successful handler deliveries.
	EventsDelivered uint64

	// HandlersExecuted is the total number of handler invocations.
	HandlersExecuted uint64

	// HandlerErrors is the number of handlers that returned an error.
	HandlerErrors uint64

	// HandlerPanics is the number of recovered handler panics.
	HandlerPanics uint64

	// ActiveSubscriptions is the current number of active subscriptions.
	ActiveSubscriptions int
}
