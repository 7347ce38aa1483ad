package session

// Availability is the resolved state of an optional collaborator: ready
// with a value, or unavailable with a reason. It is decided once during
// session construction; there is no deferred retry.
type Availability[T any] struct {
	value  T
	ready  bool
	reason string
}

// Ready returns an availability holding a usable collaborator.
func Ready[T any](v T) Availability[T] {
	return Availability[T]{value: v, ready: true}
}

// Unavailable returns an availability explaining why the collaborator
// could not be set up.
func Unavailable[T any](reason string) Availability[T] {
	return Availability[T]{reason: reason}
}

// IsReady reports whether the collaborator is usable.
func (a Availability[T]) IsReady() bool { return a.ready }

// Value returns the collaborator and whether it is usable.
func (a Availability[T]) Value() (T, bool) { return a.value, a.ready }

// Reason explains an unavailable collaborator. Empty when ready.
func (a Availability[T]) Reason() string { return a.reason }

// String returns a readable state for logs.
func (a Availability[T]) String() string {
	if a.ready {
		return "ready"
	}
	return "unavailable: " + a.reason
}
