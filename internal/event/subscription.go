package event

import "sync/atomic"

// SubscriptionState is the lifecycle state of a subscription.
type SubscriptionState int32

const (
	// StateActive means the subscription receives events.
	StateActive SubscriptionState = iota

	// StatePaused means delivery is temporarily suspended.
	StatePaused

	// StateCancelled means the subscription is permanently over.
	StateCancelled
)

// String returns a readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SubscriptionConfig holds per-subscription delivery settings.
type SubscriptionConfig struct {
	// Priority determines execution order; lower values run first.
	Priority Priority

	// Filter, when set, must return true for an event to be delivered.
	Filter FilterFunc

	// Once auto-cancels the subscription after its first successful delivery.
	Once bool
}

// SubscriptionOption configures a subscription at subscribe time.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Priority = p }
}

// WithFilter sets a delivery predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Filter = f }
}

// WithOnce auto-cancels the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) { c.Once = true }
}

// Subscription is an active registration of a handler for a topic pattern.
// Its lifecycle methods are safe for concurrent use.
type Subscription struct {
	id      string
	pattern Topic
	handler Handler
	config  SubscriptionConfig
	state   atomic.Int32
}

func newSubscription(id string, pattern Topic, h Handler, opts ...SubscriptionOption) *Subscription {
	config := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&config)
	}
	s := &Subscription{
		id:      id,
		pattern: pattern,
		handler: h,
		config:  config,
	}
	s.state.Store(int32(StateActive))
	return s
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Pattern returns the subscribed topic pattern.
func (s *Subscription) Pattern() Topic { return s.pattern }

// State returns the current lifecycle state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive reports whether the subscription can receive events.
func (s *Subscription) IsActive() bool { return s.State() == StateActive }

// Pause suspends delivery. Only an active subscription can be paused.
func (s *Subscription) Pause() {
	s.state.CompareAndSwap(int32(StateActive), int32(StatePaused))
}

// Resume restarts delivery after a pause. A cancelled subscription stays
// cancelled.
func (s *Subscription) Resume() {
	s.state.CompareAndSwap(int32(StatePaused), int32(StateActive))
}

// Cancel permanently ends the subscription.
func (s *Subscription) Cancel() {
	s.state.Store(int32(StateCancelled))
}

// shouldDeliver reports whether the envelope passes state and filter checks.
func (s *Subscription) shouldDeliver(env Envelope) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(env) {
		return false
	}
	return true
}
