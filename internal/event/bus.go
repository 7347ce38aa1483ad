package event

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
)

// Bus is a synchronous publish/subscribe bus. The zero value is not usable;
// construct with NewBus. All methods are safe for concurrent use, though the
// model layer drives a bus from a single goroutine.
type Bus struct {
	registry     *registry
	panicHandler PanicHandler

	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// Option configures a bus.
type Option func(*Bus)

// WithPanicHandler installs a callback invoked after a handler panic has been
// recovered.
func WithPanicHandler(h PanicHandler) Option {
	return func(b *Bus) { b.panicHandler = h }
}

// NewBus returns an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{registry: newRegistry()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ Publisher = (*Bus)(nil)

// Publish delivers the event to every matching subscription, synchronously
// and in order, and returns when the last handler has run.
//
// The event may be an Envelope or any value implementing TopicProvider; other
// values are rejected with ErrInvalidEvent. Handler errors and panics are
// counted but never interrupt delivery; Publish reports only whether the
// event itself was publishable.
func (b *Bus) Publish(ctx context.Context, event any) error {
	env, err := envelopeOf(event)
	if err != nil {
		return err
	}
	subs := b.registry.match(env.Topic)
	if len(subs) == 0 {
		b.eventsPublished.Add(1)
		return nil
	}

	b.eventsPublished.Add(1)
	for _, sub := range subs {
		if !sub.shouldDeliver(env) {
			continue
		}
		b.handlersExecuted.Add(1)
		err := b.invoke(ctx, env, sub)
		switch {
		case err == nil:
			b.eventsDelivered.Add(1)
		case errors.Is(err, ErrHandlerPanic):
			// Counted by invoke.
		default:
			b.handlerErrors.Add(1)
		}
		if sub.config.Once && err == nil {
			sub.Cancel()
			b.registry.remove(sub.ID())
		}
	}
	return nil
}

// invoke runs one handler with panic recovery.
func (b *Bus) invoke(ctx context.Context, env Envelope, sub *Subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = &PanicError{
				SubscriptionID: sub.ID(),
				Topic:          env.Topic,
				Value:          r,
				Stack:          string(debug.Stack()),
			}
			if b.panicHandler != nil {
				b.panicHandler(env, sub, r)
			}
		}
	}()
	return sub.handler.Handle(ctx, env)
}

// Subscribe registers a handler for a topic pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !patternValid(pattern) {
		return nil, ErrInvalidTopic
	}
	sub := newSubscription(newEventID(), pattern, handler, opts...)
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc registers a function handler for a topic pattern.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		EventsPublished:     b.eventsPublished.Load(),
		EventsDelivered:     b.eventsDelivered.Load(),
		HandlersExecuted:    b.handlersExecuted.Load(),
		HandlerErrors:       b.handlerErrors.Load(),
		HandlerPanics:       b.handlerPanics.Load(),
		ActiveSubscriptions: b.registry.countActive(),
	}
}

// envelopeOf normalizes a published value into an envelope.
func envelopeOf(event any) (Envelope, error) {
	switch ev := event.(type) {
	case Envelope:
		if !ev.Topic.IsValid() {
			return Envelope{}, ErrInvalidEvent
		}
		if ev.Metadata.ID == "" {
			ev.Metadata = NewMetadata(ev.Metadata.Source)
		}
		return ev, nil
	case TopicProvider:
		t := ev.EventTopic()
		if !t.IsValid() {
			return Envelope{}, ErrInvalidEvent
		}
		return Envelope{Topic: t, Payload: event, Metadata: NewMetadata("")}, nil
	default:
		return Envelope{}, ErrInvalidEvent
	}
}

// patternValid accepts valid topics whose segments may also be wildcards.
func patternValid(pattern Topic) bool {
	if pattern == "" {
		return false
	}
	for _, seg := range pattern.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}
