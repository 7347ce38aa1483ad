// Package event provides the synchronous publish/subscribe bus that carries
// model notifications to their observers.
//
// # Design
//
// Delivery is fully synchronous: Publish invokes every matching handler in
// the caller's goroutine and returns when the last one has run. There is no
// queue, no worker pool and no lifecycle to start or stop. Observers that
// need ordering can rely on it: handlers of equal priority run in
// subscription order, and an event published from inside a handler is fully
// delivered before the outer Publish continues.
//
// # Topics
//
// Events are addressed by hierarchical dot-separated topics such as
// "surface.transact". Subscription patterns may use "*" to match exactly one
// segment and "**" to match any number, so "surface.**" observes everything a
// surface emits.
//
// # Failure isolation
//
// A handler error or panic never stops delivery to later handlers. Panics are
// recovered, counted and reported to the bus's panic handler when one is
// configured.
package event
