// Package events defines the typed payloads published on the Vellum event
// bus, together with their topic constants.
//
// Each payload implements event.TopicProvider, so a value can be handed to
// Publisher.Publish directly and the bus wraps it in an envelope:
//
//	bus.Publish(ctx, events.Select{Selection: sel})
//
// Payloads are grouped by their source:
//
//   - Surface events: transactions, selection moves, combined changes, history
//   - Config events: configuration reloads
//   - Session events: session lifecycle
//
// # Topic Naming Convention
//
// Topics follow hierarchical dot-notation, "<source>.<what>". Subscribers can
// match a whole source with a wildcard, for example "surface.*".
package events
