// Package session wires one editing session together: configuration,
// event bus, schema registry, converter, surface and logging observers.
//
// A Session is the composition root the command line and embedders work
// against. Construction resolves everything up front; optional
// collaborators that cannot be set up are reported through Availability
// instead of failing the session, falling back to defaults:
//
//	s, err := session.New(
//		session.WithConfigPath("vellum.toml"),
//		session.WithDocumentPath("doc.json"),
//	)
//	...
//	defer s.Close()
//	s.Surface().Change(tx)
//
// The session subscribes logging observers to the surface, config and
// session topics at low priority, so scripted or programmatic edits leave
// a trace without any caller involvement.
package session
