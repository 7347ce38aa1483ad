package events

import "github.com/vellumlab/vellum/internal/event"

// Session event topics.
const (
	// TopicSessionOpened is published when an editing session is created.
	TopicSessionOpened event.Topic = "session.opened"

	// TopicSessionClosed is published when an editing session shuts down.
	TopicSessionClosed event.Topic = "session.closed"
)

// SessionOpened is published when a session is created.
type SessionOpened struct {
	// SessionID is the unique identifier of the session.
	SessionID string

	// DocumentPath is the file the session was opened on, or empty for an
	// in-memory document.
	DocumentPath string
}

// EventTopic implements event.TopicProvider.
func (SessionOpened) EventTopic() event.Topic { return TopicSessionOpened }

// SessionClosed is published when a session shuts down.
type SessionClosed struct {
	// SessionID is the unique identifier of the session.
	SessionID string
}

// EventTopic implements event.TopicProvider.
func (SessionClosed) EventTopic() event.Topic { return TopicSessionClosed }
