package event

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Envelope is the unit of delivery: a topic, a type-erased payload and
// standard metadata. Handlers receive envelopes and type-assert the payload.
type Envelope struct {
	// Topic is the event name.
	Topic Topic

	// Payload is the event-specific data.
	Payload any

	// Metadata is standard information about this event instance.
	Metadata Metadata
}

// Metadata is attached to every delivered event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewMetadata returns metadata with a fresh ID and the current time.
func NewMetadata(source string) Metadata {
	return Metadata{
		ID:        newEventID(),
		Timestamp: time.Now(),
		Source:    source,
	}
}

// TopicProvider is implemented by payload types that know their topic.
// Publishing such a payload directly wraps it in an envelope.
type TopicProvider interface {
	EventTopic() Topic
}

// Publisher is the write side of the bus. Components that only emit events
// depend on this instead of the full Bus.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// NopPublisher discards everything published to it. It backs standalone
// components that were built without a bus.
type NopPublisher struct{}

// Publish implements Publisher and does nothing.
func (NopPublisher) Publish(context.Context, any) error { return nil }

var _ Publisher = NopPublisher{}

// newEventID returns a random 32-char hex ID.
func newEventID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Degrade to a time-derived ID rather than fail delivery.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
