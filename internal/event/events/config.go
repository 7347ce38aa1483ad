package events

import "github.com/vellumlab/vellum/internal/event"

// Config event topics.
const (
	// TopicConfigChanged is published when the configuration file is
	// reloaded after an on-disk change.
	TopicConfigChanged event.Topic = "config.changed"
)

// ConfigChanged is published when the configuration has been reloaded.
type ConfigChanged struct {
	// Path is the configuration file that changed.
	Path string
}

// EventTopic implements event.TopicProvider.
func (ConfigChanged) EventTopic() event.Topic { return TopicConfigChanged }
