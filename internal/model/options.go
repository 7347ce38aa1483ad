package model

import "github.com/vellumlab/vellum/internal/event"

// Option configures a Surface.
type Option func(*Surface)

// WithPublisher sets the publisher surface events are delivered to. The
// default publisher discards everything.
func WithPublisher(p event.Publisher) Option {
	return func(s *Surface) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithHistoryLimit bounds the undo stack. Values below one keep
// DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(s *Surface) {
		if n > 0 {
			s.hist.limit = n
		}
	}
}

// WithEventSource sets the source recorded in event metadata. The
// default is "surface".
func WithEventSource(source string) Option {
	return func(s *Surface) {
		if source != "" {
			s.source = source
		}
	}
}
