package session

import (
	"context"

	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
)

// subscribeObservers registers the logging observers. They run at low
// priority so subscribers carrying state see each event first.
func (s *Session) subscribeObservers() error {
	handlers := []struct {
		pattern event.Topic
		fn      event.HandlerFunc
	}{
		{events.TopicSurfaceTransact, s.logTransact},
		{events.TopicSurfaceSelect, s.logSelect},
		{events.TopicSurfaceHistory, s.logHistory},
		{events.TopicConfigChanged, s.logConfigChanged},
		{"session.*", s.logSession},
	}

	for _, h := range handlers {
		sub, err := s.bus.SubscribeFunc(h.pattern, h.fn, event.WithPriority(event.PriorityLow))
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// unsubscribeObservers detaches everything subscribeObservers added.
// Safe to call more than once.
func (s *Session) unsubscribeObservers() {
	for _, sub := range s.subs {
		_ = s.bus.Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *Session) logTransact(_ context.Context, env event.Envelope) error {
	p, ok := env.Payload.(events.Transact)
	if !ok {
		return nil
	}
	consumed, produced := p.Transaction.Lengths()
	s.log.WithComponent("surface").WithFields(map[string]any{
		"ops":      len(p.Transaction.Operations()),
		"consumed": consumed,
		"produced": produced,
		"reversed": p.Reversed,
	}).Debug("transaction applied")
	return nil
}

func (s *Session) logSelect(_ context.Context, env event.Envelope) error {
	p, ok := env.Payload.(events.Select)
	if !ok {
		return nil
	}
	s.log.WithComponent("surface").Debug("selection moved to [%d, %d)", p.Selection.From, p.Selection.To)
	return nil
}

func (s *Session) logHistory(_ context.Context, env event.Envelope) error {
	p, ok := env.Payload.(events.History)
	if !ok {
		return nil
	}
	s.log.WithComponent("surface").WithFields(map[string]any{
		"undo": p.UndoDepth,
		"redo": p.RedoDepth,
	}).Debug("history %s", p.Action)
	return nil
}

func (s *Session) logConfigChanged(_ context.Context, env event.Envelope) error {
	p, ok := env.Payload.(events.ConfigChanged)
	if !ok {
		return nil
	}
	s.log.WithComponent("config").Info("configuration reloaded from %s", p.Path)
	return nil
}

func (s *Session) logSession(_ context.Context, env event.Envelope) error {
	switch p := env.Payload.(type) {
	case events.SessionOpened:
		l := s.log.WithField("session", p.SessionID)
		if p.DocumentPath != "" {
			l = l.WithField("document", p.DocumentPath)
		}
		l.Info("session opened")
	case events.SessionClosed:
		s.log.WithField("session", p.SessionID).Info("session closed")
	}
	return nil
}
