package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vellumlab/vellum/internal/config"
	"github.com/vellumlab/vellum/internal/convert"
	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
	"github.com/vellumlab/vellum/internal/logging"
	"github.com/vellumlab/vellum/internal/model"
	"github.com/vellumlab/vellum/internal/model/document"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/schema"
	"github.com/vellumlab/vellum/internal/validate"
)

// Session is one wired editing session.
type Session struct {
	id        string
	bus       *event.Bus
	surface   *model.Surface
	registry  *schema.Registry
	converter *convert.Converter
	log       *logging.Logger
	docPath   string

	mu  sync.Mutex
	cfg config.Config

	schemaFile Availability[string]
	watcher    Availability[*config.Watcher]

	subs   []*event.Subscription
	closed atomic.Bool
}

type options struct {
	cfg     *config.Config
	cfgPath string
	watch   bool
	doc     *document.Document
	docPath string
	logger  *logging.Logger
}

// Option configures a session.
type Option func(*options)

// WithConfig uses cfg instead of loading a file. It wins over
// WithConfigPath for the configuration values; the path is still the
// watch target.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithConfigPath loads the configuration from the TOML file at path. A
// missing file means defaults.
func WithConfigPath(path string) Option {
	return func(o *options) { o.cfgPath = path }
}

// WithConfigWatch reloads the configuration when the file given to
// WithConfigPath changes. Without a path the watcher is reported
// unavailable.
func WithConfigWatch() Option {
	return func(o *options) { o.watch = true }
}

// WithDocument edits doc instead of loading one.
func WithDocument(doc *document.Document) Option {
	return func(o *options) { o.doc = doc }
}

// WithDocumentPath loads the document from the interchange JSON file at
// path. Validation on load follows the configuration.
func WithDocumentPath(path string) Option {
	return func(o *options) { o.docPath = path }
}

// WithLogger uses l instead of building a logger from the
// configuration.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New constructs and wires a session. Construction fails on a broken
// configuration file or an unloadable document; optional collaborators
// degrade to Availability results instead.
func New(opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:  uuid.NewString(),
		bus: event.NewBus(),
	}

	switch {
	case o.cfg != nil:
		if err := o.cfg.Validate(); err != nil {
			return nil, err
		}
		s.cfg = *o.cfg
	case o.cfgPath != "":
		cfg, err := config.Load(o.cfgPath)
		if err != nil {
			return nil, err
		}
		s.cfg = cfg
	default:
		s.cfg = config.Default()
	}

	if o.logger != nil {
		s.log = o.logger
	} else {
		s.log = logging.New(logging.Config{
			Level:  s.cfg.LogLevel(),
			Prefix: s.cfg.Log.Prefix,
		})
	}

	s.registry = schema.NewWithDefaults()
	s.schemaFile = Unavailable[string]("no schema file configured")
	if path := s.cfg.Schema.Path; path != "" {
		if err := schema.LoadFile(s.registry, path); err != nil {
			s.schemaFile = Unavailable[string](err.Error())
			s.log.Warn("schema file %s unusable, continuing with defaults: %v", path, err)
		} else {
			s.schemaFile = Ready(path)
		}
	}
	s.converter = convert.NewConverter(s.registry)

	doc := o.doc
	if doc == nil {
		if o.docPath != "" {
			loaded, err := s.loadDocument(o.docPath)
			if err != nil {
				return nil, err
			}
			doc = loaded
			s.docPath = o.docPath
		} else {
			doc = document.New(nil)
		}
	}

	s.surface = model.NewSurface(doc,
		model.WithPublisher(s.bus),
		model.WithHistoryLimit(s.cfg.History.MaxEntries),
		model.WithEventSource("session:"+s.id),
	)

	if err := s.subscribeObservers(); err != nil {
		return nil, err
	}

	s.watcher = Unavailable[*config.Watcher]("config watching not requested")
	if o.watch {
		s.watcher = s.startWatcher(o.cfgPath)
	}

	s.publish(events.SessionOpened{SessionID: s.id, DocumentPath: s.docPath})
	return s, nil
}

// loadDocument reads and decodes an interchange JSON file, validating
// per the configuration.
func (s *Session) loadDocument(path string) (*document.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	if s.cfg.Validation.Interchange {
		if err := validate.Interchange(raw); err != nil {
			return nil, fmt.Errorf("document %s: %w", path, err)
		}
	}

	var data linear.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", path, err)
	}
	if s.cfg.Validation.Enabled {
		if err := validate.Structure(data, validate.WithRegistry(s.registry)); err != nil {
			return nil, fmt.Errorf("document %s: %w", path, err)
		}
	}
	return document.New(data), nil
}

// startWatcher resolves the config watcher collaborator.
func (s *Session) startWatcher(path string) Availability[*config.Watcher] {
	if path == "" {
		return Unavailable[*config.Watcher]("no config path to watch")
	}
	w, err := config.Watch(path, s.applyConfig, config.WithWatchPublisher(s.bus))
	if err != nil {
		s.log.Warn("config watcher unavailable: %v", err)
		return Unavailable[*config.Watcher](err.Error())
	}
	return Ready(w)
}

// applyConfig takes a reloaded configuration. The history limit stays as
// constructed; only the stored config and the log level follow the file.
func (s *Session) applyConfig(cfg config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.log.SetLevel(cfg.LogLevel())
}

// publish sends a payload with this session as the event source.
func (s *Session) publish(p event.TopicProvider) {
	env := event.Envelope{
		Topic:    p.EventTopic(),
		Payload:  p,
		Metadata: event.NewMetadata("session:" + s.id),
	}
	_ = s.bus.Publish(context.Background(), env)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the current configuration.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Bus returns the session's event bus.
func (s *Session) Bus() *event.Bus { return s.bus }

// Surface returns the editing surface.
func (s *Session) Surface() *model.Surface { return s.surface }

// Registry returns the schema registry.
func (s *Session) Registry() *schema.Registry { return s.registry }

// Converter returns the tree converter bound to the registry.
func (s *Session) Converter() *convert.Converter { return s.converter }

// Logger returns the session logger.
func (s *Session) Logger() *logging.Logger { return s.log }

// DocumentPath returns the path the document was loaded from, if any.
func (s *Session) DocumentPath() string { return s.docPath }

// SchemaFile reports whether a custom schema file was merged into the
// registry.
func (s *Session) SchemaFile() Availability[string] { return s.schemaFile }

// ConfigWatcher reports whether the configuration file is being watched.
func (s *Session) ConfigWatcher() Availability[*config.Watcher] { return s.watcher }

// Close releases the watcher and the observer subscriptions. It is
// idempotent. The session closed event is published before the
// observers detach, so it is the last thing they log.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if w, ok := s.watcher.Value(); ok {
		err = w.Close()
	}
	s.publish(events.SessionClosed{SessionID: s.id})
	s.unsubscribeObservers()
	return err
}
