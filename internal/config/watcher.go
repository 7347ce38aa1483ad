package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
)

// DefaultDebounce spaces out reloads while editors write a file in
// several bursts.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the freshly parsed configuration after the
// watched file changes.
type ReloadFunc func(Config)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last file
// event before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchPublisher publishes a config.changed event after each
// successful reload.
func WithWatchPublisher(pub event.Publisher) WatcherOption {
	return func(w *Watcher) {
		if pub != nil {
			w.pub = pub
		}
	}
}

// Watcher observes a configuration file and reloads it on change.
//
// The parent directory is watched rather than the file itself, so
// atomic saves (write a temp file, rename it over the target) keep
// working after the original inode disappears. The file does not have
// to exist when watching starts; it is loaded once it appears.
//
// A file that fails to parse is skipped and the previous configuration
// stays in effect.
type Watcher struct {
	path     string
	fw       *fsnotify.Watcher
	reload   ReloadFunc
	pub      event.Publisher
	debounce time.Duration

	mu     sync.Mutex
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching the configuration file at path. reload is
// called with the parsed result after each debounced change.
func Watch(path string, reload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	if reload == nil {
		return nil, ErrNilReload
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		fw:       fw,
		reload:   reload,
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for the event loop to exit. A
// reload delivered before Close is always complete when Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.closeCh)
	w.wg.Wait()
	return w.fw.Close()
}

// processLoop collapses bursts of file events into a single reload per
// debounce window. Reloads run on this goroutine, so Close joins them.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true

		case <-timer.C:
			armed = false
			w.fire()

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}

		case <-w.closeCh:
			if armed {
				timer.Stop()
			}
			return
		}
	}
}

// relevant reports whether ev concerns the watched file. Remove and
// Rename matter because atomic saves replace the file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

func (w *Watcher) fire() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	w.reload(cfg)
	if w.pub != nil {
		_ = w.pub.Publish(context.Background(), events.ConfigChanged{Path: w.path})
	}
}
