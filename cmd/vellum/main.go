// Package main is the entry point for the vellum document tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/vellumlab/vellum/internal/config"
	"github.com/vellumlab/vellum/internal/event"
	"github.com/vellumlab/vellum/internal/event/events"
	"github.com/vellumlab/vellum/internal/logging"
	"github.com/vellumlab/vellum/internal/model/linear"
	"github.com/vellumlab/vellum/internal/script"
	"github.com/vellumlab/vellum/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	docPath     string
	journalPath string
	scriptPath  string
	configPath  string
	outPath     string
	validate    bool
	tree        bool
	verbose     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			fail("%v", err)
			return 1
		}
		cfg = loaded
	}

	level := cfg.LogLevel()
	if opts.verbose {
		level = logging.LevelDebug
	}
	log := logging.New(logging.Config{Level: level, Prefix: cfg.Log.Prefix})

	if opts.validate {
		return runValidate(cfg, opts.docPath)
	}

	sessOpts := []session.Option{
		session.WithConfig(cfg),
		session.WithLogger(log),
	}
	if opts.docPath != "" {
		sessOpts = append(sessOpts, session.WithDocumentPath(opts.docPath))
	}

	s, err := session.New(sessOpts...)
	if err != nil {
		fail("%v", err)
		return 1
	}
	defer s.Close()

	c, err := subscribeCounters(s.Bus())
	if err != nil {
		fail("%v", err)
		return 1
	}

	if opts.journalPath != "" {
		if err := applyJournal(s, opts.journalPath); err != nil {
			fail("%v", err)
			return 1
		}
	}
	if opts.scriptPath != "" {
		if err := runScript(s, opts.scriptPath); err != nil {
			fail("%v", err)
			return 1
		}
	}

	if err := writeDocument(s, opts); err != nil {
		fail("%v", err)
		return 1
	}

	c.report(s, opts.verbose)
	return 0
}

// runScript drives the surface from a Lua file.
func runScript(s *session.Session, path string) error {
	host, err := script.NewHost(s.Surface())
	if err != nil {
		return err
	}
	defer host.Close()
	return host.Run(path)
}

// writeDocument emits the resulting document as interchange JSON, or as
// an element tree with -tree, to stdout or the -out file.
func writeDocument(s *session.Session, opts options) error {
	doc := s.Surface().Document()

	var out []byte
	var err error
	if opts.tree {
		out, err = s.Converter().ToJSON(doc.Data())
	} else {
		out, err = json.Marshal(doc.Data())
	}
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	out = append(out, '\n')

	if opts.outPath != "" {
		return os.WriteFile(opts.outPath, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// counters tallies surface activity for the closing summary.
type counters struct {
	transactions int
	reversed     int
	selections   int
	changes      int
}

func subscribeCounters(bus *event.Bus) (*counters, error) {
	c := &counters{}

	handlers := map[event.Topic]event.HandlerFunc{
		events.TopicSurfaceTransact: func(_ context.Context, env event.Envelope) error {
			c.transactions++
			if p, ok := env.Payload.(events.Transact); ok && p.Reversed {
				c.reversed++
			}
			return nil
		},
		events.TopicSurfaceSelect: func(_ context.Context, _ event.Envelope) error {
			c.selections++
			return nil
		},
		events.TopicSurfaceChange: func(_ context.Context, _ event.Envelope) error {
			c.changes++
			return nil
		},
	}
	for topic, fn := range handlers {
		if _, err := bus.SubscribeFunc(topic, fn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// report prints the colored summary to stderr, leaving stdout to the
// document itself.
func (c *counters) report(s *session.Session, verbose bool) {
	doc := s.Surface().Document()
	whole := linear.NewRange(0, doc.Len())

	color.New(color.FgGreen).Fprintf(color.Error,
		"%d transactions applied (%d reversed), %d selection moves\n",
		c.transactions, c.reversed, c.selections)
	color.New(color.FgCyan).Fprintf(color.Error,
		"document: %d items, %d content units\n",
		doc.Len(), doc.CountContent(whole))

	if verbose {
		stats := s.Bus().Stats()
		color.New(color.FgYellow).Fprintf(color.Error,
			"events: %d published, %d delivered, %d handler errors\n",
			stats.EventsPublished, stats.EventsDelivered, stats.HandlerErrors)
	}
}

func fail(format string, args ...any) {
	color.New(color.FgRed).Fprintf(color.Error, "vellum: "+format+"\n", args...)
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.docPath, "doc", "", "Document to load (interchange JSON)")
	flag.StringVar(&opts.journalPath, "journal", "", "Transaction journal to apply (JSON list)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua script to run against the document")
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML)")
	flag.StringVar(&opts.outPath, "out", "", "Write the resulting document here instead of stdout")
	flag.BoolVar(&opts.validate, "validate", false, "Validate the document and exit")
	flag.BoolVar(&opts.tree, "tree", false, "Emit the element tree form instead of the linear form")
	flag.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging and event statistics")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Vellum - linear document model tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vellum [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vellum -doc doc.json                      Echo a document through the model\n")
		fmt.Fprintf(os.Stderr, "  vellum -doc doc.json -journal edits.json  Apply a transaction journal\n")
		fmt.Fprintf(os.Stderr, "  vellum -doc doc.json -script edit.lua     Drive edits from Lua\n")
		fmt.Fprintf(os.Stderr, "  vellum -doc doc.json -validate            Validate and report\n")
		fmt.Fprintf(os.Stderr, "  vellum -doc doc.json -tree                Emit the element tree form\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Vellum %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
