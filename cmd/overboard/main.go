// Package main is the entry point for the Overboard keyboard simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/logging"
	"github.com/dshills/overboard/internal/renderer/backend"
	"github.com/dshills/overboard/internal/sim"
	"github.com/dshills/overboard/internal/timeline"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	LogPath    string
	LogLevel   string
	TraceDir   string
	ScriptPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.TraceDir != "" {
		cfg.Trace.Dir = opts.TraceDir
	}
	if opts.ScriptPath != "" {
		cfg.Script.Path = opts.ScriptPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// The terminal owns stderr while the simulator runs, so logs only go
	// to a file.
	logger := logging.Null
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.Logging.Level),
			Output: f,
			Prefix: "overboard",
		})
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := timeline.NewLoop(0)
	defer loop.Close()
	go func() { _ = loop.Run(ctx) }()

	s, err := sim.New(term, loop, layout.QWERTY(), sim.WithConfig(cfg), sim.WithLogger(logger))
	if err != nil {
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer s.Close()

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, func(c config.Config) {
			if opts.TraceDir != "" {
				c.Trace.Dir = opts.TraceDir
			}
			if opts.ScriptPath != "" {
				c.Script.Path = opts.ScriptPath
			}
			if err := s.Configure(c); err != nil {
				logger.Warn("configuration rejected: %v", err)
				return
			}
			logger.SetLevel(logging.ParseLevel(c.Logging.Level))
		}, config.WithLogger(logger))
		if err != nil {
			logger.Warn("config watcher disabled: %v", err)
		} else {
			go func() { _ = w.Run(ctx) }()
		}
	}

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (watched for changes)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogPath, "log", "", "Append logs to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.TraceDir, "trace-dir", "", "Directory for recorded touch traces")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script hooking key output")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Overboard - multi-touch keyboard simulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: overboard [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEach mouse button is one finger; drag to swipe towards a corner label.\n")
		fmt.Fprintf(os.Stderr, "Ctrl-T records a trace, Ctrl-R reloads the script, Esc quits.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Overboard %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
