// rewriter - semantic core of the Objective-C to Swift translator
//
// Reads parser output as JSON unit documents, merges declarations, runs the
// configured passes and writes the final collection as JSON for the emitter.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mehulgecg/SwiftRewriter/pkg/audit"
	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewriter"
	"github.com/mehulgecg/SwiftRewriter/pkg/unitjson"
)

var (
	configPath = flag.String("config", "", "TOML configuration file")
	logLevel   = flag.String("log-level", "", "silent, error, warning, info or debug (overrides config)")
	outPath    = flag.String("out", "", "write the collection here instead of stdout")
	watch      = flag.Bool("watch", false, "re-run whenever an input file changes")
	noColor    = flag.Bool("no-color", false, "disable colored output")
	version    = flag.Bool("version", false, "print version and exit")
)

const versionStr = "0.3.0"

// settle absorbs the burst of events editors produce for a single save.
const settle = 200 * time.Millisecond

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rewriter - Objective-C to Swift semantic core\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  rewriter [options] units.json... > collection.json\n")
		fmt.Fprintf(os.Stderr, "  objc-parser A.h A.m | rewriter > collection.json\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("rewriter version %s\n", versionStr)
		os.Exit(0)
	}
	if *noColor {
		logging.DisableColor()
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		if !logging.ValidLevel(*logLevel) {
			fmt.Fprintf(os.Stderr, "Error: unknown log level %q\n", *logLevel)
			os.Exit(1)
		}
		cfg.LogLevel = *logLevel
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	opts, err := rewriter.FromConfig(cfg, unitjson.Parser{DeclarationExts: cfg.DeclarationExts}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.AuditDB != "" {
		store, err := audit.Open(cfg.AuditDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Audit = store
	}
	rw, err := rewriter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	inputs := flag.Args()
	if *watch {
		if len(inputs) == 0 {
			fmt.Fprintf(os.Stderr, "Error: -watch needs input files\n")
			os.Exit(1)
		}
		if err := watchAndRun(rw, inputs, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ok, err := runOnce(rw, inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(2)
	}
}

// runOnce translates the inputs and writes the result. It reports whether
// every unit translated cleanly.
func runOnce(rw *rewriter.Rewriter, inputs []string) (bool, error) {
	srcs, err := readSources(inputs)
	if err != nil {
		return false, err
	}
	res, err := rw.Run(srcs)
	if err != nil {
		return false, err
	}

	logging.PrintDiagnostics(os.Stderr, frontend.Messages(res.Diagnostics()))
	for _, se := range res.Errors {
		fmt.Fprintf(os.Stderr, "Error: %v\n", se)
	}

	out, err := unitjson.Encode(res.Collection)
	if err != nil {
		return false, fmt.Errorf("encoding collection: %w", err)
	}
	if err := writeOutput(out); err != nil {
		return false, err
	}

	files := len(res.Collection.Files())
	if res.OK() {
		logging.PrintSummary(os.Stderr, true, fmt.Sprintf("%d units, %d files, %d rewrites", len(res.Units), files, res.Changes))
	} else {
		logging.PrintSummary(os.Stderr, false, fmt.Sprintf("%d of %d units failed, %d steps aborted", res.FailedUnits(), len(res.Units), len(res.Errors)))
	}
	return res.OK(), nil
}

func readSources(inputs []string) ([]frontend.Source, error) {
	if len(inputs) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("no input provided")
		}
		return unitjson.Split("stdin", data)
	}
	var srcs []frontend.Source
	for _, name := range inputs {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		part, err := unitjson.Split(name, data)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, part...)
	}
	return srcs, nil
}

func writeOutput(data []byte) error {
	if *outPath == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(*outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// watchAndRun runs once, then again after every change to an input. The
// directories are watched rather than the files so saves that replace a file
// are still seen.
func watchAndRun(rw *rewriter.Rewriter, inputs []string, log *logging.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, name := range inputs {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	rerun := func() {
		if _, err := runOnce(rw, inputs); err != nil {
			log.Error("watch.run", "err", err)
		}
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("watch.event", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(settle)
		case <-pending:
			pending = nil
			rerun()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch.error", "err", err)
		}
	}
}
