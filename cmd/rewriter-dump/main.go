// Package main provides a CLI for inspecting what the rewriter sees and does.
//
// Usage:
//
//	rewriter-dump lower <units.json>          # Lowered file intentions, no passes
//	rewriter-dump run <units.json>            # Final collection after every pass
//	rewriter-dump fingerprint <units.json>    # Per-body and collection hashes
//	rewriter-dump history <audit.db> [run-id] [tag]
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mehulgecg/SwiftRewriter/pkg/audit"
	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewriter"
	"github.com/mehulgecg/SwiftRewriter/pkg/unitjson"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch command := os.Args[1]; command {
	case "lower":
		err = withFile(cmdLower)
	case "run":
		err = withFile(cmdRun)
	case "fingerprint":
		err = withFile(cmdFingerprint)
	case "history":
		err = withFile(func(db string) error { return cmdHistory(db, os.Args[3:]) })
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func withFile(fn func(string) error) error {
	if len(os.Args) < 3 {
		printUsage()
		return fmt.Errorf("missing file argument")
	}
	return fn(os.Args[2])
}

func printUsage() {
	fmt.Println(`rewriter-dump - inspect rewriter input, output and history

Usage:
  rewriter-dump lower <units.json>                   Lowered intentions before any pass
  rewriter-dump run <units.json>                     Final collection after every pass
  rewriter-dump fingerprint <units.json>             Hash of every body and of the collection
  rewriter-dump history <audit.db> [run-id] [tag]    Recorded runs, or one run's events
  rewriter-dump help                                 Show this help message

Examples:
  rewriter-dump lower A.json
  rewriter-dump run A.json | less
  rewriter-dump history audit.db 1b4e28ba-2fa1-11d2-883f-0016d3cca427 TypeMerge`)
}

func load(filename string) ([]frontend.Source, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return unitjson.Split(filename, data)
}

// cmdLower lowers each unit on its own and prints it with its diagnostics.
func cmdLower(filename string) error {
	srcs, err := load(filename)
	if err != nil {
		return err
	}
	p := unitjson.Parser{}
	var b strings.Builder
	for _, src := range srcs {
		f, diags, err := p.Parse(src)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Path, err)
		}
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d)
		}
		intention.DumpFile(&b, f)
	}
	fmt.Print(b.String())
	return nil
}

func translate(filename string) (*rewriter.Result, error) {
	srcs, err := load(filename)
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	opts, err := rewriter.FromConfig(cfg, unitjson.Parser{DeclarationExts: cfg.DeclarationExts}, logging.New(logging.LevelWarning, os.Stderr))
	if err != nil {
		return nil, err
	}
	rw, err := rewriter.New(opts)
	if err != nil {
		return nil, err
	}
	res, err := rw.Run(srcs)
	if err != nil {
		return nil, err
	}
	for _, d := range res.Diagnostics() {
		fmt.Fprintln(os.Stderr, d)
	}
	for _, se := range res.Errors {
		fmt.Fprintf(os.Stderr, "step aborted: %v\n", se)
	}
	return res, nil
}

// cmdRun prints the final collection with every file's history.
func cmdRun(filename string) error {
	res, err := translate(filename)
	if err != nil {
		return err
	}
	fmt.Print(intention.Dump(res.Collection))
	for _, f := range res.Collection.Files() {
		if s := f.History().Summary(); s != "" {
			fmt.Printf("\nhistory %s\n%s\n", f.TargetPath, s)
		}
	}
	return nil
}

// cmdFingerprint prints one hash per body, then the collection hash. Two runs
// that print the same lines produced the same output.
func cmdFingerprint(filename string) error {
	res, err := translate(filename)
	if err != nil {
		return err
	}
	for _, f := range res.Collection.Files() {
		f.Bodies(func(label string, body *ir.Tree) {
			fmt.Printf("%016x  %s:%s\n", body.Fingerprint(), f.TargetPath, label)
		})
	}
	fmt.Printf("%016x  collection\n", res.Fingerprint)
	return nil
}

// cmdHistory lists recorded runs, or the events of one run.
func cmdHistory(db string, args []string) error {
	store, err := audit.Open(db)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		runs, err := store.Runs()
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  units=%d failed=%d errors=%d  %016x\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Units, r.Failed, r.Errors, r.Fingerprint)
		}
		return nil
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	if _, err := store.LoadRun(id); err != nil {
		return err
	}
	tag := ""
	if len(args) > 1 {
		tag = args[1]
	}
	entries, err := store.Events(id, tag)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-28s [%s] %s\n", e.File, e.Owner, e.Tag, e.Description)
	}
	return nil
}
