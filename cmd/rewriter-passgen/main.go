// rewriter-passgen renders a Go file that compiles a pass order into a
// binary, from the same TOML configuration the rewriter reads.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/passgen"
)

var (
	configPath = flag.String("config", "", "TOML configuration file (default: built-in pass order)")
	pkgName    = flag.String("package", "pipeline", "package name of the generated file")
	outPath    = flag.String("out", "", "write the file here instead of stdout")
	dryRun     = flag.Bool("dry-run", false, "validate and report without writing")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rewriter-passgen - generate a pass registration file\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  rewriter-passgen [options] > passes_gen.go\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	code, err := passgen.Generate(*pkgName, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Fprintf(os.Stderr, "Dry run - would generate %d bytes for %d syntax and %d intention passes\n",
			len(code), len(cfg.SyntaxPasses), len(cfg.IntentionPasses))
		return
	}
	if *outPath == "" {
		os.Stdout.Write(code)
		return
	}
	if err := os.WriteFile(*outPath, code, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
