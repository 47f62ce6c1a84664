package rewriter_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/mehulgecg/SwiftRewriter/pkg/audit"
	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/intentpass"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewrite"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewriter"
	"github.com/mehulgecg/SwiftRewriter/pkg/unitjson"
)

const testdataDir = "../../testdata"

func loadSources(t *testing.T, name string) []frontend.Source {
	t.Helper()
	path := filepath.Join(testdataDir, name, "input.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read input.json: %v", err)
	}
	srcs, err := unitjson.Split(path, data)
	if err != nil {
		t.Fatalf("Failed to split units: %v", err)
	}
	return srcs
}

func defaultOptions(t *testing.T) rewriter.Options {
	t.Helper()
	opts, err := rewriter.FromConfig(config.Default(), unitjson.Parser{}, nil)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	return opts
}

func run(t *testing.T, opts rewriter.Options, srcs []frontend.Source) *rewriter.Result {
	t.Helper()
	rw, err := rewriter.New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := rw.Run(srcs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return res
}

func TestRewriterAcceptance(t *testing.T) {
	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		testName := entry.Name()
		t.Run(testName, func(t *testing.T) {
			res := run(t, defaultOptions(t), loadSources(t, testName))
			if !res.OK() {
				t.Fatalf("run failed: diagnostics %v, errors %v", res.Diagnostics(), res.Errors)
			}

			expectedData, err := os.ReadFile(filepath.Join(testdataDir, testName, "expected.txt"))
			if err != nil {
				t.Fatalf("Failed to read expected.txt: %v", err)
			}

			expected := string(expectedData)
			actual := intention.Dump(res.Collection)
			if normalizeWhitespace(actual) != normalizeWhitespace(expected) {
				t.Errorf("Rewritten collection does not match expected.\n\n=== EXPECTED ===\n%s\n\n=== ACTUAL ===\n%s", expected, actual)
			}
		})
	}
}

func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func TestDeterministicAcrossWorkerCounts(t *testing.T) {
	srcs := loadSources(t, "merge_declarations")
	var want uint64
	for i, workers := range []int{1, 4, 1, 8} {
		opts := defaultOptions(t)
		opts.Workers = workers
		res := run(t, opts, srcs)
		if i == 0 {
			want = res.Fingerprint
			continue
		}
		if res.Fingerprint != want {
			t.Errorf("workers=%d: fingerprint %016x, want %016x", workers, res.Fingerprint, want)
		}
	}
}

// faultingPass renames the first statement's kind-specific payload and then
// breaks a structural rule, so a failed step has something to undo.
type faultingPass struct{}

func (faultingPass) Name() string { return "Faulting" }

func (faultingPass) Apply(ctx *rewrite.Context, t *ir.Tree) bool {
	first := t.Child(t.Root(), 0)
	t.Node(first).Name = "clobbered"
	t.Replace(t.Root(), first)
	return true
}

func TestSyntaxFaultRestoresFile(t *testing.T) {
	srcs := loadSources(t, "foundation_rewrites")
	before := intention.Dump(run(t, defaultOptions(t), srcs).Collection)

	opts := defaultOptions(t)
	opts.SyntaxPasses = append(opts.SyntaxPasses, func() rewrite.Pass { return faultingPass{} })
	res := run(t, opts, srcs)

	if len(res.Errors) != 1 {
		t.Fatalf("got %d step errors, want 1: %v", len(res.Errors), res.Errors)
	}
	serr := res.Errors[0]
	if serr.Step != rewriter.StepSyntax || serr.Pass != "Faulting" || serr.Unit != "Main.m" || serr.Body != "run" {
		t.Errorf("step error = %+v", serr)
	}
	if f := serr.Fault(); f == nil || f.Op != "Replace" {
		t.Errorf("fault = %v", f)
	}
	if !strings.Contains(serr.Error(), "Main.m (run): syntax pass Faulting") {
		t.Errorf("message = %q", serr.Error())
	}

	// The whole step is undone, including what earlier passes rewrote.
	after := intention.Dump(res.Collection)
	if strings.Contains(after, "clobbered") {
		t.Error("faulting pass changes survived")
	}
	if after == before {
		t.Error("aborted step should leave the bodies as they were before syntax passes")
	}
	if !strings.Contains(after, "alloc") {
		t.Errorf("expected the pre-step body, got:\n%s", after)
	}
}

type panickingPass struct{}

func (panickingPass) Name() string { return "Panicking" }

// Apply leaves edits behind before it faults.
func (panickingPass) Apply(ctx *intentpass.Context) bool {
	f := ctx.Collection.Files()[0]
	f.AddImport("Partial")
	f.RemoveFunctions(func(*intention.GlobalFunction) bool { return true })
	ctx.Collection.AddFile(intention.NewFile("Stray.m", "Stray.swift"))
	panic(&ir.Fault{Op: "Test", Detail: "boom"})
}

func TestIntentionFaultIsContained(t *testing.T) {
	opts := defaultOptions(t)
	opts.IntentionPasses = append([]intentpass.Constructor{func() intentpass.Pass { return panickingPass{} }}, opts.IntentionPasses...)
	res := run(t, opts, loadSources(t, "foundation_rewrites"))

	if len(res.Errors) != 1 || res.Errors[0].Step != rewriter.StepIntention || res.Errors[0].Unit != "" {
		t.Fatalf("errors = %v", res.Errors)
	}
	var fault *ir.Fault
	if !errors.As(res.Errors[0], &fault) || fault.Detail != "boom" {
		t.Errorf("fault = %v", fault)
	}
	// The faulted pass's edits are gone and later passes still ran.
	files := res.Collection.Files()
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if imports := files[0].Imports; len(imports) != 1 || imports[0] != "UIKit" {
		t.Errorf("imports = %v", imports)
	}
	if fns := files[0].Functions(); len(fns) != 1 || fns[0].Name() != "run" || fns[0].File() != files[0] {
		t.Errorf("functions = %v", fns)
	}
	if err := res.Collection.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseFailureKeepsOtherUnits(t *testing.T) {
	srcs := append(loadSources(t, "swiftify_signatures"), frontend.Source{Path: "Broken.m", Data: []byte("{")})
	res := run(t, defaultOptions(t), srcs)

	if res.OK() || res.FailedUnits() != 1 {
		t.Fatalf("failed units = %d", res.FailedUnits())
	}
	files := res.Collection.Files()
	if len(files) != 2 || files[0].SourcePath != "Widget.m" || files[1].SourcePath != "Broken.m" {
		t.Fatalf("files = %v", files)
	}
	if len(files[0].Types()[0].Inits()) != 1 {
		t.Error("healthy unit was not rewritten")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.SyntaxPasses = []string{"Simplifier", "Nope"}
	if _, err := rewriter.FromConfig(cfg, unitjson.Parser{}, nil); !errors.Is(err, config.ErrUnknownPass) {
		t.Errorf("err = %v, want ErrUnknownPass", err)
	}

	opts := defaultOptions(t)
	if len(opts.SyntaxPasses) != len(rewrite.DefaultOrder) || len(opts.IntentionPasses) != len(intentpass.DefaultOrder) {
		t.Errorf("passes = %d syntax, %d intention", len(opts.SyntaxPasses), len(opts.IntentionPasses))
	}
	if _, err := rewriter.New(rewriter.Options{}); err == nil {
		t.Error("New without a parser should fail")
	}
}

func TestAuditStoreReceivesRun(t *testing.T) {
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	opts := defaultOptions(t)
	opts.Audit = store
	res := run(t, opts, loadSources(t, "merge_declarations"))

	got, err := store.LoadRun(res.RunID)
	if err != nil {
		t.Fatalf("LoadRun() error = %v", err)
	}
	if got.Units != 2 || got.Fingerprint != res.Fingerprint {
		t.Errorf("run = %+v", got)
	}
	events, err := store.Events(res.RunID, "TypeMerge")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Error("merge events were not stored")
	}
}
