// Package frontend parses translation units in parallel and hands them back
// in submission order. Parsing is the only concurrent stage of a run: each
// worker owns the file it produces, and nothing downstream starts until
// every worker has finished.
package frontend

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
)

// Source is one input unit.
type Source struct {
	Path string
	Data []byte
}

// Severity grades a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a problem found while parsing one unit. Diagnostics stay
// with their unit and never abort the batch.
type Diagnostic struct {
	Unit     string
	Severity Severity
	Message  string
	Line     int
	Col      int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Unit, d.Line, d.Col, d.Severity, d.Message)
}

// Parser turns a source into a file intention. It may return a partial file
// together with diagnostics; an error means nothing usable was produced.
// Parsers are called from several goroutines at once and must not share
// mutable state between calls.
type Parser interface {
	Parse(src Source) (*intention.File, []Diagnostic, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(src Source) (*intention.File, []Diagnostic, error)

func (f ParserFunc) Parse(src Source) (*intention.File, []Diagnostic, error) { return f(src) }

// Unit is the outcome of parsing one source.
type Unit struct {
	// Index is the submission order, assigned before dispatch.
	Index       int
	Source      string
	File        *intention.File
	Diagnostics []Diagnostic
}

// Failed reports whether the unit has error diagnostics.
func (u Unit) Failed() bool {
	for _, d := range u.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Frontend schedules parsing on a bounded worker pool.
type Frontend struct {
	parser  Parser
	workers int
	log     *logging.Logger
}

// New returns a front-end using p. Zero or negative workers means one per
// CPU.
func New(p Parser, workers int, log *logging.Logger) *Frontend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Frontend{parser: p, workers: workers, log: log}
}

// ParseAll parses every source and returns the units ordered by submission
// index, whatever order the workers finished in.
func (f *Frontend) ParseAll(srcs []Source) []Unit {
	f.log.Info("frontend.start", "units", len(srcs), "workers", f.workers)

	units := make([]Unit, len(srcs))
	g := new(errgroup.Group)
	g.SetLimit(f.workers)
	for i, src := range srcs {
		g.Go(func() error {
			units[i] = f.parseOne(i, src)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(units, func(a, b int) bool { return units[a].Index < units[b].Index })

	failed := 0
	for _, u := range units {
		if u.Failed() {
			failed++
			f.log.Warn("unit has errors", "unit", u.Source, "diagnostics", len(u.Diagnostics))
		}
	}
	f.log.Info("frontend.done", "units", len(units), "failed", failed)
	return units
}

// parseOne never fails: parse errors and parser panics become diagnostics,
// and a unit without a usable file gets an empty one.
func (f *Frontend) parseOne(index int, src Source) (u Unit) {
	u = Unit{Index: index, Source: src.Path}
	defer func() {
		if r := recover(); r != nil {
			u.Diagnostics = append(u.Diagnostics, Diagnostic{
				Unit: src.Path, Severity: SeverityError, Message: fmt.Sprintf("parser panic: %v", r),
			})
			u.File = nil
		}
		if u.File == nil {
			u.File = intention.NewFile(src.Path, intention.TargetPath(src.Path))
		}
		u.File.Index = index
	}()

	file, diags, err := f.parser.Parse(src)
	u.File = file
	u.Diagnostics = diags
	if err != nil {
		u.Diagnostics = append(u.Diagnostics, Diagnostic{Unit: src.Path, Severity: SeverityError, Message: err.Error()})
	}
	for i := range u.Diagnostics {
		if u.Diagnostics[i].Unit == "" {
			u.Diagnostics[i].Unit = src.Path
		}
	}
	return u
}

// Collect gathers the units' files into a collection in submission order.
func Collect(units []Unit) *intention.Collection {
	c := intention.NewCollection()
	for _, u := range units {
		if u.File != nil {
			c.AddFile(u.File)
		}
	}
	c.SortByIndex()
	return c
}

// Diagnostics flattens the diagnostics of units in order.
func Diagnostics(units []Unit) []Diagnostic {
	var out []Diagnostic
	for _, u := range units {
		out = append(out, u.Diagnostics...)
	}
	return out
}

// Messages converts diagnostics for logging.PrintDiagnostics.
func Messages(diags []Diagnostic) []logging.Message {
	out := make([]logging.Message, len(diags))
	for i, d := range diags {
		out[i] = logging.Message{
			Unit: d.Unit, IsError: d.Severity == SeverityError, Line: d.Line, Col: d.Col, Text: d.Message,
		}
	}
	return out
}
