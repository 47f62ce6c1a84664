// Package rewriter drives one translation run: parse every unit in
// parallel, then merge declarations and run intention passes over the whole
// collection, then run syntax-node passes over each file's bodies. Only the
// parse stage is concurrent.
package rewriter

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mehulgecg/SwiftRewriter/pkg/audit"
	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/intentpass"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewrite"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

// Options configures a Rewriter. Pass lists hold constructors so every run
// gets fresh pass instances.
type Options struct {
	Parser          frontend.Parser
	Workers         int
	IterationCap    int
	SyntaxPasses    []rewrite.Constructor
	IntentionPasses []intentpass.Constructor
	// DeclarationExts overrides the merge engine's declaration extensions.
	DeclarationExts []string
	Providers       []scope.GlobalsProvider
	// Audit, when set, receives every run's history trails.
	Audit *audit.Store
	Log   *logging.Logger
}

// FromConfig resolves the pass names and providers of cfg.
func FromConfig(cfg *config.Config, p frontend.Parser, log *logging.Logger) (Options, error) {
	opts := Options{
		Parser:          p,
		Workers:         cfg.Workers,
		IterationCap:    cfg.IterationCap,
		DeclarationExts: cfg.DeclarationExts,
		Providers:       cfg.GlobalsProviders(),
		Log:             log,
	}
	for _, name := range cfg.SyntaxPasses {
		c, ok := rewrite.Lookup(name)
		if !ok {
			return Options{}, errors.Wrapf(config.ErrUnknownPass, "syntax pass %q", name)
		}
		opts.SyntaxPasses = append(opts.SyntaxPasses, c)
	}
	for _, name := range cfg.IntentionPasses {
		c, ok := intentpass.Lookup(name)
		if !ok {
			return Options{}, errors.Wrapf(config.ErrUnknownPass, "intention pass %q", name)
		}
		opts.IntentionPasses = append(opts.IntentionPasses, c)
	}
	return opts, nil
}

// Rewriter runs the pipeline. It holds no per-run state and may be reused.
type Rewriter struct {
	opts Options
	log  *logging.Logger
}

// New returns a rewriter. A nil parser is an error; a nil log discards
// output.
func New(opts Options) (*Rewriter, error) {
	if opts.Parser == nil {
		return nil, errors.New("rewriter: no parser configured")
	}
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	return &Rewriter{opts: opts, log: log}, nil
}

// Result is the outcome of one run.
type Result struct {
	RunID      uuid.UUID
	Collection *intention.Collection
	Units      []frontend.Unit
	// Errors lists translation steps aborted by an internal fault. Each
	// aborted step left its input as it was before the step.
	Errors []*StepError
	// Changes counts syntax rule applications.
	Changes     int
	Fingerprint uint64
}

// Diagnostics returns the parse diagnostics of every unit in order.
func (r *Result) Diagnostics() []frontend.Diagnostic { return frontend.Diagnostics(r.Units) }

// FailedUnits counts units with error diagnostics.
func (r *Result) FailedUnits() int {
	n := 0
	for _, u := range r.Units {
		if u.Failed() {
			n++
		}
	}
	return n
}

// OK reports whether every unit parsed cleanly and no step faulted.
func (r *Result) OK() bool { return r.FailedUnits() == 0 && len(r.Errors) == 0 }

// Run translates srcs. Per-unit problems end up in the result; the error is
// reserved for failures outside the pipeline, such as the audit store.
func (r *Rewriter) Run(srcs []frontend.Source) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.New()}
	r.log.Info("rewriter.start", "run", res.RunID.String(), "units", len(srcs))

	t := time.Now()
	res.Units = frontend.New(r.opts.Parser, r.opts.Workers, r.log).ParseAll(srcs)
	res.Collection = frontend.Collect(res.Units)
	r.log.Info("pass.timing", "pass", "frontend", "elapsed", time.Since(t))

	ictx := intentpass.NewContext(res.Collection, r.log, r.opts.Providers...)
	for _, c := range r.opts.IntentionPasses {
		p := c()
		if m, ok := p.(*intentpass.FileTypeMerging); ok && len(r.opts.DeclarationExts) > 0 {
			m.Options.DeclarationExts = r.opts.DeclarationExts
		}
		t := time.Now()
		changed, err := r.intentionStep(ictx, p)
		if err != nil {
			res.Errors = append(res.Errors, err)
			r.log.Error("step aborted", "error", err.Error())
		}
		if changed || err != nil {
			ictx.Refresh()
		}
		r.log.Info("pass.timing", "pass", p.Name(), "changed", changed, "elapsed", time.Since(t))
	}

	t = time.Now()
	passes := make([]rewrite.Pass, len(r.opts.SyntaxPasses))
	for i, c := range r.opts.SyntaxPasses {
		passes[i] = c()
	}
	for _, f := range res.Collection.Files() {
		n, err := r.syntaxStep(passes, f)
		res.Changes += n
		if err != nil {
			res.Errors = append(res.Errors, err)
			r.log.Error("step aborted", "error", err.Error())
		}
	}
	r.log.Info("pass.timing", "pass", "syntax", "files", len(res.Collection.Files()), "changes", res.Changes, "elapsed", time.Since(t))

	res.Fingerprint = intention.Fingerprint(res.Collection)
	r.log.Info("rewriter.done",
		"run", res.RunID.String(),
		"fingerprint", fmt.Sprintf("%016x", res.Fingerprint),
		"failed", res.FailedUnits(),
		"errors", len(res.Errors),
		"elapsed", time.Since(start))

	if r.opts.Audit != nil {
		run := audit.Run{
			ID:          res.RunID,
			StartedAt:   start,
			Units:       len(res.Units),
			Failed:      res.FailedUnits(),
			Errors:      len(res.Errors),
			Fingerprint: res.Fingerprint,
		}
		if err := r.opts.Audit.Record(run, res.Collection); err != nil {
			return res, fmt.Errorf("recording run %s: %w", res.RunID, err)
		}
	}
	return res, nil
}

// intentionStep applies one intention pass. A fault aborts the pass and
// restores the collection to its state before the pass.
func (r *Rewriter) intentionStep(ctx *intentpass.Context, p intentpass.Pass) (changed bool, serr *StepError) {
	snap := ctx.Collection.Snapshot()
	defer func() {
		if rec := recover(); rec != nil {
			ctx.Collection.Restore(snap)
			changed, serr = false, newStepError(StepIntention, p.Name(), "", "", ir.Recover(rec))
		}
	}()
	return p.Apply(ctx), nil
}

// syntaxStep runs every syntax pass over every body of f. The file is one
// step: if any pass faults, or leaves a body structurally invalid, all of
// f's bodies are restored to their state before the step.
func (r *Rewriter) syntaxStep(passes []rewrite.Pass, f *intention.File) (changes int, serr *StepError) {
	type body struct {
		label string
		tree  *ir.Tree
		snap  *ir.Tree
	}
	var bodies []body
	f.Bodies(func(label string, t *ir.Tree) {
		bodies = append(bodies, body{label: label, tree: t, snap: t.Copy()})
	})
	if len(bodies) == 0 || len(passes) == 0 {
		return 0, nil
	}

	var pass, label string
	restore := func(fault *ir.Fault) {
		for _, b := range bodies {
			b.tree.Restore(b.snap)
		}
		changes, serr = 0, newStepError(StepSyntax, pass, f.SourcePath, label, fault)
	}
	defer func() {
		if rec := recover(); rec != nil {
			restore(ir.Recover(rec))
		}
	}()

	ctx := &rewrite.Context{
		IterationCap: r.opts.IterationCap,
		Log:          r.log,
		OnChange: func(p, rule string, node ir.NodeID) {
			changes++
			r.log.Debug("rule applied", "unit", f.SourcePath, "body", label, "pass", p, "rule", rule, "node", node)
		},
	}
	for _, b := range bodies {
		label = b.label
		ctx.Unit = f.SourcePath + ":" + label
		for _, p := range passes {
			pass = p.Name()
			p.Apply(ctx, b.tree)
			if err := b.tree.Validate(); err != nil {
				var fault *ir.Fault
				if !errors.As(err, &fault) {
					fault = &ir.Fault{Op: "Validate", Detail: err.Error()}
				}
				restore(fault)
				return changes, serr
			}
		}
	}
	return changes, nil
}
