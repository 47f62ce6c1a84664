// Package rewrite runs syntax-node passes over one body tree at a time. A
// pass is an ordered list of local rules applied during a post-order walk;
// when a rule fires, only the subtree it produced is walked again, up to a
// fixed depth, so newly exposed patterns are caught without re-walking the
// whole body.
package rewrite

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
)

// DefaultIterationCap bounds how many times a freshly produced subtree is
// re-walked. Rule sets that keep rewriting each other's output stop here.
const DefaultIterationCap = 32

// Context is shared by every pass of one run.
type Context struct {
	// IterationCap bounds subtree revisits; zero means DefaultIterationCap.
	IterationCap int
	Log          *logging.Logger
	// Unit names the body being rewritten in log output.
	Unit string
	// OnChange, when set, is told about every rule that fires.
	OnChange func(pass, rule string, node ir.NodeID)
}

func (c *Context) cap() int {
	if c == nil || c.IterationCap <= 0 {
		return DefaultIterationCap
	}
	return c.IterationCap
}

// Pass transforms one body tree in place. Apply reports whether anything
// changed; a pass that recognizes nothing must leave the tree untouched.
type Pass interface {
	Name() string
	Apply(ctx *Context, t *ir.Tree) bool
}

// Rule is one local pattern and its replacement. Apply inspects node id and,
// when the pattern matches, returns the root of the replacement. The
// replacement is either id itself, mutated in place, or a new detached node
// that the engine swaps in. Subnodes of id that the replacement reuses must
// be detached with Tree.Take first.
type Rule struct {
	Name  string
	Apply func(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool)
}

// RulePass applies rules in order at every node.
type RulePass struct {
	name  string
	rules []Rule
}

// NewRulePass returns a pass applying rules in the given order.
func NewRulePass(name string, rules ...Rule) *RulePass {
	return &RulePass{name: name, rules: rules}
}

func (p *RulePass) Name() string { return p.name }

// Rules returns the pass's rules in application order.
func (p *RulePass) Rules() []Rule { return append([]Rule(nil), p.rules...) }

func (p *RulePass) Apply(ctx *Context, t *ir.Tree) bool {
	if t == nil || t.Root() == ir.NoNode {
		return false
	}
	_, changed := p.visit(ctx, t, t.Root(), 0)
	return changed
}

// visit walks the subtree at id in post-order and returns the node now
// occupying id's position.
func (p *RulePass) visit(ctx *Context, t *ir.Tree, id ir.NodeID, depth int) (ir.NodeID, bool) {
	changed := false
	for _, c := range t.Children(id) {
		if _, ch := p.visit(ctx, t, c, depth); ch {
			changed = true
		}
	}
	for _, r := range p.rules {
		repl, ok := r.Apply(ctx, t, id)
		if !ok {
			continue
		}
		if repl != id {
			t.Replace(id, repl)
		}
		if ctx != nil && ctx.OnChange != nil {
			ctx.OnChange(p.name, r.Name, repl)
		}
		if depth+1 >= ctx.cap() {
			if ctx != nil {
				ctx.Log.Warn("rewrite iteration cap reached", "pass", p.name, "rule", r.Name, "unit", ctx.Unit)
			}
			return repl, true
		}
		out, _ := p.visit(ctx, t, repl, depth+1)
		return out, true
	}
	return id, changed
}

// Run applies passes to t in order and reports whether any of them changed
// it.
func Run(ctx *Context, passes []Pass, t *ir.Tree) bool {
	changed := false
	for _, p := range passes {
		if p.Apply(ctx, t) {
			changed = true
		}
	}
	return changed
}
