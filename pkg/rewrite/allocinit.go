package rewrite

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// AllocInit folds the two-step allocate/initialize idiom into a single
// initializer call:
//
//	[[X alloc] init]            ->  X()
//	[[X alloc] initWithA:b c:d] ->  X(a: b, c: d)
//	[X new]                     ->  X()
//	[super initWithA:b]         ->  super.init(a: b)
func AllocInit() Pass {
	return NewRulePass("AllocInit",
		Rule{Name: "alloc-init", Apply: allocInit},
		Rule{Name: "new", Apply: newCall},
		Rule{Name: "delegated-init", Apply: delegatedInit},
	)
}

func allocInit(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok {
		return id, false
	}
	first, ok := initLabel(s)
	if !ok {
		return id, false
	}
	alloc, ok := asSend(t, s.base)
	if !ok || alloc.name != "alloc" || len(alloc.args) != 0 {
		return id, false
	}
	if t.Kind(alloc.base) != ir.KindIdentifier || !isCapitalized(t.Node(alloc.base).Name) {
		return id, false
	}
	typeName := t.Node(alloc.base).Name

	args := takeArgs(t, s.args)
	if len(args) > 0 {
		args[0].Label = first
	}
	call := t.Call(t.Ident(typeName), args...)
	t.SetResolvedType(call, ir.Named(typeName))
	return call, true
}

func newCall(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "new" || len(s.args) != 0 {
		return id, false
	}
	if t.Kind(s.base) != ir.KindIdentifier || !isCapitalized(t.Node(s.base).Name) {
		return id, false
	}
	typeName := t.Node(s.base).Name
	call := t.Call(t.Ident(typeName))
	t.SetResolvedType(call, ir.Named(typeName))
	return call, true
}

func delegatedInit(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name == "init" {
		return id, false
	}
	if !isIdent(t, s.base, "self") && !isIdent(t, s.base, "super") {
		return id, false
	}
	first, ok := initLabel(s)
	if !ok {
		return id, false
	}
	callee := t.Callee(id)
	t.Node(callee).Name = "init"
	t.Node(id).Labels[0] = first
	return id, true
}

// initLabel reports whether s is an init message and returns the label its
// first argument takes in the initializer form.
func initLabel(s send) (string, bool) {
	if s.name == "init" {
		return "", len(s.args) == 0
	}
	label, ok := selectorLabel(s.name, "initWith")
	if !ok || len(s.args) == 0 || s.args[0].Label != "" {
		return "", false
	}
	return label, true
}
