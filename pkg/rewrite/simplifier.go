package rewrite

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// Simplifier removes artifacts left behind by the source dialect and by
// other passes. It is cheap and idempotent, so pipelines usually run it
// both early and last.
func Simplifier() Pass {
	return NewRulePass("Simplifier",
		Rule{Name: "redundant-parens", Apply: redundantParens},
	)
}

func redundantParens(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	if t.Kind(id) != ir.KindParens || t.NumChildren(id) != 1 {
		return id, false
	}
	inner := t.Child(id, 0)
	if !isPrimary(t.Kind(inner)) && !parensUnneeded(t, id) {
		return id, false
	}
	if ty, ok := t.ResolvedType(id); ok {
		if _, has := t.ResolvedType(inner); !has {
			t.SetResolvedType(inner, ty)
		}
	}
	return t.Take(inner), true
}

// isPrimary reports whether expressions of kind k never need grouping.
func isPrimary(k ir.Kind) bool {
	switch k {
	case ir.KindIdentifier, ir.KindConstant, ir.KindMember, ir.KindCall,
		ir.KindSubscript, ir.KindParens, ir.KindBlockLiteral:
		return true
	}
	return false
}

// parensUnneeded reports whether the position of id already delimits the
// expression it holds.
func parensUnneeded(t *ir.Tree, id ir.NodeID) bool {
	parent := t.Parent(id)
	if parent == ir.NoNode {
		return false
	}
	i := t.IndexOf(id)
	switch t.Kind(parent) {
	case ir.KindExprStmt, ir.KindReturn, ir.KindVarDecl, ir.KindParens:
		return true
	case ir.KindIf, ir.KindWhile:
		return i == 0
	case ir.KindCall, ir.KindSubscript, ir.KindAssignment:
		return i > 0
	}
	return false
}
