package intentpass

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// ProtocolNullabilityPropagation copies explicit nullability from protocol
// requirements onto the conforming members that left it unspecified.
// Nullability the conformer states itself is never overridden.
type ProtocolNullabilityPropagation struct{}

func (ProtocolNullabilityPropagation) Name() string { return "ProtocolNullabilityPropagation" }

func (p ProtocolNullabilityPropagation) Apply(ctx *Context) bool {
	changed := false
	conformers(ctx.Collection, func(t *intention.Type, protocols []*intention.Type) {
		for _, proto := range protocols {
			for _, req := range proto.Methods() {
				for _, m := range t.Methods() {
					if !sameShape(m.Signature, req.Signature, ctx.Aliases) {
						continue
					}
					if p.propagateSignature(ctx, t, m, req.Signature) {
						changed = true
					}
				}
			}
			for _, req := range proto.Properties() {
				for _, prop := range t.Properties() {
					if prop.Name != req.Name || prop.IsStatic != req.IsStatic {
						continue
					}
					merged, _ := ir.MergeNullability(prop.Storage.Type, req.Storage.Type, ctx.Aliases)
					if merged.Equal(prop.Storage.Type) {
						continue
					}
					record(prop.History(), p.Name(), intention.Event{
						Kind:    intention.EventSignatureChanged,
						Subject: t.Name + "." + prop.Name,
						From:    prop.Storage.Type.String(),
						To:      merged.String(),
					})
					prop.Storage.Type = merged
					changed = true
				}
			}
		}
	})
	return changed
}

func (p ProtocolNullabilityPropagation) propagateSignature(ctx *Context, t *intention.Type, m *intention.Method, req ir.FunctionSignature) bool {
	sig := m.Signature.Clone()
	for i := range sig.Parameters {
		sig.Parameters[i].Type, _ = ir.MergeNullability(sig.Parameters[i].Type, req.Parameters[i].Type, ctx.Aliases)
	}
	if !sig.ReturnType.IsZero() && !req.ReturnType.IsZero() {
		sig.ReturnType, _ = ir.MergeNullability(sig.ReturnType, req.ReturnType, ctx.Aliases)
	}
	if signatureEqual(sig, m.Signature) {
		return false
	}
	record(m.History(), p.Name(), intention.Event{
		Kind:    intention.EventSignatureChanged,
		Subject: t.Name + "." + m.Signature.Identifier().String(),
		From:    intention.FormatSignature(m.Signature, true),
		To:      intention.FormatSignature(sig, true),
	})
	m.Signature = sig
	return true
}

// sameShape reports whether a and b name the same requirement: identical
// identifiers and parameter types that agree up to nullability.
func sameShape(a, b ir.FunctionSignature, aliases ir.AliasResolver) bool {
	if a.Identifier() != b.Identifier() || len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Parameters {
		if !ir.Equivalent(a.Parameters[i].Type, b.Parameters[i].Type, aliases) {
			return false
		}
	}
	return true
}

func signatureEqual(a, b ir.FunctionSignature) bool {
	if a.Identifier() != b.Identifier() || len(a.Parameters) != len(b.Parameters) || !a.ReturnType.Equal(b.ReturnType) {
		return false
	}
	for i := range a.Parameters {
		if a.Parameters[i].Name != b.Parameters[i].Name || !a.Parameters[i].Type.Equal(b.Parameters[i].Type) {
			return false
		}
	}
	return true
}

// DetectNonnullReturns marks functions whose return type has unspecified
// nullability as non-null when every return statement in the body yields a
// value that cannot be nil.
type DetectNonnullReturns struct{}

func (DetectNonnullReturns) Name() string { return "DetectNonnullReturns" }

func (p DetectNonnullReturns) Apply(ctx *Context) bool {
	changed := false
	for _, t := range ctx.Collection.Types() {
		for _, m := range t.Methods() {
			if p.refine(&m.Signature, m.Body, m.History(), t.Name+"."+m.Signature.Identifier().String()) {
				changed = true
			}
		}
	}
	for _, g := range ctx.Collection.Functions() {
		if p.refine(&g.Signature, g.Body, g.History(), g.Signature.Identifier().String()) {
			changed = true
		}
	}
	return changed
}

func (p DetectNonnullReturns) refine(sig *ir.FunctionSignature, body *ir.Tree, h *intention.History, subject string) bool {
	if body == nil || sig.ReturnType.Nullability() != ir.NullabilityUnspecified {
		return false
	}
	if !returnsNonnull(body) {
		return false
	}
	before := intention.FormatSignature(*sig, true)
	sig.ReturnType = sig.ReturnType.WithNullability(ir.NullabilityNonNull)
	record(h, p.Name(), intention.Event{
		Kind:    intention.EventSignatureChanged,
		Subject: subject,
		From:    before,
		To:      intention.FormatSignature(*sig, true),
	})
	return true
}

// returnsNonnull reports whether body returns at least once and never
// returns a possibly-nil value. Closures are skipped: their returns belong
// to them.
func returnsNonnull(body *ir.Tree) bool {
	if body.Root() == ir.NoNode {
		return false
	}
	seen, ok := 0, true
	body.Walk(body.Root(), func(id ir.NodeID) bool {
		switch body.Kind(id) {
		case ir.KindBlockLiteral:
			return false
		case ir.KindReturn:
			seen++
			if body.NumChildren(id) == 0 || !isNonnull(body, body.Child(id, 0)) {
				ok = false
			}
			return false
		}
		return ok
	})
	return ok && seen > 0
}

func isNonnull(t *ir.Tree, id ir.NodeID) bool {
	if ty, resolved := t.ResolvedType(id); resolved && !ty.IsError() {
		return ty.Nullability() == ir.NullabilityNonNull
	}
	n := t.Node(id)
	switch n.Kind {
	case ir.KindConstant:
		return n.Value != nil
	case ir.KindIdentifier:
		return n.Name == "self"
	case ir.KindParens:
		return isNonnull(t, t.Child(id, 0))
	case ir.KindCall:
		callee := t.Callee(id)
		return t.Kind(callee) == ir.KindIdentifier && isTypeName(t.Node(callee).Name)
	}
	return false
}
