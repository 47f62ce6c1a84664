package rewrite

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// Foundation rewrites well-known Foundation messages into their idiomatic
// target forms.
func Foundation() Pass {
	return NewRulePass("Foundation",
		Rule{Name: "isEqualToString", Apply: isEqualToString},
		Rule{Name: "stringWithFormat", Apply: stringWithFormat},
		Rule{Name: "addObjectsFromArray", Apply: addObjectsFromArray},
		Rule{Name: "class", Apply: classCall},
		Rule{Name: "data-structure-init", Apply: dataStructureInit},
		Rule{Name: "respondsToSelector", Apply: respondsToSelector},
	)
}

// [x respondsToSelector:s] -> x.responds(to: s)
func respondsToSelector(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "respondsToSelector" || len(s.args) != 1 {
		return id, false
	}
	t.Node(t.Callee(id)).Name = "responds"
	t.Node(id).Labels[0] = "to"
	t.SetResolvedType(id, ir.Bool)
	return id, true
}

// [a isEqualToString:b] -> a == b
func isEqualToString(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "isEqualToString" || len(s.args) != 1 || s.args[0].Label != "" {
		return id, false
	}
	rhs := t.Take(s.args[0].Expr)
	lhs := t.Take(s.base)
	res := t.Binary("==", lhs, rhs)
	t.SetResolvedType(res, ir.Bool)
	return res, true
}

// [NSString stringWithFormat:f, ...] -> String(format: f, ...)
func stringWithFormat(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "stringWithFormat" || !isIdent(t, s.base, "NSString") || len(s.args) == 0 {
		return id, false
	}
	args := takeArgs(t, s.args)
	args[0].Label = "format"
	res := t.Call(t.Ident("String"), args...)
	t.SetResolvedType(res, ir.String)
	return res, true
}

// [a addObjectsFromArray:b] -> a.addObjects(from: b)
func addObjectsFromArray(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "addObjectsFromArray" || len(s.args) != 1 {
		return id, false
	}
	t.Node(t.Callee(id)).Name = "addObjects"
	t.Node(id).Labels[0] = "from"
	t.SetResolvedType(id, ir.Void)
	return id, true
}

// [X class] -> X.self and [x class] -> type(of: x). A resolved type on the
// receiver decides; otherwise a capitalized identifier is taken to be a type.
func classCall(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || s.name != "class" || len(s.args) != 0 {
		return id, false
	}
	base := s.base
	ty, typed := t.ResolvedType(base)
	switch {
	case typed && ty.Kind == ir.TypeMetatype:
		res := t.Member(t.Take(base), "self")
		t.SetResolvedType(res, ty)
		return res, true
	case typed && !ty.IsError():
		return typeOf(t, t.Take(base)), true
	case t.Kind(base) == ir.KindIdentifier && isCapitalized(t.Node(base).Name):
		return t.Member(t.Take(base), "self"), true
	}
	return typeOf(t, t.Take(base)), true
}

func typeOf(t *ir.Tree, e ir.NodeID) ir.NodeID {
	return t.Call(t.Ident("type"), ir.Arg{Label: "of", Expr: e})
}

// dataStructureInits lists the convenience constructors that are plain
// initializer calls in the target dialect.
var dataStructureInits = map[string]string{
	"NSArray":             "array",
	"NSMutableArray":      "array",
	"NSDictionary":        "dictionary",
	"NSMutableDictionary": "dictionary",
	"NSSet":               "set",
	"NSMutableSet":        "set",
	"NSMutableString":     "string",
	"NSDate":              "date",
}

// [NSArray array] -> NSArray()
func dataStructureInit(ctx *Context, t *ir.Tree, id ir.NodeID) (ir.NodeID, bool) {
	s, ok := asSend(t, id)
	if !ok || len(s.args) != 0 || t.Kind(s.base) != ir.KindIdentifier {
		return id, false
	}
	typeName := t.Node(s.base).Name
	if dataStructureInits[typeName] != s.name {
		return id, false
	}
	res := t.Call(t.Ident(typeName))
	t.SetResolvedType(res, ir.Named(typeName))
	return res, true
}
