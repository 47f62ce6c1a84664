package unitjson

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

// Lower converts u into a file intention. Problems in the unit become
// diagnostics: unparsable types lower to the error type and malformed
// bodies are dropped, but the rest of the unit is kept. Every declaration of
// a unit whose extension is in declExts (default ".h") is interface-marked.
func Lower(u *Unit, declExts ...string) (*intention.File, []frontend.Diagnostic) {
	l := &lowerer{unit: u.Path}
	for _, d := range u.Diagnostics {
		sev := frontend.SeverityError
		if d.Severity == "warning" {
			sev = frontend.SeverityWarning
		}
		l.diags = append(l.diags, frontend.Diagnostic{
			Unit: u.Path, Severity: sev, Message: d.Message, Line: d.Location.Line, Col: d.Location.Col,
		})
	}

	target := u.Target
	if target == "" {
		target = intention.TargetPath(u.Path)
	}
	f := intention.NewFile(u.Path, target)
	f.Directives = append(f.Directives, u.Directives...)
	for _, m := range u.Imports {
		f.AddImport(m)
	}
	iface := isDeclarationUnit(u.Path, declExts)

	for _, a := range u.Typealiases {
		f.AddTypealias(&intention.Typealias{Name: a.Name, Type: l.typ(a.Type, Location{})})
	}
	for i := range u.Types {
		if t := l.lowerType(&u.Types[i], iface); t != nil {
			f.AddType(t)
		}
	}
	for _, fn := range u.Functions {
		sig := ir.FunctionSignature{
			Name:       fn.Name,
			Parameters: l.params(fn.Params, fn.Location),
			ReturnType: l.typ(fn.Returns, fn.Location),
			IsStatic:   fn.Static,
		}
		g := &intention.GlobalFunction{Signature: sig, Body: l.body(fn.Body, sig.Parameters, fn.Name)}
		g.IsInterfaceSource = iface || fn.Interface
		f.AddFunction(g)
	}
	for _, v := range u.Variables {
		gv := &intention.GlobalVariable{
			Name:        v.Name,
			Storage:     l.storage(v.Type, v.Ownership, v.Const, v.Location),
			Initializer: l.expr(v.Init, v.Name),
		}
		gv.IsInterfaceSource = iface || v.Interface
		f.AddVariable(gv)
	}
	return f, l.diags
}

func isDeclarationUnit(p string, exts []string) bool {
	if len(exts) == 0 {
		exts = []string{".h"}
	}
	ext := path.Ext(p)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

type lowerer struct {
	unit  string
	diags []frontend.Diagnostic
}

func (l *lowerer) errorf(loc Location, format string, args ...interface{}) {
	l.diags = append(l.diags, frontend.Diagnostic{
		Unit: l.unit, Severity: frontend.SeverityError, Message: fmt.Sprintf(format, args...),
		Line: loc.Line, Col: loc.Col,
	})
}

func (l *lowerer) typ(s string, loc Location) ir.TypeRef {
	if s == "" {
		return ir.TypeRef{}
	}
	t, err := ir.ParseType(s)
	if err != nil {
		l.errorf(loc, "bad type %q: %v", s, err)
		return ir.ErrorType()
	}
	return t
}

func (l *lowerer) storage(typ, ownership string, constant bool, loc Location) ir.ValueStorage {
	return ir.ValueStorage{Type: l.typ(typ, loc), Ownership: ir.ParseOwnership(ownership), Constant: constant}
}

func (l *lowerer) params(ps []Param, loc Location) []ir.ParameterSignature {
	out := make([]ir.ParameterSignature, len(ps))
	for i, p := range ps {
		out[i] = ir.ParameterSignature{Label: p.Label, Name: p.Name, Type: l.typ(p.Type, loc)}
	}
	return out
}

func (l *lowerer) meta(m *intention.Meta, access string, iface bool) {
	m.Access = intention.ParseAccessLevel(access)
	m.IsInterfaceSource = iface
}

func (l *lowerer) lowerType(jt *Type, iface bool) *intention.Type {
	kind, ok := intention.ParseTypeKind(jt.Kind)
	if !ok {
		l.errorf(jt.Location, "unknown type kind %q for %s", jt.Kind, jt.Name)
		return nil
	}
	t := intention.NewType(kind, jt.Name)
	l.meta(&t.Meta, jt.Access, iface || jt.Interface)
	t.Superclass = jt.Superclass
	t.Category = jt.Category
	t.RawType = l.typ(jt.RawType, jt.Location)
	for _, p := range jt.Protocols {
		t.AddProtocol(p)
	}
	memberIface := t.IsInterfaceSource

	for _, f := range jt.Fields {
		fl := &intention.Field{Name: f.Name, Storage: l.storage(f.Type, f.Ownership, false, f.Location), IsStatic: f.Static}
		l.meta(&fl.Meta, f.Access, memberIface || f.Interface)
		t.AddField(fl)
	}
	for _, p := range jt.Properties {
		t.AddProperty(l.lowerProperty(jt.Name, &p, memberIface))
	}
	for _, in := range jt.Inits {
		params := l.params(in.Params, in.Location)
		init := &intention.Init{
			Parameters:  params,
			Failable:    in.Failable,
			Convenience: in.Convenience,
			Body:        l.body(in.Body, params, jt.Name+".init"),
		}
		l.meta(&init.Meta, in.Access, memberIface || in.Interface)
		t.AddInit(init)
	}
	for _, c := range jt.Cases {
		t.AddCase(&intention.EnumCase{Name: c.Name, Value: l.expr(c.Value, jt.Name+"."+c.Name)})
	}
	for i := range jt.Methods {
		if m := l.lowerMethod(jt.Name, &jt.Methods[i], memberIface); m != nil {
			t.AddMethod(m)
		}
	}
	return t
}

func (l *lowerer) lowerProperty(owner string, p *Property, iface bool) *intention.Property {
	prop := &intention.Property{
		Name:       p.Name,
		Storage:    l.storage(p.Type, p.Ownership, false, p.Location),
		IsStatic:   p.Static,
		Attributes: append([]string(nil), p.Attributes...),
	}
	l.meta(&prop.Meta, p.Access, iface || p.Interface)
	label := owner + "." + p.Name
	switch p.Mode {
	case "", "stored":
	case "computed":
		prop.Mode = intention.PropertyComputed
		prop.Getter = l.body(p.Getter, nil, label+".get")
	case "getset":
		prop.Mode = intention.PropertyGetterSetter
		prop.Getter = l.body(p.Getter, nil, label+".get")
		if p.Setter != nil {
			value := ir.ParameterSignature{Name: p.Setter.ValueName, Type: prop.Storage.Type}
			prop.Setter = &intention.Setter{
				ValueName: p.Setter.ValueName,
				Body:      l.body(p.Setter.Body, []ir.ParameterSignature{value}, label+".set"),
			}
		}
	default:
		l.errorf(p.Location, "unknown property mode %q for %s", p.Mode, label)
	}
	return prop
}

func (l *lowerer) lowerMethod(owner string, jm *Method, iface bool) *intention.Method {
	name := jm.Name
	params := l.params(jm.Params, jm.Location)
	if name == "" && jm.Selector != "" {
		pieces := selectorPieces(jm.Selector)
		if len(pieces) > 1 || strings.HasSuffix(jm.Selector, ":") {
			if len(pieces) != len(params) {
				l.errorf(jm.Location, "selector %s takes %d arguments, method has %d parameters",
					jm.Selector, len(pieces), len(params))
				return nil
			}
			for i := range params {
				params[i].Label = ""
				if i > 0 {
					params[i].Label = pieces[i]
				}
			}
		}
		name = pieces[0]
	}
	if name == "" {
		l.errorf(jm.Location, "method of %s has no name", owner)
		return nil
	}
	sig := ir.FunctionSignature{
		Name:       name,
		Parameters: params,
		ReturnType: l.typ(jm.Returns, jm.Location),
		IsStatic:   jm.Static,
	}
	m := intention.NewMethod(sig, l.body(jm.Body, params, owner+"."+name))
	m.IsOptional = jm.Optional
	l.meta(&m.Meta, jm.Access, iface || jm.Interface)
	return m
}

// selectorPieces splits "a:b:" into [a b] and "a" into [a].
func selectorPieces(sel string) []string {
	return strings.Split(strings.TrimSuffix(sel, ":"), ":")
}

// body lowers a statement tree and records its scopes, including params in
// the root scope. Malformed bodies are dropped with a diagnostic.
func (l *lowerer) body(n *Node, params []ir.ParameterSignature, label string) *ir.Tree {
	t := l.tree(n, label)
	if t == nil {
		return nil
	}
	if t.Kind(t.Root()) != ir.KindCompound {
		l.errorf(locOf(n), "body of %s is a %s, not a compound statement", label, t.Kind(t.Root()))
		return nil
	}
	scope.Rebuild(t)
	scope.RecordParameters(t, params)
	return t
}

// expr lowers a standalone expression such as an initializer.
func (l *lowerer) expr(n *Node, label string) *ir.Tree {
	t := l.tree(n, label)
	if t != nil {
		scope.Rebuild(t)
	}
	return t
}

func (l *lowerer) tree(n *Node, label string) *ir.Tree {
	if n == nil {
		return nil
	}
	b := &treeBuilder{l: l, t: ir.NewTree()}
	root := b.node(n)
	if b.bad || root == ir.NoNode {
		l.errorf(locOf(n), "dropped malformed body of %s", label)
		return nil
	}
	b.t.SetRoot(root)
	return b.t
}

func locOf(n *Node) Location {
	if n == nil || n.Location == nil {
		return Location{}
	}
	return *n.Location
}

type treeBuilder struct {
	l   *lowerer
	t   *ir.Tree
	bad bool
}

func (b *treeBuilder) fail(n *Node, format string, args ...interface{}) ir.NodeID {
	b.bad = true
	b.l.errorf(locOf(n), format, args...)
	return ir.NoNode
}

// child lowers n.Children[i], failing when it is missing and required.
func (b *treeBuilder) child(n *Node, i int, required bool) ir.NodeID {
	if i >= len(n.Children) || n.Children[i] == nil {
		if required {
			return b.fail(n, "%s node is missing operand %d", n.Kind, i)
		}
		return ir.NoNode
	}
	return b.node(n.Children[i])
}

func (b *treeBuilder) arity(n *Node, want int) bool {
	if len(n.Children) < want {
		b.fail(n, "%s node needs %d operands, has %d", n.Kind, want, len(n.Children))
		return false
	}
	return true
}

func (b *treeBuilder) node(n *Node) ir.NodeID {
	if b.bad {
		return ir.NoNode
	}
	t := b.t
	var id ir.NodeID
	switch n.Kind {
	case KindCompound:
		stmts := make([]ir.NodeID, 0, len(n.Children))
		for i := range n.Children {
			stmts = append(stmts, b.child(n, i, true))
		}
		id = t.Compound(stmts...)
	case KindExpr:
		id = t.ExprStmt(b.child(n, 0, true))
	case KindVar:
		storage := b.l.storage(n.Type, n.Ownership, n.Const, locOf(n))
		id = t.VarDecl(n.Name, storage, b.child(n, 0, false))
	case KindReturn:
		id = t.Return(b.child(n, 0, false))
	case KindIf:
		id = t.If(b.child(n, 0, true), b.child(n, 1, true), b.child(n, 2, false))
	case KindWhile:
		id = t.While(b.child(n, 0, true), b.child(n, 1, true))
	case KindBreak:
		id = t.Break()
	case KindContinue:
		id = t.Continue()
	case KindIdent:
		if n.Name == "" {
			return b.fail(n, "identifier without a name")
		}
		id = t.Ident(n.Name)
	case KindConst:
		v, err := constValue(n.Value)
		if err != nil {
			return b.fail(n, "%v", err)
		}
		id = t.Const(v)
	case KindMember:
		id = t.Member(b.child(n, 0, true), n.Name)
	case KindCall:
		if !b.arity(n, 1) {
			return ir.NoNode
		}
		callee := b.child(n, 0, true)
		args := make([]ir.Arg, 0, len(n.Children)-1)
		for i := 1; i < len(n.Children); i++ {
			label := ""
			if i-1 < len(n.Labels) {
				label = n.Labels[i-1]
			}
			args = append(args, ir.Arg{Label: label, Expr: b.child(n, i, true)})
		}
		id = t.Call(callee, args...)
	case KindSend:
		id = b.send(n)
	case KindSubscript:
		id = t.Subscript(b.child(n, 0, true), b.child(n, 1, true))
	case KindBinary:
		id = t.Binary(n.Op, b.child(n, 0, true), b.child(n, 1, true))
	case KindUnary:
		id = t.Unary(n.Op, b.child(n, 0, true))
	case KindAssign:
		id = t.Assign(n.Op, b.child(n, 0, true), b.child(n, 1, true))
	case KindParens:
		id = t.Parens(b.child(n, 0, true))
	case KindCast:
		id = t.Cast(b.child(n, 0, true), b.l.typ(n.Type, locOf(n)))
	case KindTernary:
		id = t.Ternary(b.child(n, 0, true), b.child(n, 1, true), b.child(n, 2, true))
	case KindBlock:
		params := b.l.params(n.Params, locOf(n))
		id = t.Block(params, b.l.typ(n.Returns, locOf(n)), b.child(n, 0, true))
	default:
		return b.fail(n, "unknown node kind %q", n.Kind)
	}
	if b.bad {
		return ir.NoNode
	}
	if n.ResolvedType != "" {
		t.SetResolvedType(id, b.l.typ(n.ResolvedType, locOf(n)))
	}
	return id
}

// send lowers a message send: [r initWithA:a b:c] becomes
// r.initWithA(a, b: c). Arguments past the selector's pieces are variadic
// and stay unlabeled.
func (b *treeBuilder) send(n *Node) ir.NodeID {
	if n.Selector == "" {
		return b.fail(n, "send without a selector")
	}
	if !b.arity(n, 1) {
		return ir.NoNode
	}
	pieces := selectorPieces(n.Selector)
	want := 0
	if strings.Contains(n.Selector, ":") {
		want = len(pieces)
	}
	got := len(n.Children) - 1
	if got < want || (want == 0 && got > 0) {
		return b.fail(n, "selector %s takes %d arguments, send has %d", n.Selector, want, got)
	}
	recv := b.child(n, 0, true)
	args := make([]ir.Arg, 0, got)
	for i := 0; i < got; i++ {
		label := ""
		if i > 0 && i < want {
			label = pieces[i]
		}
		args = append(args, ir.Arg{Label: label, Expr: b.child(n, i+1, true)})
	}
	return b.t.MethodCall(recv, pieces[0], args...)
}

func constValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case nil, string, bool, int64, float64:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %s", x)
		}
		return f, nil
	case float32:
		return float64(x), nil
	case int:
		return int64(x), nil
	}
	return nil, fmt.Errorf("unsupported constant %v", v)
}
