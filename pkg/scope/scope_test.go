package scope

import (
	"testing"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// nested builds { var value: Int; { var temp: String; x } } and returns the
// tree plus the outer and inner compound ids and the innermost identifier.
func nested() (*ir.Tree, ir.NodeID, ir.NodeID, ir.NodeID) {
	t := ir.NewTree()
	x := t.Ident("x")
	inner := t.Compound(
		t.VarDecl("temp", ir.ValueStorage{Type: ir.String}, ir.NoNode),
		t.ExprStmt(x),
	)
	outer := t.Compound(
		t.VarDecl("value", ir.ValueStorage{Type: ir.Int}, t.Const(1)),
		inner,
	)
	t.SetRoot(outer)
	Rebuild(t)
	return t, outer, inner, x
}

func TestScopeResolve(t *testing.T) {
	tree, outer, inner, _ := nested()
	globals := NewArraySource([]*ir.CodeDefinition{
		ir.NewVariable("global", ir.ValueStorage{Type: ir.Bool}),
	})

	child := Of(tree, inner, globals)
	parent := Of(tree, outer, globals)

	tests := []struct {
		name     string
		scope    *Node
		varName  string
		wantOK   bool
		wantType ir.TypeRef
	}{
		{"outer from child", child, "value", true, ir.Int},
		{"local from child", child, "temp", true, ir.String},
		{"global from child", child, "global", true, ir.Bool},
		{"missing var", child, "missing", false, ir.TypeRef{}},
		{"outer direct", parent, "value", true, ir.Int},
		{"local not in parent", parent, "temp", false, ir.TypeRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.scope.FirstDefinition(tt.varName)
			if (d != nil) != tt.wantOK {
				t.Fatalf("FirstDefinition(%q) = %v, want found=%v", tt.varName, d, tt.wantOK)
			}
			if d != nil && !d.Type().Equal(tt.wantType) {
				t.Errorf("FirstDefinition(%q) type = %v, want %v", tt.varName, d.Type(), tt.wantType)
			}
		})
	}
}

func TestScopeShadowing(t *testing.T) {
	tree, outer, inner, _ := nested()
	child := Of(tree, inner, nil)
	child.RecordDefinition(ir.NewVariable("value", ir.ValueStorage{Type: ir.String}))

	d := child.FirstDefinition("value")
	if d == nil || !d.Type().Equal(ir.String) {
		t.Fatalf("child should see its own value, got %v", d)
	}
	d = Of(tree, outer, nil).FirstDefinition("value")
	if d == nil || !d.Type().Equal(ir.Int) {
		t.Errorf("outer scope should still see Int value, got %v", d)
	}
}

func TestNearest(t *testing.T) {
	tree, _, inner, x := nested()
	s := Nearest(tree, x, nil)
	if s == nil || s.ID() != inner {
		t.Fatalf("Nearest(x) = %v, want scope %d", s, inner)
	}
	if s.FirstDefinition("temp") == nil {
		t.Error("expected temp to resolve from identifier's scope")
	}

	detached := tree.Ident("lonely")
	if Nearest(tree, detached, nil) != nil {
		t.Error("detached identifier should have no scope")
	}
}

func TestFunctionDefinitionsConcatenate(t *testing.T) {
	tree, outer, inner, _ := nested()
	sig := ir.FunctionSignature{Name: "f", Parameters: []ir.ParameterSignature{ir.Unlabeled("a", ir.Int)}}
	local := ir.NewFunction(sig)
	enclosing := ir.NewFunction(sig)
	global := ir.NewFunction(sig)

	Of(tree, inner, nil).RecordDefinition(local)
	Of(tree, outer, nil).RecordDefinition(enclosing)
	child := Of(tree, inner, NewArraySource([]*ir.CodeDefinition{global}))

	got := child.FunctionDefinitions(sig.Identifier())
	want := []*ir.CodeDefinition{local, enclosing, global}
	if len(got) != len(want) {
		t.Fatalf("got %d overloads, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("overload %d out of order", i)
		}
	}
	if n := len(child.AllDefinitions()); n != 2 {
		t.Errorf("AllDefinitions should be local only, got %d", n)
	}
}

func TestEmptyScope(t *testing.T) {
	tree := ir.NewTree()
	root := tree.Compound()
	tree.SetRoot(root)
	s := Of(tree, root, nil)

	if s.FirstDefinition("x") != nil {
		t.Error("expected no definition")
	}
	if len(s.FunctionDefinitions(ir.FunctionIdentifier{Name: "f"})) != 0 {
		t.Error("expected no functions")
	}
	if Of(tree, tree.Ident("x"), nil) != nil {
		t.Error("identifiers do not bear scopes")
	}
	var e Empty
	if e.FirstDefinition("x") != nil || e.AllDefinitions() != nil {
		t.Error("Empty should return nothing")
	}
}

func TestRemoveAllDefinitions(t *testing.T) {
	tree, _, inner, _ := nested()
	s := Of(tree, inner, nil)
	s.RemoveAllDefinitions()
	if s.FirstDefinition("temp") != nil {
		t.Error("temp should be gone")
	}
	if s.FirstDefinition("value") == nil {
		t.Error("removing inner definitions must not touch the enclosing scope")
	}
}

func TestRebuildMatchesLowering(t *testing.T) {
	tree, outer, inner, _ := nested()
	tree.ClearAnnotations()
	if Of(tree, inner, nil).FirstDefinition("temp") != nil {
		t.Fatal("annotations should be cleared")
	}
	Rebuild(tree)
	if Of(tree, inner, nil).FirstDefinition("temp") == nil || Of(tree, outer, nil).FirstDefinition("value") == nil {
		t.Error("Rebuild should restore declarations")
	}

	blk := tree.Block([]ir.ParameterSignature{ir.Unlabeled("p", ir.Int)}, ir.Void, tree.Compound())
	tree.Append(inner, tree.ExprStmt(blk))
	Rebuild(tree)
	if Of(tree, blk, nil).FirstDefinition("p") == nil {
		t.Error("block parameters should be recorded in the block scope")
	}
}

func TestArraySourceFirstWins(t *testing.T) {
	a := ir.NewVariable("x", ir.ValueStorage{Type: ir.Int})
	b := ir.NewVariable("x", ir.ValueStorage{Type: ir.String})
	s := NewArraySource([]*ir.CodeDefinition{a, b})
	if s.FirstDefinition("x") != a {
		t.Error("ArraySource should return the first definition")
	}
}

func TestCompoundSource(t *testing.T) {
	sig := ir.FunctionSignature{Name: "CGPointMake", Parameters: []ir.ParameterSignature{
		ir.Unlabeled("x", ir.CGFloat), ir.Unlabeled("y", ir.CGFloat),
	}}
	own := ir.NewFunction(sig)
	c := NewCompoundSource(NewArraySource([]*ir.CodeDefinition{own}), nil)
	for _, p := range DefaultProviders() {
		c.AddSource(p.Source())
	}

	if c.FirstDefinition("CGPointMake") != own {
		t.Error("first registered source should win")
	}
	if got := c.FunctionDefinitions(sig.Identifier()); len(got) != 2 {
		t.Errorf("expected both CGPointMake overloads, got %d", len(got))
	}
	if d := c.FirstDefinition("CGRectZero"); d == nil || !d.Type().Equal(ir.Named("CGRect")) {
		t.Errorf("CGRectZero = %v", d)
	}
	if c.FirstDefinition("UIViewMissing") != nil {
		t.Error("unknown globals should not resolve")
	}
}
