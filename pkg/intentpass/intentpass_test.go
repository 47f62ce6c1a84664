package intentpass

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

func body(stmts ...func(t *ir.Tree) ir.NodeID) *ir.Tree { return ir.NewBody(stmts...) }

func returns(fn func(t *ir.Tree) ir.NodeID) func(t *ir.Tree) ir.NodeID {
	return func(t *ir.Tree) ir.NodeID { return t.Return(fn(t)) }
}

func ident(name string) func(t *ir.Tree) ir.NodeID {
	return func(t *ir.Tree) ir.NodeID { return t.Ident(name) }
}

func onlyType(t *testing.T, c *intention.Collection, name string) *intention.Type {
	t.Helper()
	ts := c.TypesNamed(name)
	if len(ts) != 1 {
		t.Fatalf("types named %s = %d, want 1", name, len(ts))
	}
	return ts[0]
}

func TestBuild(t *testing.T) {
	passes, err := Build(DefaultOrder)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var names []string
	for _, p := range passes {
		names = append(names, p.Name())
	}
	if diff := pretty.Diff(names, DefaultOrder); len(diff) > 0 {
		t.Errorf("names = %v\n%v", names, diff)
	}
	if _, err := Build([]string{"FileTypeMerging", "Bogus"}); err == nil {
		t.Error("expected an error for an unknown pass")
	}
	if len(Names()) != len(DefaultOrder) {
		t.Errorf("Names = %v", Names())
	}
}

func TestContextGlobals(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Variable("counter", ir.ValueStorage{Type: ir.Int}, nil)
		}).
		Build()
	ctx := NewContext(c, nil, scope.DefaultProviders()...)
	if ctx.Globals.FirstDefinition("counter") == nil {
		t.Error("collection global not visible")
	}
	if ctx.Globals.FirstDefinition("CGRectZero") == nil {
		t.Error("provider global not visible")
	}
	if ctx.Globals.FirstDefinition("missing") != nil {
		t.Error("unexpected definition")
	}
}

func TestFileTypeMerging(t *testing.T) {
	c := intention.NewBuilder().
		File("A.h", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.VoidMethod("fromHeader", nil).Interface()
			})
		}).
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.VoidMethod("fromImplementation", body())
			})
		}).
		Build()
	p := &FileTypeMerging{}
	if !Run(NewContext(c, nil), []Pass{p}) {
		t.Fatal("expected a change")
	}
	if p.Report.MergedTypes != 1 {
		t.Errorf("MergedTypes = %d, want 1", p.Report.MergedTypes)
	}
	if n := len(c.Files()); n != 1 {
		t.Errorf("files = %d, want 1", n)
	}
}

func TestProtocolNullabilityPropagation(t *testing.T) {
	optString := ir.Optional(ir.String)
	c := intention.NewBuilder().
		File("P.h", func(f *intention.FileBuilder) {
			f.Protocol("P", func(b *intention.TypeBuilder) {
				b.Method(intention.Signature("a", optString, ir.Unlabeled("x", optString)), nil)
				b.Method(intention.Signature("b", ir.Void, ir.Unlabeled("y", optString)), nil)
				b.Property("name", ir.String)
			})
		}).
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Conforms("P")
				b.Method(intention.Signature("a", ir.Unspecified(ir.String), ir.Unlabeled("x", ir.Unspecified(ir.String))), body())
				b.Method(intention.Signature("b", ir.Void, ir.Unlabeled("y", ir.String)), body())
				b.Property("name", ir.Unspecified(ir.String))
			})
		}).
		Build()
	if !(ProtocolNullabilityPropagation{}).Apply(NewContext(c, nil)) {
		t.Fatal("expected a change")
	}
	a := onlyType(t, c, "A")
	ms := a.Methods()
	if got := ms[0].Signature; !got.ReturnType.Equal(optString) || !got.Parameters[0].Type.Equal(optString) {
		t.Errorf("a = %s", intention.FormatSignature(got, true))
	}
	if got := ms[1].Signature.Parameters[0].Type; !got.Equal(ir.String) {
		t.Errorf("explicit nullability overridden: b(_ y: %s)", got)
	}
	if got := a.Properties()[0].Storage.Type; !got.Equal(ir.String) {
		t.Errorf("name: %s", got)
	}
	if ms[0].History().Len() != 1 || ms[1].History().Len() != 0 {
		t.Errorf("history lengths = %d, %d", ms[0].History().Len(), ms[1].History().Len())
	}
}

func TestPropertyMerge(t *testing.T) {
	getter := intention.Signature("x", ir.Int)
	setter := intention.Signature("setX", ir.Void, ir.Unlabeled("v", ir.Int))

	tests := []struct {
		name       string
		attrs      []string
		methods    []ir.FunctionSignature
		bodies     bool
		wantMode   intention.PropertyMode
		wantGetter string
		wantSetter string
		wantField  bool
	}{
		{
			name: "getter and setter", methods: []ir.FunctionSignature{getter, setter}, bodies: true,
			wantMode: intention.PropertyGetterSetter, wantGetter: "(compound (return 1))", wantSetter: "(compound (return 1))",
		},
		{
			name: "readonly getter", attrs: []string{"readonly"}, methods: []ir.FunctionSignature{getter}, bodies: true,
			wantMode: intention.PropertyComputed, wantGetter: "(compound (return 1))",
		},
		{
			name: "getter only synthesizes setter", methods: []ir.FunctionSignature{getter}, bodies: true,
			wantMode: intention.PropertyGetterSetter, wantGetter: "(compound (return 1))",
			wantSetter: "(compound (expr (assign = _x newValue)))", wantField: true,
		},
		{
			name: "setter only synthesizes getter", methods: []ir.FunctionSignature{setter}, bodies: true,
			wantMode: intention.PropertyGetterSetter, wantGetter: "(compound (return _x))",
			wantSetter: "(compound (return 1))", wantField: true,
		},
		{
			name: "declared accessors are dropped", methods: []ir.FunctionSignature{getter, setter},
			wantMode: intention.PropertyStored,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := intention.NewBuilder().
				File("A.m", func(f *intention.FileBuilder) {
					f.Class("A", func(b *intention.TypeBuilder) {
						b.Property("x", ir.Int, tt.attrs...)
						for _, sig := range tt.methods {
							var bd *ir.Tree
							if tt.bodies {
								bd = body(returns(func(t *ir.Tree) ir.NodeID { return t.Const(1) }))
							}
							b.Method(sig, bd)
						}
						b.VoidMethod("other", body())
					})
				}).
				Build()
			if !(PropertyMerge{}).Apply(NewContext(c, nil)) {
				t.Fatal("expected a change")
			}
			a := onlyType(t, c, "A")
			if ms := a.Methods(); len(ms) != 1 || ms[0].Name() != "other" {
				t.Errorf("methods left = %d", len(ms))
			}
			p := a.Properties()[0]
			if p.Mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", p.Mode, tt.wantMode)
			}
			if tt.wantGetter != "" && (p.Getter == nil || p.Getter.String() != tt.wantGetter) {
				t.Errorf("getter = %v, want %s", p.Getter, tt.wantGetter)
			}
			if tt.wantSetter != "" && (p.Setter == nil || p.Setter.Body.String() != tt.wantSetter) {
				t.Errorf("setter = %+v, want %s", p.Setter, tt.wantSetter)
			}
			fields := a.Fields()
			if tt.wantField != (len(fields) == 1) {
				t.Fatalf("fields = %d, want backing field %v", len(fields), tt.wantField)
			}
			if tt.wantField && (fields[0].Name != "_x" || fields[0].Access != intention.AccessPrivate) {
				t.Errorf("backing field = %s %v", fields[0].Name, fields[0].Access)
			}
			if err := c.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestPropertyMergeIgnoresMismatchedTypes(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Property("x", ir.Int)
				b.Method(intention.Signature("x", ir.String), body())
			})
		}).
		Build()
	if (PropertyMerge{}).Apply(NewContext(c, nil)) {
		t.Error("unexpected change")
	}
}

func TestStoredPropertyToNominalTypes(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", nil)
			f.Extension("A", "", func(b *intention.TypeBuilder) {
				b.Property("y", ir.Int)
				b.Field("z", ir.Bool)
			})
			f.Extension("A", "Cat", func(b *intention.TypeBuilder) {
				b.Property("w", ir.Int)
				b.VoidMethod("m", body())
			})
		}).
		Build()
	if !(StoredPropertyToNominalTypes{}).Apply(NewContext(c, nil)) {
		t.Fatal("expected a change")
	}
	f := c.Files()[0]
	if n := len(f.Extensions()); n != 1 {
		t.Fatalf("extensions = %d, want 1", n)
	}
	if ext := f.Extensions()[0]; ext.Category != "Cat" || len(ext.Properties()) != 0 || len(ext.Methods()) != 1 {
		t.Errorf("extension = %s with %d members", intention.FormatType(ext), ext.NumMembers())
	}
	a := f.Classes()[0]
	var props []string
	for _, p := range a.Properties() {
		props = append(props, p.Name)
	}
	if diff := pretty.Diff(props, []string{"y", "w"}); len(diff) > 0 {
		t.Errorf("properties = %v", props)
	}
	if len(a.Fields()) != 1 {
		t.Errorf("fields = %d, want 1", len(a.Fields()))
	}
	want := "[StoredPropertyToNominalTypes] Moved property A.y: Int from extension A to class A"
	if got := a.History().Events()[0]; "["+got.Tag+"] "+got.Description() != want {
		t.Errorf("history = %q, want %q", got.Description(), want)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSwiftifyMethodSignatures(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Method(intention.Signature("initWithURLString", ir.Named("instancetype"),
					ir.Unlabeled("s", ir.String)), body())
				b.Method(intention.Signature("init", ir.Optional(ir.Named("instancetype"))), body())
				b.Method(intention.Signature("loadWithURL", ir.Void, ir.Unlabeled("url", ir.Named("URL"))), body())
				b.Method(intention.Signature("copy", ir.Named("instancetype")), body())
				b.Method(intention.Signature("with", ir.Void, ir.Unlabeled("x", ir.Int)), body())
			})
		}).
		Build()
	if !(SwiftifyMethodSignatures{}).Apply(NewContext(c, nil)) {
		t.Fatal("expected a change")
	}
	a := onlyType(t, c, "A")
	var inits []string
	for _, in := range a.Inits() {
		inits = append(inits, intention.FormatInit(in))
	}
	if diff := pretty.Diff(inits, []string{"init(urlString s: String)", "init?()"}); len(diff) > 0 {
		t.Errorf("inits = %v\n%v", inits, diff)
	}
	var methods []string
	for _, m := range a.Methods() {
		methods = append(methods, intention.FormatMethod(a.Name, m))
	}
	want := []string{"A.load(withURL url: URL)", "A.copy() -> A", "A.with(_ x: Int)"}
	if diff := pretty.Diff(methods, want); len(diff) > 0 {
		t.Errorf("methods = %v\n%v", methods, diff)
	}
}

func TestSwiftifyKeepsMethodWhenInitExists(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Init([]ir.ParameterSignature{ir.Param("frame", ir.CGFloat)}, body())
				b.Method(intention.Signature("initWithFrame", ir.Named("instancetype"),
					ir.Unlabeled("f", ir.CGFloat)), body())
			})
		}).
		Build()
	(SwiftifyMethodSignatures{}).Apply(NewContext(c, nil))
	a := onlyType(t, c, "A")
	if len(a.Inits()) != 1 || len(a.Methods()) != 1 {
		t.Errorf("inits = %d, methods = %d", len(a.Inits()), len(a.Methods()))
	}
	if got := a.Methods()[0].Name(); got != "initWithFrame" {
		t.Errorf("method renamed to %s", got)
	}
}

func TestModuleOf(t *testing.T) {
	tests := []struct {
		directive string
		module    string
		ok        bool
	}{
		{"#import <UIKit/UIKit.h>", "UIKit", true},
		{"#include <Foundation/NSString.h>", "Foundation", true},
		{"@import CoreGraphics;", "CoreGraphics", true},
		{"@import UIKit.UIView;", "UIKit", true},
		{`#import "A.h"`, "", false},
		{"#import <stdio.h>", "", false},
		{"#define MAX 10", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.directive, func(t *testing.T) {
			module, ok := ModuleOf(tt.directive)
			if module != tt.module || ok != tt.ok {
				t.Errorf("ModuleOf = %q, %v; want %q, %v", module, ok, tt.module, tt.ok)
			}
		})
	}
}

func TestImportDirective(t *testing.T) {
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Directives("#import <UIKit/UIKit.h>", `#import "B.h"`, "@import Foundation;", "#import <UIKit/UIView.h>")
		}).
		Build()
	ctx := NewContext(c, nil)
	if !(ImportDirective{}).Apply(ctx) {
		t.Fatal("expected a change")
	}
	f := c.Files()[0]
	if diff := pretty.Diff(f.Imports, []string{"UIKit", "Foundation"}); len(diff) > 0 {
		t.Errorf("imports = %v", f.Imports)
	}
	if len(f.Directives) != 4 {
		t.Errorf("directives = %v", f.Directives)
	}
	if (ImportDirective{}).Apply(ctx) {
		t.Error("second run reported a change")
	}
}

func TestDetectNonnullReturns(t *testing.T) {
	str := ir.Unspecified(ir.String)
	tests := []struct {
		name string
		body *ir.Tree
		want ir.TypeRef
	}{
		{"literal", body(returns(func(t *ir.Tree) ir.NodeID { return t.Const("a") })), ir.String},
		{"self", body(returns(ident("self"))), ir.String},
		{"initializer", body(returns(func(t *ir.Tree) ir.NodeID { return t.Call(t.Ident("NSString")) })), ir.String},
		{"nil", body(returns(func(t *ir.Tree) ir.NodeID { return t.Const(nil) })), str},
		{"unknown identifier", body(returns(ident("x"))), str},
		{"no return", body(), str},
		{"mixed", body(
			func(t *ir.Tree) ir.NodeID { return t.If(t.Ident("c"), t.Compound(t.Return(t.Const(nil))), ir.NoNode) },
			returns(ident("self")),
		), str},
		{"closure returns are skipped", body(
			func(t *ir.Tree) ir.NodeID {
				return t.ExprStmt(t.Block(nil, ir.Void, t.Compound(t.Return(t.Const(nil)))))
			},
			returns(ident("self")),
		), ir.String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := intention.NewBuilder().
				File("A.m", func(f *intention.FileBuilder) {
					f.Function(intention.Signature("f", str), tt.body)
				}).
				Build()
			changed := (DetectNonnullReturns{}).Apply(NewContext(c, nil))
			got := c.Functions()[0].Signature.ReturnType
			if !got.Equal(tt.want) {
				t.Errorf("return type = %s, want %s", got, tt.want)
			}
			if changed != !tt.want.Equal(str) {
				t.Errorf("changed = %v", changed)
			}
		})
	}
}

func TestDetectNonnullUsesResolvedTypes(t *testing.T) {
	var ret ir.NodeID
	b := body(func(t *ir.Tree) ir.NodeID {
		ret = t.Ident("x")
		return t.Return(ret)
	})
	b.SetResolvedType(ret, ir.Named("NSString"))
	c := intention.NewBuilder().
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(tb *intention.TypeBuilder) {
				tb.Method(intention.Signature("name", ir.Unspecified(ir.String)), b)
			})
		}).
		Build()
	if !(DetectNonnullReturns{}).Apply(NewContext(c, nil)) {
		t.Fatal("expected a change")
	}
	m := onlyType(t, c, "A").Methods()[0]
	if want := "[DetectNonnullReturns] Changed signature of A.name() from name() -> ~String to name() -> String"; m.History().Summary() != want {
		t.Errorf("summary = %q\nwant      %q", m.History().Summary(), want)
	}
}

func TestDefaultPipeline(t *testing.T) {
	c := intention.NewBuilder().
		File("A.h", func(f *intention.FileBuilder) {
			f.Directives("#import <UIKit/UIKit.h>")
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Property("x", ir.Int)
				b.Method(intention.Signature("initWithValue", ir.Named("instancetype"), ir.Unlabeled("v", ir.Int)), nil)
			})
		}).
		File("A.m", func(f *intention.FileBuilder) {
			f.Class("A", func(b *intention.TypeBuilder) {
				b.Method(intention.Signature("initWithValue", ir.Named("instancetype"), ir.Unlabeled("v", ir.Int)),
					body(returns(ident("self"))))
				b.Method(intention.Signature("x", ir.Int), body(returns(ident("_x"))))
			})
		}).
		Build()
	ctx := NewContext(c, nil)
	if !Run(ctx, Default()) {
		t.Fatal("expected changes")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	files := c.Files()
	if len(files) != 1 || files[0].SourcePath != "A.m" {
		t.Fatalf("files = %d", len(files))
	}
	a := onlyType(t, c, "A")
	if len(a.Methods()) != 0 || len(a.Inits()) != 1 {
		t.Errorf("methods = %d, inits = %d", len(a.Methods()), len(a.Inits()))
	}
	if p := a.Properties()[0]; p.Mode != intention.PropertyGetterSetter {
		t.Errorf("property mode = %v", p.Mode)
	}
	if diff := pretty.Diff(files[0].Imports, []string{"UIKit"}); len(diff) > 0 {
		t.Errorf("imports = %v", files[0].Imports)
	}
}
