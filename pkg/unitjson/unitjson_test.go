package unitjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/mehulgecg/SwiftRewriter/pkg/frontend"
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

const classUnit = `{
  "type": "unit",
  "path": "A.m",
  "imports": ["Foundation"],
  "types": [{
    "kind": "class",
    "name": "A",
    "superclass": "NSObject",
    "methods": [{
      "selector": "initWithFrame:style:",
      "params": [{"name": "f", "type": "CGRect"}, {"name": "s", "type": "Int"}],
      "returns": "instancetype",
      "body": {"kind": "compound", "children": [
        {"kind": "return", "children": [
          {"kind": "send", "selector": "initWithFrame:style:", "children": [
            {"kind": "send", "selector": "alloc", "children": [{"kind": "ident", "name": "A"}]},
            {"kind": "ident", "name": "f"},
            {"kind": "const", "value": 1}
          ]}
        ]}
      ]}
    }, {
      "name": "ratio",
      "returns": "Double",
      "body": {"kind": "compound", "children": [
        {"kind": "return", "children": [
          {"kind": "binary", "op": "/", "resolvedType": "Double", "children": [
            {"kind": "const", "value": 1.5},
            {"kind": "call", "labels": ["by"], "children": [
              {"kind": "ident", "name": "scale"},
              {"kind": "const", "value": "x"}
            ]}
          ]}
        ]}
      ]}
    }]
  }]
}`

func lowerString(t *testing.T, doc string) (*intention.File, []frontend.Diagnostic) {
	t.Helper()
	u, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return Lower(u)
}

func TestLowerSelectorsAndSends(t *testing.T) {
	f, diags := lowerString(t, classUnit)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if f.TargetPath != "A.swift" {
		t.Errorf("target = %q", f.TargetPath)
	}
	types := f.Types()
	if len(types) != 1 || types[0].Superclass != "NSObject" {
		t.Fatalf("types = %+v", types)
	}
	ms := types[0].Methods()
	if len(ms) != 2 {
		t.Fatalf("got %d methods", len(ms))
	}

	init := ms[0]
	if init.Name() != "initWithFrame" {
		t.Errorf("name = %q", init.Name())
	}
	params := init.Signature.Parameters
	if params[0].Label != "" || params[1].Label != "style" {
		t.Errorf("labels = %q, %q", params[0].Label, params[1].Label)
	}
	want := "(compound (return (call (member (call (member A alloc)) initWithFrame) f style: 1)))"
	if got := init.Body.String(); got != want {
		t.Errorf("body\n got: %s\nwant: %s", got, want)
	}
	if d := scope.Of(init.Body, init.Body.Root(), nil).FirstDefinition("f"); d == nil || !d.Storage.Constant {
		t.Errorf("parameter f not recorded in body scope: %+v", d)
	}
}

func TestLowerConstantsAndResolvedTypes(t *testing.T) {
	f, _ := lowerString(t, classUnit)
	body := f.Types()[0].Methods()[1].Body

	want := `(compound (return (binary / 1.5 (call scale by: "x"))))`
	if got := body.String(); got != want {
		t.Errorf("body\n got: %s\nwant: %s", got, want)
	}

	var bin ir.NodeID
	body.Walk(body.Root(), func(id ir.NodeID) bool {
		if body.Kind(id) == ir.KindBinary {
			bin = id
		}
		if body.Kind(id) == ir.KindConstant {
			if _, ok := body.Node(id).Value.(float64); !ok {
				t.Errorf("1.5 lowered to %T", body.Node(id).Value)
			}
			return false
		}
		return true
	})
	if rt, ok := body.ResolvedType(bin); !ok || !rt.Equal(ir.Double) {
		t.Errorf("resolved type = %v, %v", rt, ok)
	}
}

func TestLowerDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantDiag string
		check    func(t *testing.T, f *intention.File)
	}{
		{
			name:     "bad type becomes error type",
			doc:      `{"path": "B.m", "variables": [{"name": "v", "type": "[Int"}]}`,
			wantDiag: `bad type "[Int"`,
			check: func(t *testing.T, f *intention.File) {
				if v := f.Variables()[0]; !v.Storage.Type.IsError() {
					t.Errorf("type = %v", v.Storage.Type)
				}
			},
		},
		{
			name: "send arity mismatch drops body",
			doc: `{"path": "B.m", "functions": [{"name": "f", "body": {"kind": "compound", "children": [
				{"kind": "expr", "children": [{"kind": "send", "selector": "a:b:", "children": [
					{"kind": "ident", "name": "x"}, {"kind": "const", "value": 1}]}]}]}}]}`,
			wantDiag: "dropped malformed body of f",
			check: func(t *testing.T, f *intention.File) {
				if g := f.Functions()[0]; g.Body != nil {
					t.Errorf("body kept: %s", g.Body)
				}
			},
		},
		{
			name:     "unknown node kind",
			doc:      `{"path": "B.m", "variables": [{"name": "v", "type": "Int", "init": {"kind": "lambda"}}]}`,
			wantDiag: `unknown node kind "lambda"`,
		},
		{
			name:     "selector and parameters disagree",
			doc:      `{"path": "B.m", "types": [{"kind": "class", "name": "B", "methods": [{"selector": "a:b:", "params": [{"name": "x", "type": "Int"}]}]}]}`,
			wantDiag: "selector a:b: takes 2 arguments",
			check: func(t *testing.T, f *intention.File) {
				if n := len(f.Types()[0].Methods()); n != 0 {
					t.Errorf("got %d methods", n)
				}
			},
		},
		{
			name:     "unknown type kind",
			doc:      `{"path": "B.m", "types": [{"kind": "union", "name": "U"}]}`,
			wantDiag: `unknown type kind "union"`,
		},
		{
			name:     "parser diagnostics are carried",
			doc:      `{"path": "B.m", "diagnostics": [{"severity": "error", "message": "expected ';'", "location": {"line": 3, "col": 7}}]}`,
			wantDiag: "B.m:3:7: error: expected ';'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, diags := lowerString(t, tt.doc)
			found := false
			for _, d := range diags {
				if strings.Contains(d.String(), tt.wantDiag) {
					found = true
				}
			}
			if !found {
				t.Errorf("no diagnostic containing %q in %v", tt.wantDiag, diags)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestLowerHeaderIsInterface(t *testing.T) {
	f, _ := lowerString(t, `{"path": "A.h", "types": [{"kind": "class", "name": "A",
		"properties": [{"name": "x", "type": "Int", "attributes": ["readonly"]}]}]}`)
	ty := f.Types()[0]
	if !ty.IsInterfaceSource || !ty.Properties()[0].IsInterfaceSource {
		t.Error("declarations from a header should be interface sources")
	}
	if !ty.Properties()[0].IsReadOnly() {
		t.Error("readonly attribute lost")
	}
}

func TestParserDeclarationExtensions(t *testing.T) {
	unit := func(path string) frontend.Source {
		return frontend.Source{Path: path, Data: []byte(`{"path": "` + path + `", "types": [{"kind": "class", "name": "A"}]}`)}
	}
	tests := []struct {
		name  string
		exts  []string
		path  string
		iface bool
	}{
		{"default header", nil, "A.h", true},
		{"default implementation", nil, "A.m", false},
		{"configured extension", []string{".hh", ".h"}, "A.hh", true},
		{"header not configured", []string{".hh"}, "A.h", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, err := Parser{DeclarationExts: tt.exts}.Parse(unit(tt.path))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := f.Types()[0].IsInterfaceSource; got != tt.iface {
				t.Errorf("IsInterfaceSource = %v, want %v", got, tt.iface)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f, _ := lowerString(t, classUnit)
	c := intention.NewCollection(f)
	data, err := Encode(c)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"send"`) {
		t.Error("encoded output should only use lowered node kinds")
	}

	units, err := ParseBundle(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(units[0].History) == 0 {
		t.Error("file history not encoded")
	}
	back, diags := Lower(&units[0])
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if got, want := intention.Dump(intention.NewCollection(back)), intention.Dump(c); got != want {
		t.Errorf("round trip differs\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseBundleShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
		err  error
	}{
		{"single", `{"path": "a.m"}`, 1, nil},
		{"array", `[{"path": "a.m"}, {"path": "b.m"}]`, 2, nil},
		{"bundle", `{"units": [{"path": "a.m"}]}`, 1, nil},
		{"empty", "  ", 0, ErrNoUnits},
		{"empty array", `[]`, 0, ErrNoUnits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := ParseBundle([]byte(tt.doc))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(units) != tt.want {
				t.Errorf("got %d units, want %d", len(units), tt.want)
			}
		})
	}
}

func TestSplitAndParse(t *testing.T) {
	srcs, err := Split("doc.json", []byte(`[{"path": "a.m", "imports": ["UIKit"]}, {"imports": ["Foundation"]}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(srcs) != 2 || srcs[0].Path != "a.m" || srcs[1].Path != "doc.json#1" {
		t.Fatalf("sources = %+v", srcs)
	}

	units := frontend.New(Parser{}, 2, nil).ParseAll(append(srcs, frontend.Source{Path: "bad.json", Data: []byte("{")}))
	if units[0].File.Imports[0] != "UIKit" || units[1].File.SourcePath != "doc.json#1" {
		t.Errorf("units = %+v", units)
	}
	if !units[2].Failed() {
		t.Error("malformed document should fail its unit")
	}
}
