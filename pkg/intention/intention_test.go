package intention

import (
	"strings"
	"testing"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

func TestAddMovesOwnership(t *testing.T) {
	c := NewBuilder().
		File("A.h", func(f *FileBuilder) {
			f.Class("A", func(b *TypeBuilder) { b.VoidMethod("m", nil) })
		}).
		File("A.m", func(f *FileBuilder) { f.Class("A", nil) }).
		Build()

	files := c.Files()
	src := files[0].Classes()[0]
	dst := files[1].Classes()[0]
	m := src.Methods()[0]

	dst.AddMethod(m)
	if m.Owner() != dst {
		t.Error("method owner not updated")
	}
	if len(src.Methods()) != 0 {
		t.Error("method still listed in previous owner")
	}

	files[1].AddType(src)
	if src.File() != files[1] || len(files[0].Types()) != 0 {
		t.Error("type was not moved between files")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestRemoveClearsBackReference(t *testing.T) {
	f := NewFile("A.m", "A.swift")
	g := &GlobalFunction{Signature: Signature("a", ir.Void)}
	f.AddFunction(g)
	f.RemoveFunctions(func(*GlobalFunction) bool { return true })
	if g.File() != nil {
		t.Error("removed function still points at file")
	}
	if !f.IsEmpty() {
		t.Error("file should be empty")
	}
	f.Directives = []string{"#define X"}
	if f.IsEmpty() || !f.IsEmptyExceptDirectives() {
		t.Error("directive-only file classification is wrong")
	}
}

func TestInsertMethod(t *testing.T) {
	typ := NewType(KindClass, "A")
	a := NewMethod(Signature("a", ir.Void), nil)
	b := NewMethod(Signature("b", ir.Void), nil)
	c := NewMethod(Signature("c", ir.Void), nil)
	typ.AddMethod(a)
	typ.AddMethod(b)
	typ.InsertMethod(1, c)

	var names []string
	for _, m := range typ.Methods() {
		names = append(names, m.Name())
	}
	if strings.Join(names, ",") != "a,c,b" {
		t.Errorf("methods = %v", names)
	}
}

func TestEmptyExtension(t *testing.T) {
	ext := NewType(KindExtension, "A")
	if !ext.IsEmptyExtension() {
		t.Error("bare extension should be empty")
	}
	ext.Category = "Cat"
	if ext.IsEmptyExtension() {
		t.Error("named category is never empty")
	}
	ext.Category = ""
	ext.AddProtocol("P")
	ext.AddProtocol("P")
	if ext.IsEmptyExtension() || len(ext.Protocols) != 1 {
		t.Error("conformance should be recorded once and keep the extension")
	}
}

func TestHistorySummary(t *testing.T) {
	f := NewFile("A.m", "A.swift")
	if f.History().HasChanges() {
		t.Error("creation is not a change")
	}
	f.History().Record(Event{Tag: "TypeMerge", Kind: EventMemberCreated, Entity: "method", Subject: "A.fromHeader()"})

	want := "[Creation] Created from file A.m to file A.swift\n" +
		"[TypeMerge] Creating definition for newly found method A.fromHeader()"
	if got := f.History().Summary(); got != want {
		t.Errorf("Summary =\n%s\nwant\n%s", got, want)
	}
	if !f.History().HasChanges() {
		t.Error("expected a change")
	}
}

func TestCollectionQueries(t *testing.T) {
	block := ir.MustParseType("(A) -> Void")
	c := NewBuilder().
		File("Aliases.h", func(f *FileBuilder) {
			f.Typealias("ABlock", block)
			f.Typealias("ABlock", ir.Int)
		}).
		File("A.m", func(f *FileBuilder) {
			f.Variable("abc", ir.ValueStorage{Type: ir.Int}, nil)
			f.Function(Signature("a", ir.Void), nil)
		}).
		Build()

	if got, ok := c.Aliases().ResolveAlias("ABlock"); !ok || !got.Equal(block) {
		t.Errorf("first typealias should win, got %v", got)
	}
	defs := c.GlobalDefinitions()
	if len(defs) != 2 || defs[0].Name != "abc" || defs[1].Kind != ir.DefinitionFunction {
		t.Errorf("GlobalDefinitions = %v", defs)
	}
	if c.FileNamed("A.m") == nil || c.FileNamed("B.m") != nil {
		t.Error("FileNamed lookup failed")
	}
}

func TestSortByIndex(t *testing.T) {
	a, b, c := NewFile("a", "a"), NewFile("b", "b"), NewFile("c", "c")
	a.Index, b.Index, c.Index = 2, 0, 1
	coll := NewCollection(a, b, c)
	coll.SortByIndex()
	var got []string
	for _, f := range coll.Files() {
		got = append(got, f.SourcePath)
	}
	if strings.Join(got, "") != "bca" {
		t.Errorf("order = %v", got)
	}
}

func TestFingerprintIgnoresHistory(t *testing.T) {
	build := func() *Collection {
		return NewBuilder().File("A.m", func(f *FileBuilder) {
			f.Class("A", func(b *TypeBuilder) {
				b.VoidMethod("m", ir.NewBody(func(t *ir.Tree) ir.NodeID {
					return t.ExprStmt(t.Call(t.Ident("stmt")))
				}))
			})
		}).Build()
	}
	a, b := build(), build()
	b.Files()[0].History().Record(Event{Kind: EventConverted, Detail: "noise"})
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("history must not affect the fingerprint")
	}
	if !strings.Contains(Dump(a), "body (compound (expr (call stmt)))") {
		t.Errorf("unexpected dump:\n%s", Dump(a))
	}
}

func TestSnapshotRestore(t *testing.T) {
	body := ir.NewTree()
	body.SetRoot(body.Compound(body.Return(body.Ident("x"))))
	c := NewBuilder().
		File("A.h", func(f *FileBuilder) {
			f.Class("A", func(b *TypeBuilder) { b.VoidMethod("m", nil) })
		}).
		File("A.m", func(f *FileBuilder) {
			f.Class("A", func(b *TypeBuilder) { b.VoidMethod("m", body) })
		}).
		Build()
	want := Dump(c)
	snap := c.Snapshot()

	files := c.Files()
	impl := files[1].Classes()[0]
	m := impl.Methods()[0]
	m.Body.Node(m.Body.Child(m.Body.Child(m.Body.Root(), 0), 0)).Name = "y"
	files[0].Classes()[0].AddMethod(m)
	impl.History().Record(Event{Kind: EventMerged, Entity: "method", Subject: "m"})
	c.RemoveFiles(func(f *File) bool { return f == files[1] })
	c.AddFile(NewFile("B.m", "B.swift"))

	c.Restore(snap)
	if got := Dump(c); got != want {
		t.Errorf("restored collection differs\n got:\n%s\nwant:\n%s", got, want)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if files[0].Collection() != nil {
		t.Error("file from before the restore is still owned")
	}

	// A snapshot can be restored more than once.
	c.Files()[0].AddImport("Foundation")
	c.Restore(snap)
	if got := Dump(c); got != want {
		t.Errorf("second restore differs\n got:\n%s\nwant:\n%s", got, want)
	}
}
