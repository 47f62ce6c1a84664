package intention

import (
	"path"
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Typealias declares a file-level type alias.
type Typealias struct {
	Meta

	Name string
	Type ir.TypeRef

	file *File
}

func (a *Typealias) File() *File { return a.file }

// GlobalFunction is a free function.
type GlobalFunction struct {
	Meta

	Signature ir.FunctionSignature
	Body      *ir.Tree

	file *File
}

func (g *GlobalFunction) File() *File   { return g.file }
func (g *GlobalFunction) Name() string  { return g.Signature.Name }
func (g *GlobalFunction) HasBody() bool { return g.Body != nil }

// GlobalVariable is a file-level variable with an optional initializer. The
// initializer tree's root is the initial value expression.
type GlobalVariable struct {
	Meta

	Name        string
	Storage     ir.ValueStorage
	Initializer *ir.Tree

	file *File
}

func (g *GlobalVariable) File() *File { return g.file }

// File is one translation unit: the intentions parsed from a single source
// file and the path the emitter should write them to.
type File struct {
	SourcePath string
	TargetPath string
	// Index is the submission order assigned by the front-end. Collections
	// are sorted by it before merging.
	Index int

	Directives []string // preprocessor directives, verbatim
	Imports    []string // module names to import

	history     History
	collection  *Collection
	types       []*Type
	typealiases []*Typealias
	functions   []*GlobalFunction
	variables   []*GlobalVariable
}

// NewFile returns an empty file and records its creation.
func NewFile(source, target string) *File {
	f := &File{SourcePath: source, TargetPath: target}
	f.history.Record(Event{Kind: EventFileCreated, From: source, To: target})
	return f
}

// TargetPath derives the emitted file's path from a source path by swapping
// its extension for .swift.
func TargetPath(source string) string {
	return strings.TrimSuffix(source, path.Ext(source)) + ".swift"
}

func (f *File) History() *History       { return &f.history }
func (f *File) Collection() *Collection { return f.collection }

func (f *File) Types() []*Type              { return append([]*Type(nil), f.types...) }
func (f *File) Typealiases() []*Typealias   { return append([]*Typealias(nil), f.typealiases...) }
func (f *File) Functions() []*GlobalFunction { return append([]*GlobalFunction(nil), f.functions...) }
func (f *File) Variables() []*GlobalVariable { return append([]*GlobalVariable(nil), f.variables...) }

// TypesOfKind returns the types of the given kind, in file order.
func (f *File) TypesOfKind(k TypeKind) []*Type {
	var out []*Type
	for _, t := range f.types {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

func (f *File) Classes() []*Type    { return f.TypesOfKind(KindClass) }
func (f *File) Extensions() []*Type { return f.TypesOfKind(KindExtension) }
func (f *File) Protocols() []*Type  { return f.TypesOfKind(KindProtocol) }
func (f *File) Enums() []*Type      { return f.TypesOfKind(KindEnum) }
func (f *File) Structs() []*Type    { return f.TypesOfKind(KindStruct) }

// IsEmptyExceptDirectives reports whether f declares nothing, ignoring
// preprocessor directives.
func (f *File) IsEmptyExceptDirectives() bool {
	return len(f.types) == 0 && len(f.typealiases) == 0 && len(f.functions) == 0 && len(f.variables) == 0
}

// IsEmpty reports whether f declares nothing and has no directives.
func (f *File) IsEmpty() bool {
	return f.IsEmptyExceptDirectives() && len(f.Directives) == 0
}

// AddImport appends a module import unless already present.
func (f *File) AddImport(module string) {
	for _, m := range f.Imports {
		if m == module {
			return
		}
	}
	f.Imports = append(f.Imports, module)
}

// AddType appends t, moving it out of its previous file.
func (f *File) AddType(t *Type) {
	if t.file != nil {
		t.file.RemoveTypes(func(x *Type) bool { return x == t })
	}
	t.file = f
	f.types = append(f.types, t)
}

// RemoveTypes detaches every type matching pred.
func (f *File) RemoveTypes(pred func(*Type) bool) {
	kept := f.types[:0]
	for _, t := range f.types {
		if pred(t) {
			t.file = nil
			continue
		}
		kept = append(kept, t)
	}
	f.types = clearTail(f.types, kept)
}

// AddTypealias appends a, moving it out of its previous file.
func (f *File) AddTypealias(a *Typealias) {
	if a.file != nil {
		a.file.RemoveTypealiases(func(x *Typealias) bool { return x == a })
	}
	a.file = f
	f.typealiases = append(f.typealiases, a)
}

// RemoveTypealiases detaches every typealias matching pred.
func (f *File) RemoveTypealiases(pred func(*Typealias) bool) {
	kept := f.typealiases[:0]
	for _, a := range f.typealiases {
		if pred(a) {
			a.file = nil
			continue
		}
		kept = append(kept, a)
	}
	f.typealiases = clearTail(f.typealiases, kept)
}

// AddFunction appends g, moving it out of its previous file.
func (f *File) AddFunction(g *GlobalFunction) {
	if g.file != nil {
		g.file.RemoveFunctions(func(x *GlobalFunction) bool { return x == g })
	}
	g.file = f
	f.functions = append(f.functions, g)
}

// RemoveFunctions detaches every global function matching pred.
func (f *File) RemoveFunctions(pred func(*GlobalFunction) bool) {
	kept := f.functions[:0]
	for _, g := range f.functions {
		if pred(g) {
			g.file = nil
			continue
		}
		kept = append(kept, g)
	}
	f.functions = clearTail(f.functions, kept)
}

// AddVariable appends g, moving it out of its previous file.
func (f *File) AddVariable(g *GlobalVariable) {
	if g.file != nil {
		g.file.RemoveVariables(func(x *GlobalVariable) bool { return x == g })
	}
	g.file = f
	f.variables = append(f.variables, g)
}

// RemoveVariables detaches every global variable matching pred.
func (f *File) RemoveVariables(pred func(*GlobalVariable) bool) {
	kept := f.variables[:0]
	for _, g := range f.variables {
		if pred(g) {
			g.file = nil
			continue
		}
		kept = append(kept, g)
	}
	f.variables = clearTail(f.variables, kept)
}
