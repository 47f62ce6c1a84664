package intention

import (
	"path"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Builder assembles collections fluently. It is used by tests and by tools
// that synthesize intentions without going through a parser.
type Builder struct {
	files []*File
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// File adds a file named name whose target path swaps the extension for
// .swift. Intentions added to files with a .h extension are marked as
// interface sources.
func (b *Builder) File(name string, fn func(*FileBuilder)) *Builder {
	f := NewFile(name, TargetPath(name))
	f.Index = len(b.files)
	if fn != nil {
		fn(&FileBuilder{file: f, iface: path.Ext(name) == ".h"})
	}
	b.files = append(b.files, f)
	return b
}

// Build returns the collection.
func (b *Builder) Build() *Collection { return NewCollection(b.files...) }

// FileBuilder adds intentions to one file.
type FileBuilder struct {
	file  *File
	iface bool
}

// File returns the file under construction.
func (fb *FileBuilder) File() *File { return fb.file }

func (fb *FileBuilder) Directives(ds ...string) *FileBuilder {
	fb.file.Directives = append(fb.file.Directives, ds...)
	return fb
}

func (fb *FileBuilder) Imports(ms ...string) *FileBuilder {
	for _, m := range ms {
		fb.file.AddImport(m)
	}
	return fb
}

func (fb *FileBuilder) add(kind TypeKind, name string, fn func(*TypeBuilder)) *Type {
	t := NewType(kind, name)
	t.IsInterfaceSource = fb.iface
	fb.file.AddType(t)
	if fn != nil {
		fn(&TypeBuilder{typ: t})
	}
	return t
}

func (fb *FileBuilder) Class(name string, fn func(*TypeBuilder)) *FileBuilder {
	fb.add(KindClass, name, fn)
	return fb
}

func (fb *FileBuilder) Extension(name, category string, fn func(*TypeBuilder)) *FileBuilder {
	fb.add(KindExtension, name, fn).Category = category
	return fb
}

func (fb *FileBuilder) Protocol(name string, fn func(*TypeBuilder)) *FileBuilder {
	fb.add(KindProtocol, name, fn)
	return fb
}

func (fb *FileBuilder) Enum(name string, raw ir.TypeRef, fn func(*TypeBuilder)) *FileBuilder {
	fb.add(KindEnum, name, fn).RawType = raw
	return fb
}

func (fb *FileBuilder) Struct(name string, fn func(*TypeBuilder)) *FileBuilder {
	fb.add(KindStruct, name, fn)
	return fb
}

func (fb *FileBuilder) Typealias(name string, t ir.TypeRef) *FileBuilder {
	a := &Typealias{Name: name, Type: t}
	a.IsInterfaceSource = fb.iface
	fb.file.AddTypealias(a)
	return fb
}

// Function adds a global function; body may be nil.
func (fb *FileBuilder) Function(sig ir.FunctionSignature, body *ir.Tree) *FileBuilder {
	g := &GlobalFunction{Signature: sig, Body: body}
	g.IsInterfaceSource = fb.iface
	fb.file.AddFunction(g)
	return fb
}

// Variable adds a global variable; init may be nil.
func (fb *FileBuilder) Variable(name string, storage ir.ValueStorage, init *ir.Tree) *FileBuilder {
	v := &GlobalVariable{Name: name, Storage: storage, Initializer: init}
	v.IsInterfaceSource = fb.iface
	fb.file.AddVariable(v)
	return fb
}

// TypeBuilder adds members to one type.
type TypeBuilder struct {
	typ *Type
}

// Type returns the type under construction.
func (tb *TypeBuilder) Type() *Type { return tb.typ }

// Interface marks the type and the members added so far as read from a
// declaration-only unit.
func (tb *TypeBuilder) Interface() *TypeBuilder {
	t := tb.typ
	t.IsInterfaceSource = true
	for _, m := range t.methods {
		m.IsInterfaceSource = true
	}
	for _, p := range t.properties {
		p.IsInterfaceSource = true
	}
	for _, f := range t.fields {
		f.IsInterfaceSource = true
	}
	for _, in := range t.inits {
		in.IsInterfaceSource = true
	}
	return tb
}

func (tb *TypeBuilder) Superclass(name string) *TypeBuilder {
	tb.typ.Superclass = name
	return tb
}

func (tb *TypeBuilder) Conforms(protocols ...string) *TypeBuilder {
	for _, p := range protocols {
		tb.typ.AddProtocol(p)
	}
	return tb
}

// Method adds a method; body may be nil.
func (tb *TypeBuilder) Method(sig ir.FunctionSignature, body *ir.Tree) *TypeBuilder {
	m := NewMethod(sig, body)
	m.IsInterfaceSource = tb.typ.IsInterfaceSource
	tb.typ.AddMethod(m)
	return tb
}

// VoidMethod adds a parameterless method returning Void.
func (tb *TypeBuilder) VoidMethod(name string, body *ir.Tree) *TypeBuilder {
	return tb.Method(Signature(name, ir.Void), body)
}

func (tb *TypeBuilder) Property(name string, t ir.TypeRef, attributes ...string) *TypeBuilder {
	return tb.PropertyWith(&Property{Name: name, Storage: ir.ValueStorage{Type: t}, Attributes: attributes})
}

func (tb *TypeBuilder) PropertyWith(p *Property) *TypeBuilder {
	p.IsInterfaceSource = tb.typ.IsInterfaceSource
	tb.typ.AddProperty(p)
	return tb
}

func (tb *TypeBuilder) Field(name string, t ir.TypeRef) *TypeBuilder {
	f := &Field{Name: name, Storage: ir.ValueStorage{Type: t}}
	f.IsInterfaceSource = tb.typ.IsInterfaceSource
	tb.typ.AddField(f)
	return tb
}

// Init adds an initializer; body may be nil.
func (tb *TypeBuilder) Init(params []ir.ParameterSignature, body *ir.Tree) *TypeBuilder {
	in := &Init{Parameters: params, Body: body}
	in.IsInterfaceSource = tb.typ.IsInterfaceSource
	tb.typ.AddInit(in)
	return tb
}

func (tb *TypeBuilder) Case(name string) *TypeBuilder {
	tb.typ.AddCase(&EnumCase{Name: name})
	return tb
}

// Signature is shorthand for an instance method signature.
func Signature(name string, ret ir.TypeRef, params ...ir.ParameterSignature) ir.FunctionSignature {
	return ir.FunctionSignature{Name: name, Parameters: params, ReturnType: ret}
}
