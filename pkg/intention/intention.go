// Package intention models the declarations the rewriter will generate: files,
// types, members and globals. Every intention knows its owner through a plain
// back-reference that the Add and Remove methods keep consistent; adding an
// intention that already has an owner moves it.
package intention

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// AccessLevel is the visibility of a type or member.
type AccessLevel uint8

const (
	AccessInternal AccessLevel = iota
	AccessPrivate
	AccessFilePrivate
	AccessPublic
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessFilePrivate:
		return "fileprivate"
	case AccessPublic:
		return "public"
	default:
		return "internal"
	}
}

// ParseAccessLevel converts an access keyword. Unknown keywords map to
// internal.
func ParseAccessLevel(s string) AccessLevel {
	switch s {
	case "private":
		return AccessPrivate
	case "fileprivate":
		return AccessFilePrivate
	case "public":
		return AccessPublic
	default:
		return AccessInternal
	}
}

func (a AccessLevel) rank() int {
	switch a {
	case AccessPrivate:
		return 0
	case AccessFilePrivate:
		return 1
	case AccessInternal:
		return 2
	default:
		return 3
	}
}

// IsMoreVisible reports whether a is strictly more visible than other.
func (a AccessLevel) IsMoreVisible(other AccessLevel) bool {
	return a.rank() > other.rank()
}

// Meta is the state every intention carries.
type Meta struct {
	// IsInterfaceSource marks intentions read from a declaration-only unit.
	IsInterfaceSource bool
	Access            AccessLevel
	history           History
}

// History returns the intention's change trail.
func (m *Meta) History() *History { return &m.history }

// Intention is implemented by every intention type.
type Intention interface {
	History() *History
}

// TypeKind distinguishes the nominal type intentions.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindExtension
	KindProtocol
	KindEnum
	KindStruct
)

func (k TypeKind) String() string {
	switch k {
	case KindExtension:
		return "extension"
	case KindProtocol:
		return "protocol"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	default:
		return "class"
	}
}

// ParseTypeKind converts a kind keyword.
func ParseTypeKind(s string) (TypeKind, bool) {
	switch s {
	case "class":
		return KindClass, true
	case "extension", "category":
		return KindExtension, true
	case "protocol":
		return KindProtocol, true
	case "enum":
		return KindEnum, true
	case "struct":
		return KindStruct, true
	}
	return 0, false
}

// Type is a class, class extension, protocol, enum or struct to generate.
type Type struct {
	Meta

	Kind       TypeKind
	Name       string
	Superclass string     // classes
	Category   string     // extensions; empty for anonymous class extensions
	RawType    ir.TypeRef // enums
	Protocols  []string

	file       *File
	methods    []*Method
	properties []*Property
	fields     []*Field
	inits      []*Init
	cases      []*EnumCase
}

// NewType returns a detached type intention.
func NewType(kind TypeKind, name string) *Type {
	return &Type{Kind: kind, Name: name}
}

// File returns the file that owns t, or nil.
func (t *Type) File() *File { return t.file }

func (t *Type) Methods() []*Method       { return append([]*Method(nil), t.methods...) }
func (t *Type) Properties() []*Property  { return append([]*Property(nil), t.properties...) }
func (t *Type) Fields() []*Field         { return append([]*Field(nil), t.fields...) }
func (t *Type) Inits() []*Init           { return append([]*Init(nil), t.inits...) }
func (t *Type) Cases() []*EnumCase       { return append([]*EnumCase(nil), t.cases...) }
func (t *Type) NumMembers() int {
	return len(t.methods) + len(t.properties) + len(t.fields) + len(t.inits) + len(t.cases)
}

// IsEmptyExtension reports whether t is an extension with no category name,
// no members and no conformances.
func (t *Type) IsEmptyExtension() bool {
	return t.Kind == KindExtension && t.Category == "" && t.NumMembers() == 0 && len(t.Protocols) == 0
}

// ConformsTo reports whether t lists protocol among its conformances.
func (t *Type) ConformsTo(protocol string) bool {
	for _, p := range t.Protocols {
		if p == protocol {
			return true
		}
	}
	return false
}

// AddProtocol appends a conformance unless it is already listed.
func (t *Type) AddProtocol(name string) {
	if !t.ConformsTo(name) {
		t.Protocols = append(t.Protocols, name)
	}
}

// AddMethod appends m, moving it out of its previous owner.
func (t *Type) AddMethod(m *Method) {
	if m.owner != nil {
		m.owner.RemoveMethods(func(x *Method) bool { return x == m })
	}
	m.owner = t
	t.methods = append(t.methods, m)
}

// InsertMethod places m at position i.
func (t *Type) InsertMethod(i int, m *Method) {
	t.AddMethod(m)
	copy(t.methods[i+1:], t.methods[i:])
	t.methods[i] = m
}

// RemoveMethods detaches every method matching pred.
func (t *Type) RemoveMethods(pred func(*Method) bool) {
	kept := t.methods[:0]
	for _, m := range t.methods {
		if pred(m) {
			m.owner = nil
			continue
		}
		kept = append(kept, m)
	}
	t.methods = clearTail(t.methods, kept)
}

// AddProperty appends p, moving it out of its previous owner.
func (t *Type) AddProperty(p *Property) {
	if p.owner != nil {
		p.owner.RemoveProperties(func(x *Property) bool { return x == p })
	}
	p.owner = t
	t.properties = append(t.properties, p)
}

// RemoveProperties detaches every property matching pred.
func (t *Type) RemoveProperties(pred func(*Property) bool) {
	kept := t.properties[:0]
	for _, p := range t.properties {
		if pred(p) {
			p.owner = nil
			continue
		}
		kept = append(kept, p)
	}
	t.properties = clearTail(t.properties, kept)
}

// AddField appends f, moving it out of its previous owner.
func (t *Type) AddField(f *Field) {
	if f.owner != nil {
		f.owner.RemoveFields(func(x *Field) bool { return x == f })
	}
	f.owner = t
	t.fields = append(t.fields, f)
}

// RemoveFields detaches every field matching pred.
func (t *Type) RemoveFields(pred func(*Field) bool) {
	kept := t.fields[:0]
	for _, f := range t.fields {
		if pred(f) {
			f.owner = nil
			continue
		}
		kept = append(kept, f)
	}
	t.fields = clearTail(t.fields, kept)
}

// AddInit appends in, moving it out of its previous owner.
func (t *Type) AddInit(in *Init) {
	if in.owner != nil {
		in.owner.RemoveInits(func(x *Init) bool { return x == in })
	}
	in.owner = t
	t.inits = append(t.inits, in)
}

// RemoveInits detaches every initializer matching pred.
func (t *Type) RemoveInits(pred func(*Init) bool) {
	kept := t.inits[:0]
	for _, in := range t.inits {
		if pred(in) {
			in.owner = nil
			continue
		}
		kept = append(kept, in)
	}
	t.inits = clearTail(t.inits, kept)
}

// AddCase appends an enum case, moving it out of its previous owner.
func (t *Type) AddCase(c *EnumCase) {
	if c.owner != nil {
		c.owner.RemoveCases(func(x *EnumCase) bool { return x == c })
	}
	c.owner = t
	t.cases = append(t.cases, c)
}

// RemoveCases detaches every enum case matching pred.
func (t *Type) RemoveCases(pred func(*EnumCase) bool) {
	kept := t.cases[:0]
	for _, c := range t.cases {
		if pred(c) {
			c.owner = nil
			continue
		}
		kept = append(kept, c)
	}
	t.cases = clearTail(t.cases, kept)
}

// clearTail nils out the slots of full past len(kept) so removed intentions
// are not retained by the backing array.
func clearTail[T any](full, kept []*T) []*T {
	for i := len(kept); i < len(full); i++ {
		full[i] = nil
	}
	return kept
}

// Method is a method of a type.
type Method struct {
	Meta

	Signature  ir.FunctionSignature
	Body       *ir.Tree // nil when the method has no body
	IsOptional bool     // optional protocol requirement

	owner *Type
}

// NewMethod returns a detached method.
func NewMethod(sig ir.FunctionSignature, body *ir.Tree) *Method {
	return &Method{Signature: sig, Body: body}
}

func (m *Method) Owner() *Type  { return m.owner }
func (m *Method) Name() string  { return m.Signature.Name }
func (m *Method) HasBody() bool { return m.Body != nil }

// Init is an initializer of a type.
type Init struct {
	Meta

	Parameters  []ir.ParameterSignature
	Failable    bool
	Convenience bool
	Body        *ir.Tree

	owner *Type
}

func (in *Init) Owner() *Type  { return in.owner }
func (in *Init) HasBody() bool { return in.Body != nil }

// PropertyMode describes how a property is implemented.
type PropertyMode uint8

const (
	PropertyStored PropertyMode = iota
	PropertyComputed
	PropertyGetterSetter
)

func (m PropertyMode) String() string {
	switch m {
	case PropertyComputed:
		return "computed"
	case PropertyGetterSetter:
		return "getset"
	default:
		return "stored"
	}
}

// Setter is the body of a property setter and the name of its new-value
// parameter.
type Setter struct {
	ValueName string
	Body      *ir.Tree
}

// Property is a property of a type.
type Property struct {
	Meta

	Name       string
	Storage    ir.ValueStorage
	IsStatic   bool
	Mode       PropertyMode
	Getter     *ir.Tree // PropertyComputed, PropertyGetterSetter
	Setter     *Setter  // PropertyGetterSetter
	Attributes []string // source attributes such as readonly, copy, nonatomic

	owner *Type
}

func (p *Property) Owner() *Type { return p.owner }

// HasAttribute reports whether the property was declared with attr.
func (p *Property) HasAttribute(attr string) bool {
	for _, a := range p.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether the property only exposes a getter.
func (p *Property) IsReadOnly() bool {
	return p.HasAttribute("readonly") || p.Mode == PropertyComputed
}

// Field is an instance variable.
type Field struct {
	Meta

	Name     string
	Storage  ir.ValueStorage
	IsStatic bool

	owner *Type
}

func (f *Field) Owner() *Type { return f.owner }

// EnumCase is a case of an enum with an optional raw value expression.
type EnumCase struct {
	Meta

	Name  string
	Value *ir.Tree

	owner *Type
}

func (c *EnumCase) Owner() *Type { return c.owner }
