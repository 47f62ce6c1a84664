package ir

import (
	"fmt"
	"strings"
)

// TypeKind is the shape of a TypeRef.
type TypeKind uint8

const (
	TypeNamed               TypeKind = iota // Int, NSString, UIView
	TypeOptional                            // T?
	TypeImplicitlyUnwrapped                 // T!
	TypeUnspecified                         // nullability not stated by the source, printed ~T
	TypeBlock                               // (A, B) -> R
	TypeArray                               // [T]
	TypeDictionary                          // [K: V]
	TypeMetatype                            // T.Type
	TypeGeneric                             // G<A, B>
	TypeError                               // resolution failed
)

// TypeRef is a structural type reference. The zero value is the named type
// with an empty name, which callers treat as "no type".
type TypeRef struct {
	Kind   TypeKind
	Name   string    // TypeNamed, TypeGeneric
	Elem   *TypeRef  // wrappers, TypeArray, TypeDictionary value, TypeMetatype
	Key    *TypeRef  // TypeDictionary key
	Params []TypeRef // TypeBlock parameters, TypeGeneric arguments
	Return *TypeRef  // TypeBlock
}

// Named returns a nominal type reference.
func Named(name string) TypeRef { return TypeRef{Kind: TypeNamed, Name: name} }

// Optional wraps t as T?.
func Optional(t TypeRef) TypeRef { return TypeRef{Kind: TypeOptional, Elem: &t} }

// IUO wraps t as T!.
func IUO(t TypeRef) TypeRef { return TypeRef{Kind: TypeImplicitlyUnwrapped, Elem: &t} }

// Unspecified wraps t as a reference of unstated nullability.
func Unspecified(t TypeRef) TypeRef { return TypeRef{Kind: TypeUnspecified, Elem: &t} }

// Array returns [t].
func Array(t TypeRef) TypeRef { return TypeRef{Kind: TypeArray, Elem: &t} }

// Dictionary returns [k: v].
func Dictionary(k, v TypeRef) TypeRef { return TypeRef{Kind: TypeDictionary, Key: &k, Elem: &v} }

// Metatype returns t.Type.
func Metatype(t TypeRef) TypeRef { return TypeRef{Kind: TypeMetatype, Elem: &t} }

// Block returns the closure type (params...) -> ret.
func Block(ret TypeRef, params ...TypeRef) TypeRef {
	return TypeRef{Kind: TypeBlock, Return: &ret, Params: append([]TypeRef(nil), params...)}
}

// Generic returns name<args...>.
func Generic(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: TypeGeneric, Name: name, Params: append([]TypeRef(nil), args...)}
}

// ErrorType marks a reference whose resolution failed.
func ErrorType() TypeRef { return TypeRef{Kind: TypeError} }

var (
	Void    = Named("Void")
	Int     = Named("Int")
	Bool    = Named("Bool")
	String  = Named("String")
	Float   = Named("Float")
	Double  = Named("Double")
	CGFloat = Named("CGFloat")
	AnyType = Named("Any")
)

// IsZero reports whether t is the zero "no type" value.
func (t TypeRef) IsZero() bool { return t.Kind == TypeNamed && t.Name == "" }

// IsError reports whether t is the error type.
func (t TypeRef) IsError() bool { return t.Kind == TypeError }

// Nullability is the three-state nullability lattice.
type Nullability uint8

const (
	NullabilityUnspecified Nullability = iota
	NullabilityNonNull
	NullabilityNullable
)

func (n Nullability) String() string {
	switch n {
	case NullabilityNonNull:
		return "nonnull"
	case NullabilityNullable:
		return "nullable"
	default:
		return "unspecified"
	}
}

// Nullability reports the outermost nullability of t.
func (t TypeRef) Nullability() Nullability {
	switch t.Kind {
	case TypeOptional, TypeImplicitlyUnwrapped:
		return NullabilityNullable
	case TypeUnspecified:
		return NullabilityUnspecified
	default:
		return NullabilityNonNull
	}
}

// Unwrapped strips every outer optional, implicitly unwrapped or unspecified
// wrapper.
func (t TypeRef) Unwrapped() TypeRef {
	for t.Elem != nil && (t.Kind == TypeOptional || t.Kind == TypeImplicitlyUnwrapped || t.Kind == TypeUnspecified) {
		t = *t.Elem
	}
	return t
}

// WithNullability rewraps the unwrapped form of t with n.
func (t TypeRef) WithNullability(n Nullability) TypeRef {
	base := t.Unwrapped()
	switch n {
	case NullabilityNullable:
		return Optional(base)
	case NullabilityUnspecified:
		return Unspecified(base)
	default:
		return base
	}
}

// Equal reports structural equality, nullability included.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name || len(t.Params) != len(o.Params) {
		return false
	}
	if !equalPtr(t.Elem, o.Elem) || !equalPtr(t.Key, o.Key) || !equalPtr(t.Return, o.Return) {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

func equalPtr(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case TypeNamed:
		b.WriteString(t.Name)
	case TypeOptional:
		t.writeWrapped(b)
		b.WriteByte('?')
	case TypeImplicitlyUnwrapped:
		t.writeWrapped(b)
		b.WriteByte('!')
	case TypeUnspecified:
		b.WriteByte('~')
		t.writeWrapped(b)
	case TypeArray:
		b.WriteByte('[')
		t.Elem.write(b)
		b.WriteByte(']')
	case TypeDictionary:
		b.WriteByte('[')
		t.Key.write(b)
		b.WriteString(": ")
		t.Elem.write(b)
		b.WriteByte(']')
	case TypeMetatype:
		t.writeWrapped(b)
		b.WriteString(".Type")
	case TypeBlock:
		b.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b)
		}
		b.WriteString(") -> ")
		t.Return.write(b)
	case TypeGeneric:
		b.WriteString(t.Name)
		b.WriteByte('<')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b)
		}
		b.WriteByte('>')
	case TypeError:
		b.WriteString("<<error type>>")
	}
}

// writeWrapped parenthesizes block elements so postfix operators bind to the
// whole closure type.
func (t TypeRef) writeWrapped(b *strings.Builder) {
	if t.Elem.Kind == TypeBlock {
		b.WriteByte('(')
		t.Elem.write(b)
		b.WriteByte(')')
		return
	}
	t.Elem.write(b)
}

// ParseType parses the textual form produced by TypeRef.String.
func ParseType(s string) (TypeRef, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return TypeRef{}, fmt.Errorf("ir: unexpected %q at offset %d in type %q", p.src[p.pos:], p.pos, s)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on malformed input. It is meant
// for literals in tests and tables.
func MustParseType(s string) TypeRef {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(tok string) error {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], tok) {
		return fmt.Errorf("ir: expected %q at offset %d in type %q", tok, p.pos, p.src)
	}
	p.pos += len(tok)
	return nil
}

func (p *typeParser) parse() (TypeRef, error) {
	if p.peek() == '~' {
		p.pos++
		inner, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return Unspecified(inner), nil
	}
	t, err := p.primary()
	if err != nil {
		return TypeRef{}, err
	}
	for {
		switch {
		case p.peek() == '?':
			p.pos++
			t = Optional(t)
		case p.peek() == '!':
			p.pos++
			t = IUO(t)
		case strings.HasPrefix(p.src[p.pos:], ".Type"):
			p.pos += len(".Type")
			t = Metatype(t)
		default:
			return t, nil
		}
	}
}

func (p *typeParser) primary() (TypeRef, error) {
	switch c := p.peek(); {
	case c == '(':
		return p.parenOrBlock()
	case c == '[':
		p.pos++
		k, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		if p.peek() == ':' {
			p.pos++
			v, err := p.parse()
			if err != nil {
				return TypeRef{}, err
			}
			return Dictionary(k, v), p.expect("]")
		}
		return Array(k), p.expect("]")
	case isIdentByte(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		if p.pos < len(p.src) && p.src[p.pos] == '<' {
			p.pos++
			args, err := p.list('>')
			if err != nil {
				return TypeRef{}, err
			}
			return Generic(name, args...), nil
		}
		return Named(name), nil
	default:
		return TypeRef{}, fmt.Errorf("ir: unexpected character at offset %d in type %q", p.pos, p.src)
	}
}

func (p *typeParser) parenOrBlock() (TypeRef, error) {
	p.pos++
	params, err := p.list(')')
	if err != nil {
		return TypeRef{}, err
	}
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], "->") {
		p.pos += 2
		ret, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return Block(ret, params...), nil
	}
	if len(params) != 1 {
		return TypeRef{}, fmt.Errorf("ir: tuple types are not supported in %q", p.src)
	}
	return params[0], nil
}

// list parses comma separated types up to and including the closing byte.
func (p *typeParser) list(closing byte) ([]TypeRef, error) {
	var out []TypeRef
	if p.peek() == closing {
		p.pos++
		return out, nil
	}
	for {
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("ir: expected ',' or %q at offset %d in type %q", closing, p.pos, p.src)
		}
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// AliasResolver expands typealias names.
type AliasResolver interface {
	ResolveAlias(name string) (TypeRef, bool)
}

// Aliases is a map based AliasResolver.
type Aliases map[string]TypeRef

// ResolveAlias implements AliasResolver.
func (a Aliases) ResolveAlias(name string) (TypeRef, bool) {
	t, ok := a[name]
	return t, ok
}

// expand resolves aliases transitively at the outermost level. Cycles stop
// expansion.
func expand(t TypeRef, aliases AliasResolver) TypeRef {
	if aliases == nil {
		return t
	}
	seen := map[string]bool{}
	for t.Kind == TypeNamed && !seen[t.Name] {
		seen[t.Name] = true
		r, ok := aliases.ResolveAlias(t.Name)
		if !ok {
			break
		}
		t = r
	}
	return t
}

// Equivalent reports whether a and b denote the same type once every level of
// nullability is ignored and aliases are expanded.
func Equivalent(a, b TypeRef, aliases AliasResolver) bool {
	a = expand(a.Unwrapped(), aliases).Unwrapped()
	b = expand(b.Unwrapped(), aliases).Unwrapped()
	if a.Kind != b.Kind || len(a.Params) != len(b.Params) {
		return false
	}
	switch a.Kind {
	case TypeNamed, TypeGeneric:
		if a.Name != b.Name {
			return false
		}
	case TypeArray, TypeMetatype:
		return Equivalent(*a.Elem, *b.Elem, aliases)
	case TypeDictionary:
		return Equivalent(*a.Key, *b.Key, aliases) && Equivalent(*a.Elem, *b.Elem, aliases)
	case TypeBlock:
		if !Equivalent(*a.Return, *b.Return, aliases) {
			return false
		}
	}
	for i := range a.Params {
		if !Equivalent(a.Params[i], b.Params[i], aliases) {
			return false
		}
	}
	return true
}

// MergeNullability combines a declaration's type with the matching
// definition's type. Explicit nullability on either side wins over
// unspecified, at every level of block and generic types. When both sides
// state different explicit nullability the declaration wins and conflict is
// true. When the declaration names an alias of the definition's type, the
// alias spelling is kept.
func MergeNullability(decl, def TypeRef, aliases AliasResolver) (TypeRef, bool) {
	out, conflict := mergeLevel(decl, def, aliases)
	return out, conflict
}

func mergeLevel(decl, def TypeRef, aliases AliasResolver) (TypeRef, bool) {
	dn, fn := decl.Nullability(), def.Nullability()
	var n Nullability
	conflict := false
	switch {
	case dn == NullabilityUnspecified:
		n = fn
	case fn == NullabilityUnspecified || dn == fn:
		n = dn
	default:
		n = dn
		conflict = true
	}
	// Keep the wrapper the winning side used, so T! survives a merge.
	winner := decl
	if dn == NullabilityUnspecified {
		winner = def
	}

	db, fb := decl.Unwrapped(), def.Unwrapped()
	var base TypeRef
	var inner bool
	if db.Kind == TypeNamed && fb.Kind != TypeNamed {
		// Alias on the declaration side: keep the spelling.
		base = db
	} else if fb.Kind == TypeNamed && db.Kind != TypeNamed {
		base = fb
	} else {
		base, inner = mergeBase(db, fb, aliases)
	}

	switch {
	case winner.Kind == TypeImplicitlyUnwrapped && n == NullabilityNullable:
		return IUO(base), conflict || inner
	default:
		return base.WithNullability(n), conflict || inner
	}
}

func mergeBase(decl, def TypeRef, aliases AliasResolver) (TypeRef, bool) {
	if decl.Kind != def.Kind || len(decl.Params) != len(def.Params) {
		return decl, false
	}
	conflict := false
	merge := func(a, b *TypeRef) *TypeRef {
		if a == nil || b == nil {
			return a
		}
		m, c := mergeLevel(*a, *b, aliases)
		conflict = conflict || c
		return &m
	}
	out := decl
	switch decl.Kind {
	case TypeArray, TypeMetatype:
		out.Elem = merge(decl.Elem, def.Elem)
	case TypeDictionary:
		out.Key = merge(decl.Key, def.Key)
		out.Elem = merge(decl.Elem, def.Elem)
	case TypeBlock:
		out.Return = merge(decl.Return, def.Return)
	}
	if len(decl.Params) > 0 {
		out.Params = make([]TypeRef, len(decl.Params))
		for i := range decl.Params {
			out.Params[i] = *merge(&decl.Params[i], &def.Params[i])
		}
	}
	return out, conflict
}
