package intention

import (
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// FormatSignature renders a function signature, for example
// "static abc(a b: Float, c: Int) -> Int". Void returns are omitted.
func FormatSignature(sig ir.FunctionSignature, includeName bool) string {
	var b strings.Builder
	if sig.IsStatic {
		b.WriteString("static ")
	}
	if sig.IsMutating {
		b.WriteString("mutating ")
	}
	if includeName {
		b.WriteString(sig.Name)
	}
	writeParams(&b, sig.Parameters)
	if !sig.ReturnType.IsZero() && !ir.Equivalent(sig.ReturnType, ir.Void, nil) {
		b.WriteString(" -> ")
		b.WriteString(sig.ReturnType.String())
	}
	return b.String()
}

func writeParams(b *strings.Builder, params []ir.ParameterSignature) {
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		switch {
		case p.Label == "":
			b.WriteString("_ ")
			b.WriteString(p.Name)
		case p.Label != p.Name:
			b.WriteString(p.Label)
			b.WriteByte(' ')
			b.WriteString(p.Name)
		default:
			b.WriteString(p.Name)
		}
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
}

// FormatMethod renders "Type.name(params) -> R".
func FormatMethod(typeName string, m *Method) string {
	sig := m.Signature
	prefix := ""
	if sig.IsStatic {
		prefix = "static "
		sig.IsStatic = false
	}
	return prefix + typeName + "." + FormatSignature(sig, true)
}

// FormatFunction renders a global function signature.
func FormatFunction(g *GlobalFunction) string {
	sig := g.Signature
	sig.IsStatic = false
	return FormatSignature(sig, true)
}

// PropertyFormat selects the optional parts of FormatProperty.
type PropertyFormat struct {
	WithTypeName bool
	VarKeyword   bool
	Accessors    bool
}

// FormatProperty renders a property, e.g. "A.a: Int" or, with every option,
// "weak var A.a: Int { get set }".
func FormatProperty(typeName string, p *Property, opts PropertyFormat) string {
	var b strings.Builder
	if opts.VarKeyword {
		if p.Storage.Ownership != ir.OwnershipStrong {
			b.WriteString(p.Storage.Ownership.String())
			b.WriteByte(' ')
		}
		if p.IsStatic {
			b.WriteString("static ")
		}
		b.WriteString("var ")
	}
	if opts.WithTypeName {
		b.WriteString(typeName)
		b.WriteByte('.')
	}
	b.WriteString(p.Name)
	b.WriteString(": ")
	b.WriteString(p.Storage.Type.String())
	if opts.Accessors {
		if p.IsReadOnly() {
			b.WriteString(" { get }")
		} else {
			b.WriteString(" { get set }")
		}
	}
	return b.String()
}

// FormatField renders an instance variable as "Type.name: T".
func FormatField(typeName string, f *Field) string {
	return typeName + "." + f.Name + ": " + f.Storage.Type.String()
}

// FormatInit renders an initializer, e.g. "convenience init?(label name: Int)".
func FormatInit(in *Init) string {
	var b strings.Builder
	if in.Convenience {
		b.WriteString("convenience ")
	}
	b.WriteString("init")
	if in.Failable {
		b.WriteByte('?')
	}
	writeParams(&b, in.Parameters)
	return b.String()
}

// FormatType renders a type header: "class A: B, P", "extension B (Category)",
// "enum E: Int".
func FormatType(t *Type) string {
	if t.Kind == KindExtension {
		s := "extension " + t.Name
		if t.Category != "" {
			s += " (" + t.Category + ")"
		}
		return s
	}
	s := t.Kind.String() + " " + t.Name
	var inherits []string
	if t.Superclass != "" {
		inherits = append(inherits, t.Superclass)
	}
	if t.Kind == KindEnum && !t.RawType.IsZero() {
		inherits = append(inherits, t.RawType.String())
	}
	inherits = append(inherits, t.Protocols...)
	if len(inherits) > 0 {
		s += ": " + strings.Join(inherits, ", ")
	}
	return s
}
