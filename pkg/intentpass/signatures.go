package intentpass

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// SwiftifyMethodSignatures brings method signatures in line with target
// naming conventions:
//
//   - instancetype return types become the owning type
//   - init and initWithX: methods become initializers
//   - doThingWithX: becomes doThing(withX:)
type SwiftifyMethodSignatures struct{}

func (SwiftifyMethodSignatures) Name() string { return "SwiftifyMethodSignatures" }

func (p SwiftifyMethodSignatures) Apply(ctx *Context) bool {
	changed := false
	for _, t := range ctx.Collection.Types() {
		for _, m := range t.Methods() {
			before := m.Signature
			if !m.Signature.IsStatic && p.convertInit(t, m) {
				changed = true
				continue
			}
			sig := m.Signature.Clone()
			sig.ReturnType = replaceInstancetype(sig.ReturnType, t.Name)
			splitWith(&sig)
			if signatureEqual(sig, before) {
				continue
			}
			m.Signature = sig
			record(m.History(), p.Name(), intention.Event{
				Kind:    intention.EventSignatureChanged,
				Subject: t.Name + "." + before.Identifier().String(),
				From:    intention.FormatSignature(before, true),
				To:      intention.FormatSignature(sig, true),
			})
			changed = true
		}
	}
	return changed
}

// convertInit turns m into an initializer of t when its selector and return
// type allow it. An existing initializer with the same labels blocks the
// conversion.
func (p SwiftifyMethodSignatures) convertInit(t *intention.Type, m *intention.Method) bool {
	sig := m.Signature
	params := append([]ir.ParameterSignature(nil), sig.Parameters...)
	switch {
	case sig.Name == "init" && len(params) == 0:
	case len(params) > 0 && params[0].Label == "":
		label, ok := withLabel(sig.Name, "initWith")
		if !ok {
			return false
		}
		params[0].Label = label
	default:
		return false
	}
	ret := sig.ReturnType.Unwrapped()
	if !sig.ReturnType.IsZero() && !(ret.Kind == ir.TypeNamed && (ret.Name == "instancetype" || ret.Name == "id" || ret.Name == t.Name)) {
		return false
	}
	in := &intention.Init{
		Parameters: params,
		Failable:   sig.ReturnType.Nullability() == ir.NullabilityNullable,
		Body:       m.Body,
	}
	for _, existing := range t.Inits() {
		if labelsOf(existing.Parameters) == labelsOf(in.Parameters) {
			return false
		}
	}
	in.Access = m.Access
	in.IsInterfaceSource = m.IsInterfaceSource
	in.History().Merge(m.History())
	record(in.History(), p.Name(), intention.Event{
		Kind:   intention.EventConverted,
		Detail: "Converted method " + intention.FormatMethod(t.Name, m) + " to " + intention.FormatInit(in),
	})
	t.RemoveMethods(func(x *intention.Method) bool { return x == m })
	t.AddInit(in)
	return true
}

func labelsOf(params []ir.ParameterSignature) string {
	return ir.FunctionSignature{Name: "init", Parameters: params}.Identifier().Labels
}

func replaceInstancetype(ret ir.TypeRef, typeName string) ir.TypeRef {
	if ret.Unwrapped().Kind == ir.TypeNamed && ret.Unwrapped().Name == "instancetype" {
		return ir.Named(typeName).WithNullability(ret.Nullability())
	}
	return ret
}

// splitWith moves a trailing "WithX" from the method name into the first
// parameter's label: loadWithURL: becomes load(withURL:).
func splitWith(sig *ir.FunctionSignature) {
	if len(sig.Parameters) == 0 || sig.Parameters[0].Label != "" || strings.HasPrefix(sig.Name, "init") {
		return
	}
	i := strings.LastIndex(sig.Name, "With")
	if i <= 0 {
		return
	}
	rest := sig.Name[i+len("With"):]
	if !isTypeName(rest) {
		return
	}
	sig.Parameters[0].Label = "with" + rest
	sig.Name = sig.Name[:i]
}

// withLabel turns the remainder of a selector after prefix into a label:
// initWithURLString gives urlString.
func withLabel(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	if !isTypeName(rest) {
		return "", false
	}
	return lowerCamel(rest), true
}

// lowerCamel lowercases the leading run of capitals, leaving the capital
// that starts the next word: URLString gives urlString, Frame gives frame.
func lowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func isTypeName(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
